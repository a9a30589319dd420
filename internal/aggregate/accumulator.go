package aggregate

import (
	"fmt"
	"math/big"

	"liquidityEngine/internal/model"
)

// Accumulator holds aggregate values for a pool window. Amounts are raw
// token units until the window is flushed.
type Accumulator struct {
	PoolAddress     string
	WindowStart     uint64
	WindowEnd       uint64
	EventCount      uint64
	TradeCount      uint64
	PositionsOpened uint64
	PositionsClosed uint64
	DepositA        *big.Int
	DepositB        *big.Int
	WithdrawA       *big.Int
	WithdrawB       *big.Int
	FeesA           *big.Int
	FeesB           *big.Int
	Rewards         *big.Int
	VolumeA         *big.Int
	VolumeB         *big.Int
	SwapFeesA       *big.Int
	SwapFeesB       *big.Int
	TransferFeesA   *big.Int
	TransferFeesB   *big.Int
	NetLiquidity    *big.Int
	LastTS          uint64
}

func NewAccumulator(pool string, windowStart, windowEnd uint64) *Accumulator {
	return &Accumulator{
		PoolAddress:   pool,
		WindowStart:   windowStart,
		WindowEnd:     windowEnd,
		DepositA:      new(big.Int),
		DepositB:      new(big.Int),
		WithdrawA:     new(big.Int),
		WithdrawB:     new(big.Int),
		FeesA:         new(big.Int),
		FeesB:         new(big.Int),
		Rewards:       new(big.Int),
		VolumeA:       new(big.Int),
		VolumeB:       new(big.Int),
		SwapFeesA:     new(big.Int),
		SwapFeesB:     new(big.Int),
		TransferFeesA: new(big.Int),
		TransferFeesB: new(big.Int),
		NetLiquidity:  new(big.Int),
	}
}

func (a *Accumulator) AddEvent(ev model.LiquidityEvent) error {
	ts := uint64(ev.Timestamp)
	if ts >= a.LastTS {
		a.LastTS = ts
	}
	a.EventCount++

	var sums []sum
	switch ev.Kind {
	case model.EventPositionOpened:
		a.PositionsOpened++
	case model.EventPositionClosed:
		a.PositionsClosed++
	case model.EventLiquidityIncreased:
		sums = []sum{{a.NetLiquidity, ev.Liquidity, false}, {a.DepositA, ev.TokenA, false}, {a.DepositB, ev.TokenB, false}}
		sums = append(sums, a.transferFees(ev)...)
	case model.EventLiquidityDecreased:
		sums = []sum{{a.NetLiquidity, ev.Liquidity, true}, {a.WithdrawA, ev.TokenA, false}, {a.WithdrawB, ev.TokenB, false}}
		sums = append(sums, a.transferFees(ev)...)
	case model.EventFeesCollected:
		sums = []sum{{a.FeesA, ev.TokenA, false}, {a.FeesB, ev.TokenB, false}}
		sums = append(sums, a.transferFees(ev)...)
	case model.EventRewardCollected:
		sums = []sum{{a.Rewards, ev.TokenA, false}}
	case model.EventTraded:
		if ev.AToB == nil {
			return fmt.Errorf("trade event %s without direction", ev.ID)
		}
		a.TradeCount++
		fees := a.SwapFeesB
		if *ev.AToB {
			fees = a.SwapFeesA
		}
		sums = []sum{{a.VolumeA, ev.TokenA, false}, {a.VolumeB, ev.TokenB, false}, {fees, ev.FeeAmount, false}}
	}

	values := make([]*big.Int, len(sums))
	for i, s := range sums {
		value, err := parseBigInt(s.value)
		if err != nil {
			return err
		}
		values[i] = value
	}
	for i, s := range sums {
		if s.negate {
			s.target.Sub(s.target, values[i])
			continue
		}
		s.target.Add(s.target, values[i])
	}
	return nil
}

// sum adds (or with negate, subtracts) a decimal string to a running total.
type sum struct {
	target *big.Int
	value  string
	negate bool
}

func (a *Accumulator) transferFees(ev model.LiquidityEvent) []sum {
	return []sum{{a.TransferFeesA, ev.TokenATransferFee, false}, {a.TransferFeesB, ev.TokenBTransferFee, false}}
}
