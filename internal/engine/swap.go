package engine

import (
	"context"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"lukechampine.com/uint128"

	"liquidityEngine/internal/clmath"
	"liquidityEngine/internal/errcode"
	"liquidityEngine/internal/ledger"
	"liquidityEngine/internal/model"
	"liquidityEngine/internal/reward"
	"liquidityEngine/internal/tick"
)

type SwapParams struct {
	Pool          solana.PublicKey
	Authority     solana.PublicKey
	OwnerAccountA solana.PublicKey
	OwnerAccountB solana.PublicKey
	VaultA        solana.PublicKey
	VaultB        solana.PublicKey
	TickArrays    []solana.PublicKey

	Amount               uint64
	OtherAmountThreshold uint64
	// SqrtPriceLimit of zero means no limit in the swap direction.
	SqrtPriceLimit         uint128.Uint128
	AmountSpecifiedIsInput bool
	AToB                   bool
}

// swapOutcome is the pool state a swap leaves behind.
type swapOutcome struct {
	amountA      uint64
	amountB      uint64
	feeTotal     uint64
	protocolFee  uint64
	liquidity    uint128.Uint128
	sqrtPrice    uint128.Uint128
	tickCurrent  int32
	feeGrowthA   uint128.Uint128
	feeGrowthB   uint128.Uint128
	rewardInfos  [clmath.NumRewards]model.RewardInfo
	ticksCrossed int
}

// Swap trades against the pool, crossing initialized ticks in the supplied
// arrays until the amount is exhausted or the price limit is reached.
func (e *Engine) Swap(ctx context.Context, p SwapParams) (*Result, error) {
	return e.run(ctx, "swap", func(tx *ledger.Tx, now uint64, res *Result) error {
		pool, err := tx.Pool(p.Pool)
		if err != nil {
			return err
		}
		if err := verifyOwnerAccounts(tx, pool, p.VaultA, p.VaultB, p.OwnerAccountA, p.OwnerAccountB); err != nil {
			return err
		}
		arrays := make([]tick.Array, 0, len(p.TickArrays))
		for _, key := range p.TickArrays {
			arr, err := tx.TickArray(key)
			if err != nil {
				return err
			}
			if !arr.Pool().Equals(p.Pool) {
				return errcode.Wrap(errcode.TickArrayMismatch, "tick array %s belongs to %s", key, arr.Pool())
			}
			arrays = append(arrays, arr)
		}
		seq, err := tick.NewSequence(arrays, pool.TickSpacing, p.AToB, pool.TickCurrentIndex)
		if err != nil {
			return err
		}

		out, err := computeSwap(pool, seq, p, now)
		if err != nil {
			return err
		}

		if p.AmountSpecifiedIsInput {
			received := out.amountB
			if !p.AToB {
				received = out.amountA
			}
			if received < p.OtherAmountThreshold {
				return errcode.Wrap(errcode.AmountOutBelowMinimum, "out %d < %d", received, p.OtherAmountThreshold)
			}
		} else {
			paid := out.amountA
			if !p.AToB {
				paid = out.amountB
			}
			if paid > p.OtherAmountThreshold {
				return errcode.Wrap(errcode.AmountInAboveMaximum, "in %d > %d", paid, p.OtherAmountThreshold)
			}
		}

		if err := applySwap(pool, out, p.AToB, now); err != nil {
			return err
		}
		if p.AToB {
			if err := res.transfer(tx, p.OwnerAccountA, p.VaultA, p.Authority, out.amountA); err != nil {
				return err
			}
			if err := res.transfer(tx, p.VaultB, p.OwnerAccountB, p.Pool, out.amountB); err != nil {
				return err
			}
		} else {
			if err := res.transfer(tx, p.OwnerAccountB, p.VaultB, p.Authority, out.amountB); err != nil {
				return err
			}
			if err := res.transfer(tx, p.VaultA, p.OwnerAccountA, p.Pool, out.amountA); err != nil {
				return err
			}
		}

		aToB := p.AToB
		res.emit(&model.LiquidityEvent{
			Kind:        model.EventTraded,
			Pool:        p.Pool.String(),
			AToB:        &aToB,
			Liquidity:   out.liquidity.String(),
			TokenA:      formatU64(out.amountA),
			TokenB:      formatU64(out.amountB),
			FeeAmount:   formatU64(out.feeTotal),
			SqrtPrice:   out.sqrtPrice.String(),
			TickCurrent: out.tickCurrent,
		})
		e.logger.Debug("swap applied",
			zap.String("pool", p.Pool.String()),
			zap.Int("ticks_crossed", out.ticksCrossed),
			zap.Int32("tick_current", out.tickCurrent),
		)
		return nil
	})
}

func computeSwap(pool *model.Pool, seq *tick.Sequence, p SwapParams, now uint64) (swapOutcome, error) {
	limit := p.SqrtPriceLimit
	if limit.IsZero() {
		limit = clmath.MaxSqrtPrice
		if p.AToB {
			limit = clmath.MinSqrtPrice
		}
	}
	if limit.Cmp(clmath.MinSqrtPrice) < 0 || limit.Cmp(clmath.MaxSqrtPrice) > 0 {
		return swapOutcome{}, errcode.Wrap(errcode.SqrtPriceOutOfBounds, "limit %s", limit)
	}
	if p.AToB && limit.Cmp(pool.SqrtPrice) >= 0 || !p.AToB && limit.Cmp(pool.SqrtPrice) <= 0 {
		return swapOutcome{}, errcode.Wrap(errcode.InvalidSqrtPriceLimitDirection, "limit %s, price %s", limit, pool.SqrtPrice)
	}
	if p.Amount == 0 {
		return swapOutcome{}, errcode.ZeroTradableAmount
	}

	rewardInfos, err := reward.NextRewardInfos(pool, now)
	if err != nil {
		return swapOutcome{}, err
	}
	var rewardGrowths [clmath.NumRewards]uint128.Uint128
	for i, r := range rewardInfos {
		rewardGrowths[i] = r.GrowthGlobalX64
	}

	out := swapOutcome{
		liquidity:   pool.Liquidity,
		sqrtPrice:   pool.SqrtPrice,
		tickCurrent: pool.TickCurrentIndex,
		feeGrowthA:  pool.FeeGrowthGlobalA,
		feeGrowthB:  pool.FeeGrowthGlobalB,
		rewardInfos: rewardInfos,
	}
	remaining := p.Amount
	var calculated uint64

	for remaining > 0 && !out.sqrtPrice.Equals(limit) {
		next, initialized, err := seq.NextInitialized(out.tickCurrent)
		if err != nil {
			return swapOutcome{}, err
		}
		nextPrice, err := clmath.TickIndexToSqrtPrice(next)
		if err != nil {
			return swapOutcome{}, err
		}
		target := nextPrice
		if p.AToB && limit.Cmp(nextPrice) > 0 || !p.AToB && limit.Cmp(nextPrice) < 0 {
			target = limit
		}

		step, err := clmath.ComputeSwapStep(remaining, pool.FeeRate, out.liquidity, out.sqrtPrice, target, p.AmountSpecifiedIsInput, p.AToB)
		if err != nil {
			return swapOutcome{}, err
		}

		var overflow bool
		if p.AmountSpecifiedIsInput {
			spent, o1 := math.SafeAdd(step.AmountIn, step.FeeAmount)
			remaining, overflow = math.SafeSub(remaining, spent)
			overflow = overflow || o1
			if !overflow {
				calculated, overflow = math.SafeAdd(calculated, step.AmountOut)
			}
		} else {
			remaining, overflow = math.SafeSub(remaining, step.AmountOut)
			if !overflow {
				paid, o1 := math.SafeAdd(step.AmountIn, step.FeeAmount)
				calculated, overflow = math.SafeAdd(calculated, paid)
				overflow = overflow || o1
			}
		}
		if overflow {
			return swapOutcome{}, errcode.AmountCalcOverflow
		}

		if err := out.chargeFee(step.FeeAmount, pool.ProtocolFeeRate, p.AToB); err != nil {
			return swapOutcome{}, err
		}

		if step.NextSqrtPrice.Equals(nextPrice) {
			if initialized {
				t, err := seq.Get(next)
				if err != nil {
					return swapOutcome{}, err
				}
				globals := tick.Growths{FeeA: out.feeGrowthA, FeeB: out.feeGrowthB, Rewards: rewardGrowths}
				if out.liquidity, err = tick.CrossLiquidity(t, out.liquidity, p.AToB); err != nil {
					return swapOutcome{}, err
				}
				if err := seq.Update(next, tick.Cross(t, globals)); err != nil {
					return swapOutcome{}, err
				}
				out.ticksCrossed++
			}
			out.tickCurrent = next
			if p.AToB {
				out.tickCurrent = next - 1
			}
		} else if !step.NextSqrtPrice.Equals(out.sqrtPrice) {
			if out.tickCurrent, err = clmath.SqrtPriceToTickIndex(step.NextSqrtPrice); err != nil {
				return swapOutcome{}, err
			}
		}
		out.sqrtPrice = step.NextSqrtPrice
	}

	if p.AToB == p.AmountSpecifiedIsInput {
		out.amountA, out.amountB = p.Amount-remaining, calculated
	} else {
		out.amountA, out.amountB = calculated, p.Amount-remaining
	}
	return out, nil
}

// chargeFee splits one step's fee into the protocol share and LP growth on
// the input token.
func (o *swapOutcome) chargeFee(fee uint64, protocolFeeRate uint16, aToB bool) error {
	var overflow bool
	if o.feeTotal, overflow = math.SafeAdd(o.feeTotal, fee); overflow {
		return errcode.AmountCalcOverflow
	}
	lpFee := fee
	if protocolFeeRate > 0 {
		protocol, err := clmath.MulDivU64(fee, uint64(protocolFeeRate), uint64(clmath.ProtocolFeeRateDenominator), false)
		if err != nil {
			return err
		}
		lpFee -= protocol
		if o.protocolFee, overflow = math.SafeAdd(o.protocolFee, protocol); overflow {
			return errcode.AmountCalcOverflow
		}
	}
	if o.liquidity.IsZero() {
		return nil
	}
	growth := uint128.From64(lpFee).Lsh(64).Div(o.liquidity)
	if aToB {
		o.feeGrowthA = o.feeGrowthA.AddWrap(growth)
	} else {
		o.feeGrowthB = o.feeGrowthB.AddWrap(growth)
	}
	return nil
}

func applySwap(pool *model.Pool, out swapOutcome, aToB bool, now uint64) error {
	owed := &pool.ProtocolFeeOwedB
	if aToB {
		owed = &pool.ProtocolFeeOwedA
	}
	sum, overflow := math.SafeAdd(*owed, out.protocolFee)
	if overflow {
		return errcode.AmountCalcOverflow
	}
	*owed = sum
	pool.Liquidity = out.liquidity
	pool.SqrtPrice = out.sqrtPrice
	pool.TickCurrentIndex = out.tickCurrent
	pool.FeeGrowthGlobalA = out.feeGrowthA
	pool.FeeGrowthGlobalB = out.feeGrowthB
	pool.RewardInfos = out.rewardInfos
	pool.RewardLastUpdatedTimestamp = now
	return nil
}
