package quote

import (
	"lukechampine.com/uint128"

	"liquidityEngine/internal/clmath"
	"liquidityEngine/internal/model"
	"liquidityEngine/internal/position"
	"liquidityEngine/internal/reward"
	"liquidityEngine/internal/tick"
)

// IncreaseQuote is what a deposit of Liquidity is expected to cost.
// TokenMax* hold the most the deposit can cost anywhere inside the slippage
// window and include the transfer fee.
type IncreaseQuote struct {
	Liquidity uint128.Uint128
	TokenEstA uint64
	TokenEstB uint64
	TokenMaxA uint64
	TokenMaxB uint64
}

// DecreaseQuote is what a withdrawal of Liquidity is expected to return,
// after transfer fees.
type DecreaseQuote struct {
	Liquidity uint128.Uint128
	TokenEstA uint64
	TokenEstB uint64
	TokenMinA uint64
	TokenMinB uint64
}

// FeesQuote is the fee a position would receive if collected now.
type FeesQuote struct {
	FeeOwedA uint64
	FeeOwedB uint64
}

// RewardsQuote is the reward a position would receive per slot.
type RewardsQuote struct {
	Rewards [clmath.NumRewards]uint64
}

// IncreaseByLiquidity quotes a deposit of liquidity into [lower, upper).
func IncreaseByLiquidity(pool *model.Pool, lower, upper int32, liquidity uint128.Uint128, slippageBps uint16, feeA, feeB clmath.TransferFee) (IncreaseQuote, error) {
	if liquidity.IsZero() {
		return IncreaseQuote{}, nil
	}
	if err := position.ValidateRange(lower, upper, pool.TickSpacing); err != nil {
		return IncreaseQuote{}, err
	}

	estA, estB, err := amountsAt(pool.SqrtPrice, lower, upper, liquidity, true)
	if err != nil {
		return IncreaseQuote{}, err
	}
	bounds := clmath.SqrtPriceSlippageBounds(pool.SqrtPrice, slippageBps)
	loA, loB, err := amountsAt(bounds.Min, lower, upper, liquidity, true)
	if err != nil {
		return IncreaseQuote{}, err
	}
	hiA, hiB, err := amountsAt(bounds.Max, lower, upper, liquidity, true)
	if err != nil {
		return IncreaseQuote{}, err
	}

	q := IncreaseQuote{Liquidity: liquidity}
	amounts := []struct {
		dst  *uint64
		raw  uint64
		rate clmath.TransferFee
	}{
		{&q.TokenEstA, estA, feeA},
		{&q.TokenEstB, estB, feeB},
		{&q.TokenMaxA, max(loA, hiA), feeA},
		{&q.TokenMaxB, max(loB, hiB), feeB},
	}
	for _, a := range amounts {
		included, err := a.rate.IncludedAmount(a.raw)
		if err != nil {
			return IncreaseQuote{}, err
		}
		*a.dst = included.Amount
	}
	return q, nil
}

// IncreaseByTokenA quotes the deposit funded by amount of token A, before
// its transfer fee.
func IncreaseByTokenA(pool *model.Pool, lower, upper int32, amount uint64, slippageBps uint16, feeA, feeB clmath.TransferFee) (IncreaseQuote, error) {
	net := feeA.ExcludedAmount(amount).Amount
	if net == 0 {
		return IncreaseQuote{}, nil
	}
	lowerSqrt, upperSqrt, err := rangeSqrtPrices(pool.TickSpacing, lower, upper)
	if err != nil {
		return IncreaseQuote{}, err
	}

	var liquidity uint128.Uint128
	switch {
	case pool.SqrtPrice.Cmp(upperSqrt) >= 0:
		// above the range a deposit is all token B
		return IncreaseQuote{}, nil
	case pool.SqrtPrice.Cmp(lowerSqrt) < 0:
		liquidity, err = clmath.LiquidityFromTokenA(lowerSqrt, upperSqrt, net)
	default:
		liquidity, err = clmath.LiquidityFromTokenA(pool.SqrtPrice, upperSqrt, net)
	}
	if err != nil {
		return IncreaseQuote{}, err
	}
	return IncreaseByLiquidity(pool, lower, upper, liquidity, slippageBps, feeA, feeB)
}

// IncreaseByTokenB quotes the deposit funded by amount of token B, before
// its transfer fee.
func IncreaseByTokenB(pool *model.Pool, lower, upper int32, amount uint64, slippageBps uint16, feeA, feeB clmath.TransferFee) (IncreaseQuote, error) {
	net := feeB.ExcludedAmount(amount).Amount
	if net == 0 {
		return IncreaseQuote{}, nil
	}
	lowerSqrt, upperSqrt, err := rangeSqrtPrices(pool.TickSpacing, lower, upper)
	if err != nil {
		return IncreaseQuote{}, err
	}

	var liquidity uint128.Uint128
	switch {
	case pool.SqrtPrice.Cmp(lowerSqrt) < 0:
		return IncreaseQuote{}, nil
	case pool.SqrtPrice.Cmp(upperSqrt) >= 0:
		liquidity, err = clmath.LiquidityFromTokenB(lowerSqrt, upperSqrt, net)
	default:
		liquidity, err = clmath.LiquidityFromTokenB(lowerSqrt, pool.SqrtPrice, net)
	}
	if err != nil {
		return IncreaseQuote{}, err
	}
	return IncreaseByLiquidity(pool, lower, upper, liquidity, slippageBps, feeA, feeB)
}

// DecreaseByLiquidity quotes a withdrawal of liquidity from [lower, upper).
func DecreaseByLiquidity(pool *model.Pool, lower, upper int32, liquidity uint128.Uint128, slippageBps uint16, feeA, feeB clmath.TransferFee) (DecreaseQuote, error) {
	if liquidity.IsZero() {
		return DecreaseQuote{}, nil
	}
	if err := position.ValidateRange(lower, upper, pool.TickSpacing); err != nil {
		return DecreaseQuote{}, err
	}

	estA, estB, err := amountsAt(pool.SqrtPrice, lower, upper, liquidity, false)
	if err != nil {
		return DecreaseQuote{}, err
	}
	bounds := clmath.SqrtPriceSlippageBounds(pool.SqrtPrice, slippageBps)
	loA, loB, err := amountsAt(bounds.Min, lower, upper, liquidity, false)
	if err != nil {
		return DecreaseQuote{}, err
	}
	hiA, hiB, err := amountsAt(bounds.Max, lower, upper, liquidity, false)
	if err != nil {
		return DecreaseQuote{}, err
	}

	return DecreaseQuote{
		Liquidity: liquidity,
		TokenEstA: feeA.ExcludedAmount(estA).Amount,
		TokenEstB: feeB.ExcludedAmount(estB).Amount,
		TokenMinA: feeA.ExcludedAmount(min(loA, hiA)).Amount,
		TokenMinB: feeB.ExcludedAmount(min(loB, hiB)).Amount,
	}, nil
}

// CollectFeesQuote returns the owed fees of pos after accruing growth up to
// the pool's current state. lowerTick and upperTick are the position's
// bound ticks as stored in their arrays. Nothing is modified.
func CollectFeesQuote(pool *model.Pool, pos *model.Position, lowerTick, upperTick tick.Tick, feeA, feeB clmath.TransferFee) (FeesQuote, error) {
	inside := tick.GrowthsInside(pool.TickCurrentIndex, pos.TickLowerIndex, lowerTick, pos.TickUpperIndex, upperTick, globals(pool))
	owedA, owedB, _, err := position.Pending(*pos, inside)
	if err != nil {
		return FeesQuote{}, err
	}
	return FeesQuote{
		FeeOwedA: feeA.ExcludedAmount(owedA).Amount,
		FeeOwedB: feeB.ExcludedAmount(owedB).Amount,
	}, nil
}

// CollectRewardsQuote returns the owed rewards of pos with the pool's
// emissions advanced to now. rewardFees holds the transfer fee of each
// reward mint.
func CollectRewardsQuote(pool *model.Pool, pos *model.Position, lowerTick, upperTick tick.Tick, now uint64, rewardFees [clmath.NumRewards]clmath.TransferFee) (RewardsQuote, error) {
	infos, err := reward.NextRewardInfos(pool, now)
	if err != nil {
		return RewardsQuote{}, err
	}
	advanced := *pool
	advanced.RewardInfos = infos

	inside := tick.GrowthsInside(pool.TickCurrentIndex, pos.TickLowerIndex, lowerTick, pos.TickUpperIndex, upperTick, globals(&advanced))
	_, _, owed, err := position.Pending(*pos, inside)
	if err != nil {
		return RewardsQuote{}, err
	}
	var q RewardsQuote
	for i := range owed {
		if !infos[i].Initialized() {
			continue
		}
		q.Rewards[i] = rewardFees[i].ExcludedAmount(owed[i]).Amount
	}
	return q, nil
}

func globals(pool *model.Pool) tick.Growths {
	return tick.Growths{
		FeeA:    pool.FeeGrowthGlobalA,
		FeeB:    pool.FeeGrowthGlobalB,
		Rewards: pool.RewardGrowthGlobals(),
	}
}

func rangeSqrtPrices(spacing uint16, lower, upper int32) (uint128.Uint128, uint128.Uint128, error) {
	if err := position.ValidateRange(lower, upper, spacing); err != nil {
		return uint128.Zero, uint128.Zero, err
	}
	lowerSqrt, err := clmath.TickIndexToSqrtPrice(lower)
	if err != nil {
		return uint128.Zero, uint128.Zero, err
	}
	upperSqrt, err := clmath.TickIndexToSqrtPrice(upper)
	if err != nil {
		return uint128.Zero, uint128.Zero, err
	}
	return lowerSqrt, upperSqrt, nil
}

// amountsAt splits liquidity into token amounts with the pool at sqrtPrice.
// The split compares sqrt prices, so a price inside the slippage window
// but off the tick grid is placed correctly.
func amountsAt(sqrtPrice uint128.Uint128, lower, upper int32, liquidity uint128.Uint128, roundUp bool) (uint64, uint64, error) {
	lowerSqrt, err := clmath.TickIndexToSqrtPrice(lower)
	if err != nil {
		return 0, 0, err
	}
	upperSqrt, err := clmath.TickIndexToSqrtPrice(upper)
	if err != nil {
		return 0, 0, err
	}

	var a, b uint64
	switch {
	case sqrtPrice.Cmp(lowerSqrt) <= 0:
		a, err = clmath.AmountDeltaA(lowerSqrt, upperSqrt, liquidity, roundUp)
	case sqrtPrice.Cmp(upperSqrt) >= 0:
		b, err = clmath.AmountDeltaB(lowerSqrt, upperSqrt, liquidity, roundUp)
	default:
		a, err = clmath.AmountDeltaA(sqrtPrice, upperSqrt, liquidity, roundUp)
		if err == nil {
			b, err = clmath.AmountDeltaB(lowerSqrt, sqrtPrice, liquidity, roundUp)
		}
	}
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
