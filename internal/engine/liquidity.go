package engine

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"

	"liquidityEngine/internal/auth"
	"liquidityEngine/internal/clmath"
	"liquidityEngine/internal/errcode"
	"liquidityEngine/internal/ledger"
	"liquidityEngine/internal/model"
	"liquidityEngine/internal/position"
	"liquidityEngine/internal/reward"
	"liquidityEngine/internal/tick"
)

// PositionAccounts names the accounts a liquidity change touches.
type PositionAccounts struct {
	Pool                 solana.PublicKey
	Position             solana.PublicKey
	PositionTokenAccount solana.PublicKey
	Authority            solana.PublicKey
	Signers              model.Signers
	OwnerAccountA        solana.PublicKey
	OwnerAccountB        solana.PublicKey
	VaultA               solana.PublicKey
	VaultB               solana.PublicKey
	TickArrayLower       solana.PublicKey
	TickArrayUpper       solana.PublicKey
}

type IncreaseLiquidityParams struct {
	PositionAccounts
	Liquidity uint128.Uint128
	TokenMaxA uint64
	TokenMaxB uint64
}

type DecreaseLiquidityParams struct {
	PositionAccounts
	Liquidity uint128.Uint128
	TokenMinA uint64
	TokenMinB uint64
}

type UpdateFeesAndRewardsParams struct {
	Pool           solana.PublicKey
	Position       solana.PublicKey
	TickArrayLower solana.PublicKey
	TickArrayUpper solana.PublicKey
}

// positionState is a validated position with its pool and bound arrays,
// all mutable copies inside the current transaction.
type positionState struct {
	poolKey     solana.PublicKey
	pool        *model.Pool
	positionKey solana.PublicKey
	position    *model.Position
	lowerKey    solana.PublicKey
	lower       tick.Array
	upperKey    solana.PublicKey
	upper       tick.Array
}

func loadPositionState(tx *ledger.Tx, poolKey, positionKey, lowerKey, upperKey solana.PublicKey) (*positionState, error) {
	pool, err := tx.Pool(poolKey)
	if err != nil {
		return nil, err
	}
	pos, err := tx.Position(positionKey)
	if err != nil {
		return nil, err
	}
	if err := auth.VerifyPositionPool(pos, poolKey); err != nil {
		return nil, err
	}
	lower, err := tx.TickArray(lowerKey)
	if err != nil {
		return nil, err
	}
	upper, err := tx.TickArray(upperKey)
	if err != nil {
		return nil, err
	}
	if err := auth.VerifyTickArray(lower, poolKey, pos.TickLowerIndex, pool.TickSpacing); err != nil {
		return nil, err
	}
	if err := auth.VerifyTickArray(upper, poolKey, pos.TickUpperIndex, pool.TickSpacing); err != nil {
		return nil, err
	}
	return &positionState{
		poolKey:     poolKey,
		pool:        pool,
		positionKey: positionKey,
		position:    pos,
		lowerKey:    lowerKey,
		lower:       lower,
		upperKey:    upperKey,
		upper:       upper,
	}, nil
}

// loadAuthorizedPosition validates every account relationship of a
// liquidity change and then the position authority.
func loadAuthorizedPosition(tx *ledger.Tx, a PositionAccounts) (*positionState, error) {
	s, err := loadPositionState(tx, a.Pool, a.Position, a.TickArrayLower, a.TickArrayUpper)
	if err != nil {
		return nil, err
	}
	tokenAccount, err := tx.TokenAccount(a.PositionTokenAccount)
	if err != nil {
		return nil, err
	}
	if err := auth.VerifyPositionTokenAccount(tokenAccount, s.position); err != nil {
		return nil, err
	}
	if err := verifyOwnerAccounts(tx, s.pool, a.VaultA, a.VaultB, a.OwnerAccountA, a.OwnerAccountB); err != nil {
		return nil, err
	}
	if err := auth.VerifyPositionAuthority(tokenAccount, a.Authority, a.Signers); err != nil {
		return nil, err
	}
	return s, nil
}

func verifyOwnerAccounts(tx *ledger.Tx, pool *model.Pool, vaultA, vaultB, ownerA, ownerB solana.PublicKey) error {
	if err := auth.VerifyVaults(pool, vaultA, vaultB); err != nil {
		return err
	}
	accountA, err := tx.TokenAccount(ownerA)
	if err != nil {
		return err
	}
	accountB, err := tx.TokenAccount(ownerB)
	if err != nil {
		return err
	}
	return auth.VerifyOwnerTokenAccounts(pool, accountA, accountB)
}

func (s *positionState) globals() tick.Growths {
	return tick.Growths{
		FeeA:    s.pool.FeeGrowthGlobalA,
		FeeB:    s.pool.FeeGrowthGlobalB,
		Rewards: s.pool.RewardGrowthGlobals(),
	}
}

// modifyLiquidity accrues rewards, applies delta to the pool, both bound
// ticks and the position, and writes everything back. Growth inside is
// taken from the ticks as they were before the update.
func (s *positionState) modifyLiquidity(tx *ledger.Tx, now uint64, delta clmath.Int128, res *Result) error {
	pool, pos := s.pool, s.position
	spacing := pool.TickSpacing

	lowerTick, err := s.lower.Get(pos.TickLowerIndex, spacing)
	if err != nil {
		return err
	}
	upperTick, err := s.upper.Get(pos.TickUpperIndex, spacing)
	if err != nil {
		return err
	}

	rewardInfos, err := reward.NextRewardInfos(pool, now)
	if err != nil {
		return err
	}

	liquidity := pool.Liquidity
	if pool.InRange(pos.TickLowerIndex, pos.TickUpperIndex) {
		if liquidity, err = clmath.AddLiquidityDelta(liquidity, delta); err != nil {
			return err
		}
	}

	globals := tick.Growths{FeeA: pool.FeeGrowthGlobalA, FeeB: pool.FeeGrowthGlobalB}
	for i, r := range rewardInfos {
		globals.Rewards[i] = r.GrowthGlobalX64
	}

	current := pool.TickCurrentIndex
	nextLower, err := tick.ApplyLiquidityDelta(lowerTick, pos.TickLowerIndex, current, delta, false, globals)
	if err != nil {
		return err
	}
	nextUpper, err := tick.ApplyLiquidityDelta(upperTick, pos.TickUpperIndex, current, delta, true, globals)
	if err != nil {
		return err
	}
	inside := tick.GrowthsInside(current, pos.TickLowerIndex, lowerTick, pos.TickUpperIndex, upperTick, globals)
	nextPos, err := position.ModifyLiquidityUpdate(*pos, delta, inside)
	if err != nil {
		return err
	}

	pool.RewardInfos = rewardInfos
	pool.RewardLastUpdatedTimestamp = now
	pool.Liquidity = liquidity
	if err := writeTick(tx, s.lowerKey, s.lower, pos.TickLowerIndex, spacing, nextLower, res); err != nil {
		return err
	}
	if err := writeTick(tx, s.upperKey, s.upper, pos.TickUpperIndex, spacing, nextUpper, res); err != nil {
		return err
	}
	*pos = nextPos
	return nil
}

// writeTick stores t and resizes a dynamic array whose storage changed.
func writeTick(tx *ledger.Tx, key solana.PublicKey, arr tick.Array, index int32, spacing uint16, t tick.Tick, res *Result) error {
	before := arr.DataLen()
	if err := arr.Update(index, spacing, t); err != nil {
		return err
	}
	after := arr.DataLen()
	if before == after {
		return nil
	}
	if err := tx.Resize(key, after); err != nil {
		return err
	}
	res.Storage = append(res.Storage, StorageChange{TickArray: key, Before: before, After: after})
	return nil
}

// moveTickRent shifts TickRent per bound between the position and each
// dynamic array holding that bound.
func (s *positionState) moveTickRent(tx *ledger.Tx, res *Result, toArrays bool) error {
	bounds := []struct {
		key solana.PublicKey
		arr tick.Array
	}{{s.lowerKey, s.lower}, {s.upperKey, s.upper}}

	for _, b := range bounds {
		if b.arr.Kind() != tick.KindDynamic {
			continue
		}
		var err error
		if toArrays {
			err = res.moveRent(tx, s.positionKey, b.key, TickRent, "to_tick_array")
		} else {
			err = res.moveRent(tx, b.key, s.positionKey, TickRent, "to_position")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *positionState) event(kind model.EventKind) *model.LiquidityEvent {
	return &model.LiquidityEvent{
		Kind:        kind,
		Pool:        s.poolKey.String(),
		Position:    s.positionKey.String(),
		TickLower:   s.position.TickLowerIndex,
		TickUpper:   s.position.TickUpperIndex,
		SqrtPrice:   s.pool.SqrtPrice.String(),
		TickCurrent: s.pool.TickCurrentIndex,
	}
}

// IncreaseLiquidity deposits tokens for p.Liquidity more liquidity.
func (e *Engine) IncreaseLiquidity(ctx context.Context, p IncreaseLiquidityParams) (*Result, error) {
	return e.run(ctx, "increase_liquidity", func(tx *ledger.Tx, now uint64, res *Result) error {
		return e.increaseLiquidity(tx, now, p, res)
	})
}

func (e *Engine) increaseLiquidity(tx *ledger.Tx, now uint64, p IncreaseLiquidityParams, res *Result) error {
	if p.Liquidity.IsZero() {
		return errcode.LiquidityZero
	}
	s, err := loadAuthorizedPosition(tx, p.PositionAccounts)
	if err != nil {
		return err
	}
	delta, err := clmath.LiquidityToDelta(p.Liquidity, true)
	if err != nil {
		return err
	}

	wasEmpty := s.position.Liquidity.IsZero()
	if err := s.modifyLiquidity(tx, now, delta, res); err != nil {
		return err
	}

	amountA, amountB, err := clmath.TokenDeltas(s.pool.SqrtPrice, s.pool.TickCurrentIndex, s.position.TickLowerIndex, s.position.TickUpperIndex, delta)
	if err != nil {
		return err
	}
	mintA, err := tx.Mint(s.pool.TokenMintA)
	if err != nil {
		return err
	}
	mintB, err := tx.Mint(s.pool.TokenMintB)
	if err != nil {
		return err
	}
	inA, err := mintA.Fee().IncludedAmount(amountA)
	if err != nil {
		return err
	}
	inB, err := mintB.Fee().IncludedAmount(amountB)
	if err != nil {
		return err
	}
	if inA.Amount > p.TokenMaxA {
		return errcode.Wrap(errcode.TokenMaxExceeded, "token a %d > max %d", inA.Amount, p.TokenMaxA)
	}
	if inB.Amount > p.TokenMaxB {
		return errcode.Wrap(errcode.TokenMaxExceeded, "token b %d > max %d", inB.Amount, p.TokenMaxB)
	}

	if err := res.transfer(tx, p.OwnerAccountA, p.VaultA, p.Authority, inA.Amount); err != nil {
		return err
	}
	if err := res.transfer(tx, p.OwnerAccountB, p.VaultB, p.Authority, inB.Amount); err != nil {
		return err
	}

	if wasEmpty {
		if err := s.moveTickRent(tx, res, true); err != nil {
			return err
		}
	}

	ev := s.event(model.EventLiquidityIncreased)
	ev.Liquidity = p.Liquidity.String()
	ev.TokenA = formatU64(amountA)
	ev.TokenB = formatU64(amountB)
	ev.TokenATransferFee = formatU64(inA.Fee)
	ev.TokenBTransferFee = formatU64(inB.Fee)
	res.emit(ev)
	return nil
}

// DecreaseLiquidity withdraws the tokens backing p.Liquidity.
func (e *Engine) DecreaseLiquidity(ctx context.Context, p DecreaseLiquidityParams) (*Result, error) {
	return e.run(ctx, "decrease_liquidity", func(tx *ledger.Tx, now uint64, res *Result) error {
		return e.decreaseLiquidity(tx, now, p, res)
	})
}

func (e *Engine) decreaseLiquidity(tx *ledger.Tx, now uint64, p DecreaseLiquidityParams, res *Result) error {
	if p.Liquidity.IsZero() {
		return errcode.LiquidityZero
	}
	s, err := loadAuthorizedPosition(tx, p.PositionAccounts)
	if err != nil {
		return err
	}
	if p.Liquidity.Cmp(s.position.Liquidity) > 0 {
		return errcode.Wrap(errcode.LiquidityUnderflow, "decrease %s > position %s", p.Liquidity, s.position.Liquidity)
	}
	delta, err := clmath.LiquidityToDelta(p.Liquidity, false)
	if err != nil {
		return err
	}

	if err := s.modifyLiquidity(tx, now, delta, res); err != nil {
		return err
	}

	amountA, amountB, err := clmath.TokenDeltas(s.pool.SqrtPrice, s.pool.TickCurrentIndex, s.position.TickLowerIndex, s.position.TickUpperIndex, delta)
	if err != nil {
		return err
	}
	mintA, err := tx.Mint(s.pool.TokenMintA)
	if err != nil {
		return err
	}
	mintB, err := tx.Mint(s.pool.TokenMintB)
	if err != nil {
		return err
	}
	outA := mintA.Fee().ExcludedAmount(amountA)
	outB := mintB.Fee().ExcludedAmount(amountB)
	if outA.Amount < p.TokenMinA {
		return errcode.Wrap(errcode.TokenMinSubceeded, "token a %d < min %d", outA.Amount, p.TokenMinA)
	}
	if outB.Amount < p.TokenMinB {
		return errcode.Wrap(errcode.TokenMinSubceeded, "token b %d < min %d", outB.Amount, p.TokenMinB)
	}

	if err := res.transfer(tx, p.VaultA, p.OwnerAccountA, s.poolKey, amountA); err != nil {
		return err
	}
	if err := res.transfer(tx, p.VaultB, p.OwnerAccountB, s.poolKey, amountB); err != nil {
		return err
	}

	if s.position.Liquidity.IsZero() {
		if err := s.moveTickRent(tx, res, false); err != nil {
			return err
		}
	}

	ev := s.event(model.EventLiquidityDecreased)
	ev.Liquidity = p.Liquidity.String()
	ev.TokenA = formatU64(amountA)
	ev.TokenB = formatU64(amountB)
	ev.TokenATransferFee = formatU64(outA.Fee)
	ev.TokenBTransferFee = formatU64(outB.Fee)
	res.emit(ev)
	return nil
}

// UpdateFeesAndRewards accrues owed fees and rewards without changing
// liquidity.
func (e *Engine) UpdateFeesAndRewards(ctx context.Context, p UpdateFeesAndRewardsParams) (*Result, error) {
	return e.run(ctx, "update_fees_and_rewards", func(tx *ledger.Tx, now uint64, res *Result) error {
		return e.updateFeesAndRewards(tx, now, p, res)
	})
}

func (e *Engine) updateFeesAndRewards(tx *ledger.Tx, now uint64, p UpdateFeesAndRewardsParams, res *Result) error {
	s, err := loadPositionState(tx, p.Pool, p.Position, p.TickArrayLower, p.TickArrayUpper)
	if err != nil {
		return err
	}
	if s.position.Liquidity.IsZero() {
		return errcode.Wrap(errcode.LiquidityZero, "position %s has no liquidity", p.Position)
	}
	return s.modifyLiquidity(tx, now, clmath.Int128{}, res)
}
