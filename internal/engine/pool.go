package engine

import (
	"bytes"
	"context"

	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"

	"liquidityEngine/internal/clmath"
	"liquidityEngine/internal/dex"
	"liquidityEngine/internal/errcode"
	"liquidityEngine/internal/ledger"
	"liquidityEngine/internal/model"
	"liquidityEngine/internal/reward"
	"liquidityEngine/internal/tick"
)

type InitializePoolParams struct {
	Config           solana.PublicKey
	MintA            solana.PublicKey
	MintB            solana.PublicKey
	TickSpacing      uint16
	FeeRate          uint16
	ProtocolFeeRate  uint16
	InitialSqrtPrice uint128.Uint128
	Funder           solana.PublicKey
}

// InitializePool creates a pool and its two vaults.
func (e *Engine) InitializePool(ctx context.Context, p InitializePoolParams) (*Result, error) {
	return e.run(ctx, "initialize_pool", func(tx *ledger.Tx, now uint64, res *Result) error {
		if bytes.Compare(p.MintA.Bytes(), p.MintB.Bytes()) >= 0 {
			return errcode.Wrap(errcode.InvalidTokenMintOrder, "mint a %s, mint b %s", p.MintA, p.MintB)
		}
		if p.TickSpacing == 0 {
			return errcode.InvalidTickSpacing
		}
		if p.FeeRate > clmath.MaxFeeRate {
			return errcode.Wrap(errcode.FeeRateMaxExceeded, "fee rate %d", p.FeeRate)
		}
		if p.ProtocolFeeRate > clmath.MaxProtocolFeeRate {
			return errcode.Wrap(errcode.ProtocolFeeRateMaxExceeded, "protocol fee rate %d", p.ProtocolFeeRate)
		}
		currentTick, err := clmath.SqrtPriceToTickIndex(p.InitialSqrtPrice)
		if err != nil {
			return err
		}
		if _, err := tx.Mint(p.MintA); err != nil {
			return err
		}
		if _, err := tx.Mint(p.MintB); err != nil {
			return err
		}

		key, err := ledger.WhirlpoolAddress(p.Config, p.MintA, p.MintB, p.TickSpacing)
		if err != nil {
			return err
		}
		if _, err := tx.Allocate(key, dex.WhirlpoolLen, p.Funder); err != nil {
			return err
		}
		vaultA, err := ledger.VaultAddress(key, p.MintA)
		if err != nil {
			return err
		}
		vaultB, err := ledger.VaultAddress(key, p.MintB)
		if err != nil {
			return err
		}
		if err := tx.CreateTokenAccount(vaultA, p.MintA, key, p.Funder); err != nil {
			return err
		}
		if err := tx.CreateTokenAccount(vaultB, p.MintB, key, p.Funder); err != nil {
			return err
		}

		pool := &model.Pool{
			WhirlpoolsConfig:           p.Config,
			TickSpacing:                p.TickSpacing,
			FeeTierIndexSeed:           p.TickSpacing,
			FeeRate:                    p.FeeRate,
			ProtocolFeeRate:            p.ProtocolFeeRate,
			SqrtPrice:                  p.InitialSqrtPrice,
			TickCurrentIndex:           currentTick,
			TokenMintA:                 p.MintA,
			TokenVaultA:                vaultA,
			TokenMintB:                 p.MintB,
			TokenVaultB:                vaultB,
			RewardLastUpdatedTimestamp: now,
		}
		tx.PutPool(key, pool)

		res.emit(&model.LiquidityEvent{
			Kind:        model.EventPoolInitialized,
			Pool:        key.String(),
			SqrtPrice:   pool.SqrtPrice.String(),
			TickCurrent: pool.TickCurrentIndex,
		})
		return nil
	})
}

type InitializeTickArrayParams struct {
	Pool       solana.PublicKey
	StartIndex int32
	Dynamic    bool
	Funder     solana.PublicKey
}

// InitializeTickArray creates the fixed or dynamic array starting at
// StartIndex.
func (e *Engine) InitializeTickArray(ctx context.Context, p InitializeTickArrayParams) (*Result, error) {
	return e.run(ctx, "initialize_tick_array", func(tx *ledger.Tx, now uint64, res *Result) error {
		pool, err := tx.Pool(p.Pool)
		if err != nil {
			return err
		}
		if err := tick.ValidateStartIndex(p.StartIndex, pool.TickSpacing); err != nil {
			return err
		}
		key, err := ledger.TickArrayAddress(p.Pool, p.StartIndex)
		if err != nil {
			return err
		}
		if tx.HasTickArray(key) {
			return errcode.Wrap(errcode.TickArrayExistInPool, "tick array %d", p.StartIndex)
		}

		kind := tick.KindFixed
		if p.Dynamic {
			kind = tick.KindDynamic
		}
		arr := tick.New(kind, p.Pool, p.StartIndex)
		if _, err := tx.Allocate(key, arr.DataLen(), p.Funder); err != nil {
			return err
		}
		tx.PutTickArray(key, arr)

		res.emit(&model.LiquidityEvent{
			Kind:      model.EventTickArrayInitialized,
			Pool:      p.Pool.String(),
			TickArray: key.String(),
			TickLower: p.StartIndex,
			TickUpper: p.StartIndex + tick.TicksInArray(pool.TickSpacing),
		})
		return nil
	})
}

type InitializeRewardParams struct {
	Pool      solana.PublicKey
	Index     int
	Mint      solana.PublicKey
	Authority solana.PublicKey
	Funder    solana.PublicKey
}

// InitializeReward enables the next unused reward slot with its own vault.
func (e *Engine) InitializeReward(ctx context.Context, p InitializeRewardParams) (*Result, error) {
	return e.run(ctx, "initialize_reward", func(tx *ledger.Tx, now uint64, res *Result) error {
		pool, err := tx.Pool(p.Pool)
		if err != nil {
			return err
		}
		if p.Index < 0 || p.Index >= clmath.NumRewards {
			return errcode.Wrap(errcode.InvalidRewardIndex, "index %d", p.Index)
		}
		if pool.RewardInfos[p.Index].Initialized() {
			return errcode.Wrap(errcode.InvalidRewardIndex, "reward %d already initialized", p.Index)
		}
		if p.Index > 0 && !pool.RewardInfos[p.Index-1].Initialized() {
			return errcode.Wrap(errcode.InvalidRewardIndex, "reward %d before %d", p.Index, p.Index-1)
		}
		if _, err := tx.Mint(p.Mint); err != nil {
			return err
		}
		vault, err := ledger.RewardVaultAddress(p.Pool, p.Index)
		if err != nil {
			return err
		}
		if err := tx.CreateTokenAccount(vault, p.Mint, p.Pool, p.Funder); err != nil {
			return err
		}
		pool.RewardInfos[p.Index] = model.RewardInfo{
			Mint:      p.Mint,
			Vault:     vault,
			Authority: p.Authority,
		}

		idx := p.Index
		res.emit(&model.LiquidityEvent{
			Kind:        model.EventRewardInitialized,
			Pool:        p.Pool.String(),
			RewardIndex: &idx,
			RewardMint:  p.Mint.String(),
		})
		return nil
	})
}

type SetRewardEmissionsParams struct {
	Pool                  solana.PublicKey
	Index                 int
	EmissionsPerSecondX64 uint128.Uint128
	Authority             solana.PublicKey
	Signers               model.Signers
}

// SetRewardEmissions changes a reward's rate after accruing at the old one.
// The vault must already hold a day of emissions at the new rate.
func (e *Engine) SetRewardEmissions(ctx context.Context, p SetRewardEmissionsParams) (*Result, error) {
	return e.run(ctx, "set_reward_emissions", func(tx *ledger.Tx, now uint64, res *Result) error {
		pool, err := tx.Pool(p.Pool)
		if err != nil {
			return err
		}
		if p.Index < 0 || p.Index >= clmath.NumRewards {
			return errcode.Wrap(errcode.InvalidRewardIndex, "index %d", p.Index)
		}
		info := pool.RewardInfos[p.Index]
		if !info.Initialized() {
			return errcode.Wrap(errcode.RewardNotInitialized, "reward %d", p.Index)
		}
		if !info.Authority.Equals(p.Authority) || !p.Signers.Has(p.Authority) {
			return errcode.Wrap(errcode.ConstraintViolation, "reward authority %s", p.Authority)
		}
		vault, err := tx.TokenAccount(info.Vault)
		if err != nil {
			return err
		}
		daily, err := reward.DailyEmissions(p.EmissionsPerSecondX64)
		if err != nil {
			return err
		}
		if vault.Amount < daily {
			return errcode.Wrap(errcode.RewardVaultAmountInsufficient, "vault holds %d, day needs %d", vault.Amount, daily)
		}
		if err := reward.Sync(pool, now); err != nil {
			return err
		}
		pool.RewardInfos[p.Index].EmissionsPerSecondX64 = p.EmissionsPerSecondX64

		idx := p.Index
		res.emit(&model.LiquidityEvent{
			Kind:        model.EventRewardEmissionsSet,
			Pool:        p.Pool.String(),
			RewardIndex: &idx,
			RewardMint:  info.Mint.String(),
		})
		return nil
	})
}
