package engine

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"liquidityEngine/internal/auth"
	"liquidityEngine/internal/clmath"
	"liquidityEngine/internal/errcode"
	"liquidityEngine/internal/ledger"
	"liquidityEngine/internal/model"
)

type CollectFeesParams struct {
	Pool                 solana.PublicKey
	Position             solana.PublicKey
	PositionTokenAccount solana.PublicKey
	Authority            solana.PublicKey
	Signers              model.Signers
	OwnerAccountA        solana.PublicKey
	OwnerAccountB        solana.PublicKey
	VaultA               solana.PublicKey
	VaultB               solana.PublicKey
}

// loadOwnedPosition checks that authority may act for the position held in
// tokenAccount and that the position belongs to poolKey.
func loadOwnedPosition(tx *ledger.Tx, poolKey, positionKey, tokenAccountKey, authority solana.PublicKey, signers model.Signers) (*model.Pool, *model.Position, error) {
	pool, err := tx.Pool(poolKey)
	if err != nil {
		return nil, nil, err
	}
	pos, err := tx.Position(positionKey)
	if err != nil {
		return nil, nil, err
	}
	if err := auth.VerifyPositionPool(pos, poolKey); err != nil {
		return nil, nil, err
	}
	tokenAccount, err := tx.TokenAccount(tokenAccountKey)
	if err != nil {
		return nil, nil, err
	}
	if err := auth.VerifyPositionTokenAccount(tokenAccount, pos); err != nil {
		return nil, nil, err
	}
	if err := auth.VerifyPositionAuthority(tokenAccount, authority, signers); err != nil {
		return nil, nil, err
	}
	return pool, pos, nil
}

// CollectFees pays out the fees owed to a position as of its last update.
// Fees accrued since then need UpdateFeesAndRewards first.
func (e *Engine) CollectFees(ctx context.Context, p CollectFeesParams) (*Result, error) {
	return e.run(ctx, "collect_fees", func(tx *ledger.Tx, now uint64, res *Result) error {
		return e.collectFees(tx, p, res)
	})
}

func (e *Engine) collectFees(tx *ledger.Tx, p CollectFeesParams, res *Result) error {
	pool, pos, err := loadOwnedPosition(tx, p.Pool, p.Position, p.PositionTokenAccount, p.Authority, p.Signers)
	if err != nil {
		return err
	}
	if err := verifyOwnerAccounts(tx, pool, p.VaultA, p.VaultB, p.OwnerAccountA, p.OwnerAccountB); err != nil {
		return err
	}

	owedA, owedB := pos.FeeOwedA, pos.FeeOwedB
	if err := res.transfer(tx, p.VaultA, p.OwnerAccountA, p.Pool, owedA); err != nil {
		return err
	}
	if err := res.transfer(tx, p.VaultB, p.OwnerAccountB, p.Pool, owedB); err != nil {
		return err
	}
	pos.FeeOwedA, pos.FeeOwedB = 0, 0

	mintA, err := tx.Mint(pool.TokenMintA)
	if err != nil {
		return err
	}
	mintB, err := tx.Mint(pool.TokenMintB)
	if err != nil {
		return err
	}
	res.emit(&model.LiquidityEvent{
		Kind:              model.EventFeesCollected,
		Pool:              p.Pool.String(),
		Position:          p.Position.String(),
		TickLower:         pos.TickLowerIndex,
		TickUpper:         pos.TickUpperIndex,
		TokenA:            formatU64(owedA),
		TokenB:            formatU64(owedB),
		TokenATransferFee: formatU64(mintA.Fee().Fee(owedA)),
		TokenBTransferFee: formatU64(mintB.Fee().Fee(owedB)),
		SqrtPrice:         pool.SqrtPrice.String(),
		TickCurrent:       pool.TickCurrentIndex,
	})
	return nil
}

type CollectRewardParams struct {
	Pool                 solana.PublicKey
	Position             solana.PublicKey
	PositionTokenAccount solana.PublicKey
	Authority            solana.PublicKey
	Signers              model.Signers
	Index                int
	OwnerAccount         solana.PublicKey
	Vault                solana.PublicKey
}

// CollectReward pays out one reward stream. When the vault holds less than
// is owed, the vault balance is paid and the rest stays owed.
func (e *Engine) CollectReward(ctx context.Context, p CollectRewardParams) (*Result, error) {
	return e.run(ctx, "collect_reward", func(tx *ledger.Tx, now uint64, res *Result) error {
		return e.collectReward(tx, p, res)
	})
}

func (e *Engine) collectReward(tx *ledger.Tx, p CollectRewardParams, res *Result) error {
	pool, pos, err := loadOwnedPosition(tx, p.Pool, p.Position, p.PositionTokenAccount, p.Authority, p.Signers)
	if err != nil {
		return err
	}
	if p.Index < 0 || p.Index >= clmath.NumRewards {
		return errcode.Wrap(errcode.InvalidRewardIndex, "index %d", p.Index)
	}
	info := pool.RewardInfos[p.Index]
	if !info.Vault.Equals(p.Vault) {
		return errcode.Wrap(errcode.ConstraintViolation, "reward vault %s, got %s", info.Vault, p.Vault)
	}
	owner, err := tx.TokenAccount(p.OwnerAccount)
	if err != nil {
		return err
	}
	if !owner.Mint.Equals(info.Mint) {
		return errcode.Wrap(errcode.ConstraintViolation, "reward mint %s, account mint %s", info.Mint, owner.Mint)
	}
	vault, err := tx.TokenAccount(p.Vault)
	if err != nil {
		return err
	}

	owed := pos.RewardInfos[p.Index].AmountOwed
	amount := min(owed, vault.Amount)
	if err := res.transfer(tx, p.Vault, p.OwnerAccount, p.Pool, amount); err != nil {
		return err
	}
	pos.RewardInfos[p.Index].AmountOwed = owed - amount

	mint, err := tx.Mint(info.Mint)
	if err != nil {
		return err
	}
	idx := p.Index
	res.emit(&model.LiquidityEvent{
		Kind:              model.EventRewardCollected,
		Pool:              p.Pool.String(),
		Position:          p.Position.String(),
		TickLower:         pos.TickLowerIndex,
		TickUpper:         pos.TickUpperIndex,
		RewardIndex:       &idx,
		RewardMint:        info.Mint.String(),
		TokenA:            formatU64(amount),
		TokenATransferFee: formatU64(mint.Fee().Fee(amount)),
		TickCurrent:       pool.TickCurrentIndex,
	})
	return nil
}
