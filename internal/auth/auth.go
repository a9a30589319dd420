package auth

import (
	"github.com/gagliardetto/solana-go"

	"liquidityEngine/internal/errcode"
	"liquidityEngine/internal/model"
	"liquidityEngine/internal/tick"
)

// VerifyPositionAuthority checks that authority may act for the holder of
// the position token account, either as its signing owner or as its
// signing delegate approved for exactly one token. An authority that is
// the account's delegate is held to the delegate rules even when it also
// owns the account.
func VerifyPositionAuthority(account *model.TokenAccount, authority solana.PublicKey, signers model.Signers) error {
	if account.Amount != 1 {
		return errcode.Wrap(errcode.InvalidPositionTokenAmount, "position token amount %d", account.Amount)
	}

	if account.HasDelegate() && account.Delegate.Equals(authority) {
		if !signers.Has(authority) {
			return errcode.Wrap(errcode.MissingOrInvalidDelegate, "delegate %s did not sign", authority)
		}
		if account.DelegatedAmount != 1 {
			return errcode.Wrap(errcode.InvalidPositionTokenAmount, "delegated amount %d", account.DelegatedAmount)
		}
		return nil
	}

	if !account.Owner.Equals(authority) {
		return errcode.Wrap(errcode.MissingOrInvalidDelegate, "authority %s is not a signing delegate", authority)
	}
	if !signers.Has(authority) {
		return errcode.Wrap(errcode.MissingOrInvalidDelegate, "owner %s did not sign", authority)
	}
	return nil
}

// VerifyPositionTokenAccount checks that account holds the position's token.
func VerifyPositionTokenAccount(account *model.TokenAccount, position *model.Position) error {
	if !account.Mint.Equals(position.PositionMint) {
		return errcode.Wrap(errcode.ConstraintViolation, "token account mint %s, position mint %s", account.Mint, position.PositionMint)
	}
	if account.Amount != 1 {
		return errcode.Wrap(errcode.ConstraintViolation, "position token amount %d", account.Amount)
	}
	return nil
}

// VerifyPositionPool checks that position belongs to pool.
func VerifyPositionPool(position *model.Position, pool solana.PublicKey) error {
	if !position.Whirlpool.Equals(pool) {
		return errcode.Wrap(errcode.PoolMismatch, "position pool %s, got %s", position.Whirlpool, pool)
	}
	return nil
}

// VerifyVaults checks the supplied vaults are the pool's.
func VerifyVaults(pool *model.Pool, vaultA, vaultB solana.PublicKey) error {
	if !pool.TokenVaultA.Equals(vaultA) || !pool.TokenVaultB.Equals(vaultB) {
		return errcode.Wrap(errcode.ConstraintViolation, "vaults %s/%s do not belong to pool", vaultA, vaultB)
	}
	return nil
}

// VerifyOwnerTokenAccounts checks that the owner's token accounts hold the
// pool's mints.
func VerifyOwnerTokenAccounts(pool *model.Pool, accountA, accountB *model.TokenAccount) error {
	if !accountA.Mint.Equals(pool.TokenMintA) {
		return errcode.Wrap(errcode.ConstraintViolation, "token account A mint %s, pool mint %s", accountA.Mint, pool.TokenMintA)
	}
	if !accountB.Mint.Equals(pool.TokenMintB) {
		return errcode.Wrap(errcode.ConstraintViolation, "token account B mint %s, pool mint %s", accountB.Mint, pool.TokenMintB)
	}
	return nil
}

// VerifyTickArray checks that array belongs to pool and covers tickIndex.
func VerifyTickArray(array tick.Array, pool solana.PublicKey, tickIndex int32, spacing uint16) error {
	if !array.Pool().Equals(pool) {
		return errcode.Wrap(errcode.TickArrayMismatch, "tick array pool %s, want %s", array.Pool(), pool)
	}
	if !tick.Covers(array.StartIndex(), tickIndex, spacing) {
		return errcode.Wrap(errcode.TickNotFound, "tick %d not in array %d", tickIndex, array.StartIndex())
	}
	return nil
}
