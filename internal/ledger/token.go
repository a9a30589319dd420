package ledger

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gagliardetto/solana-go"

	"liquidityEngine/internal/clmath"
	"liquidityEngine/internal/errcode"
	"liquidityEngine/internal/model"
)

// Token program account sizes.
const (
	MintLen         = 82
	TokenAccountLen = 165
)

// CreateMint allocates a mint at key, paid by funder.
func (tx *Tx) CreateMint(key solana.PublicKey, decimals uint8, authority solana.PublicKey, fee *clmath.TransferFee, funder solana.PublicKey) error {
	if _, err := tx.Allocate(key, MintLen, funder); err != nil {
		return err
	}
	m := &model.Mint{Decimals: decimals, MintAuthority: authority}
	if fee != nil {
		f := *fee
		m.TransferFee = &f
	}
	tx.mints.put(key, m)
	return nil
}

// CreateTokenAccount allocates an empty token account for mint, paid by
// funder.
func (tx *Tx) CreateTokenAccount(key, mint, owner, funder solana.PublicKey) error {
	if _, err := tx.Mint(mint); err != nil {
		return err
	}
	if _, err := tx.Allocate(key, TokenAccountLen, funder); err != nil {
		return err
	}
	tx.tokens.put(key, &model.TokenAccount{Mint: mint, Owner: owner})
	return nil
}

// MintTo issues amount new tokens of mint into dest.
func (tx *Tx) MintTo(mint, dest, authority solana.PublicKey, amount uint64) error {
	m, err := tx.Mint(mint)
	if err != nil {
		return err
	}
	if !m.MintAuthority.Equals(authority) {
		return errcode.Wrap(errcode.OwnerMismatch, "mint authority %s, got %s", m.MintAuthority, authority)
	}
	acct, err := tx.TokenAccount(dest)
	if err != nil {
		return err
	}
	if !acct.Mint.Equals(mint) {
		return errcode.Wrap(errcode.MintMismatch, "account %s holds %s", dest, acct.Mint)
	}
	supply, overflow := math.SafeAdd(m.Supply, amount)
	if overflow {
		return errcode.Wrap(errcode.Overflow, "supply of %s", mint)
	}
	balance, overflow := math.SafeAdd(acct.Amount, amount)
	if overflow {
		return errcode.Wrap(errcode.Overflow, "balance of %s", dest)
	}
	m.Supply = supply
	acct.Amount = balance
	return nil
}

// Approve lets delegate move up to amount tokens out of account.
func (tx *Tx) Approve(account, delegate, owner solana.PublicKey, amount uint64) error {
	acct, err := tx.ownedAccount(account, owner)
	if err != nil {
		return err
	}
	acct.Delegate = delegate
	acct.DelegatedAmount = amount
	return nil
}

// Revoke clears any delegate on account.
func (tx *Tx) Revoke(account, owner solana.PublicKey) error {
	acct, err := tx.ownedAccount(account, owner)
	if err != nil {
		return err
	}
	acct.Delegate = solana.PublicKey{}
	acct.DelegatedAmount = 0
	return nil
}

// Transfer is the outcome of a token transfer. Fee is withheld on the
// destination and Amount-Fee is credited.
type Transfer struct {
	Mint   solana.PublicKey
	From   solana.PublicKey
	To     solana.PublicKey
	Amount uint64
	Fee    uint64
}

// Transfer moves amount tokens between accounts of the same mint. The
// authority must be the source owner or its delegate.
func (tx *Tx) Transfer(from, to, authority solana.PublicKey, amount uint64) (Transfer, error) {
	src, err := tx.TokenAccount(from)
	if err != nil {
		return Transfer{}, err
	}
	dst, err := tx.TokenAccount(to)
	if err != nil {
		return Transfer{}, err
	}
	if !src.Mint.Equals(dst.Mint) {
		return Transfer{}, errcode.Wrap(errcode.MintMismatch, "transfer %s -> %s", src.Mint, dst.Mint)
	}
	if err := tx.spend(src, from, authority, amount); err != nil {
		return Transfer{}, err
	}

	m, err := tx.Mint(src.Mint)
	if err != nil {
		return Transfer{}, err
	}
	fee := m.Fee().Fee(amount)
	credited, overflow := math.SafeAdd(dst.Amount, amount-fee)
	if overflow {
		return Transfer{}, errcode.Wrap(errcode.Overflow, "balance of %s", to)
	}
	withheld, overflow := math.SafeAdd(dst.WithheldAmount, fee)
	if overflow {
		return Transfer{}, errcode.Wrap(errcode.Overflow, "withheld on %s", to)
	}
	dst.Amount = credited
	dst.WithheldAmount = withheld
	return Transfer{Mint: src.Mint, From: from, To: to, Amount: amount, Fee: fee}, nil
}

// Burn destroys amount tokens held in account.
func (tx *Tx) Burn(account, authority solana.PublicKey, amount uint64) error {
	acct, err := tx.TokenAccount(account)
	if err != nil {
		return err
	}
	if err := tx.spend(acct, account, authority, amount); err != nil {
		return err
	}
	m, err := tx.Mint(acct.Mint)
	if err != nil {
		return err
	}
	supply, underflow := math.SafeSub(m.Supply, amount)
	if underflow {
		return errcode.Wrap(errcode.InsufficientFunds, "burn %d of supply %d", amount, m.Supply)
	}
	m.Supply = supply
	return nil
}

// CloseTokenAccount deletes an empty token account and refunds its rent.
func (tx *Tx) CloseTokenAccount(account, receiver, owner solana.PublicKey) (uint64, error) {
	acct, err := tx.ownedAccount(account, owner)
	if err != nil {
		return 0, err
	}
	if acct.Amount != 0 {
		return 0, errcode.Wrap(errcode.NonNativeHasBalance, "close %s holding %d", account, acct.Amount)
	}
	refund, err := tx.Close(account, receiver)
	if err != nil {
		return 0, err
	}
	tx.tokens.del(account)
	return refund, nil
}

// CloseMint deletes a mint with no supply and refunds its rent.
func (tx *Tx) CloseMint(mint, receiver, authority solana.PublicKey) (uint64, error) {
	m, err := tx.Mint(mint)
	if err != nil {
		return 0, err
	}
	if !m.MintAuthority.Equals(authority) {
		return 0, errcode.Wrap(errcode.OwnerMismatch, "mint authority %s, got %s", m.MintAuthority, authority)
	}
	if m.Supply != 0 {
		return 0, errcode.Wrap(errcode.NonNativeHasBalance, "close mint %s with supply %d", mint, m.Supply)
	}
	refund, err := tx.Close(mint, receiver)
	if err != nil {
		return 0, err
	}
	tx.mints.del(mint)
	return refund, nil
}

func (tx *Tx) ownedAccount(account, owner solana.PublicKey) (*model.TokenAccount, error) {
	acct, err := tx.TokenAccount(account)
	if err != nil {
		return nil, err
	}
	if !acct.Owner.Equals(owner) {
		return nil, errcode.Wrap(errcode.OwnerMismatch, "account %s owned by %s", account, acct.Owner)
	}
	return acct, nil
}

// spend debits amount from acct on behalf of authority, consuming the
// delegate allowance when authority is not the owner.
func (tx *Tx) spend(acct *model.TokenAccount, key, authority solana.PublicKey, amount uint64) error {
	if !acct.Owner.Equals(authority) {
		if !acct.HasDelegate() || !acct.Delegate.Equals(authority) {
			return errcode.Wrap(errcode.OwnerMismatch, "%s is neither owner nor delegate of %s", authority, key)
		}
		if acct.DelegatedAmount < amount {
			return errcode.Wrap(errcode.OwnerMismatch, "delegate allowance %d < %d on %s", acct.DelegatedAmount, amount, key)
		}
	}
	if acct.Amount < amount {
		return errcode.Wrap(errcode.InsufficientFunds, "%s holds %d, need %d", key, acct.Amount, amount)
	}
	acct.Amount -= amount
	if !acct.Owner.Equals(authority) {
		acct.DelegatedAmount -= amount
		if acct.DelegatedAmount == 0 {
			acct.Delegate = solana.PublicKey{}
		}
	}
	return nil
}
