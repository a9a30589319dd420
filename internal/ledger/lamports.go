package ledger

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gagliardetto/solana-go"

	"liquidityEngine/internal/errcode"
)

// Rent parameters of the default cluster configuration.
const (
	AccountStorageOverhead = 128
	LamportsPerByte        = 6960
)

// RentExempt returns the minimum balance for an account of dataLen bytes.
func RentExempt(dataLen int) uint64 {
	return uint64(dataLen+AccountStorageOverhead) * LamportsPerByte
}

// RentForBytes returns the rent of n additional data bytes.
func RentForBytes(n int) uint64 {
	return uint64(n) * LamportsPerByte
}

// Account returns a mutable copy of the system record at key.
func (tx *Tx) Account(key solana.PublicKey) (*Account, error) {
	a, ok := tx.accounts.get(key)
	if !ok {
		return nil, notFound("account", key)
	}
	return a, nil
}

// Lamports returns the balance at key, zero if no account exists.
func (tx *Tx) Lamports(key solana.PublicKey) uint64 {
	a, ok := tx.accounts.get(key)
	if !ok {
		return 0
	}
	return a.Lamports
}

// Fund credits lamports to key, creating a data-less account if needed.
func (tx *Tx) Fund(key solana.PublicKey, lamports uint64) error {
	a, ok := tx.accounts.get(key)
	if !ok {
		a = &Account{}
		tx.accounts.put(key, a)
	}
	sum, overflow := math.SafeAdd(a.Lamports, lamports)
	if overflow {
		return errcode.Wrap(errcode.Overflow, "fund %s", key)
	}
	a.Lamports = sum
	return nil
}

// Allocate creates an account of dataLen bytes at key, paid by funder at
// the rent-exempt minimum. It returns the lamports charged.
func (tx *Tx) Allocate(key solana.PublicKey, dataLen int, funder solana.PublicKey) (uint64, error) {
	if tx.Exists(key) {
		return 0, errcode.Wrap(errcode.AccountAlreadyInUse, "allocate %s", key)
	}
	rent := RentExempt(dataLen)
	if err := tx.debit(funder, rent); err != nil {
		return 0, err
	}
	tx.accounts.put(key, &Account{Lamports: rent, DataLen: dataLen})
	return rent, nil
}

// Resize changes the data length at key without moving lamports.
func (tx *Tx) Resize(key solana.PublicKey, dataLen int) error {
	a, err := tx.Account(key)
	if err != nil {
		return err
	}
	a.DataLen = dataLen
	return nil
}

// MoveLamports transfers n lamports between two existing accounts.
func (tx *Tx) MoveLamports(from, to solana.PublicKey, n uint64) error {
	if n == 0 {
		return nil
	}
	dst, err := tx.Account(to)
	if err != nil {
		return err
	}
	if err := tx.debit(from, n); err != nil {
		return err
	}
	sum, overflow := math.SafeAdd(dst.Lamports, n)
	if overflow {
		return errcode.Wrap(errcode.Overflow, "credit %s", to)
	}
	dst.Lamports = sum
	return nil
}

// Close removes the system record at key and credits its lamports to
// receiver. It returns the amount refunded.
func (tx *Tx) Close(key, receiver solana.PublicKey) (uint64, error) {
	a, err := tx.Account(key)
	if err != nil {
		return 0, err
	}
	refund := a.Lamports
	if err := tx.Fund(receiver, refund); err != nil {
		return 0, err
	}
	tx.accounts.del(key)
	return refund, nil
}

func (tx *Tx) debit(key solana.PublicKey, n uint64) error {
	a, err := tx.Account(key)
	if err != nil {
		return errcode.Wrap(errcode.ResultWithNegativeLamports, "debit %d from missing %s", n, key)
	}
	rest, underflow := math.SafeSub(a.Lamports, n)
	if underflow {
		return errcode.Wrap(errcode.ResultWithNegativeLamports, "debit %d from %s holding %d", n, key, a.Lamports)
	}
	a.Lamports = rest
	return nil
}
