package model

import (
	"github.com/gagliardetto/solana-go"

	"liquidityEngine/internal/clmath"
)

// Mint is an SPL token mint. TransferFee is set for Token-2022 mints with the
// transfer fee extension.
type Mint struct {
	Decimals      uint8
	Supply        uint64
	MintAuthority solana.PublicKey
	TransferFee   *clmath.TransferFee
}

// Fee returns the mint's transfer fee, or the zero fee.
func (m *Mint) Fee() clmath.TransferFee {
	if m == nil || m.TransferFee == nil {
		return clmath.TransferFee{}
	}
	return *m.TransferFee
}

// TokenAccount is an SPL token account.
type TokenAccount struct {
	Mint            solana.PublicKey
	Owner           solana.PublicKey
	Amount          uint64
	Delegate        solana.PublicKey
	DelegatedAmount uint64
	// WithheldAmount accumulates transfer fees charged on incoming transfers.
	WithheldAmount uint64
}

// HasDelegate reports whether a delegate is set.
func (a *TokenAccount) HasDelegate() bool {
	return !a.Delegate.IsZero()
}

// TokenMeta captures display metadata for a mint.
type TokenMeta struct {
	Address  string `json:"address"`
	Decimals uint8  `json:"decimals"`
	Symbol   string `json:"symbol"`
}
