package dex

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"liquidityEngine/internal/model"
)

// SPL token base layouts. Token-2022 accounts share the base and append
// extensions after it.
const (
	MintLen         = 82
	TokenAccountLen = 165
)

// DecodeMint parses the base SPL mint layout. Extensions are ignored.
func DecodeMint(data []byte) (*model.Mint, error) {
	if len(data) < MintLen {
		return nil, fmt.Errorf("decode mint: length %d < %d", len(data), MintLen)
	}
	r := newReader(data[:MintLen])
	m := &model.Mint{}
	m.MintAuthority = r.optionKey()
	m.Supply = r.u64()
	m.Decimals = r.u8()
	initialized := r.boolean()
	_ = r.optionKey() // freeze authority
	if r.err != nil {
		return nil, fmt.Errorf("decode mint: %w", r.err)
	}
	if !initialized {
		return nil, fmt.Errorf("decode mint: not initialized")
	}
	return m, nil
}

// EncodeMint writes the base SPL mint layout.
func EncodeMint(m *model.Mint) ([]byte, error) {
	w := newWriter(MintLen)
	w.optionKey(m.MintAuthority)
	w.u64(m.Supply)
	w.u8(m.Decimals)
	w.boolean(true)
	w.optionKey(solana.PublicKey{})
	out, err := w.finish(MintLen)
	if err != nil {
		return nil, fmt.Errorf("encode mint: %w", err)
	}
	return out, nil
}

// DecodeTokenAccount parses the base SPL token account layout.
func DecodeTokenAccount(data []byte) (*model.TokenAccount, error) {
	if len(data) < TokenAccountLen {
		return nil, fmt.Errorf("decode token account: length %d < %d", len(data), TokenAccountLen)
	}
	r := newReader(data[:TokenAccountLen])
	a := &model.TokenAccount{}
	a.Mint = r.key()
	a.Owner = r.key()
	a.Amount = r.u64()
	a.Delegate = r.optionKey()
	state := r.u8()
	_ = r.bytes(12) // is_native
	a.DelegatedAmount = r.u64()
	_ = r.optionKey() // close authority
	if r.err != nil {
		return nil, fmt.Errorf("decode token account: %w", r.err)
	}
	if state == 0 {
		return nil, fmt.Errorf("decode token account: not initialized")
	}
	return a, nil
}
