package model

import "github.com/gagliardetto/solana-go"

// Signers is the set of keys that signed an instruction.
type Signers []solana.PublicKey

// Has reports whether key signed.
func (s Signers) Has(key solana.PublicKey) bool {
	for _, k := range s {
		if k.Equals(key) {
			return true
		}
	}
	return false
}
