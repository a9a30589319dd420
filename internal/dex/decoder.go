package dex

import (
	"bytes"
	"crypto/sha256"
	"fmt"
)

// AccountKind names a decodable on-chain account.
type AccountKind string

const (
	KindWhirlpool        AccountKind = "Whirlpool"
	KindPosition         AccountKind = "Position"
	KindFixedTickArray   AccountKind = "TickArray"
	KindDynamicTickArray AccountKind = "DynamicTickArray"
)

const DiscriminatorLen = 8

// Discriminator is the Anchor account prefix sha256("account:<Name>")[:8].
func Discriminator(kind AccountKind) [DiscriminatorLen]byte {
	sum := sha256.Sum256([]byte("account:" + string(kind)))
	var out [DiscriminatorLen]byte
	copy(out[:], sum[:DiscriminatorLen])
	return out
}

var discriminators = map[[DiscriminatorLen]byte]AccountKind{}

func init() {
	for _, k := range []AccountKind{KindWhirlpool, KindPosition, KindFixedTickArray, KindDynamicTickArray} {
		discriminators[Discriminator(k)] = k
	}
}

// Identify returns the program account kind of data by its discriminator.
func Identify(data []byte) (AccountKind, bool) {
	if len(data) < DiscriminatorLen {
		return "", false
	}
	var d [DiscriminatorLen]byte
	copy(d[:], data)
	kind, ok := discriminators[d]
	return kind, ok
}

func checkHeader(data []byte, kind AccountKind, minLen, maxLen int) error {
	if len(data) < minLen || len(data) > maxLen {
		return fmt.Errorf("decode %s: length %d outside [%d, %d]", kind, len(data), minLen, maxLen)
	}
	want := Discriminator(kind)
	if !bytes.Equal(data[:DiscriminatorLen], want[:]) {
		return fmt.Errorf("decode %s: discriminator mismatch", kind)
	}
	return nil
}
