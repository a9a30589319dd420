package dex

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"

	"liquidityEngine/internal/clmath"
)

var le = binary.LittleEndian

// writer accumulates the first encoding error so layouts read top to bottom.
type writer struct {
	buf *bytes.Buffer
	enc *bin.Encoder
	err error
}

func newWriter(size int) *writer {
	buf := bytes.NewBuffer(make([]byte, 0, size))
	return &writer{buf: buf, enc: bin.NewBinEncoder(buf)}
}

func (w *writer) bytes(b []byte) {
	if w.err == nil {
		w.err = w.enc.WriteBytes(b, false)
	}
}

func (w *writer) key(k solana.PublicKey) { w.bytes(k[:]) }

func (w *writer) u8(v uint8) {
	if w.err == nil {
		w.err = w.enc.WriteUint8(v)
	}
}

func (w *writer) boolean(v bool) {
	if w.err == nil {
		w.err = w.enc.WriteBool(v)
	}
}

func (w *writer) u16(v uint16) {
	if w.err == nil {
		w.err = w.enc.WriteUint16(v, le)
	}
}

func (w *writer) i32(v int32) {
	if w.err == nil {
		w.err = w.enc.WriteInt32(v, le)
	}
}

func (w *writer) u64(v uint64) {
	if w.err == nil {
		w.err = w.enc.WriteUint64(v, le)
	}
}

func (w *writer) u128(v uint128.Uint128) {
	w.u64(v.Lo)
	w.u64(v.Hi)
}

func (w *writer) i128(v clmath.Int128) {
	w.u64(v.Lo)
	w.u64(v.Hi)
}

func (w *writer) finish(want int) ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if want > 0 && w.buf.Len() != want {
		return nil, fmt.Errorf("encoded %d bytes, want %d", w.buf.Len(), want)
	}
	return w.buf.Bytes(), nil
}

// reader mirrors writer for decoding.
type reader struct {
	dec *bin.Decoder
	err error
}

func newReader(data []byte) *reader {
	return &reader{dec: bin.NewBinDecoder(data)}
}

func (r *reader) bytes(n int) []byte {
	if r.err != nil {
		return make([]byte, n)
	}
	b, err := r.dec.ReadNBytes(n)
	if err != nil {
		r.err = err
		return make([]byte, n)
	}
	return b
}

func (r *reader) key() solana.PublicKey {
	return solana.PublicKeyFromBytes(r.bytes(solana.PublicKeyLength))
}

func (r *reader) u8() uint8 {
	if r.err != nil {
		return 0
	}
	v, err := r.dec.ReadUint8()
	r.err = err
	return v
}

func (r *reader) boolean() bool {
	if r.err != nil {
		return false
	}
	v, err := r.dec.ReadBool()
	r.err = err
	return v
}

func (r *reader) u16() uint16 {
	if r.err != nil {
		return 0
	}
	v, err := r.dec.ReadUint16(le)
	r.err = err
	return v
}

func (r *reader) i32() int32 {
	if r.err != nil {
		return 0
	}
	v, err := r.dec.ReadInt32(le)
	r.err = err
	return v
}

func (r *reader) u64() uint64 {
	if r.err != nil {
		return 0
	}
	v, err := r.dec.ReadUint64(le)
	r.err = err
	return v
}

func (r *reader) u128() uint128.Uint128 {
	lo := r.u64()
	hi := r.u64()
	return uint128.New(lo, hi)
}

func (r *reader) i128() clmath.Int128 {
	lo := r.u64()
	hi := r.u64()
	return clmath.Int128{Lo: lo, Hi: hi}
}

// optionKey reads a COption<Pubkey>: a u32 tag followed by the key.
func (r *reader) optionKey() solana.PublicKey {
	tag := r.bytes(4)
	k := r.key()
	if le.Uint32(tag) == 0 {
		return solana.PublicKey{}
	}
	return k
}

func (w *writer) optionKey(k solana.PublicKey) {
	var tag [4]byte
	if !k.IsZero() {
		le.PutUint32(tag[:], 1)
	}
	w.bytes(tag[:])
	w.key(k)
}
