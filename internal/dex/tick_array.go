package dex

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"liquidityEngine/internal/clmath"
	"liquidityEngine/internal/tick"
)

func writeTickData(w *writer, t tick.Tick) {
	w.i128(t.LiquidityNet)
	w.u128(t.LiquidityGross)
	w.u128(t.FeeGrowthOutsideA)
	w.u128(t.FeeGrowthOutsideB)
	for _, g := range t.RewardGrowthsOutside {
		w.u128(g)
	}
}

func readTickData(r *reader) tick.Tick {
	var t tick.Tick
	t.LiquidityNet = r.i128()
	t.LiquidityGross = r.u128()
	t.FeeGrowthOutsideA = r.u128()
	t.FeeGrowthOutsideB = r.u128()
	for i := range t.RewardGrowthsOutside {
		t.RewardGrowthsOutside[i] = r.u128()
	}
	return t
}

// EncodeTickArray serializes either array variant in its on-chain layout.
func EncodeTickArray(a tick.Array) ([]byte, error) {
	switch arr := a.(type) {
	case *tick.FixedArray:
		return encodeFixed(arr)
	case *tick.DynamicArray:
		return encodeDynamic(arr)
	default:
		return nil, fmt.Errorf("encode tick array: unsupported %T", a)
	}
}

func encodeFixed(a *tick.FixedArray) ([]byte, error) {
	w := newWriter(tick.FixedArrayLen)
	d := Discriminator(KindFixedTickArray)
	w.bytes(d[:])
	w.i32(a.StartIndex())
	for i := 0; i < clmath.TickArraySize; i++ {
		t := a.At(i)
		w.boolean(t.Initialized)
		writeTickData(w, t)
	}
	w.key(a.Pool())
	out, err := w.finish(tick.FixedArrayLen)
	if err != nil {
		return nil, fmt.Errorf("encode fixed tick array: %w", err)
	}
	return out, nil
}

func encodeDynamic(a *tick.DynamicArray) ([]byte, error) {
	w := newWriter(a.DataLen())
	d := Discriminator(KindDynamicTickArray)
	w.bytes(d[:])
	w.i32(a.StartIndex())
	w.key(a.Pool())
	w.u128(a.Bitmap())
	for i := 0; i < clmath.TickArraySize; i++ {
		t := a.At(i)
		if !t.Initialized {
			w.u8(0)
			continue
		}
		w.u8(1)
		writeTickData(w, t)
	}
	out, err := w.finish(a.DataLen())
	if err != nil {
		return nil, fmt.Errorf("encode dynamic tick array: %w", err)
	}
	return out, nil
}

// DecodeTickArray parses fixed or dynamic tick array data, picking the
// variant from the discriminator.
func DecodeTickArray(data []byte) (tick.Array, error) {
	kind, ok := Identify(data)
	if !ok {
		return nil, fmt.Errorf("decode tick array: unknown discriminator")
	}
	switch kind {
	case KindFixedTickArray:
		return decodeFixed(data)
	case KindDynamicTickArray:
		return decodeDynamic(data)
	default:
		return nil, fmt.Errorf("decode tick array: account is a %s", kind)
	}
}

func decodeFixed(data []byte) (*tick.FixedArray, error) {
	if err := checkHeader(data, KindFixedTickArray, tick.FixedArrayLen, tick.FixedArrayLen); err != nil {
		return nil, err
	}
	r := newReader(data[DiscriminatorLen:])
	start := r.i32()
	var ticks [clmath.TickArraySize]tick.Tick
	for i := range ticks {
		initialized := r.boolean()
		ticks[i] = readTickData(r)
		ticks[i].Initialized = initialized
	}
	pool := r.key()
	if r.err != nil {
		return nil, fmt.Errorf("decode fixed tick array: %w", r.err)
	}
	arr := tick.NewFixed(pool, start)
	for i, t := range ticks {
		arr.SetAt(i, t)
	}
	return arr, nil
}

func decodeDynamic(data []byte) (*tick.DynamicArray, error) {
	if err := checkHeader(data, KindDynamicTickArray, tick.DynamicArrayMinLen, tick.DynamicArrayMaxLen); err != nil {
		return nil, err
	}
	r := newReader(data[DiscriminatorLen:])
	start := r.i32()
	pool := r.key()
	bitmap := r.u128()
	if r.err != nil {
		return nil, fmt.Errorf("decode dynamic tick array: %w", r.err)
	}

	arr := tick.NewDynamic(pool, start)
	for i := 0; i < clmath.TickArraySize; i++ {
		tag := r.u8()
		set := bitmap.Rsh(uint(i)).Lo&1 == 1
		switch {
		case r.err != nil:
			return nil, fmt.Errorf("decode dynamic tick array: slot %d: %w", i, r.err)
		case tag > 1:
			return nil, fmt.Errorf("decode dynamic tick array: slot %d tag %d", i, tag)
		case (tag == 1) != set:
			return nil, fmt.Errorf("decode dynamic tick array: slot %d disagrees with bitmap", i)
		case tag == 0:
			continue
		}
		t := readTickData(r)
		t.Initialized = true
		arr.SetAt(i, t)
	}
	if r.err != nil {
		return nil, fmt.Errorf("decode dynamic tick array: %w", r.err)
	}
	if arr.DataLen() != len(data) {
		return nil, fmt.Errorf("decode dynamic tick array: %d bytes for %d ticks", len(data), arr.Allocated())
	}
	return arr, nil
}

// TickArrayPool reads the owning pool from either layout without decoding
// the ticks.
func TickArrayPool(data []byte) (solana.PublicKey, error) {
	kind, ok := Identify(data)
	switch {
	case !ok:
		return solana.PublicKey{}, fmt.Errorf("tick array pool: unknown discriminator")
	case kind == KindFixedTickArray && len(data) == tick.FixedArrayLen:
		return solana.PublicKeyFromBytes(data[tick.FixedArrayLen-32:]), nil
	case kind == KindDynamicTickArray && len(data) >= tick.DynamicArrayMinLen:
		return solana.PublicKeyFromBytes(data[12:44]), nil
	default:
		return solana.PublicKey{}, fmt.Errorf("tick array pool: %s of %d bytes", kind, len(data))
	}
}
