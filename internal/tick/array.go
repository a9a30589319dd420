package tick

import (
	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"

	"liquidityEngine/internal/clmath"
)

// Kind distinguishes the two tick array storage layouts.
type Kind uint8

const (
	// KindFixed preallocates all slots.
	KindFixed Kind = iota
	// KindDynamic stores only initialized ticks and grows on demand.
	KindDynamic
)

func (k Kind) String() string {
	if k == KindDynamic {
		return "dynamic"
	}
	return "fixed"
}

// Serialized sizes of the two array layouts.
const (
	TickSize             = 113
	FixedArrayLen        = 8 + 4 + clmath.TickArraySize*TickSize + 32
	DynamicTickDataLen   = 112
	DynamicArrayMinLen   = 8 + 4 + 32 + 16 + clmath.TickArraySize
	DynamicArrayMaxLen   = DynamicArrayMinLen + clmath.TickArraySize*DynamicTickDataLen
	dynamicBitmapMaxBits = 128
)

// Array is a container of TickArraySize consecutive ticks. Both variants
// answer reads and writes identically; they differ only in storage.
type Array interface {
	Kind() Kind
	StartIndex() int32
	Pool() solana.PublicKey
	Get(tickIndex int32, spacing uint16) (Tick, error)
	Update(tickIndex int32, spacing uint16, t Tick) error
	IsInitialized(tickIndex int32, spacing uint16) bool
	// At returns the tick stored in slot i, zero if unallocated.
	At(i int) Tick
	// DataLen is the serialized size of the array in its current state.
	DataLen() int
	Clone() Array
}

// New creates an empty array of the given kind.
func New(kind Kind, pool solana.PublicKey, start int32) Array {
	if kind == KindDynamic {
		return NewDynamic(pool, start)
	}
	return NewFixed(pool, start)
}

// GetOrInitialize reads the tick at tickIndex for a pending update.
// allocated reports whether a dynamic array must grow to store it.
func GetOrInitialize(a Array, tickIndex int32, spacing uint16) (t Tick, allocated bool, err error) {
	t, err = a.Get(tickIndex, spacing)
	if err != nil {
		return Tick{}, false, err
	}
	return t, a.Kind() == KindDynamic && !t.Initialized, nil
}

// FixedArray preallocates every slot.
type FixedArray struct {
	start int32
	pool  solana.PublicKey
	ticks [clmath.TickArraySize]Tick
}

func NewFixed(pool solana.PublicKey, start int32) *FixedArray {
	return &FixedArray{start: start, pool: pool}
}

func (a *FixedArray) Kind() Kind             { return KindFixed }
func (a *FixedArray) StartIndex() int32      { return a.start }
func (a *FixedArray) Pool() solana.PublicKey { return a.pool }
func (a *FixedArray) DataLen() int           { return FixedArrayLen }
func (a *FixedArray) At(i int) Tick          { return a.ticks[i] }

func (a *FixedArray) Get(tickIndex int32, spacing uint16) (Tick, error) {
	off, err := Offset(a.start, tickIndex, spacing)
	if err != nil {
		return Tick{}, err
	}
	return a.ticks[off], nil
}

func (a *FixedArray) Update(tickIndex int32, spacing uint16, t Tick) error {
	off, err := Offset(a.start, tickIndex, spacing)
	if err != nil {
		return err
	}
	a.ticks[off] = t
	return nil
}

func (a *FixedArray) IsInitialized(tickIndex int32, spacing uint16) bool {
	t, err := a.Get(tickIndex, spacing)
	return err == nil && t.Initialized
}

// SetAt writes slot i directly, used by decoders.
func (a *FixedArray) SetAt(i int, t Tick) { a.ticks[i] = t }

func (a *FixedArray) Clone() Array {
	cp := *a
	return &cp
}

// DynamicArray stores only initialized ticks. Writing an initialized tick
// into an empty slot grows the array by DynamicTickDataLen bytes and
// writing an uninitialized tick releases the slot.
type DynamicArray struct {
	start int32
	pool  solana.PublicKey
	ticks map[int]Tick
}

func NewDynamic(pool solana.PublicKey, start int32) *DynamicArray {
	return &DynamicArray{start: start, pool: pool, ticks: make(map[int]Tick)}
}

func (a *DynamicArray) Kind() Kind             { return KindDynamic }
func (a *DynamicArray) StartIndex() int32      { return a.start }
func (a *DynamicArray) Pool() solana.PublicKey { return a.pool }

func (a *DynamicArray) DataLen() int {
	return DynamicArrayMinLen + len(a.ticks)*DynamicTickDataLen
}

func (a *DynamicArray) At(i int) Tick { return a.ticks[i] }

func (a *DynamicArray) Get(tickIndex int32, spacing uint16) (Tick, error) {
	off, err := Offset(a.start, tickIndex, spacing)
	if err != nil {
		return Tick{}, err
	}
	return a.ticks[off], nil
}

func (a *DynamicArray) Update(tickIndex int32, spacing uint16, t Tick) error {
	off, err := Offset(a.start, tickIndex, spacing)
	if err != nil {
		return err
	}
	a.SetAt(off, t)
	return nil
}

func (a *DynamicArray) IsInitialized(tickIndex int32, spacing uint16) bool {
	t, err := a.Get(tickIndex, spacing)
	return err == nil && t.Initialized
}

// SetAt writes slot i directly, allocating or releasing it.
func (a *DynamicArray) SetAt(i int, t Tick) {
	if !t.Initialized {
		delete(a.ticks, i)
		return
	}
	a.ticks[i] = t
}

// Bitmap marks allocated slots, bit i for slot i.
func (a *DynamicArray) Bitmap() uint128.Uint128 {
	var bm uint128.Uint128
	for i := range a.ticks {
		if i < 64 {
			bm.Lo |= 1 << uint(i)
		} else if i < dynamicBitmapMaxBits {
			bm.Hi |= 1 << uint(i-64)
		}
	}
	return bm
}

// Allocated returns the number of stored ticks.
func (a *DynamicArray) Allocated() int { return len(a.ticks) }

func (a *DynamicArray) Clone() Array {
	cp := &DynamicArray{start: a.start, pool: a.pool, ticks: make(map[int]Tick, len(a.ticks))}
	for k, v := range a.ticks {
		cp.ticks[k] = v
	}
	return cp
}
