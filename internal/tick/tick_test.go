package tick

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"liquidityEngine/internal/clmath"
	"liquidityEngine/internal/errcode"
)

func TestStartIndexAndOffset(t *testing.T) {
	require.Equal(t, int32(-11264), StartIndex(-1280, 128))
	require.Equal(t, int32(0), StartIndex(1280, 128))
	require.Equal(t, int32(-11264), StartIndex(-11264, 128))
	require.Equal(t, int32(-88), StartIndex(-1, 1))

	off, err := Offset(-11264, -1280, 128)
	require.NoError(t, err)
	require.Equal(t, 78, off)

	off, err = Offset(0, 1280, 128)
	require.NoError(t, err)
	require.Equal(t, 10, off)

	_, err = Offset(0, 11264, 128)
	require.ErrorIs(t, err, errcode.TickNotFound)
	_, err = Offset(0, 100, 128)
	require.ErrorIs(t, err, errcode.TickNotFound)
}

func TestValidateStartIndex(t *testing.T) {
	require.NoError(t, ValidateStartIndex(0, 128))
	require.NoError(t, ValidateStartIndex(-11264, 128))
	require.NoError(t, ValidateStartIndex(StartIndex(clmath.MinTickIndex, 128), 128))
	require.ErrorIs(t, ValidateStartIndex(128, 128), errcode.InvalidStartTick)
	require.ErrorIs(t, ValidateStartIndex(StartIndex(clmath.MinTickIndex, 128)-11264, 128), errcode.InvalidStartTick)
	require.ErrorIs(t, ValidateStartIndex(0, 0), errcode.InvalidTickSpacing)
}

func TestArrayVariantsAgree(t *testing.T) {
	pool := solana.NewWallet().PublicKey()
	for _, kind := range []Kind{KindFixed, KindDynamic} {
		t.Run(kind.String(), func(t *testing.T) {
			arr := New(kind, pool, 0)
			before := arr.DataLen()

			_, allocated, err := GetOrInitialize(arr, 1280, 128)
			require.NoError(t, err)
			require.Equal(t, kind == KindDynamic, allocated)
			_, _, err = GetOrInitialize(arr, 11264, 128)
			require.ErrorIs(t, err, errcode.TickNotFound)

			tk := Tick{Initialized: true, LiquidityNet: clmath.NewInt128(5), LiquidityGross: uint128.From64(5)}
			require.NoError(t, arr.Update(1280, 128, tk))
			require.True(t, arr.IsInitialized(1280, 128))
			_, allocated, err = GetOrInitialize(arr, 1280, 128)
			require.NoError(t, err)
			require.False(t, allocated)

			got, err := arr.Get(1280, 128)
			require.NoError(t, err)
			require.Equal(t, tk, got)
			require.Equal(t, tk, arr.At(10))

			clone := arr.Clone()
			require.NoError(t, arr.Update(1280, 128, Tick{}))
			got, err = clone.Get(1280, 128)
			require.NoError(t, err)
			require.True(t, got.Initialized)

			if kind == KindDynamic {
				require.Equal(t, DynamicArrayMinLen, before)
				require.Equal(t, before+DynamicTickDataLen, clone.DataLen())
				require.Equal(t, before, arr.DataLen())
			} else {
				require.Equal(t, FixedArrayLen, arr.DataLen())
			}
		})
	}
}

func TestDynamicBitmap(t *testing.T) {
	arr := NewDynamic(solana.PublicKey{}, 0)
	arr.SetAt(0, Tick{Initialized: true})
	arr.SetAt(70, Tick{Initialized: true})
	bm := arr.Bitmap()
	require.Equal(t, uint64(1), bm.Lo)
	require.Equal(t, uint64(1)<<6, bm.Hi)
	require.Equal(t, 2, arr.Allocated())
	require.Equal(t, DynamicArrayMaxLen, DynamicArrayMinLen+88*DynamicTickDataLen)
	require.Equal(t, 148, DynamicArrayMinLen)
	require.Equal(t, 9988, FixedArrayLen)
}
