package clmath

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestPriceToSqrtPrice(t *testing.T) {
	cases := []struct {
		price                string
		decimalsA, decimalsB uint8
		want                 string
	}{
		{"0.00999999", 8, 6, "184467348503352089"},
		{"100", 6, 6, "184467440737095516160"},
		{"100.0111", 6, 8, "1844776783959692744140"},
		{"1000000", 6, 6, "18446744073709551616000"},
	}
	for _, tc := range cases {
		got, err := PriceToSqrtPrice(decimal.RequireFromString(tc.price), tc.decimalsA, tc.decimalsB)
		require.NoError(t, err)
		require.Equal(t, tc.want, got.String(), "price %s", tc.price)
	}
}

func TestPriceToSqrtPriceRejectsNonPositive(t *testing.T) {
	_, err := PriceToSqrtPrice(decimal.Zero, 6, 6)
	require.Error(t, err)
}

func TestSqrtPriceToPrice(t *testing.T) {
	sp := mustU128(t, "184467440737095516160")
	require.True(t, SqrtPriceToPrice(sp, 6, 6).Equal(decimal.NewFromInt(100)))
	require.True(t, SqrtPriceToPrice(sp, 8, 6).Equal(decimal.NewFromInt(10000)))

	p, err := TickIndexToPrice(0, 6, 6)
	require.NoError(t, err)
	require.True(t, p.Equal(decimal.NewFromInt(1)))
}

func TestPriceToTickIndex(t *testing.T) {
	cases := []struct {
		price                string
		decimalsA, decimalsB uint8
		want                 int32
	}{
		{"0.009998", 8, 6, -92111},
		{"1", 6, 6, 0},
		{"99.999912", 6, 8, 92108},
	}
	for _, tc := range cases {
		got, err := PriceToTickIndex(decimal.RequireFromString(tc.price), tc.decimalsA, tc.decimalsB)
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}
}

func TestInvertPrice(t *testing.T) {
	got, err := InvertPrice(decimal.NewFromInt(100), 6, 6)
	require.NoError(t, err)
	require.True(t, got.Sub(decimal.RequireFromString("0.01")).Abs().LessThan(decimal.RequireFromString("0.00001")), got.String())
}
