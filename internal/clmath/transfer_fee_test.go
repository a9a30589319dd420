package clmath

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransferFee(t *testing.T) {
	fee := TransferFee{BasisPoints: 100, MaximumFee: 1_000_000}
	require.Equal(t, uint64(100), fee.Fee(10_000))
	require.Equal(t, uint64(1), fee.Fee(1))
	require.Zero(t, fee.Fee(0))
	require.Zero(t, TransferFee{}.Fee(10_000))

	capped := TransferFee{BasisPoints: 100, MaximumFee: 500}
	require.Equal(t, uint64(500), capped.Fee(10_000_000))
}

func TestTransferFeeIncludedAmount(t *testing.T) {
	cases := []struct {
		name     string
		fee      TransferFee
		amount   uint64
		included uint64
		charged  uint64
	}{
		{"no fee", TransferFee{}, 167_000, 167_000, 0},
		{"zero amount", TransferFee{BasisPoints: 100, MaximumFee: 10}, 0, 0, 0},
		{"round trip", TransferFee{BasisPoints: 100, MaximumFee: 1_000_000}, 9_900, 10_000, 100},
		{"uncapped", TransferFee{BasisPoints: 100, MaximumFee: 1_000_000}, 167_000, 168_687, 1_687},
		{"capped", TransferFee{BasisPoints: 100, MaximumFee: 500}, 167_000, 167_500, 500},
		{"full bps", TransferFee{BasisPoints: 10_000, MaximumFee: 42}, 1_000, 1_042, 42},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.fee.IncludedAmount(tc.amount)
			require.NoError(t, err)
			require.Equal(t, tc.included, got.Amount)
			require.Equal(t, tc.charged, got.Fee)
			if tc.fee.BasisPoints < BPSDenominator {
				require.Equal(t, tc.amount, tc.fee.ExcludedAmount(got.Amount).Amount)
			}
		})
	}
}

func TestTransferFeeExcludedAmount(t *testing.T) {
	fee := TransferFee{BasisPoints: 250, MaximumFee: 1_000_000}
	got := fee.ExcludedAmount(166_999)
	require.Equal(t, uint64(4_175), got.Fee)
	require.Equal(t, uint64(162_824), got.Amount)
}
