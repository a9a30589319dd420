package clmath

import (
	"math"

	"liquidityEngine/internal/errcode"
)

// TransferFee is a Token-2022 transfer fee configuration.
type TransferFee struct {
	BasisPoints uint16 `json:"basis_points"`
	MaximumFee  uint64 `json:"maximum_fee"`
}

// TransferFeeAmount pairs an amount with the fee it carries.
type TransferFeeAmount struct {
	Amount uint64
	Fee    uint64
}

// Fee returns ceil(amount * bps / 10000) capped at MaximumFee.
func (f TransferFee) Fee(amount uint64) uint64 {
	if f.BasisPoints == 0 || amount == 0 {
		return 0
	}
	raw, err := MulDivU64(amount, uint64(f.BasisPoints), uint64(BPSDenominator), true)
	if err != nil || raw > f.MaximumFee {
		return f.MaximumFee
	}
	return raw
}

// ExcludedAmount is what arrives when amount is sent.
func (f TransferFee) ExcludedAmount(amount uint64) TransferFeeAmount {
	fee := f.Fee(amount)
	return TransferFeeAmount{Amount: amount - fee, Fee: fee}
}

// IncludedAmount is what must be sent for amount to arrive.
func (f TransferFee) IncludedAmount(amount uint64) (TransferFeeAmount, error) {
	if f.BasisPoints == 0 || amount == 0 {
		return TransferFeeAmount{Amount: amount}, nil
	}
	if f.BasisPoints >= BPSDenominator {
		if amount > math.MaxUint64-f.MaximumFee {
			return TransferFeeAmount{}, errcode.TransferFeeCalculationError
		}
		return TransferFeeAmount{Amount: amount + f.MaximumFee, Fee: f.MaximumFee}, nil
	}

	pre, err := f.preFeeAmount(amount)
	if err != nil {
		return TransferFeeAmount{}, err
	}
	fee := f.Fee(pre)
	if amount > math.MaxUint64-fee {
		return TransferFeeAmount{}, errcode.TransferFeeCalculationError
	}
	included := amount + fee
	if f.Fee(included) != fee {
		return TransferFeeAmount{}, errcode.TransferFeeCalculationError
	}
	return TransferFeeAmount{Amount: included, Fee: fee}, nil
}

func (f TransferFee) preFeeAmount(post uint64) (uint64, error) {
	raw, err := MulDivU64(post, uint64(BPSDenominator), uint64(BPSDenominator-f.BasisPoints), true)
	if err != nil {
		return 0, errcode.TransferFeeCalculationError
	}
	if raw-post >= f.MaximumFee {
		if post > math.MaxUint64-f.MaximumFee {
			return 0, errcode.TransferFeeCalculationError
		}
		return post + f.MaximumFee, nil
	}
	return raw, nil
}
