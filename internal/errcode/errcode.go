package errcode

import (
	"errors"
	"fmt"
)

const (
	ProgramWhirlpool = "whirlpool"
	ProgramAnchor    = "anchor"
	ProgramToken     = "token"
	ProgramSystem    = "system"
)

// Error is a program failure surfaced to callers as a small numeric code.
type Error struct {
	Program string
	Code    uint32
	Name    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("custom program error: %#x (%s)", e.Code, e.Name)
}

// Is matches any *Error carrying the same program and code, so wrapped
// copies still satisfy errors.Is against the sentinels below.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Program == other.Program && e.Code == other.Code
}

// Hex renders the code the way explorers and the test suites print it.
func (e *Error) Hex() string {
	return fmt.Sprintf("%#x", e.Code)
}

// Wrap attaches context to a program error while keeping it matchable.
func Wrap(code *Error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), code)
}

// From extracts the program error from err, if any.
func From(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func whirlpool(code uint32, name string) *Error {
	return register(&Error{Program: ProgramWhirlpool, Code: code, Name: name})
}

func anchor(code uint32, name string) *Error {
	return register(&Error{Program: ProgramAnchor, Code: code, Name: name})
}

func token(code uint32, name string) *Error {
	return register(&Error{Program: ProgramToken, Code: code, Name: name})
}

func system(code uint32, name string) *Error {
	return register(&Error{Program: ProgramSystem, Code: code, Name: name})
}

var byName = map[string]*Error{}

func register(e *Error) *Error {
	byName[e.Name] = e
	return e
}

// Lookup returns the registered error with the given name.
func Lookup(name string) (*Error, bool) {
	e, ok := byName[name]
	return e, ok
}

var (
	InvalidStartTick                 = whirlpool(6001, "InvalidStartTick")
	TickArrayExistInPool             = whirlpool(6002, "TickArrayExistInPool")
	TickArrayIndexOutofBounds        = whirlpool(6003, "TickArrayIndexOutofBounds")
	InvalidTickSpacing               = whirlpool(6004, "InvalidTickSpacing")
	ClosePositionNotEmpty            = whirlpool(6005, "ClosePositionNotEmpty")
	DivideByZero                     = whirlpool(6006, "DivideByZero")
	NumberCastError                  = whirlpool(6007, "NumberCastError")
	TickNotFound                     = whirlpool(6009, "TickNotFound")
	InvalidTickRange                 = whirlpool(6010, "InvalidTickRange")
	SqrtPriceOutOfBounds             = whirlpool(6011, "SqrtPriceOutOfBounds")
	LiquidityZero                    = whirlpool(6012, "LiquidityZero")
	LiquidityTooHigh                 = whirlpool(6013, "LiquidityTooHigh")
	LiquidityOverflow                = whirlpool(6014, "LiquidityOverflow")
	LiquidityUnderflow               = whirlpool(6015, "LiquidityUnderflow")
	LiquidityNetOverflow             = whirlpool(6016, "LiquidityNetOverflow")
	TokenMaxExceeded                 = whirlpool(6017, "TokenMaxExceeded")
	TokenMinSubceeded                = whirlpool(6018, "TokenMinSubceeded")
	MissingOrInvalidDelegate         = whirlpool(6019, "MissingOrInvalidDelegate")
	InvalidPositionTokenAmount       = whirlpool(6020, "InvalidPositionTokenAmount")
	InvalidTimestamp                 = whirlpool(6022, "InvalidTimestamp")
	InvalidTickArraySequence         = whirlpool(6023, "InvalidTickArraySequence")
	InvalidTokenMintOrder            = whirlpool(6024, "InvalidTokenMintOrder")
	RewardNotInitialized             = whirlpool(6025, "RewardNotInitialized")
	InvalidRewardIndex               = whirlpool(6026, "InvalidRewardIndex")
	RewardVaultAmountInsufficient    = whirlpool(6027, "RewardVaultAmountInsufficient")
	FeeRateMaxExceeded               = whirlpool(6028, "FeeRateMaxExceeded")
	ProtocolFeeRateMaxExceeded       = whirlpool(6029, "ProtocolFeeRateMaxExceeded")
	MultiplicationShiftRightOverflow = whirlpool(6030, "MultiplicationShiftRightOverflow")
	MulDivOverflow                   = whirlpool(6031, "MulDivOverflow")
	MultiplicationOverflow           = whirlpool(6033, "MultiplicationOverflow")
	InvalidSqrtPriceLimitDirection   = whirlpool(6034, "InvalidSqrtPriceLimitDirection")
	ZeroTradableAmount               = whirlpool(6035, "ZeroTradableAmount")
	AmountOutBelowMinimum            = whirlpool(6036, "AmountOutBelowMinimum")
	AmountInAboveMaximum             = whirlpool(6037, "AmountInAboveMaximum")
	TickArraySequenceInvalidIndex    = whirlpool(6038, "TickArraySequenceInvalidIndex")
	AmountCalcOverflow               = whirlpool(6039, "AmountCalcOverflow")
	TransferFeeCalculationError      = whirlpool(6052, "TransferFeeCalculationError")
	TickArrayMismatch                = whirlpool(6056, "TickArrayMismatch")

	PoolMismatch          = anchor(2001, "PoolMismatch")
	ConstraintViolation   = anchor(2003, "ConstraintViolation")
	AccountNotInitialized = anchor(3012, "AccountNotInitialized")

	InsufficientFunds   = token(0x1, "InsufficientFunds")
	InvalidMint         = token(0x2, "InvalidMint")
	MintMismatch        = token(0x3, "MintMismatch")
	OwnerMismatch       = token(0x4, "OwnerMismatch")
	NonNativeHasBalance = token(0xb, "NonNativeHasBalance")
	Overflow            = token(0xe, "Overflow")

	AccountAlreadyInUse        = system(0x0, "AccountAlreadyInUse")
	ResultWithNegativeLamports = system(0x1, "ResultWithNegativeLamports")
)
