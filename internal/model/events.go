package model

import (
	"encoding/json"
)

// EventKind names an engine event.
type EventKind string

const (
	EventPoolInitialized      EventKind = "PoolInitialized"
	EventTickArrayInitialized EventKind = "TickArrayInitialized"
	EventRewardInitialized    EventKind = "RewardInitialized"
	EventRewardEmissionsSet   EventKind = "RewardEmissionsSet"
	EventPositionOpened       EventKind = "PositionOpened"
	EventLiquidityIncreased   EventKind = "LiquidityIncreased"
	EventLiquidityDecreased   EventKind = "LiquidityDecreased"
	EventFeesCollected        EventKind = "FeesCollected"
	EventRewardCollected      EventKind = "RewardCollected"
	EventPositionClosed       EventKind = "PositionClosed"
	EventTraded               EventKind = "Traded"
	EventRejected             EventKind = "Rejected"
)

// LiquidityEvent is the structured record of one successful (or rejected)
// engine operation. Amounts are decimal strings.
type LiquidityEvent struct {
	ID        string    `json:"id"`
	Sequence  uint64    `json:"sequence"`
	Kind      EventKind `json:"kind"`
	Pool      string    `json:"pool"`
	Position  string    `json:"position,omitempty"`
	TickArray string    `json:"tick_array,omitempty"`
	Timestamp int64     `json:"timestamp"`

	Liquidity string `json:"liquidity,omitempty"`
	TickLower int32  `json:"tick_lower"`
	TickUpper int32  `json:"tick_upper"`

	TokenA            string `json:"token_a,omitempty"`
	TokenB            string `json:"token_b,omitempty"`
	TokenATransferFee string `json:"token_a_transfer_fee,omitempty"`
	TokenBTransferFee string `json:"token_b_transfer_fee,omitempty"`

	RewardIndex *int   `json:"reward_index,omitempty"`
	RewardMint  string `json:"reward_mint,omitempty"`

	// Swap fields.
	AToB      *bool  `json:"a_to_b,omitempty"`
	FeeAmount string `json:"fee_amount,omitempty"`

	SqrtPrice   string `json:"sqrt_price,omitempty"`
	TickCurrent int32  `json:"tick_current"`

	Rejection *Rejection `json:"rejection,omitempty"`
}

// Rejection records a failed instruction.
type Rejection struct {
	Line    uint64 `json:"line"`
	Op      string `json:"op"`
	Program string `json:"program,omitempty"`
	Code    uint32 `json:"code,omitempty"`
	Name    string `json:"name,omitempty"`
	Error   string `json:"error"`
}

// MarshalJSON keeps a stable field layout for the JSONL sink.
func (e LiquidityEvent) MarshalJSON() ([]byte, error) {
	type Alias LiquidityEvent
	return json.Marshal(Alias(e))
}

// UnmarshalJSON decodes a LiquidityEvent from JSON.
func (e *LiquidityEvent) UnmarshalJSON(data []byte) error {
	type Alias LiquidityEvent
	var a Alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*e = LiquidityEvent(a)
	return nil
}
