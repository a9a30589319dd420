package model

import "time"

// PoolWindowMetrics stores aggregated liquidity flows for a pool window.
// Token amounts are decimal strings scaled by the pool's mint decimals.
// RewardsCollected sums raw units across reward mints.
type PoolWindowMetrics struct {
	PoolAddress      string    `json:"pool"`
	WindowSizeSecs   int64     `json:"window_size_seconds"`
	WindowStart      time.Time `json:"window_start"`
	WindowEnd        time.Time `json:"window_end"`
	EventCount       uint64    `json:"event_count"`
	TradeCount       uint64    `json:"trade_count"`
	PositionsOpened  uint64    `json:"positions_opened"`
	PositionsClosed  uint64    `json:"positions_closed"`
	DepositA         string    `json:"deposit_a"`
	DepositB         string    `json:"deposit_b"`
	WithdrawA        string    `json:"withdraw_a"`
	WithdrawB        string    `json:"withdraw_b"`
	FeesCollectedA   string    `json:"fees_collected_a"`
	FeesCollectedB   string    `json:"fees_collected_b"`
	RewardsCollected string    `json:"rewards_collected"`
	VolumeA          string    `json:"volume_a"`
	VolumeB          string    `json:"volume_b"`
	SwapFeesA        string    `json:"swap_fees_a"`
	SwapFeesB        string    `json:"swap_fees_b"`
	NetLiquidity     string    `json:"net_liquidity"`
	TransferFeesA    string    `json:"transfer_fees_a"`
	TransferFeesB    string    `json:"transfer_fees_b"`
}
