package model

import (
	"github.com/gagliardetto/solana-go"
)

// PoolView is the JSON representation of a pool with big numbers as strings.
type PoolView struct {
	Address          string           `json:"address"`
	TokenMintA       string           `json:"token_mint_a"`
	TokenMintB       string           `json:"token_mint_b"`
	TokenVaultA      string           `json:"token_vault_a"`
	TokenVaultB      string           `json:"token_vault_b"`
	TickSpacing      uint16           `json:"tick_spacing"`
	FeeRate          uint16           `json:"fee_rate"`
	ProtocolFeeRate  uint16           `json:"protocol_fee_rate"`
	Liquidity        string           `json:"liquidity"`
	SqrtPrice        string           `json:"sqrt_price"`
	TickCurrentIndex int32            `json:"tick_current_index"`
	FeeGrowthGlobalA string           `json:"fee_growth_global_a"`
	FeeGrowthGlobalB string           `json:"fee_growth_global_b"`
	ProtocolFeeOwedA uint64           `json:"protocol_fee_owed_a"`
	ProtocolFeeOwedB uint64           `json:"protocol_fee_owed_b"`
	RewardUpdatedAt  uint64           `json:"reward_last_updated_timestamp"`
	Rewards          []RewardInfoView `json:"rewards,omitempty"`
}

// RewardInfoView is the JSON representation of an initialized reward.
type RewardInfoView struct {
	Index                 int    `json:"index"`
	Mint                  string `json:"mint"`
	Vault                 string `json:"vault"`
	EmissionsPerSecondX64 string `json:"emissions_per_second_x64"`
	GrowthGlobalX64       string `json:"growth_global_x64"`
}

// PositionView is the JSON representation of a position.
type PositionView struct {
	Address        string   `json:"address"`
	Whirlpool      string   `json:"whirlpool"`
	PositionMint   string   `json:"position_mint"`
	Liquidity      string   `json:"liquidity"`
	TickLowerIndex int32    `json:"tick_lower_index"`
	TickUpperIndex int32    `json:"tick_upper_index"`
	FeeOwedA       uint64   `json:"fee_owed_a"`
	FeeOwedB       uint64   `json:"fee_owed_b"`
	RewardsOwed    []uint64 `json:"rewards_owed"`
}

func NewPoolView(address solana.PublicKey, p *Pool) PoolView {
	v := PoolView{
		Address:          address.String(),
		TokenMintA:       p.TokenMintA.String(),
		TokenMintB:       p.TokenMintB.String(),
		TokenVaultA:      p.TokenVaultA.String(),
		TokenVaultB:      p.TokenVaultB.String(),
		TickSpacing:      p.TickSpacing,
		FeeRate:          p.FeeRate,
		ProtocolFeeRate:  p.ProtocolFeeRate,
		Liquidity:        p.Liquidity.String(),
		SqrtPrice:        p.SqrtPrice.String(),
		TickCurrentIndex: p.TickCurrentIndex,
		FeeGrowthGlobalA: p.FeeGrowthGlobalA.String(),
		FeeGrowthGlobalB: p.FeeGrowthGlobalB.String(),
		ProtocolFeeOwedA: p.ProtocolFeeOwedA,
		ProtocolFeeOwedB: p.ProtocolFeeOwedB,
		RewardUpdatedAt:  p.RewardLastUpdatedTimestamp,
	}
	for i, r := range p.RewardInfos {
		if !r.Initialized() {
			continue
		}
		v.Rewards = append(v.Rewards, RewardInfoView{
			Index:                 i,
			Mint:                  r.Mint.String(),
			Vault:                 r.Vault.String(),
			EmissionsPerSecondX64: r.EmissionsPerSecondX64.String(),
			GrowthGlobalX64:       r.GrowthGlobalX64.String(),
		})
	}
	return v
}

func NewPositionView(address solana.PublicKey, p *Position) PositionView {
	v := PositionView{
		Address:        address.String(),
		Whirlpool:      p.Whirlpool.String(),
		PositionMint:   p.PositionMint.String(),
		Liquidity:      p.Liquidity.String(),
		TickLowerIndex: p.TickLowerIndex,
		TickUpperIndex: p.TickUpperIndex,
		FeeOwedA:       p.FeeOwedA,
		FeeOwedB:       p.FeeOwedB,
	}
	for _, r := range p.RewardInfos {
		v.RewardsOwed = append(v.RewardsOwed, r.AmountOwed)
	}
	return v
}
