package ledger

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"
)

// ProgramID owns every pool, position and tick array derived here.
var ProgramID = solana.MustPublicKeyFromBase58("whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc")

func derive(seeds ...[]byte) (solana.PublicKey, error) {
	key, _, err := solana.FindProgramAddress(seeds, ProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive address: %w", err)
	}
	return key, nil
}

// WhirlpoolAddress derives the pool account for a config, mint pair and
// tick spacing.
func WhirlpoolAddress(config, mintA, mintB solana.PublicKey, spacing uint16) (solana.PublicKey, error) {
	sp := make([]byte, 2)
	binary.LittleEndian.PutUint16(sp, spacing)
	return derive([]byte("whirlpool"), config.Bytes(), mintA.Bytes(), mintB.Bytes(), sp)
}

// PositionAddress derives the position account for a position mint.
func PositionAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	return derive([]byte("position"), mint.Bytes())
}

// TickArrayAddress derives the tick array account starting at start.
func TickArrayAddress(pool solana.PublicKey, start int32) (solana.PublicKey, error) {
	return derive([]byte("tick_array"), pool.Bytes(), []byte(strconv.FormatInt(int64(start), 10)))
}

// VaultAddress derives the pool's token vault for mint.
func VaultAddress(pool, mint solana.PublicKey) (solana.PublicKey, error) {
	return derive([]byte("token_vault"), pool.Bytes(), mint.Bytes())
}

// RewardVaultAddress derives the vault of reward slot index.
func RewardVaultAddress(pool solana.PublicKey, index int) (solana.PublicKey, error) {
	return derive([]byte("reward_vault"), pool.Bytes(), []byte{byte(index)})
}

// PositionTokenAddress is the owner's associated account for a position
// mint.
func PositionTokenAddress(owner, mint solana.PublicKey) (solana.PublicKey, error) {
	key, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive position token account: %w", err)
	}
	return key, nil
}
