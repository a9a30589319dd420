package config

import (
	"time"

	"github.com/spf13/pflag"
)

// SnapshotConfig holds configuration for reading live accounts over RPC.
type SnapshotConfig struct {
	RPCURL      string
	Pool        string
	Positions   []string
	BatchSize   int
	MaxRetries  int
	RetryDelay  time.Duration
	SlippageBps uint16
	PGDSN       string
	LogLevel    string
}

// LoadSnapshot merges config file, environment variables, and flags into SnapshotConfig.
func LoadSnapshot(cfgFile string, flags *pflag.FlagSet) (SnapshotConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]any{
		"rpc":          "https://api.mainnet-beta.solana.com",
		"batch-size":   100,
		"max-retries":  5,
		"retry-delay":  500 * time.Millisecond,
		"slippage-bps": 100,
	})
	if err != nil {
		return SnapshotConfig{}, err
	}

	return SnapshotConfig{
		RPCURL:      v.GetString("rpc"),
		Pool:        v.GetString("pool"),
		Positions:   getStringSlice(v, "position"),
		BatchSize:   v.GetInt("batch-size"),
		MaxRetries:  v.GetInt("max-retries"),
		RetryDelay:  v.GetDuration("retry-delay"),
		SlippageBps: v.GetUint16("slippage-bps"),
		PGDSN:       v.GetString("pg-dsn"),
		LogLevel:    v.GetString("log-level"),
	}, nil
}
