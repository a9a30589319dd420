package config

import (
	"time"

	"github.com/spf13/pflag"
)

// ServeConfig holds configuration for the inspection API. The ledger is
// rebuilt from Script, or seeded from RPC when Pool is set.
type ServeConfig struct {
	Listen      string
	Script      string
	ReadTimeout time.Duration
	ClockStart  uint64
	Snapshot    SnapshotConfig
	LogLevel    string
}

// LoadServe merges config file, environment variables, and flags into ServeConfig.
func LoadServe(cfgFile string, flags *pflag.FlagSet) (ServeConfig, error) {
	snap, err := LoadSnapshot(cfgFile, flags)
	if err != nil {
		return ServeConfig{}, err
	}
	v, err := newViper(cfgFile, flags, map[string]any{
		"listen":       ":8080",
		"read-timeout": 10 * time.Second,
	})
	if err != nil {
		return ServeConfig{}, err
	}

	clockStart, err := ParseTimestamp(v.GetString("clock-start"))
	if err != nil {
		return ServeConfig{}, err
	}

	return ServeConfig{
		Listen:      v.GetString("listen"),
		Script:      v.GetString("script"),
		ReadTimeout: v.GetDuration("read-timeout"),
		ClockStart:  clockStart,
		Snapshot:    snap,
		LogLevel:    v.GetString("log-level"),
	}, nil
}
