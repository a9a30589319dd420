package config

import (
	"github.com/spf13/pflag"
)

// ReplayConfig holds configuration for the replay command.
type ReplayConfig struct {
	Script            string
	Out               string
	Checkpoint        string
	CheckpointEnabled bool
	PGDSN             string
	BatchSize         uint64
	ClockStart        uint64
	LogLevel          string
}

// LoadReplay merges config file, environment variables, and flags into ReplayConfig.
func LoadReplay(cfgFile string, flags *pflag.FlagSet) (ReplayConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]any{
		"out":                "./data/events.jsonl",
		"checkpoint":         "./data/replay_checkpoint.json",
		"checkpoint-enabled": true,
		"batch-size":         uint64(500),
	})
	if err != nil {
		return ReplayConfig{}, err
	}

	clockStart, err := ParseTimestamp(v.GetString("clock-start"))
	if err != nil {
		return ReplayConfig{}, err
	}

	return ReplayConfig{
		Script:            v.GetString("script"),
		Out:               v.GetString("out"),
		Checkpoint:        v.GetString("checkpoint"),
		CheckpointEnabled: v.GetBool("checkpoint-enabled"),
		PGDSN:             v.GetString("pg-dsn"),
		BatchSize:         v.GetUint64("batch-size"),
		ClockStart:        clockStart,
		LogLevel:          v.GetString("log-level"),
	}, nil
}
