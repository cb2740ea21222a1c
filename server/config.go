package server

import (
	"os"
	"strconv"
	"time"

	"github.com/optigo-xyz/go-optigo/solver"
)

// Config is the process-wide configuration, constructed once at startup
// and passed down explicitly. Solve logic never reads the environment.
type Config struct {
	// Port is the HTTP listen port.
	Port int

	// DefaultLimits applies to requests that supply no limits.
	DefaultLimits solver.Limits

	// PoolSize is the number of solver handles; zero means one per CPU.
	PoolSize int

	// HistoryPath is the SQLite file for solve history. Empty disables
	// persistence; ":memory:" keeps an ephemeral history.
	HistoryPath string
}

// DefaultPort is used when OPTIGO_PORT is unset.
const DefaultPort = 8080

// ConfigFromEnv reads configuration from the process environment:
//
//	OPTIGO_PORT                listen port (default 8080)
//	OPTIGO_TIME_LIMIT_SECONDS  default solve time limit
//	OPTIGO_GAP_TOLERANCE       default relative gap tolerance
//	OPTIGO_POOL_SIZE           solver handle pool size
//	OPTIGO_HISTORY             SQLite path for solve history
//
// Unset or unparseable values fall back to defaults.
func ConfigFromEnv() Config {
	cfg := Config{
		Port:          DefaultPort,
		DefaultLimits: solver.DefaultLimits(),
	}
	if v := os.Getenv("OPTIGO_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Port = n
		}
	}
	if v := os.Getenv("OPTIGO_TIME_LIMIT_SECONDS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.DefaultLimits.TimeLimit = time.Duration(f * float64(time.Second))
		}
	}
	if v := os.Getenv("OPTIGO_GAP_TOLERANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.DefaultLimits.RelativeGap = f
		}
	}
	if v := os.Getenv("OPTIGO_POOL_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PoolSize = n
		}
	}
	cfg.HistoryPath = os.Getenv("OPTIGO_HISTORY")
	return cfg
}
