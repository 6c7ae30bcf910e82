package logcfg

import (
	"os"

	logs "github.com/danmuck/smplog"
)

const envConfigPath = "SMPLOG_CONFIG"

// Load returns file-backed logging configuration when available, otherwise defaults.
func Load() logs.Config {
	return LoadFrom(os.Getenv(envConfigPath), Candidates...)
}

// Candidates are probed in order when SMPLOG_CONFIG is unset or unreadable.
var Candidates = []string{
	"./smplog.config.toml",
	"./local/smplog.config.toml",
	"./config/smplog.config.toml",
}

// LoadFrom tries explicit first, then every candidate.
func LoadFrom(explicit string, candidates ...string) logs.Config {
	if explicit != "" {
		if cfg, err := logs.ConfigFromFile(explicit); err == nil {
			return cfg
		}
	}

	for _, path := range candidates {
		if cfg, err := logs.ConfigFromFile(path); err == nil {
			return cfg
		}
	}

	return logs.DefaultConfig()
}
