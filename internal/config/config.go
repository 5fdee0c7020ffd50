package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

type Server struct {
	Port              string `json:"port"`
	RequestTimeoutSec int    `json:"request_timeout_sec"`
}

type Provider struct {
	APIKey   string `json:"api_key"`
	Endpoint string `json:"endpoint"`
	// MinCallIntervalSec gates outbound calls; a denied call degrades to
	// a demo quote instead of waiting.
	MinCallIntervalSec int `json:"min_call_interval_sec"`
	// MaxRequestsPerMinute switches the gate to a token bucket when > 0.
	MaxRequestsPerMinute int `json:"max_requests_per_minute"`
	Burst                int `json:"burst"`
	QuoteCacheTTLSec     int `json:"quote_cache_ttl_sec"`
	BatchDelaySec        int `json:"batch_delay_sec"`
}

type Backend struct {
	URL       string `json:"url"`
	TokenFile string `json:"token_file"`
}

type Overview struct {
	Symbols    []string `json:"symbols"`
	RefreshSec int      `json:"refresh_sec"`
	StaggerSec int      `json:"stagger_sec"`
}

type Log struct {
	Level      string `json:"level"`
	File       string `json:"file"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

type Config struct {
	Server   Server   `json:"server"`
	Provider Provider `json:"provider"`
	Backend  Backend  `json:"backend"`
	Overview Overview `json:"overview"`
	Log      Log      `json:"log"`
}

func Default() Config {
	return Config{
		Server: Server{Port: "8090", RequestTimeoutSec: 10},
		Provider: Provider{
			Endpoint:           "https://www.alphavantage.co",
			MinCallIntervalSec: 15,
			QuoteCacheTTLSec:   60,
			BatchDelaySec:      3,
		},
		Backend: Backend{
			URL:       "http://localhost:8000",
			TokenFile: defaultTokenFile(),
		},
		Overview: Overview{
			Symbols:    []string{"SPY", "QQQ", "DIA"},
			RefreshSec: 300,
			StaggerSec: 1,
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.portfoliotracker/token"
}

// Load reads JSON config from path. If path is empty or file does not exist,
// it returns defaults. Environment variables override select fields for secrecy.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x > 0 {
			cfg.Server.RequestTimeoutSec = x
		}
	}
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("ALPHAVANTAGE_ENDPOINT"); v != "" {
		cfg.Provider.Endpoint = v
	}
	if v := os.Getenv("MIN_CALL_INTERVAL_SEC"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x >= 0 {
			cfg.Provider.MinCallIntervalSec = x
		}
	}
	if v := os.Getenv("MAX_REQUESTS_PER_MINUTE"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x >= 0 {
			cfg.Provider.MaxRequestsPerMinute = x
		}
	}
	if v := os.Getenv("PROVIDER_BURST"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x > 0 {
			cfg.Provider.Burst = x
		}
	}
	if v := os.Getenv("QUOTE_CACHE_TTL_SEC"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x >= 0 {
			cfg.Provider.QuoteCacheTTLSec = x
		}
	}
	if v := os.Getenv("BATCH_DELAY_SEC"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x >= 0 {
			cfg.Provider.BatchDelaySec = x
		}
	}
	if v := os.Getenv("BACKEND_URL"); v != "" {
		cfg.Backend.URL = v
	}
	if v := os.Getenv("TOKEN_FILE"); v != "" {
		cfg.Backend.TokenFile = v
	}
	if v := os.Getenv("OVERVIEW_SYMBOLS"); v != "" {
		cfg.Overview.Symbols = splitCSV(v)
	}
	if v := os.Getenv("OVERVIEW_REFRESH_SEC"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x > 0 {
			cfg.Overview.RefreshSec = x
		}
	}
	if v := os.Getenv("OVERVIEW_STAGGER_SEC"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x >= 0 {
			cfg.Overview.StaggerSec = x
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
