// internal/workers/data-access/query-postgresql/config.go
package querypostgresql

import (
	"time"

	"restaurant-workers/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(appCfg *config.Config) *Config {
	cfg := &Config{Timeout: 30 * time.Second}
	if appCfg == nil {
		return cfg
	}
	if wc := config.GetWorkerConfig(appCfg, TaskType); wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	return cfg
}
