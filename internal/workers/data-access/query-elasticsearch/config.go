// internal/workers/data-access/query-elasticsearch/config.go
package queryelasticsearch

import (
	"time"

	"restaurant-workers/internal/common/config"
)

type Config struct {
	Timeout      time.Duration
	DefaultIndex string
}

func LoadConfig(appCfg *config.Config) *Config {
	cfg := &Config{
		Timeout:      30 * time.Second,
		DefaultIndex: "chat_logs",
	}
	if appCfg == nil {
		return cfg
	}
	if appCfg.Orders.ChatIndex != "" {
		cfg.DefaultIndex = appCfg.Orders.ChatIndex
	}
	if wc := config.GetWorkerConfig(appCfg, TaskType); wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	return cfg
}
