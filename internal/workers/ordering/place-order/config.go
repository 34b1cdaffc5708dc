// internal/workers/ordering/place-order/config.go
package placeorder

import (
	"time"

	"restaurant-workers/internal/common/config"
)

type Config struct {
	Timeout        time.Duration
	CurrencySymbol string
}

func LoadConfig(appCfg *config.Config) *Config {
	cfg := &Config{
		Timeout:        15 * time.Second,
		CurrencySymbol: "$",
	}
	if appCfg == nil {
		return cfg
	}
	if wc := config.GetWorkerConfig(appCfg, TaskType); wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	if appCfg.Orders.CurrencySymbol != "" {
		cfg.CurrencySymbol = appCfg.Orders.CurrencySymbol
	}
	return cfg
}
