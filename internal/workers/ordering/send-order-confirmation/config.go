// internal/workers/ordering/send-order-confirmation/config.go
package sendorderconfirmation

import (
	"time"

	"restaurant-workers/internal/common/config"
)

type Config struct {
	EmailEnabled   bool
	SMSEnabled     bool
	FromEmail      string
	SenderID       string
	CurrencySymbol string
	Timeout        time.Duration
}

func LoadConfig(appCfg *config.Config) *Config {
	cfg := &Config{
		CurrencySymbol: "$",
		Timeout:        30 * time.Second,
	}
	if appCfg == nil {
		return cfg
	}

	cfg.EmailEnabled = appCfg.Notifications.Email.Enabled
	cfg.FromEmail = appCfg.Notifications.Email.FromEmail
	cfg.SMSEnabled = appCfg.Notifications.SMS.Enabled
	cfg.SenderID = appCfg.Notifications.SMS.SenderID
	if appCfg.Orders.CurrencySymbol != "" {
		cfg.CurrencySymbol = appCfg.Orders.CurrencySymbol
	}
	if wc := config.GetWorkerConfig(appCfg, TaskType); wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	return cfg
}
