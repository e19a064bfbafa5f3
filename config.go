package captcha

import (
	"net/http"
	"time"
)

// ClientConfig holds all configuration for a solve client.
type ClientConfig struct {
	// APIKey is the solving-service credential. Required. Never logged.
	APIKey string

	// BaseURL is the service API root. Default: https://api.2captcha.com.
	// Any service speaking the createTask/getTaskResult protocol works.
	BaseURL string

	// TaskType selects the task variant submitted to createTask.
	// Default: RecaptchaV2TaskProxyless.
	TaskType string

	// PollInterval is the fixed delay between result polls. Default: 2s.
	PollInterval time.Duration

	// MaxPollAttempts caps how many result polls a single solve issues
	// before giving up with a timeout. Default: 30.
	MaxPollAttempts int

	// HTTPClient overrides the HTTP client used for API requests.
	// Default: 10s-timeout client.
	HTTPClient *http.Client

	// TransportBackoff controls in-place retries of poll requests that fail
	// at the transport level. Default: 2 retries, 500ms→5s, 30% jitter.
	TransportBackoff BackoffConfig

	// BalanceWarnLevel is the balance floor, in USD, below which Solve logs
	// a warning before submitting a task. Set negative to skip the check.
	// Default: 5.
	BalanceWarnLevel float64
}

// defaults fills in zero-value config fields with sensible defaults.
func (cfg *ClientConfig) defaults() {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.2captcha.com"
	}
	if cfg.TaskType == "" {
		cfg.TaskType = "RecaptchaV2TaskProxyless"
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.MaxPollAttempts == 0 {
		cfg.MaxPollAttempts = 30
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.BalanceWarnLevel == 0 {
		cfg.BalanceWarnLevel = 5.0
	}
	if cfg.TransportBackoff.InitialWait == 0 {
		cfg.TransportBackoff = BackoffConfig{
			MaxRetries:  2,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     5 * time.Second,
			Multiplier:  2.0,
			JitterPct:   0.3,
		}
	}
}
