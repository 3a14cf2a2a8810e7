package http

import (
	"time"

	"github.com/milan604/swretail-go/pkg/validator"
	"github.com/milan604/swretail-go/pkg/version"
)

const defaultTimeout = 30 * time.Second

// Config configures the transport.
type Config struct {
	// BaseURL is prepended to every relative request path.
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	// Username and Password are sent as HTTP basic auth when either is set.
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	// Timeout bounds a whole request. Defaults to 30s.
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
	// Headers are sent with every request.
	Headers   map[string]string `mapstructure:"headers"`
	UserAgent string            `mapstructure:"user_agent"`
	// InsecureSkipVerify disables TLS certificate checks. Test servers only.
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = version.UserAgent()
	}
}

// Validate checks the configuration and returns an *apperr.AppError
// listing every problem.
func (c Config) Validate() error {
	if appErr := validator.Default().Struct(c); appErr != nil {
		return appErr
	}
	return nil
}
