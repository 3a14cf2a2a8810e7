package swretail

import (
	"time"

	"github.com/spf13/viper"

	"github.com/milan604/swretail-go/pkg/apperr"
	"github.com/milan604/swretail-go/pkg/config"
	"github.com/milan604/swretail-go/pkg/errors"
	"github.com/milan604/swretail-go/pkg/http"
	"github.com/milan604/swretail-go/pkg/utils"
	"github.com/milan604/swretail-go/pkg/validator"
)

const defaultTimeout = 30 * time.Second

// Settings is everything a Client needs to reach the API. Build it once at
// start-up (LoadSettings) and pass it to New.
type Settings struct {
	// Endpoint is the API base URL. Trailing slashes are normalised to one.
	Endpoint string `mapstructure:"endpoint" validate:"required,url"`
	// Username and Password are sent as HTTP basic auth.
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	// Timeout bounds each request. Zero means 30s.
	Timeout            time.Duration     `mapstructure:"timeout" validate:"gte=0"`
	Headers            map[string]string `mapstructure:"headers"`
	InsecureSkipVerify bool              `mapstructure:"insecure_skip_verify"`
}

// LoadSettings reads the swretail.* keys from cfg and validates them.
func LoadSettings(cfg *config.Config) (Settings, error) {
	s := Settings{
		Endpoint:           cfg.GetString(config.KeyEndpoint),
		Username:           cfg.GetString(config.KeyUsername),
		Password:           cfg.GetString(config.KeyPassword),
		Timeout:            cfg.GetDurationD(config.KeyTimeout, defaultTimeout),
		InsecureSkipVerify: cfg.GetBool(config.KeyInsecureSkipVerify),
	}
	if headers := cfg.GetStringMapString(config.KeyHeaders); len(headers) > 0 {
		s.Headers = headers
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate reports every invalid field as an *apperr.AppError.
func (s Settings) Validate() error {
	if appErr := validator.Default().Struct(s); appErr != nil {
		return appErr.WithMessage("invalid swretail settings")
	}
	return nil
}

// BaseURL returns the endpoint with exactly one trailing slash.
func (s Settings) BaseURL() string {
	return utils.NormalizeBaseURL(s.Endpoint)
}

// Merge returns s with overrides applied on top. Nested maps merge key by
// key, so overriding one header keeps the others. Keys are the mapstructure
// names of Settings ("endpoint", "timeout", "headers", ...). Header names
// come back lower-cased; net/http canonicalises them on the wire.
func (s Settings) Merge(overrides map[string]any) (Settings, error) {
	if len(overrides) == 0 {
		return s, nil
	}
	v := viper.New()
	if err := v.MergeConfigMap(s.asMap()); err != nil {
		return s, errors.Wrap(err, "swretail: merge defaults")
	}
	// viper lower-cases map keys in place
	if err := v.MergeConfigMap(cloneMap(overrides)); err != nil {
		return s, errors.Wrap(err, "swretail: merge overrides")
	}

	var out Settings
	if err := v.Unmarshal(&out); err != nil {
		return s, apperr.Newf(apperr.ErrorCodeInvalidConfig, "swretail: decode overrides: %v", err).Wrap(err)
	}
	return out, nil
}

func (s Settings) asMap() map[string]any {
	m := map[string]any{
		"endpoint":             s.Endpoint,
		"username":             s.Username,
		"password":             s.Password,
		"timeout":              s.Timeout,
		"insecure_skip_verify": s.InsecureSkipVerify,
	}
	if len(s.Headers) > 0 {
		headers := make(map[string]any, len(s.Headers))
		for k, v := range s.Headers {
			headers[k] = v
		}
		m["headers"] = headers
	}
	return m
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = cloneMap(nested)
		}
		out[k] = v
	}
	return out
}

func (s Settings) transportConfig() http.Config {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return http.Config{
		BaseURL:            s.BaseURL(),
		Username:           s.Username,
		Password:           s.Password,
		Timeout:            timeout,
		Headers:            s.Headers,
		InsecureSkipVerify: s.InsecureSkipVerify,
	}
}
