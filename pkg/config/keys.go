package config

import "time"

// Keys read by the client and the example program.
const (
	KeyEndpoint           = "swretail.endpoint"
	KeyUsername           = "swretail.username"
	KeyPassword           = "swretail.password"
	KeyTimeout            = "swretail.timeout"
	KeyHeaders            = "swretail.headers"
	KeyInsecureSkipVerify = "swretail.insecure_skip_verify"

	KeyLogLevel    = "log.level"
	KeyLogEncoding = "log.encoding"

	KeyServiceName     = "service_name"
	KeyTracingEndpoint = "tracing.endpoint"
)

const defaultTimeout = 30 * time.Second

// DefaultSettings returns the defaults every key above falls back to.
func DefaultSettings() map[string]interface{} {
	return map[string]interface{}{
		KeyEndpoint:           "",
		KeyUsername:           "",
		KeyPassword:           "",
		KeyTimeout:            defaultTimeout,
		KeyInsecureSkipVerify: false,
		KeyLogLevel:           "info",
		KeyLogEncoding:        "console",
		KeyServiceName:        "swretail-go",
		KeyTracingEndpoint:    "",
	}
}
