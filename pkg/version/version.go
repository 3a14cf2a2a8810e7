package version

import (
	"runtime"
)

// These variables are intended to be set at build time via -ldflags.
var (
	// Version is the semantic version of the build, e.g. v0.1.0. Defaults to "dev".
	Version = "dev"
	// Commit is the short git commit hash.
	Commit = ""
	// Date is the build timestamp in RFC3339.
	Date = ""
	// Go is the Go toolchain version used for the build.
	Go = runtime.Version()
)

// Info returns a map of version/build metadata suitable for logging.
func Info() map[string]string {
	return map[string]string{
		"version": Version,
		"commit":  Commit,
		"date":    Date,
		"go":      Go,
	}
}

// UserAgent is the User-Agent header the client sends.
func UserAgent() string {
	ua := "swretail-go/" + Version
	if Commit != "" {
		ua += " (" + Commit + ")"
	}
	return ua
}
