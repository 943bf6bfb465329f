// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// App is the canonical application identifier used for filesystem paths and CLI branding.
	App = "spacedl"

	// Version is the current application semantic version string.
	Version = "0.4.2"

	// UserAgent is the default HTTP User-Agent string used for requests to the upstream API.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Build metadata, overridden at link time with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

// Logo is printed at the top of the root command help.
const Logo = `
  ___ _ __   __ _  ___ ___  __| | |
 / __| '_ \ / _' |/ __/ _ \/ _' | |
 \__ \ |_) | (_| | (_|  __/ (_| | |
 |___/ .__/ \__,_|\___\___|\__,_|_|
     |_|`
