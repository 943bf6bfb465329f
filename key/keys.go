// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Download Pipeline - these keys govern where and how spaces are written to disk.
const (
	DownloadDir           = "download.dir"
	DownloadTemplate      = "download.template"
	DownloadKeepRecorded  = "download.keep_recorded"
	DownloadWritePlaylist = "download.write_playlist"
	DownloadStrict        = "download.strict"
	DownloadForwardOutput = "download.forward_output"
	DownloadParallel      = "download.parallel"
)

// Upstream API - these keys tune credential acquisition and transport.
const (
	APIRetryAttempts = "api.retry_attempts"
	APIRetryBackoff  = "api.retry_backoff"
	APIImpersonate   = "api.impersonate"
)

// Media Processing - these keys locate the external ffmpeg executable.
const (
	FFmpegPath = "ffmpeg.path"
)

// Extensions - these keys control Lua hook loading.
const (
	HooksEnable = "hooks.enable"
)

// Download Archive - these keys control the registry of finished spaces.
const (
	ArchiveEnable = "archive.enable"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the terminal output.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
