// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Media Playback - these keys maintain the state and configuration for playback engines.
const (
	PlayerBinary       = "player.binary"
	PlayerTimeInterval = "player.time_interval_ms"
	PlayerSeekStep     = "player.seek_step"
)

// Transport Controls - these keys govern the on-screen chrome and its visibility timing.
const (
	ControlsAutoHide = "controls.auto_hide"
)

// Remote Casting - these keys configure the second-screen casting adapter.
const (
	CastHeartbeatInterval = "cast.heartbeat_interval"
	CastContentType       = "cast.content_type"
)

// Hosted Video Service - these keys identify the account used for hosted-video lookups.
const (
	HostedAccountID   = "hosted.account_id"
	HostedCacheTTL    = "hosted.cache_ttl"
	HostedLookupLimit = "hosted.lookup_timeout"
)

// History Tracking - these keys configure the persistence of playback resume positions.
const (
	HistorySaveOnPlay = "history.save_on_play"
)

// Network Reachability - these keys configure the connectivity probe.
const (
	NetworkProbeURL      = "network.probe_url"
	NetworkProbeInterval = "network.probe_interval"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI) - these keys define the transport-controls surface styling and logic.
const (
	TUIShowChromeHelp = "tui.show_chrome_help"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
