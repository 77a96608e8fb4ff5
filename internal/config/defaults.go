package config

const (
	defaultConfigPath      = "~/.config/photoscript/config.toml"
	defaultStateDir        = "~/.local/share/photoscript"
	defaultLogDir          = "~/.local/share/photoscript/logs"
	defaultLedgerPath      = "~/.local/share/photoscript/ledger.db"
	defaultAppName         = "Photos"
	defaultOsascriptBinary = "osascript"
	defaultCallTimeout     = 300
	defaultLaunchTimeout   = 300
	defaultChunkSize       = 50
	defaultExportTimeout   = 120
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Photos: Photos{
			AppName:         defaultAppName,
			OsascriptBinary: defaultOsascriptBinary,
			CallTimeout:     defaultCallTimeout,
			LaunchTimeout:   defaultLaunchTimeout,
			RetryOnTimeout:  true,
			ChunkSize:       defaultChunkSize,
			Lock:            true,
		},
		Export: Export{
			Timeout: defaultExportTimeout,
		},
		Ledger: Ledger{
			Enabled: true,
			Path:    defaultLedgerPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
