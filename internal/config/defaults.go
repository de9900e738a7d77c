package config

const (
	defaultDataDir      = "~/.local/share/talkline/data"
	defaultIncomingDir  = "~/annotations"
	defaultLogDir       = "~/.local/share/talkline/logs"
	defaultTargetPerSec = 100
	defaultWorkers      = 4
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:     defaultDataDir,
			IncomingDir: defaultIncomingDir,
			LogDir:      defaultLogDir,
		},
		Conversion: Conversion{
			TargetPerSec:  defaultTargetPerSec,
			IngestWorkers: defaultWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
