package config

const (
	defaultDataDir          = "~/.local/share/fitlot/data"
	defaultLogDir           = "~/.local/share/fitlot/logs"
	defaultAPIBind          = "127.0.0.1:7512"
	defaultHoldStation      = "HOLD_AREA"
	defaultScrapStation     = "SCRAP"
	defaultNotifyTimeout    = 10
	defaultFeedPollInterval = 2
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Station: Station{
			HoldStation:  defaultHoldStation,
			ScrapStation: defaultScrapStation,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Rejects:        true,
			Holds:          true,
			Errors:         true,
		},
		Workflow: Workflow{
			FeedPollInterval: defaultFeedPollInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
