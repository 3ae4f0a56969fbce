package feed

import (
	"github.com/dmitrymomot/livefeed/core/broadcast"
	"github.com/dmitrymomot/livefeed/core/generator"
	"github.com/dmitrymomot/livefeed/core/server"
	"github.com/dmitrymomot/livefeed/core/stream"
)

// Config is the application configuration loaded from the environment.
type Config struct {
	Server    server.Config
	Broadcast broadcast.Config
	Generator generator.Config
	Stream    stream.Config

	AppName    string `env:"APP_NAME" envDefault:"livefeed"`
	AppVersion string `env:"APP_VERSION" envDefault:"1.0.0"`
	Env        string `env:"APP_ENV" envDefault:"development"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	// MaxMessageBytes caps the body of POST /api/messages.
	MaxMessageBytes int64 `env:"MAX_MESSAGE_BYTES" envDefault:"65536"`
	MetricsEnabled  bool  `env:"METRICS_ENABLED" envDefault:"true"`
}

// DefaultConfig returns the configuration matching the env defaults.
func DefaultConfig() Config {
	return Config{
		Server:          server.DefaultConfig(),
		Broadcast:       broadcast.DefaultConfig(),
		Generator:       generator.DefaultConfig(),
		Stream:          stream.DefaultConfig(),
		AppName:         "livefeed",
		AppVersion:      "1.0.0",
		Env:             "development",
		LogLevel:        "info",
		MaxMessageBytes: 64 << 10,
		MetricsEnabled:  true,
	}
}

func (c Config) isProduction() bool {
	return c.Env == "production"
}
