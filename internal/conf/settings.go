// Package conf holds the FundWatch runtime settings and their loading.
package conf

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Settings is the full runtime configuration.
type Settings struct {
	// DataPath is the directory holding the sqlite document database.
	DataPath string `mapstructure:"data_path" yaml:"data_path"`

	HTTP     HTTPSettings     `mapstructure:"http" yaml:"http"`
	Monitor  MonitorSettings  `mapstructure:"monitor" yaml:"monitor"`
	Channels ChannelsSettings `mapstructure:"channels" yaml:"channels"`
	Metrics  MetricsSettings  `mapstructure:"metrics" yaml:"metrics"`
	Logging  LoggingSettings  `mapstructure:"logging" yaml:"logging"`
}

// HTTPSettings configures the API server.
type HTTPSettings struct {
	Listen string `mapstructure:"listen" yaml:"listen"`
}

// MonitorSettings configures the rule monitor loop.
type MonitorSettings struct {
	// Interval is the evaluation period. Evaluation of one tick is not
	// guaranteed to finish before the next tick is due.
	Interval Duration `mapstructure:"interval" yaml:"interval"`
	// DefaultLookback is the condition window used when a condition does
	// not set its own.
	DefaultLookback Duration `mapstructure:"default_lookback" yaml:"default_lookback"`
}

// ChannelsSettings configures outbound notification delivery.
// Push and Messenger take shoutrrr service URLs.
type ChannelsSettings struct {
	PushURL      string `mapstructure:"push_url" yaml:"push_url"`
	MessengerURL string `mapstructure:"messenger_url" yaml:"messenger_url"`
}

// MetricsSettings configures the Prometheus endpoint.
type MetricsSettings struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// LoggingSettings configures log output.
type LoggingSettings struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Defaults returns the built-in settings used when no config file is present.
func Defaults() Settings {
	return Settings{
		DataPath: "./data",
		HTTP:     HTTPSettings{Listen: ":8321"},
		Monitor: MonitorSettings{
			Interval:        Duration(60 * time.Second),
			DefaultLookback: Duration(24 * time.Hour),
		},
		Metrics: MetricsSettings{Enabled: true},
		Logging: LoggingSettings{Level: "info"},
	}
}

// Load reads settings from the given YAML config file (optional) and
// FUNDWATCH_* environment variables, on top of Defaults.
func Load(configFile string) (*Settings, error) {
	v := viper.New()

	defaults := Defaults()
	v.SetDefault("data_path", defaults.DataPath)
	v.SetDefault("http.listen", defaults.HTTP.Listen)
	v.SetDefault("monitor.interval", defaults.Monitor.Interval.Std().String())
	v.SetDefault("monitor.default_lookback", defaults.Monitor.DefaultLookback.Std().String())
	v.SetDefault("metrics.enabled", defaults.Metrics.Enabled)
	v.SetDefault("logging.level", defaults.Logging.Level)

	v.SetEnvPrefix("FUNDWATCH")
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings, viper.DecodeHook(DurationDecodeHook())); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return &settings, nil
}
