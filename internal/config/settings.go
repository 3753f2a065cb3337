package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const SettingsName = "rocketlab"

type Settings struct {
	LogLevel string          `mapstructure:"logLevel"`
	FPS      int             `mapstructure:"fps"`
	HTTP     HTTPSettings    `mapstructure:"http"`
	Influx   InfluxSettings  `mapstructure:"influx"`
	Graylog  GraylogSettings `mapstructure:"graylog"`
	Otel     OtelSettings    `mapstructure:"otel"`
}

type HTTPSettings struct {
	Listen string `mapstructure:"listen"`
}

type InfluxSettings struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Token   string `mapstructure:"token"`
	Org     string `mapstructure:"org"`
	Bucket  string `mapstructure:"bucket"`
}

type GraylogSettings struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

type OtelSettings struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoadSettings reads runtime settings from defaults, an optional
// rocketlab.yaml in dir, and ROCKETLAB_* environment variables.
func LoadSettings(dir string) (*Settings, error) {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("fps", 60)

	viper.SetDefault("http.listen", ":8080")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.url", "http://localhost:8086")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "rocketlab")
	viper.SetDefault("influx.bucket", "flights")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)

	viper.SetEnvPrefix("ROCKETLAB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if dir != "" {
		viper.SetConfigName(SettingsName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(dir)

		if err := viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading settings file: %w", err)
			}
		}
	}

	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("error decoding settings: %w", err)
	}
	if s.FPS <= 0 {
		s.FPS = 60
	}
	return &s, nil
}
