package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Game    GameConfig    `mapstructure:"game"`
	Profile ProfileConfig `mapstructure:"profile"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
}

type GameConfig struct {
	RoundLimit      int           `mapstructure:"round_limit"`
	ResultDelay     time.Duration `mapstructure:"result_delay"`
	NextRoundDelay  time.Duration `mapstructure:"next_round_delay"`
	FinishDelay     time.Duration `mapstructure:"finish_delay"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	RetentionAge    time.Duration `mapstructure:"retention_age"`
}

type ProfileConfig struct {
	HistoryCap int `mapstructure:"history_cap"`
}

// LoadConfig reads config.yaml from the given path. Every knob has a
// default, so a missing file is not an error.
func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.http_address", ":8080")
	viper.SetDefault("server.rpc_address", ":9090")
	viper.SetDefault("server.metrics_address", ":2112")
	viper.SetDefault("game.round_limit", 3)
	viper.SetDefault("game.result_delay", "1s")
	viper.SetDefault("game.next_round_delay", "3s")
	viper.SetDefault("game.finish_delay", "2s")
	viper.SetDefault("game.cleanup_interval", "5m")
	viper.SetDefault("game.retention_age", "30m")
	viper.SetDefault("profile.history_cap", 20)

	viper.AutomaticEnv()

	if err = viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}

	err = viper.Unmarshal(&config)
	return
}
