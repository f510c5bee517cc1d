package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Game     GameConfig     `mapstructure:"game"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

type GameConfig struct {
	RoundSeconds int `mapstructure:"round_seconds"`
	GuessAward   int `mapstructure:"guess_award"`
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("game.round_seconds", 60)
	viper.SetDefault("game.guess_award", 10)

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
