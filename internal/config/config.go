package config

import (
	"fmt"
	"net"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string        `yaml:"log-level" env:"GOBBLET_LOG_LEVEL" env-default:"info"`
	HTTPHost   string        `yaml:"http-host" env:"GOBBLET_HTTP_HOST" env-default:"localhost"`
	HTTPPort   string        `yaml:"http-port" env:"GOBBLET_HTTP_PORT" env-default:"9090"`
	SocketPort string        `yaml:"socket-port" env:"GOBBLET_SOCKET_PORT" env-default:"9091"`
	ScoreTTL   time.Duration `yaml:"score-ttl" env:"GOBBLET_SCORE_TTL" env-default:"0s"`
	Redis      Redis         `yaml:"redis"`
}

type Redis struct {
	Host     string `yaml:"host" env:"GOBBLET_REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"GOBBLET_REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"GOBBLET_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"GOBBLET_REDIS_DB" env-default:"0"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Config) HTTPAddr() string {
	return net.JoinHostPort(that.HTTPHost, that.HTTPPort)
}

func (that *Config) SocketAddr() string {
	return net.JoinHostPort(that.HTTPHost, that.SocketPort)
}

func (that *Redis) GetRedisAddr() string {
	return net.JoinHostPort(that.Host, that.Port)
}
