package config

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port         string   `mapstructure:"port"`
	Development  bool     `mapstructure:"development"`
	MongoURI     string   `mapstructure:"mongo_uri"`
	MongoDB      string   `mapstructure:"mongo_db"`
	JWTSecret    string   `mapstructure:"jwt_secret"`
	TokenTTLHrs  int      `mapstructure:"token_ttl_hours"`
	RedisAddr    string   `mapstructure:"redis_addr"`
	KafkaBrokers []string `mapstructure:"kafka_brokers"`
	KafkaTopic   string   `mapstructure:"kafka_topic"`
	GeminiAPIKey string   `mapstructure:"gemini_api_key"`

	WSWriteWaitSeconds int `mapstructure:"ws_write_wait_seconds"`
	WSPongWaitSeconds  int `mapstructure:"ws_pong_wait_seconds"`

	TokenTTL  time.Duration `mapstructure:"-"`
	WriteWait time.Duration `mapstructure:"-"`
	PongWait  time.Duration `mapstructure:"-"`
}

// Load reads an optional config file, then the environment, then defaults.
// A missing file is fine; a missing JWT secret is not.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("port", "8080")
	v.SetDefault("mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("mongo_db", "jobdesk")
	v.SetDefault("token_ttl_hours", 24)
	v.SetDefault("kafka_topic", "message-sent")
	v.SetDefault("ws_write_wait_seconds", 10)
	v.SetDefault("ws_pong_wait_seconds", 60)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	if c.JWTSecret == "" {
		c.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if c.JWTSecret == "" {
		return nil, errors.New("jwt_secret is required")
	}
	if c.GeminiAPIKey == "" {
		c.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}

	c.TokenTTL = time.Duration(c.TokenTTLHrs) * time.Hour
	c.WriteWait = time.Duration(c.WSWriteWaitSeconds) * time.Second
	c.PongWait = time.Duration(c.WSPongWaitSeconds) * time.Second
	return &c, nil
}
