package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=12h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	Redis     RedisConfig
	Mongo     MongoConfig
	Kafka     KafkaConfig
	Geolocate GeolocateConfig
	Monitor   MonitorConfig
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=field_console"`
}

type KafkaConfig struct {
	Enabled bool     `env:"KAFKA_ENABLED, default=false"`
	Brokers []string `env:"KAFKA_BROKERS, default=localhost:9092"`
	Topic   string   `env:"KAFKA_TOPIC,   default=console.notifications"`
}

type GeolocateConfig struct {
	BaseURL  string `env:"GEOLOCATE_URL,         default=http://localhost:9101"`
	RetryMax int    `env:"GEOLOCATE_RETRY_MAX,   default=2"`
}

type MonitorConfig struct {
	Interval         time.Duration `env:"MONITOR_INTERVAL,          default=10s"`
	ProbeTimeout     time.Duration `env:"MONITOR_PROBE_TIMEOUT,     default=10s"`
	MaximumAge       time.Duration `env:"MONITOR_MAXIMUM_AGE,       default=30s"`
	FailureThreshold int           `env:"MONITOR_FAILURE_THRESHOLD, default=3"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
