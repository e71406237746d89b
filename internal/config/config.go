package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// readSecret reads a Docker secret from a file path specified by an env var
// with _FILE suffix. If FOO is already set directly, the file is skipped.
// If FOO_FILE is set, reads the file content and sets FOO.
func readSecret(envKey string) {
	if os.Getenv(envKey) != "" {
		return
	}
	fileKey := envKey + "_FILE"
	filePath := os.Getenv(fileKey)
	if filePath == "" {
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	val := strings.TrimSpace(string(data))
	os.Setenv(envKey, val)
}

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Queue     QueueConfig
	Pricing   PricingConfig
	Archive   ArchiveConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration int // hours
}

type RateLimitConfig struct {
	SubmitPerHour int
	VerifyPerMin  int
}

type QueueConfig struct {
	SpeedA        float64 // pages per minute
	SpeedB        float64
	NameCacheSize int
}

type PricingConfig struct {
	MonochromePerPage int
	ColorPerPage      int
	UrgentSurcharge   int
}

type ArchiveConfig struct {
	RetentionHours int
	IntervalMins   int
}

func Load() (*Config, error) {
	// Read Docker Swarm secrets from _FILE env vars before Viper binds
	readSecret("REDIS_PASSWORD")
	readSecret("JWT_SECRET")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variables
	viper.AutomaticEnv()

	// Bind environment variables with underscores to nested config keys
	_ = viper.BindEnv("server.port", "SERVER_PORT")
	_ = viper.BindEnv("server.env", "SERVER_ENV")
	_ = viper.BindEnv("server.log_level", "LOG_LEVEL")
	_ = viper.BindEnv("redis.addr", "REDIS_ADDR")
	_ = viper.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = viper.BindEnv("redis.db", "REDIS_DB")
	_ = viper.BindEnv("jwt.secret", "JWT_SECRET")
	_ = viper.BindEnv("jwt.expiration", "JWT_EXPIRATION")
	_ = viper.BindEnv("ratelimit.submit_per_hour", "RATELIMIT_SUBMIT_PER_HOUR")
	_ = viper.BindEnv("ratelimit.verify_per_min", "RATELIMIT_VERIFY_PER_MIN")
	_ = viper.BindEnv("queue.speed_a", "QUEUE_SPEED_A")
	_ = viper.BindEnv("queue.speed_b", "QUEUE_SPEED_B")
	_ = viper.BindEnv("queue.name_cache_size", "QUEUE_NAME_CACHE_SIZE")
	_ = viper.BindEnv("pricing.monochrome_per_page", "PRICING_MONOCHROME_PER_PAGE")
	_ = viper.BindEnv("pricing.color_per_page", "PRICING_COLOR_PER_PAGE")
	_ = viper.BindEnv("pricing.urgent_surcharge", "PRICING_URGENT_SURCHARGE")
	_ = viper.BindEnv("archive.retention_hours", "ARCHIVE_RETENTION_HOURS")
	_ = viper.BindEnv("archive.interval_mins", "ARCHIVE_INTERVAL_MINS")

	// Defaults
	viper.SetDefault("server.port", "8000")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("jwt.secret", "change-me-in-production")
	viper.SetDefault("jwt.expiration", 24)
	viper.SetDefault("ratelimit.submit_per_hour", 30)
	viper.SetDefault("ratelimit.verify_per_min", 20)

	// Printer speeds in pages per minute
	viper.SetDefault("queue.speed_a", 25.0)
	viper.SetDefault("queue.speed_b", 30.0)
	viper.SetDefault("queue.name_cache_size", 512)

	// Rates in whole rupees
	viper.SetDefault("pricing.monochrome_per_page", 2)
	viper.SetDefault("pricing.color_per_page", 5)
	viper.SetDefault("pricing.urgent_surcharge", 5)

	viper.SetDefault("archive.retention_hours", 24)
	viper.SetDefault("archive.interval_mins", 60)

	// Try to read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port:     viper.GetString("server.port"),
			Env:      viper.GetString("server.env"),
			LogLevel: viper.GetString("server.log_level"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:     viper.GetString("jwt.secret"),
			Expiration: viper.GetInt("jwt.expiration"),
		},
		RateLimit: RateLimitConfig{
			SubmitPerHour: viper.GetInt("ratelimit.submit_per_hour"),
			VerifyPerMin:  viper.GetInt("ratelimit.verify_per_min"),
		},
		Queue: QueueConfig{
			SpeedA:        viper.GetFloat64("queue.speed_a"),
			SpeedB:        viper.GetFloat64("queue.speed_b"),
			NameCacheSize: viper.GetInt("queue.name_cache_size"),
		},
		Pricing: PricingConfig{
			MonochromePerPage: viper.GetInt("pricing.monochrome_per_page"),
			ColorPerPage:      viper.GetInt("pricing.color_per_page"),
			UrgentSurcharge:   viper.GetInt("pricing.urgent_surcharge"),
		},
		Archive: ArchiveConfig{
			RetentionHours: viper.GetInt("archive.retention_hours"),
			IntervalMins:   viper.GetInt("archive.interval_mins"),
		},
	}

	return cfg, nil
}
