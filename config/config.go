package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// External calendar service (Cal.com-style API).
	CalAPIBaseURL string `mapstructure:"CAL_API_BASE_URL"`
	CalAPIKey     string `mapstructure:"CAL_API_KEY"`
	CalTimeZone   string `mapstructure:"CAL_TIMEZONE"`

	// Matching engine knobs. The urgency multipliers here are the canonical
	// table; see DESIGN.md for the rejected UI-side variant.
	UrgentMultiplier       float64 `mapstructure:"URGENT_MULTIPLIER"`
	EmergencyMultiplier    float64 `mapstructure:"EMERGENCY_MULTIPLIER"`
	DefaultSearchRadiusMi  float64 `mapstructure:"DEFAULT_SEARCH_RADIUS_MI"`
	DefaultMinRating       float64 `mapstructure:"DEFAULT_MIN_RATING"`
	DefaultJobDurationHrs  float64 `mapstructure:"DEFAULT_JOB_DURATION_HRS"`
	SlotWidthHrs           float64 `mapstructure:"SLOT_WIDTH_HRS"`
	AvailabilityTimeoutSec int     `mapstructure:"AVAILABILITY_TIMEOUT_SEC"`

	// Reconciliation job.
	ReconcileIntervalMin int `mapstructure:"RECONCILE_INTERVAL_MIN"`
	ReconcileMaxAgeMin   int `mapstructure:"RECONCILE_MAX_AGE_MIN"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "tapstead")
	viper.SetDefault("CAL_API_BASE_URL", "https://api.cal.com/v1")
	viper.SetDefault("CAL_API_KEY", "")
	viper.SetDefault("CAL_TIMEZONE", "America/New_York")
	viper.SetDefault("URGENT_MULTIPLIER", 1.25)
	viper.SetDefault("EMERGENCY_MULTIPLIER", 1.5)
	viper.SetDefault("DEFAULT_SEARCH_RADIUS_MI", 50.0)
	viper.SetDefault("DEFAULT_MIN_RATING", 3.0)
	viper.SetDefault("DEFAULT_JOB_DURATION_HRS", 2.0)
	viper.SetDefault("SLOT_WIDTH_HRS", 2.0)
	viper.SetDefault("AVAILABILITY_TIMEOUT_SEC", 5)
	viper.SetDefault("RECONCILE_INTERVAL_MIN", 15)
	viper.SetDefault("RECONCILE_MAX_AGE_MIN", 30)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
