package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
)

// Config holds every setting of the service. It is loaded once at start up
// and handed to the components that need it.
type Config struct {
	ServerAddress  string        `mapstructure:"SERVER_ADDRESS"`
	GinMode        string        `mapstructure:"GIN_MODE"`
	StoreDriver    string        `mapstructure:"STORE_DRIVER"`
	DBSource       string        `mapstructure:"DB_SOURCE"`
	SQLitePath     string        `mapstructure:"SQLITE_PATH"`
	RedisAddr      string        `mapstructure:"REDIS_ADDR"`
	RedisPassword  string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB        int           `mapstructure:"REDIS_DB"`
	MapAPIKey      string        `mapstructure:"MAP_API_KEY"`
	GoogleMapURL   string        `mapstructure:"GOOGLE_MAP_URL"`
	GeocodeTimeout time.Duration `mapstructure:"GEOCODE_TIMEOUT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	LogFormat      string        `mapstructure:"LOG_FORMAT"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":  ":8080",
	"GIN_MODE":        "release",
	"STORE_DRIVER":    DriverMemory,
	"DB_SOURCE":       "",
	"SQLITE_PATH":     "data/geodistance.db",
	"REDIS_ADDR":      "localhost:6379",
	"REDIS_PASSWORD":  "",
	"REDIS_DB":        0,
	"MAP_API_KEY":     "",
	"GOOGLE_MAP_URL":  "",
	"GEOCODE_TIMEOUT": 5 * time.Second,
	"LOG_LEVEL":       "info",
	"LOG_FORMAT":      "json",
}

// LoadConfig reads app.env from path, then lets environment variables (and a
// .env file in the working directory) override it. A missing app.env is fine.
func LoadConfig(path string) (config Config, err error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: read %s/app.env: %w", path, err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: decode: %w", err)
	}

	config.StoreDriver = strings.ToLower(strings.TrimSpace(config.StoreDriver))
	switch config.StoreDriver {
	case DriverMemory, DriverPostgres, DriverSQLite, DriverRedis:
	default:
		return config, fmt.Errorf("config: unknown STORE_DRIVER %q", config.StoreDriver)
	}

	if config.StoreDriver == DriverPostgres && config.DBSource == "" {
		return config, errors.New("config: DB_SOURCE is required for the postgres store")
	}

	return config, nil
}

// Geocoder returns the upstream settings used by the resolver.
func (c Config) Geocoder() GeocoderConfig {
	return GeocoderConfig{
		URL:     c.GoogleMapURL,
		APIKey:  c.MapAPIKey,
		Timeout: c.GeocodeTimeout,
	}
}
