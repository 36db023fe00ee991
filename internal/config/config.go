package config

import (
	"fmt"
	"geo-form-service/internal/domain"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage and session backends.
const (
	BackendCSV      = "csv"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendBolt     = "bolt"

	SessionMemory = "memory"
	SessionRedis  = "redis"
)

const DefaultTileURL = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"

type Config struct {
	Port           int
	StoreBackend   string
	CSVPath        string
	DBPath         string
	DatabaseURL    string
	BoltPath       string
	SessionBackend string
	RedisAddr      string
	SessionTTL     time.Duration
	Default        domain.Coordinates
	MapZoom        int
	TileURL        string
	LogLevel       string
	APITimeout     time.Duration
}

func setDefaults() {
	viper.SetDefault("PORT", 8080)
	viper.SetDefault("STORE_BACKEND", BackendCSV)
	viper.SetDefault("CSV_PATH", "dados_coletados.csv")
	viper.SetDefault("DB_PATH", "data/app.db")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("BOLT_PATH", "data/submissions.bolt")
	viper.SetDefault("SESSION_BACKEND", SessionMemory)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("SESSION_TTL", "24h")
	viper.SetDefault("DEFAULT_LAT", domain.DefaultCoordinates.Lat)
	viper.SetDefault("DEFAULT_LON", domain.DefaultCoordinates.Lon)
	viper.SetDefault("MAP_ZOOM", domain.DefaultZoom)
	viper.SetDefault("TILE_URL", DefaultTileURL)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("API_TIMEOUT", "30s")
}

// LoadDotEnv reads .env from the working directory when present. Variables
// already set in the environment win.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load resolves the configuration from the environment.
func Load() (Config, error) {
	viper.AutomaticEnv()
	setDefaults()

	cfg := Config{
		Port:           viper.GetInt("PORT"),
		StoreBackend:   strings.ToLower(strings.TrimSpace(viper.GetString("STORE_BACKEND"))),
		CSVPath:        viper.GetString("CSV_PATH"),
		DBPath:         viper.GetString("DB_PATH"),
		DatabaseURL:    viper.GetString("DATABASE_URL"),
		BoltPath:       viper.GetString("BOLT_PATH"),
		SessionBackend: strings.ToLower(strings.TrimSpace(viper.GetString("SESSION_BACKEND"))),
		RedisAddr:      viper.GetString("REDIS_ADDR"),
		SessionTTL:     viper.GetDuration("SESSION_TTL"),
		Default: domain.Coordinates{
			Lat: viper.GetFloat64("DEFAULT_LAT"),
			Lon: viper.GetFloat64("DEFAULT_LON"),
		},
		MapZoom:    viper.GetInt("MAP_ZOOM"),
		TileURL:    viper.GetString("TILE_URL"),
		LogLevel:   viper.GetString("LOG_LEVEL"),
		APITimeout: viper.GetDuration("API_TIMEOUT"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT %d out of range", c.Port)
	}

	switch c.StoreBackend {
	case BackendCSV:
		if strings.TrimSpace(c.CSVPath) == "" {
			return fmt.Errorf("CSV_PATH is required for the %s backend", c.StoreBackend)
		}
	case BackendSQLite:
		if strings.TrimSpace(c.DBPath) == "" {
			return fmt.Errorf("DB_PATH is required for the %s backend", c.StoreBackend)
		}
	case BackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s backend", c.StoreBackend)
		}
	case BackendBolt:
		if strings.TrimSpace(c.BoltPath) == "" {
			return fmt.Errorf("BOLT_PATH is required for the %s backend", c.StoreBackend)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.SessionBackend {
	case SessionMemory:
	case SessionRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("REDIS_ADDR is required for the %s session backend", c.SessionBackend)
		}
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}

	if !c.Default.InRange() {
		return fmt.Errorf("DEFAULT_LAT/DEFAULT_LON: %w", c.Default.Validate())
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive, got %v", c.APITimeout)
	}
	if c.MapZoom < 0 || c.MapZoom > 22 {
		return fmt.Errorf("MAP_ZOOM %d out of range", c.MapZoom)
	}

	return nil
}

// Get returns the environment value for key, or fallback when it is unset
// or blank.
func Get(key, fallback string) string {
	viper.AutomaticEnv()
	if v := strings.TrimSpace(viper.GetString(key)); v != "" {
		return v
	}
	return fallback
}
