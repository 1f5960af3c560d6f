package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Catalog  CatalogConfig
	Feed     FeedConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type JWTConfig struct {
	SecretKey string
}

type CatalogConfig struct {
	BaseURL string
}

// FeedConfig surfaces the empirically-chosen ranking constants as
// configuration. Defaults match production behavior.
type FeedConfig struct {
	RemoteSync          bool
	PageSize            int
	ExplorationRatio    float64
	HalfLifeHours       float64
	MaxTrackedProducts  int
	ClassifierCacheSize int
	MinCategoryScore    float64
	MinConfidence       float64
	CategoryPenalty     float64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB := getEnvInt("REDIS_DB", 0)

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "MyShopFeed"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "my_shop_feed"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Catalog: CatalogConfig{
			BaseURL: getEnv("CATALOG_BASE_URL", ""),
		},
		Feed: FeedConfig{
			RemoteSync:          getEnv("FEED_REMOTE_SYNC", "false") == "true",
			PageSize:            getEnvInt("FEED_PAGE_SIZE", 12),
			ExplorationRatio:    getEnvFloat("FEED_EXPLORATION_RATIO", 0.25),
			HalfLifeHours:       getEnvFloat("FEED_HALF_LIFE_HOURS", 72),
			MaxTrackedProducts:  getEnvInt("FEED_MAX_TRACKED_PRODUCTS", 200),
			ClassifierCacheSize: getEnvInt("FEED_CLASSIFIER_CACHE_SIZE", 800),
			MinCategoryScore:    getEnvFloat("FEED_MIN_CATEGORY_SCORE", 2.0),
			MinConfidence:       getEnvFloat("FEED_MIN_CONFIDENCE", 0.34),
			CategoryPenalty:     getEnvFloat("FEED_CATEGORY_PENALTY", 2.5),
		},
	}

	if cfg.Feed.RemoteSync && cfg.Database.Password == "" {
		return nil, errors.New("missing database password for remote sync")
	}

	if cfg.Feed.RemoteSync && cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret for identity resolution")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}

	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}

	return defaultVal
}
