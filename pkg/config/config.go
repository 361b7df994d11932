package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/subosito/gotenv"
)

type Config struct {
	AppEnv   string
	LogLevel string

	Storage    StorageConfig
	CatalogDB  string
	Checkout   CheckoutConfig
	HTTPPort   string
	RequestTTL time.Duration
	// ShutdownTimeout bounds graceful shutdown of the page server.
	ShutdownTimeout time.Duration
}

type StorageConfig struct {
	Backend string
	Key     string

	BuntPath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration

	MongoURI    string
	MongoDBName string

	SQLitePath string

	Breaker bool
}

type CheckoutConfig struct {
	Phone      string
	ClearAfter bool
}

const DefaultStorageKey = "cleanShopCart"

// Load reads the environment, after applying an optional .env file from the
// working directory. Variables already set in the environment win.
func Load() Config {
	_ = gotenv.Load()

	return Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Storage: StorageConfig{
			Backend:       getEnv("CART_STORAGE", "bunt"),
			Key:           getEnv("CART_STORAGE_KEY", DefaultStorageKey),
			BuntPath:      getEnv("BUNT_PATH", "cleanshop.db"),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
			RedisTTL:      getEnvDuration("REDIS_TTL", 0),
			MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			MongoDBName:   getEnv("MONGO_DB_NAME", "cleanshop"),
			SQLitePath:    getEnv("SQLITE_PATH", "cleanshop-cart.sqlite"),
			Breaker:       getEnvBool("BREAKER_ENABLED", true),
		},
		CatalogDB: getEnv("CATALOG_PATH", "cleanshop-catalog.sqlite"),
		Checkout: CheckoutConfig{
			Phone:      getEnv("WHATSAPP_PHONE", "2348163645085"),
			ClearAfter: getEnvBool("CHECKOUT_CLEAR", false),
		},
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		RequestTTL:      getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
