package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"go-inventory-pos/pkg/database"
)

type Config struct {
	Port string

	Database database.Options

	JWTSecret string
	JWTTTL    time.Duration

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	ReportCacheTTL time.Duration

	LowStockThreshold int

	AdminUsername string
	AdminPassword string
}

// Load reads configuration from the environment with defaults.
// Call godotenv.Load first if a .env file should be honoured.
func Load() Config {
	return Config{
		Port: getEnv("PORT", "3000"),
		Database: database.Options{
			Driver:      getEnv("DB_DRIVER", database.DriverSQLite),
			Path:        getEnv("DB_PATH", "inventory.db"),
			DatabaseURL: os.Getenv("DATABASE_URL"),
			LogLevel:    getEnv("DB_LOG_LEVEL", "warn"),
		},
		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTTTL:            time.Duration(getInt("JWT_TTL_HOURS", 24)) * time.Hour,
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getInt("REDIS_DB", 0),
		ReportCacheTTL:    time.Duration(getInt("REPORT_CACHE_TTL_SECONDS", 30)) * time.Second,
		LowStockThreshold: getInt("LOW_STOCK_THRESHOLD", 10),
		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
	}
}

func (c Config) Address() string {
	return ":" + c.Port
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Printf("invalid integer for %s: %s", key, v)
		return def
	}
	return n
}
