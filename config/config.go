package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	JWTKey string

	DBDriver string // sqlite, postgres or mysql
	DBName   string // sqlite file path, or database name for server drivers

	StellarNetwork string
	HorizonURL     string
	FriendbotURL   string
	MockStellar    bool

	SyncCron string // cron spec for the ledger reconciliation sweep
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:   getEnv("PORT", "3000"),
		JWTKey: getEnv("JWT_SECRET_KEY", "defaultSecret"),

		DBDriver: getEnv("DB_DRIVER", "sqlite"),
		DBName:   getEnv("DB_NAME", "donations.db"),

		StellarNetwork: getEnv("STELLAR_NETWORK", "testnet"),
		HorizonURL:     getEnv("HORIZON_URL", "https://horizon-testnet.stellar.org"),
		FriendbotURL:   getEnv("FRIENDBOT_URL", "https://friendbot.stellar.org"),
		MockStellar:    getEnvBool("MOCK_STELLAR", false),

		SyncCron: getEnv("SYNC_CRON", "@every 1m"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.MockStellar {
		log.Println("Using MOCK Stellar service")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvBool retrieves an environment variable as a boolean or returns the default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return boolValue
}
