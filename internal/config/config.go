package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port         string
	DBPath       string
	APIKey       string
	Seed         int64
	RiskFreeRate float64
	Assets       int
	Days         int
	InitialCash  float64
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8080"),
		DBPath:       getEnv("DB_PATH", ":memory:"),
		APIKey:       getEnv("API_KEY", ""),
		Seed:         getInt64("SEED", 1),
		RiskFreeRate: getFloat("RISK_FREE_RATE", 0.025),
		Assets:       getInt("ASSETS", 5),
		Days:         getInt("DAYS", 0),
		InitialCash:  getFloat("INITIAL_CASH", 1000),
	}
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getInt64(key string, fallback int64) int64 {
	v, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}
