package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// loadEnv reads a .env file from the working directory when one exists.
// Variables already set in the environment win.
func loadEnv() {
	_ = godotenv.Load()
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("ignoring non-integer environment value")
		return defaultVal
	}
	return v
}

func getEnvUint64(key string, defaultVal uint64) uint64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("ignoring non-integer environment value")
		return defaultVal
	}
	return v
}
