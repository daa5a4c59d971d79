package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

func getInt32Env(key string, fallback int32) int32 {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(i)
		}
		log.Printf("Invalid int32 for %s, using fallback", key)
	}
	return fallback
}

func getFloat64Env(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Printf("Invalid float for %s, using fallback", key)
	}
	return fallback
}

// getLocationEnv loads an IANA zone name such as "America/Argentina/Buenos_Aires".
func getLocationEnv(key string, fallback *time.Location) *time.Location {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		if loc, err := time.LoadLocation(value); err == nil {
			return loc
		}
		log.Printf("Invalid timezone for %s, using %s", key, fallback)
	}
	return fallback
}
