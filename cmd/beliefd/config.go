package main

import (
	"os"
)

// Config holds configuration for the beliefd service
type Config struct {
	Port           string
	ProblemFile    string
	TuningFile     string
	LogLevel       string
	JaegerEndpoint string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:           getEnv("PORT", "8084"),
		ProblemFile:    getEnv("PROBLEM_FILE", "problem.yaml"),
		TuningFile:     getEnv("TUNING_FILE", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", ""),
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
