/*
Package config loads server configuration from the environment.

PURPOSE:
  One flat place for everything tunable at deploy time: listen port,
  database path, CORS origins, the job-title keywords the authority
  rules classify on, and the optional GenAI credentials.

  A .env file in the working directory is loaded when present;
  explicit environment variables win over it. Every knob has a
  default, so `go run ./cmd/server` works with no setup.
*/
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Authority AuthorityConfig
	Roster    RosterConfig
	GenAI     GenAIConfig
}

type AppConfig struct {
	Port        int
	LogLevel    string
	CORSOrigins []string
}

type DatabaseConfig struct {
	Path string
}

// AuthorityConfig holds the job-title keywords used to classify
// department heads and deputies. Matching is case-insensitive
// substring matching.
type AuthorityConfig struct {
	HeadKeywords   []string
	DeputyKeywords []string
}

type GenAIConfig struct {
	APIKey string
	Model  string
}

// RosterConfig holds the job-title keywords the roster importer uses
// to derive system roles from imported titles.
type RosterConfig struct {
	TopKeywords     []string
	ManagerKeywords []string
}

// Load reads configuration from a .env file (if present) and the
// environment. A missing .env is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: getEnvSlice("CORS_ORIGINS", "*"),
	}

	config.Database = DatabaseConfig{
		Path: getEnv("DB_PATH", "./data/attendance.db"),
	}

	config.Authority = AuthorityConfig{
		HeadKeywords:   getEnvSlice("HEAD_TITLE_KEYWORDS", "head,chief,director"),
		DeputyKeywords: getEnvSlice("DEPUTY_TITLE_KEYWORDS", "deputy,vice,assistant"),
	}

	config.Roster = RosterConfig{
		TopKeywords:     getEnvSlice("TOP_TITLE_KEYWORDS", "general director,chairman,board,president"),
		ManagerKeywords: getEnvSlice("MANAGER_TITLE_KEYWORDS", "head,deputy,director,manager,chief"),
	}

	config.GenAI = GenAIConfig{
		APIKey: getEnv("GENAI_API_KEY", ""),
		Model:  getEnv("GENAI_MODEL", ""),
	}

	return config, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key, fallback string) []string {
	raw := getEnv(key, fallback)
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
