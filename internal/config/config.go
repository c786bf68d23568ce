package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"premierstats/internal/util"
)

type Config struct {
	OutputDir  string
	ArchiveDir string
	DBPath     string
	AliasPath  string
	LogLevel   string

	SiteBaseURL  string
	LeagueURL    string
	TeamTableID  string
	UserAgent    string
	TimeoutMs    int
	RequestDelay time.Duration
	Workers      int

	MinutesThreshold float64

	TransferBaseURL          string
	TransferPages            int
	TransferMinutesThreshold float64
	TransferValueScale       util.Scale
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	scale, ok := util.ParseScale(getEnv("TRANSFER_VALUE_SCALE", string(util.ScaleMillions)))
	if !ok {
		return Config{}, fmt.Errorf("invalid TRANSFER_VALUE_SCALE: %q", os.Getenv("TRANSFER_VALUE_SCALE"))
	}

	cfg := Config{
		OutputDir:  getEnv("OUTPUT_DIR", filepath.Join(cwd, "output")),
		ArchiveDir: getEnv("ARCHIVE_DIR", filepath.Join(cwd, "archives")),
		DBPath:     getEnv("DB_PATH", ""),
		AliasPath:  getEnv("ALIASES_PATH", ""),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		SiteBaseURL:  getEnv("SITE_BASE_URL", "https://fbref.com"),
		LeagueURL:    getEnv("LEAGUE_URL", "https://fbref.com/en/comps/9/2024-2025/2024-2025-Premier-League-Stats"),
		TeamTableID:  getEnv("TEAM_TABLE_ID", "results2024-202591_overall"),
		UserAgent:    getEnv("USER_AGENT", "premierstats/0.1"),
		TimeoutMs:    getEnvInt("HTTP_TIMEOUT_MS", 30000),
		RequestDelay: time.Duration(getEnvInt("REQUEST_DELAY_MS", 6000)) * time.Millisecond,
		Workers:      getEnvInt("WORKERS", 1),

		MinutesThreshold: getEnvFloat("MINUTES_THRESHOLD", 90),

		TransferBaseURL:          getEnv("TRANSFER_BASE_URL", "https://www.footballtransfers.com/en/values/players/most-valuable-soccer-players/playing-in-uk-premier-league"),
		TransferPages:            getEnvInt("TRANSFER_PAGES", 22),
		TransferMinutesThreshold: getEnvFloat("TRANSFER_MINUTES_THRESHOLD", 900),
		TransferValueScale:       scale,
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.LeagueURL) == "" {
		return fmt.Errorf("missing required env var: LEAGUE_URL")
	}
	if strings.TrimSpace(c.TeamTableID) == "" {
		return fmt.Errorf("missing required env var: TEAM_TABLE_ID")
	}
	if c.RequestDelay < 0 {
		return fmt.Errorf("REQUEST_DELAY_MS must not be negative")
	}
	if c.TransferPages < 1 {
		return fmt.Errorf("TRANSFER_PAGES must be at least 1")
	}
	return nil
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
