package config

import (
	"os"
	"strconv"
)

// Config holds all knot configuration.
type Config struct {
	Grouping GroupingConfig
	Source   SourceConfig
	Output   OutputConfig
	LogLevel string
}

// GroupingConfig selects the grouping behavior for the configured project.
// Rule text lives in files; knot reads them, it never writes them.
type GroupingConfig struct {
	Project            string
	AlgorithmVersion   int
	EnhancementsPath   string
	FingerprintingPath string
}

// SourceConfig selects where events come from.
type SourceConfig struct {
	Provider string // "stdin" or "file"
	Path     string // event file for the file provider
	Mode     string // "stream" or "batch"
}

// OutputConfig selects where grouped events go.
type OutputConfig struct {
	Format     string // "stdout", "file", "webhook", "sqlite"
	Path       string // destination file for the file format
	DBPath     string // sqlite database path; set alongside another format to also roll up issues
	WebhookURL string
	Verbosity  string // "minimal", "standard", "full"
	Pretty     bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Grouping: GroupingConfig{
			Project:            getenv("KNOT_PROJECT", "default"),
			AlgorithmVersion:   getenvInt("KNOT_ALGORITHM_VERSION", 1),
			EnhancementsPath:   os.Getenv("KNOT_ENHANCEMENTS_PATH"),
			FingerprintingPath: os.Getenv("KNOT_FINGERPRINTING_PATH"),
		},
		Source: SourceConfig{
			Provider: getenv("KNOT_SOURCE", "stdin"),
			Path:     os.Getenv("KNOT_INPUT_PATH"),
			Mode:     getenv("KNOT_MODE", "stream"),
		},
		Output: OutputConfig{
			Format:     getenv("KNOT_OUTPUT", "stdout"),
			Path:       os.Getenv("KNOT_OUTPUT_PATH"),
			DBPath:     os.Getenv("KNOT_DB_PATH"),
			WebhookURL: os.Getenv("KNOT_WEBHOOK_URL"),
			Verbosity:  getenv("KNOT_VERBOSITY", "standard"),
			Pretty:     getenvBool("KNOT_PRETTY", false),
		},
		LogLevel: getenv("KNOT_LOG_LEVEL", "info"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
