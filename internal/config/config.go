// Package config loads runtime settings from the environment
package config

import (
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Load registers defaults and binds settings to environment variables
func Load() error {
	viper.SetDefault("DATA_DIR", "data")

	// Lake level source
	viper.SetDefault("KARIBA_SOURCE_URL", "https://www.zambezira.org/hydrology/lake-levels/1000")
	viper.SetDefault("FETCH_TIMEOUT", "10s")
	viper.SetDefault("FETCH_SCHEDULE", "0 6 * * *")
	viper.SetDefault("TREND_WINDOW_DAYS", 7)

	// Storage: csv, sqlite or postgres
	viper.SetDefault("SERIES_BACKEND", "csv")
	viper.SetDefault("DB_DSN", "")

	// Inputs maintained by operators
	viper.SetDefault("LOCATIONS_FILE", "locations.txt")
	viper.SetDefault("GENERATION_FILE", "")

	// Presentation
	viper.SetDefault("API_ADDR", ":8080")
	viper.SetDefault("TELEGRAM_BOT_TOKEN", "")

	viper.AutomaticEnv()
	return nil
}

func DataDir() string             { return viper.GetString("DATA_DIR") }
func KaribaSourceURL() string     { return viper.GetString("KARIBA_SOURCE_URL") }
func FetchTimeout() time.Duration { return viper.GetDuration("FETCH_TIMEOUT") }
func FetchSchedule() string       { return viper.GetString("FETCH_SCHEDULE") }
func TrendWindowDays() int        { return viper.GetInt("TREND_WINDOW_DAYS") }
func SeriesBackend() string       { return viper.GetString("SERIES_BACKEND") }
func LocationsFile() string       { return viper.GetString("LOCATIONS_FILE") }
func APIAddr() string             { return viper.GetString("API_ADDR") }
func TelegramBotToken() string    { return viper.GetString("TELEGRAM_BOT_TOKEN") }

// DBDSN returns the database location. For sqlite it defaults to a file in the data directory.
func DBDSN() string {
	if dsn := viper.GetString("DB_DSN"); dsn != "" {
		return dsn
	}
	if SeriesBackend() == "sqlite" {
		return filepath.Join(DataDir(), "kariba_levels.db")
	}
	return ""
}

// GenerationFile returns the manual generation figures file, defaulting to power_data.txt in the data directory
func GenerationFile() string {
	if path := viper.GetString("GENERATION_FILE"); path != "" {
		return path
	}
	return filepath.Join(DataDir(), "power_data.txt")
}

// SeriesFile returns the CSV file holding the lake level series
func SeriesFile() string {
	return filepath.Join(DataDir(), "kariba_levels.csv")
}
