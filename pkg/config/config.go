package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

type BettingConfig struct {
	Stake               int `json:"stake"`
	Payout              int `json:"payout"`
	PollIntervalMinutes int `json:"poll_interval_minutes"`
	BetWindowMinutes    int `json:"bet_window_minutes"`
	NavTimeoutMinutes   int `json:"nav_timeout_minutes"`
}

type RiotConfig struct {
	AccountRegion     string  `json:"account_region"` // americas/europe/asia, account lookups work on any
	MatchRegion       string  `json:"match_region"`   // match data is region-specific
	RequestsPerSecond float64 `json:"requests_per_second"`
	Burst             int     `json:"burst"`
}

type DatabaseConfig struct {
	Type string `json:"type"` // "sqlite" or "postgres"
}

type GeneralConfig struct {
	BotName        string         `json:"bot_name"`
	CurrencyName   string         `json:"currency_name"`
	CurrencySymbol string         `json:"currency_symbol"`
	EnableAPI      bool           `json:"enable_api"`
	ApiPort        string         `json:"api_port"`
	Database       DatabaseConfig `json:"database"`
	Betting        BettingConfig  `json:"betting"`
	Riot           RiotConfig     `json:"riot"`
}

var (
	Bot        GeneralConfig
	DBType     string
	ConnString string
)

func Load() {
	loadJSON("config.json", &Bot)
	applyDefaults()
	setupDatabaseConfig()
}

func applyDefaults() {
	if Bot.Betting.Stake <= 0 {
		Bot.Betting.Stake = 100
	}
	if Bot.Betting.Payout <= 0 {
		Bot.Betting.Payout = 200
	}
	if Bot.Betting.PollIntervalMinutes <= 0 {
		Bot.Betting.PollIntervalMinutes = 5
	}
	if Bot.Betting.BetWindowMinutes <= 0 {
		Bot.Betting.BetWindowMinutes = 75
	}
	if Bot.Betting.NavTimeoutMinutes <= 0 {
		Bot.Betting.NavTimeoutMinutes = 3
	}
	if Bot.Riot.AccountRegion == "" {
		Bot.Riot.AccountRegion = "americas"
	}
	if Bot.Riot.MatchRegion == "" {
		Bot.Riot.MatchRegion = "americas"
	}
	if Bot.Riot.RequestsPerSecond <= 0 {
		Bot.Riot.RequestsPerSecond = 10
	}
	if Bot.Riot.Burst <= 0 {
		Bot.Riot.Burst = 5
	}
	if Bot.CurrencyName == "" {
		Bot.CurrencyName = "coins"
	}
}

// PollInterval returns the betting poll cadence as a duration.
func (c *BettingConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMinutes) * time.Minute
}

// BetWindow returns the settlement deadline budget for one wager.
func (c *BettingConfig) BetWindow() time.Duration {
	return time.Duration(c.BetWindowMinutes) * time.Minute
}

// NavTimeout returns how long a stat display stays interactive.
func (c *BettingConfig) NavTimeout() time.Duration {
	return time.Duration(c.NavTimeoutMinutes) * time.Minute
}

func setupDatabaseConfig() {
	// DB_TYPE from .env overrides config.json
	DBType = os.Getenv("DB_TYPE")
	if DBType == "" {
		DBType = Bot.Database.Type
	}

	switch DBType {
	case "postgres":
		ConnString = buildPostgresConnectionString()
	case "sqlite":
		fallthrough
	default:
		ConnString = os.Getenv("SQLITE_PATH")
		if ConnString == "" {
			ConnString = "./riftbook.db"
		}
		DBType = "sqlite"
	}
}

func buildPostgresConnectionString() string {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		log.Println("Using DATABASE_URL from environment")
		return dbURL
	}

	host := os.Getenv("DB_HOST")
	if host == "" {
		log.Fatal("DB_HOST is required for PostgreSQL. Set it in .env file or use DATABASE_URL")
	}

	portStr := os.Getenv("DB_PORT")
	port := 5432
	if portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			port = p
		}
	}

	user := os.Getenv("DB_USER")
	if user == "" {
		log.Fatal("DB_USER is required for PostgreSQL. Set it in .env file")
	}

	password := os.Getenv("DB_PASSWORD")
	if password == "" {
		log.Fatal("DB_PASSWORD is required for PostgreSQL. Set it in .env file")
	}

	dbname := os.Getenv("DB_NAME")
	if dbname == "" {
		dbname = "postgres"
	}

	sslmode := os.Getenv("DB_SSLMODE")
	if sslmode == "" {
		sslmode = "require"
	}

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)
}

func loadJSON(filename string, target interface{}) {
	file, err := os.ReadFile(filename)
	if err != nil {
		log.Fatalf("Error reading %s: %v", filename, err)
	}

	err = json.Unmarshal(file, target)
	if err != nil {
		log.Fatalf("Error parsing %s: %v", filename, err)
	}
}
