package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "STOCKROOM"

type Config struct {
	DBDSN          string `envconfig:"DB_DSN" default:"inventory.db"`
	SeedPath       string `envconfig:"SEED_PATH" default:"inventory.csv"`
	BackupPath     string `envconfig:"BACKUP_PATH" default:"backup.csv"`
	DateLayout     string `envconfig:"DATE_LAYOUT" default:"01/02/2006"`
	CurrencySymbol string `envconfig:"CURRENCY_SYMBOL" default:"$"`
	SeedStrict     bool   `envconfig:"SEED_STRICT" default:"true"`
	ClearScreen    bool   `envconfig:"CLEAR_SCREEN" default:"true"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
	LogFile   string `envconfig:"LOG_FILE" default:"stockroom.log"`
}

// Load reads STOCKROOM_* variables from the environment. Callers load any
// .env file before calling it.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DBDSN) == "" {
		return errors.New("config: DB_DSN is empty")
	}
	if strings.TrimSpace(c.SeedPath) == "" {
		return errors.New("config: SEED_PATH is empty")
	}
	if strings.TrimSpace(c.BackupPath) == "" {
		return errors.New("config: BACKUP_PATH is empty")
	}
	// The layout is used for both writing and reading backups, so it has
	// to reproduce the calendar day it formats.
	probe := time.Date(2020, time.January, 2, 0, 0, 0, 0, time.UTC)
	back, err := time.Parse(c.DateLayout, probe.Format(c.DateLayout))
	if err != nil || !sameDay(back, probe) {
		return fmt.Errorf("config: DATE_LAYOUT %q does not round-trip a date", c.DateLayout)
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
