package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "inventory.db", cfg.DBDSN)
	assert.Equal(t, "inventory.csv", cfg.SeedPath)
	assert.Equal(t, "backup.csv", cfg.BackupPath)
	assert.Equal(t, "01/02/2006", cfg.DateLayout)
	assert.Equal(t, "$", cfg.CurrencySymbol)
	assert.True(t, cfg.SeedStrict)
	assert.True(t, cfg.ClearScreen)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STOCKROOM_DB_DSN", "/tmp/other.db")
	t.Setenv("STOCKROOM_SEED_STRICT", "false")
	t.Setenv("STOCKROOM_DATE_LAYOUT", "2006-01-02")
	t.Setenv("STOCKROOM_CURRENCY_SYMBOL", "€")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/other.db", cfg.DBDSN)
	assert.False(t, cfg.SeedStrict)
	assert.Equal(t, "2006-01-02", cfg.DateLayout)
	assert.Equal(t, "€", cfg.CurrencySymbol)
}

func TestLoad_BadBool(t *testing.T) {
	t.Setenv("STOCKROOM_SEED_STRICT", "maybe")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{
		DBDSN:      "x.db",
		SeedPath:   "seed.csv",
		BackupPath: "backup.csv",
		DateLayout: "01/02/2006",
	}
	require.NoError(t, base.Validate())

	noDSN := base
	noDSN.DBDSN = " "
	assert.Error(t, noDSN.Validate())

	noBackup := base
	noBackup.BackupPath = ""
	assert.Error(t, noBackup.Validate())

	// a layout without a day component cannot reproduce the date
	lossy := base
	lossy.DateLayout = "01/2006"
	assert.Error(t, lossy.Validate())
}
