package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"stockroom/internal/config"
	"stockroom/internal/csvio"
	applog "stockroom/internal/log"
	"stockroom/internal/menu"
	"stockroom/internal/repos"
	"stockroom/internal/services"
)

func main() {
	os.Exit(run())
}

func run() int {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	// Logs go to a file by default so they stay out of the menu.
	var logOut io.Writer = os.Stderr
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not open log file %s: %v\n", cfg.LogFile, err)
		} else {
			defer f.Close()
			logOut = f
		}
	}
	applog.Setup(applog.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: logOut})

	ctx, _ := applog.WithRunID(context.Background())

	applog.Info(ctx, "config.loaded", map[string]any{
		"db": cfg.DBDSN, "seed": cfg.SeedPath, "backup": cfg.BackupPath, "seed_strict": cfg.SeedStrict,
	})

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		applog.Error(ctx, "db.open.fail", err, nil)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer db.Close()

	svc := services.NewInventoryService(
		repos.NewProductRepo(db),
		csvio.Options{DateLayout: cfg.DateLayout, CurrencySymbol: cfg.CurrencySymbol},
		cfg.SeedStrict,
	)

	if _, err := svc.Seed(ctx, cfg.SeedPath); err != nil {
		applog.Error(ctx, "seed.fail", err, map[string]any{"path": cfg.SeedPath})
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	m := menu.New(svc, os.Stdin, os.Stdout, menu.Options{
		BackupPath:  cfg.BackupPath,
		DateLayout:  cfg.DateLayout,
		ClearScreen: cfg.ClearScreen,
	})
	if err := m.Run(ctx); err != nil {
		applog.Error(ctx, "menu.fail", err, nil)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	applog.Info(ctx, "shutdown", nil)
	return 0
}
