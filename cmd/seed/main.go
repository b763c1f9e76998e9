package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"househunt/internal/apiclient"
	"househunt/internal/config"
	"househunt/internal/service"
)

//go:embed accounts.json
var defaultAccounts []byte

func main() {
	file := flag.String("file", "", "seed file with the accounts to register (defaults to the built-in demo accounts)")
	flag.Parse()

	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	logger.Info("starting seed", "api", cfg.APIBaseURL)

	accounts, err := loadAccounts(*file)
	if err != nil {
		logger.Error("load seed file", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := apiclient.New(cfg.APIBaseURL, cfg.APITimeout, logger)
	res, err := service.SeedAccounts(ctx, service.NewAuthService(client), accounts, logger)
	if err != nil {
		logger.Error("seed failed", "error", err, "created", res.Created, "skipped", res.Skipped)
		os.Exit(1)
	}

	logger.Info("seed completed", "created", res.Created, "skipped", res.Skipped, "total", len(accounts))
}

// loadAccounts reads the seed file, or the built-in accounts when path is empty.
func loadAccounts(path string) ([]service.SeedAccount, error) {
	data := defaultAccounts
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	var accounts []service.SeedAccount
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return accounts, nil
}
