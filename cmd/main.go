package main

import (
	"context"
	"errors"
	"os"

	"github.com/duskfall/gamedex/internal/auth"
	"github.com/duskfall/gamedex/internal/services"
	"github.com/duskfall/gamedex/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		}
	}

	provider := auth.NewRESTProvider(config.Identity, nil)
	session := auth.NewSession()
	session.Subscribe(provider)
	provider.Start()

	client := auth.NewClient(session, nil)
	apiService := services.NewAPIService(config.API.BaseURL, client, config.API.RateLimit)
	gameService := services.NewGameService(apiService)
	discoveryService := services.NewDiscoveryService(apiService)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Provider:   provider,
		Session:    session,
		Games:      gameService,
		Discovery:  discoveryService,
		API:        apiService,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "gamedex",
		Usage:    "Track, browse, and sync a personal game collection",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
