package main

import (
	"log"
	"os"

	"github.com/custodia-labs/stockctl/internal/adapters/driven/config/file"
	"github.com/custodia-labs/stockctl/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/stockctl/internal/adapters/driving/cli"
	"github.com/custodia-labs/stockctl/internal/api"
	"github.com/custodia-labs/stockctl/internal/core/services"
	"github.com/custodia-labs/stockctl/internal/identity"
	"github.com/custodia-labs/stockctl/internal/logger"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cli.SetVersion(version)

	// Create unified SQLite store for all local persistence
	sqliteStore, err := sqlite.NewStore("")
	if err != nil {
		log.Printf("failed to create SQLite store: %v", err)
		return 1
	}
	defer sqliteStore.Close()

	// Load configuration (file plus STOCKCTL_* environment overrides)
	configStore, err := file.NewConfigStore("")
	if err != nil {
		log.Printf("failed to create config store: %v", err)
		return 1
	}
	settings, err := configStore.Load()
	if err != nil {
		log.Printf("failed to load configuration: %v", err)
		return 1
	}
	if settings.API.BaseURL == "" {
		log.Printf("missing required configuration: api.base_url (edit %s or set STOCKCTL_API_BASE_URL)", configStore.Path())
		return 1
	}

	// Identity manager validates its configuration up front
	manager, err := identity.NewManager(identity.Config{
		ClientID:     settings.Identity.ClientID,
		Authority:    settings.Identity.Authority,
		APIScope:     settings.Identity.APIScope,
		AuthURL:      settings.Identity.AuthURL,
		TokenURL:     settings.Identity.TokenURL,
		CallbackPort: settings.Identity.CallbackPort,
	}, sqliteStore.TokenStore(), identity.WithLogger(logger.Default()))
	if err != nil {
		log.Printf("invalid configuration: %v", err)
		return 1
	}

	// API client and core service
	client := api.NewClient(settings.API.BaseURL, manager, api.WithLogger(logger.Default()))
	inventorySvc := services.NewInventoryService(client, sqliteStore.ChangeStore(), logger.Default())

	// Inject services into CLI commands
	cli.SetServices(&cli.Services{
		Inventory: inventorySvc,
		Identity:  manager,
	})

	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}
