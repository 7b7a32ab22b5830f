package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/taskline/internal/backend"
	"github.com/alexanderramin/taskline/internal/backend/todoist"
	"github.com/alexanderramin/taskline/internal/cli"
	"github.com/alexanderramin/taskline/internal/config"
	"github.com/alexanderramin/taskline/internal/db"
	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/alexanderramin/taskline/internal/repository"
	"github.com/alexanderramin/taskline/internal/service"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	dbPath := cfg.DBPath
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".taskline", "taskline.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	uow := db.NewSQLiteUnitOfWork(database)

	// Seed a default backend row on first run.
	backendRepo := repository.NewSQLiteBackendRepo(database)
	be, err := activeBackend(backendRepo, cfg)
	if err != nil {
		return err
	}

	// Register the adapter only when a token is available; commands that
	// never touch the remote work without one.
	registry := backend.NewRegistry()
	if token := os.Getenv(be.TokenEnv); token != "" {
		registry.Register(be.ID, todoist.New(token))
	}

	var observer service.OpObserver
	if cfg.LogOps {
		observer = service.NewLogOpObserver(os.Stderr)
	}

	syncSvc := service.NewSyncService(registry, database, uow, cfg.StaleAfter, observer)
	app := &cli.App{
		Sync:      syncSvc,
		Mutations: service.NewMutationService(registry, database, uow, observer),
		Queries:   service.NewQueryService(database),
		BackendID: be.ID,
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.SyncInterval > 0 {
		syncSvc.StartAutoSync(ctx, be.ID, cfg.SyncInterval)
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}

// activeBackend returns the first enabled backend, creating the default
// Todoist one when the table is empty.
func activeBackend(repo *repository.SQLiteBackendRepo, cfg config.Config) (*domain.Backend, error) {
	ctx := context.Background()
	backends, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range backends {
		if b.Enabled {
			return b, nil
		}
	}

	be := &domain.Backend{
		ID:       uuid.New().String(),
		Type:     domain.BackendTodoist,
		Name:     "Todoist",
		TokenEnv: cfg.TokenEnv,
		Enabled:  true,
	}
	if err := repo.Upsert(ctx, be); err != nil {
		return nil, fmt.Errorf("seeding backend: %w", err)
	}
	return be, nil
}
