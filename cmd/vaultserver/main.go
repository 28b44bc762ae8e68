package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-cred-vault/internal/config"
	handlerhttp "github.com/MKhiriev/go-cred-vault/internal/handler/http"
	"github.com/MKhiriev/go-cred-vault/internal/logger"
	"github.com/MKhiriev/go-cred-vault/internal/server"
	"github.com/MKhiriev/go-cred-vault/internal/store"
	"github.com/MKhiriev/go-cred-vault/migrations"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("vault-server")
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	logger.SetLevel(cfg.App.LogLevel)

	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	db, err := connectDB(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err = migrations.Migrate(db.DB, cfg.Storage.DB.Driver); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	vaultStore := store.NewVaultRecordRepository(db, log)
	hub := handlerhttp.NewWatchHub()

	handlers := handlerhttp.NewHandler(vaultStore, hub, handlerhttp.TokenSettings{
		SignKey:       cfg.App.TokenSignKey,
		Issuer:        cfg.App.TokenIssuer,
		TokenDuration: cfg.App.TokenDuration,
	}, log)

	srv, err := server.NewServer(handlers.Init(), cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func connectDB(ctx context.Context, cfg config.DB, log *logger.Logger) (*store.DB, error) {
	switch cfg.Driver {
	case "pgx":
		return store.NewConnectPostgres(ctx, cfg.DSN, log)
	case "sqlite3":
		return store.NewConnectSQLite(ctx, cfg.DSN, log)
	default:
		return nil, fmt.Errorf("unknown database driver: %q", cfg.Driver)
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
