package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/MKhiriev/go-cred-vault/internal/adapter"
	"github.com/MKhiriev/go-cred-vault/internal/config"
	"github.com/MKhiriev/go-cred-vault/internal/crypto"
	"github.com/MKhiriev/go-cred-vault/internal/keystore"
	"github.com/MKhiriev/go-cred-vault/internal/logger"
	"github.com/MKhiriev/go-cred-vault/internal/service"
	"github.com/MKhiriev/go-cred-vault/internal/session"
	"github.com/MKhiriev/go-cred-vault/internal/utils"
	"github.com/MKhiriev/go-cred-vault/internal/workers"
	"github.com/MKhiriev/go-cred-vault/models"
	"github.com/go-resty/resty/v2"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("vault-client")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	logger.SetLevel(cfg.App.LogLevel)

	keyStore, err := keystore.NewFileKeyStore(cfg.Keystore.Path, []byte(cfg.Keystore.MachineSecret))
	if err != nil {
		log.Fatal().Err(err).Msg("error opening key store")
	}

	keys := keystore.NewManager(keyStore, cfg.Keystore.KeyAlias)
	if _, err = keys.EnsureKey(); err != nil {
		log.Fatal().Err(err).Msg("error ensuring master key")
	}

	codec := service.NewRecordCodec(crypto.NewFieldCipher(), keys)
	remote := adapter.NewHTTPRemoteStore(adapter.HTTPClientConfig{
		BaseURL: cfg.Adapter.ServerURL,
		Timeout: cfg.Adapter.RequestTimeout,
	}, log)
	gate := session.NewTokenGate()
	repo := service.NewVaultRepository(remote, codec, gate, log)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	// the session worker owns attachment: every identity change on the gate,
	// including the initial sign-in below, re-attaches the repository
	workers.NewWorkers(
		&eventLogWorker{repo: repo, log: log},
		&sessionWorker{ctx: ctx, repo: repo, gate: gate, log: log},
	).Run()

	token, err := requestToken(ctx, cfg.Adapter)
	if err != nil {
		log.Fatal().Err(err).Msg("error exchanging login for token")
	}
	remote.SetSession(token.Token, token.UserID)
	if err = gate.SetToken(token.Token); err != nil {
		log.Fatal().Err(err).Msg("error applying session token")
	}
	defer repo.Detach()

	if err = demoAddAndList(ctx, repo, log); err != nil {
		log.Err(err).Msg("demo cycle failed")
	}

	<-ctx.Done()
	log.Info().Msg("client shutting down")
}

// requestToken exchanges the configured login for a signed JWT.
func requestToken(ctx context.Context, cfg config.ClientAdapter) (models.TokenResponse, error) {
	var response models.TokenResponse

	resp, err := resty.New().
		SetBaseURL(cfg.ServerURL).
		SetTimeout(cfg.RequestTimeout).
		R().
		SetContext(ctx).
		SetBody(models.TokenRequest{Login: cfg.Login}).
		SetResult(&response).
		Post("/api/auth/token")
	if err != nil {
		return models.TokenResponse{}, fmt.Errorf("token request: %w", err)
	}
	if resp.StatusCode() != 200 {
		return models.TokenResponse{}, fmt.Errorf("token request returned %s", resp.Status())
	}

	return response, nil
}

// demoAddAndList writes one credential, waits for the remote acknowledgement
// and logs the synced decrypted view.
func demoAddAndList(ctx context.Context, repo service.VaultRepository, log *logger.Logger) error {
	record := models.CredentialRecord{
		ID:           utils.NewRecordIDGenerator().Generate(),
		Category:     models.CategoryWebsite,
		AppName:      "demo",
		Password:     "correct-horse-battery-staple",
		Username:     "demo-user",
		WebURL:       "https://example.com/login",
		Website:      "example.com",
		WebsiteTitle: "Example",
	}

	done, err := repo.Add(ctx, record)
	if err != nil {
		return fmt.Errorf("adding demo record: %w", err)
	}

	select {
	case err = <-done:
		if err != nil {
			return fmt.Errorf("remote write failed: %w", err)
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	// give the watch stream a moment to deliver the fresh snapshot
	time.Sleep(time.Second)

	snapshot := repo.CurrentSnapshot()
	log.Info().Int("records", len(snapshot)).Msg("vault synced")
	for _, r := range snapshot {
		log.Info().Str("id", r.ID).Str("website", r.Website).Str("username", r.Username).Msg("record")
	}

	return nil
}

// eventLogWorker drains the repository observability stream.
type eventLogWorker struct {
	repo service.VaultRepository
	log  *logger.Logger
}

func (w *eventLogWorker) Run() {
	go func() {
		for event := range w.repo.Events() {
			switch event.Type {
			case service.EventRecordSkipped:
				w.log.Warn().Str("recordID", event.RecordID).Err(event.Err).Msg("record skipped during sync")
			case service.EventSyncFailed:
				w.log.Error().Err(event.Err).Msg("sync failed, keeping last known snapshot")
			}
		}
	}()
}

// sessionWorker re-attaches the repository when the signed-in user changes
// and detaches on sign-out.
type sessionWorker struct {
	ctx  context.Context
	repo service.VaultRepository
	gate session.Gate
	log  *logger.Logger
}

func (w *sessionWorker) Run() {
	go func() {
		for {
			select {
			case <-w.ctx.Done():
				return
			case userID := <-w.gate.Changes():
				if userID == "" {
					w.log.Info().Msg("signed out, detaching vault")
					w.repo.Detach()
					continue
				}
				if err := w.repo.Attach(w.ctx, userID); err != nil {
					w.log.Err(err).Str("userID", userID).Msg("error re-attaching vault")
				}
			}
		}
	}()
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
