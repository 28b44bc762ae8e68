package http

import (
	"time"

	"github.com/MKhiriev/go-cred-vault/internal/logger"
	"github.com/MKhiriev/go-cred-vault/internal/store"
)

// TokenSettings carries everything the auth endpoints need to mint and
// verify JWTs.
type TokenSettings struct {
	SignKey       string
	Issuer        string
	TokenDuration time.Duration
}

type Handler struct {
	store store.VaultStore
	hub   *WatchHub
	auth  TokenSettings

	logger *logger.Logger
}

func NewHandler(vaultStore store.VaultStore, hub *WatchHub, auth TokenSettings, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		store:  vaultStore,
		hub:    hub,
		auth:   auth,
		logger: logger,
	}
}
