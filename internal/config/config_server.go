package config

import (
	"fmt"
	"time"
)

// ServerApp holds token and logging settings used by the sync server.
type ServerApp struct {
	// TokenSignKey is the JWT signing secret.
	TokenSignKey string
	// TokenIssuer is the "iss" claim on issued tokens.
	TokenIssuer string
	// TokenDuration is the token lifetime.
	TokenDuration time.Duration
	// LogLevel is the zerolog level name.
	LogLevel string
}

// ServerConfig is the top-level server configuration assembled from
// [StructuredConfig].
type ServerConfig struct {
	// App contains token and logging settings.
	App ServerApp
	// Server contains listen address and timeouts.
	Server Server
	// Storage contains database settings.
	Storage Storage
}

// GetServerConfig builds and validates a server-specific config view from
// the merged structured configuration, applying defaults for optional
// fields.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		App: ServerApp{
			TokenSignKey:  cfg.App.TokenSignKey,
			TokenIssuer:   cfg.App.TokenIssuer,
			TokenDuration: cfg.App.TokenDuration,
			LogLevel:      cfg.App.LogLevel,
		},
		Server:  cfg.Server,
		Storage: cfg.Storage,
	}

	if serverCfg.App.TokenIssuer == "" {
		serverCfg.App.TokenIssuer = "go-cred-vault"
	}
	if serverCfg.App.TokenDuration == 0 {
		serverCfg.App.TokenDuration = 24 * time.Hour
	}
	if serverCfg.Server.HTTPAddress == "" {
		serverCfg.Server.HTTPAddress = "localhost:8080"
	}
	if serverCfg.Storage.DB.Driver == "" {
		serverCfg.Storage.DB.Driver = "sqlite3"
	}
	if serverCfg.Storage.DB.DSN == "" && serverCfg.Storage.DB.Driver == "sqlite3" {
		serverCfg.Storage.DB.DSN = "vault.db"
	}

	return serverCfg, serverCfg.validate()
}
