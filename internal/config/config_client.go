package config

import (
	"fmt"
	"time"
)

// ClientApp holds client-side application settings derived from the shared
// structured config.
type ClientApp struct {
	// LogLevel is the zerolog level name.
	LogLevel string
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// ServerURL is the sync server base URL.
	ServerURL string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
	// Login is the account name exchanged for a token on startup.
	Login string
}

// ClientKeystore holds master key storage settings for the client.
type ClientKeystore struct {
	// Path is the wrapped-key file location.
	Path string
	// MachineSecret derives the key-wrapping key.
	MachineSecret string
	// KeyAlias names the master key entry; empty selects the default.
	KeyAlias string
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains application-level client settings.
	App ClientApp
	// Adapter contains sync server connection settings.
	Adapter ClientAdapter
	// Keystore contains master key storage settings.
	Keystore ClientKeystore
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, and validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		App: ClientApp{
			LogLevel: cfg.App.LogLevel,
		},
		Adapter: ClientAdapter{
			ServerURL:      cfg.Adapter.ServerURL,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			Login:          cfg.Adapter.Login,
		},
		Keystore: ClientKeystore{
			Path:          cfg.Keystore.Path,
			MachineSecret: cfg.Keystore.MachineSecret,
			KeyAlias:      cfg.Keystore.KeyAlias,
		},
	}

	if clientCfg.Adapter.ServerURL == "" {
		clientCfg.Adapter.ServerURL = "http://localhost:8080"
	}
	if clientCfg.Adapter.RequestTimeout == 0 {
		clientCfg.Adapter.RequestTimeout = 15 * time.Second
	}

	return clientCfg, clientCfg.validate()
}
