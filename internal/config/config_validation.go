// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks that the final merged [StructuredConfig] satisfies the
// invariants shared by every runtime before it is used at startup.
//
// Role-specific requirements are checked by the server and client views;
// the merged config itself only has to be internally consistent.
func (cfg *StructuredConfig) validate() error {
	switch cfg.Storage.DB.Driver {
	case "", "pgx", "sqlite3":
	default:
		return ErrInvalidStorageConfigs
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" || cfg.App.TokenDuration == 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.Storage.DB.Driver == "" || cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Adapter.ServerURL == "" || cfg.Adapter.Login == "" {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Keystore.Path == "" || cfg.Keystore.MachineSecret == "" {
		return ErrInvalidKeystoreConfigs
	}

	return nil
}
