package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or invalid.
var (
	// ErrInvalidServerConfigs indicates invalid server settings
	// (for example, missing listen address or token sign key).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, empty DSN or unknown driver).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidKeystoreConfigs indicates invalid master key store settings
	// (for example, missing file path or machine secret).
	ErrInvalidKeystoreConfigs = errors.New("invalid keystore configuration")
	// ErrInvalidAdapterConfigs indicates invalid client adapter settings
	// (for example, missing server URL or login).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
)
