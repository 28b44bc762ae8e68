package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseJSON_FullConfig(t *testing.T) {
	path := writeConfigFile(t, `{
		"app": {
			"token_sign_key": "jwt_secret",
			"token_issuer": "test_issuer",
			"token_duration": "2h",
			"log_level": "warn"
		},
		"storage": {
			"db": {"driver": "pgx", "dsn": "postgres://localhost/vault"}
		},
		"server": {
			"http_address": "0.0.0.0:8080",
			"request_timeout": "45s"
		},
		"keystore": {
			"path": "/tmp/master.key",
			"machine_secret": "machine-secret",
			"key_alias": "vault-master-key"
		},
		"adapter": {
			"server_url": "http://vault.example.com",
			"request_timeout": "10s",
			"login": "alice"
		}
	}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "jwt_secret", cfg.App.TokenSignKey)
	assert.Equal(t, "test_issuer", cfg.App.TokenIssuer)
	assert.Equal(t, 2*time.Hour, cfg.App.TokenDuration)
	assert.Equal(t, "warn", cfg.App.LogLevel)

	assert.Equal(t, "pgx", cfg.Storage.DB.Driver)
	assert.Equal(t, "postgres://localhost/vault", cfg.Storage.DB.DSN)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, 45*time.Second, cfg.Server.RequestTimeout)

	assert.Equal(t, "/tmp/master.key", cfg.Keystore.Path)
	assert.Equal(t, "machine-secret", cfg.Keystore.MachineSecret)
	assert.Equal(t, "vault-master-key", cfg.Keystore.KeyAlias)

	assert.Equal(t, "http://vault.example.com", cfg.Adapter.ServerURL)
	assert.Equal(t, 10*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, "alice", cfg.Adapter.Login)
}

func TestParseJSON_NumericDuration(t *testing.T) {
	path := writeConfigFile(t, `{"app": {"token_duration": 3600000000000}}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.App.TokenDuration)
}

func TestParseJSON_MissingFile(t *testing.T) {
	_, err := parseJSON(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading a json file")
}

func TestParseJSON_MalformedJSON(t *testing.T) {
	path := writeConfigFile(t, `{broken`)

	_, err := parseJSON(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error decoding json configs")
}

func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "localhost", input: "localhost:8080", want: "localhost:8080"},
		{name: "ip address", input: "127.0.0.1:9090", want: "127.0.0.1:9090"},
		{name: "missing port", input: "localhost", wantErr: true},
		{name: "bad port", input: "localhost:http", wantErr: true},
		{name: "negative port", input: "localhost:-1", wantErr: true},
		{name: "bad host", input: "not an ip:8080", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var addr NetAddress
			err := addr.Set(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, addr.String())
		})
	}
}
