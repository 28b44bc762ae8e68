package service

import (
	"errors"
	"testing"

	"github.com/MKhiriev/go-cred-vault/internal/crypto"
	"github.com/MKhiriev/go-cred-vault/internal/keystore"
	"github.com/MKhiriev/go-cred-vault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) RecordCodec {
	t.Helper()
	manager := keystore.NewManager(keystore.NewMemoryKeyStore(), "codec-test")
	_, err := manager.EnsureKey()
	require.NoError(t, err)
	return NewRecordCodec(crypto.NewFieldCipher(), manager)
}

func sampleWebsiteRecord() models.CredentialRecord {
	return models.CredentialRecord{
		ID:           "1",
		Category:     models.CategoryWebsite,
		AppName:      "Example",
		Password:     "p@ss",
		Username:     "bob",
		WebURL:       "https://example.com",
		Website:      "example",
		WebsiteTitle: "Example — Sign in",
	}
}

func TestRecordCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec(t)
	record := sampleWebsiteRecord()

	wire, err := codec.ToWire(record)
	require.NoError(t, err)

	decoded, err := codec.FromWire(wire)
	require.NoError(t, err)
	assert.Equal(t, record, decoded)
}

func TestRecordCodec_ToWireLeavesMetadataClear(t *testing.T) {
	codec := newTestCodec(t)
	record := sampleWebsiteRecord()

	wire, err := codec.ToWire(record)
	require.NoError(t, err)

	assert.Equal(t, record.ID, wire.ID)
	assert.Equal(t, record.Category, wire.Category)
	assert.Equal(t, record.Website, wire.Website)

	// Sensitive fields must not survive in the clear.
	assert.NotEqual(t, models.Ciphered(record.Password), wire.Password)
	assert.NotEqual(t, models.Ciphered(record.Username), wire.Username)
	assert.NotEqual(t, models.Ciphered(record.WebURL), wire.WebURL)
	assert.NotEqual(t, models.Ciphered(record.AppName), wire.AppName)
	assert.NotEqual(t, models.Ciphered(record.WebsiteTitle), wire.WebsiteTitle)
}

func TestRecordCodec_ToWireReencryptsEveryCall(t *testing.T) {
	codec := newTestCodec(t)
	record := sampleWebsiteRecord()

	first, err := codec.ToWire(record)
	require.NoError(t, err)
	second, err := codec.ToWire(record)
	require.NoError(t, err)

	// Fresh IV per field per call.
	assert.NotEqual(t, first.Password, second.Password)
	assert.NotEqual(t, first.Username, second.Username)
}

func TestRecordCodec_EmptyOptionalFieldsStayEmpty(t *testing.T) {
	codec := newTestCodec(t)
	record := models.CredentialRecord{
		ID:       "2",
		Category: models.CategoryApp,
		AppName:  "Mail",
		Password: "secret",
		Username: "alice",
	}

	wire, err := codec.ToWire(record)
	require.NoError(t, err)
	assert.Equal(t, models.Ciphered(""), wire.WebURL)
	assert.Equal(t, models.Ciphered(""), wire.WebsiteTitle)
	assert.Equal(t, models.Ciphered(""), wire.PackageName)

	decoded, err := codec.FromWire(wire)
	require.NoError(t, err)
	assert.Equal(t, record, decoded)
}

func TestRecordCodec_FromWireReportsFailedField(t *testing.T) {
	codec := newTestCodec(t)

	wire, err := codec.ToWire(sampleWebsiteRecord())
	require.NoError(t, err)
	wire.Password = "!!! not a valid blob !!!"

	_, err = codec.FromWire(wire)
	require.Error(t, err)

	var decodeErr *RecordDecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, "password", decodeErr.Field)
	assert.Equal(t, "1", decodeErr.RecordID)
	assert.True(t, errors.Is(err, crypto.ErrMalformedCiphertext))
}

func TestRecordCodec_KeyNotEnsured(t *testing.T) {
	manager := keystore.NewManager(keystore.NewMemoryKeyStore(), "never-ensured")
	codec := NewRecordCodec(crypto.NewFieldCipher(), manager)

	_, err := codec.ToWire(sampleWebsiteRecord())
	assert.True(t, errors.Is(err, keystore.ErrKeyNotFound))
}
