package service

import (
	"fmt"

	"github.com/MKhiriev/go-cred-vault/internal/crypto"
	"github.com/MKhiriev/go-cred-vault/models"
)

type recordCodec struct {
	cipher crypto.FieldCipher
	keys   KeyProvider
}

// NewRecordCodec constructs a [RecordCodec] over the given field cipher and
// key provider.
func NewRecordCodec(cipher crypto.FieldCipher, keys KeyProvider) RecordCodec {
	return &recordCodec{cipher: cipher, keys: keys}
}

// ToWire implements [RecordCodec].
func (c *recordCodec) ToWire(record models.CredentialRecord) (models.WireRecord, error) {
	key, err := c.keys.GetKey()
	if err != nil {
		return models.WireRecord{}, fmt.Errorf("get master key: %w", err)
	}

	wire := models.WireRecord{
		ID:       record.ID,
		Category: record.Category,
		Website:  record.Website,
	}

	fields := []struct {
		name string
		src  string
		dst  *models.Ciphered
	}{
		{"appName", record.AppName, &wire.AppName},
		{"packageName", record.PackageName, &wire.PackageName},
		{"password", record.Password, &wire.Password},
		{"username", record.Username, &wire.Username},
		{"webUrl", record.WebURL, &wire.WebURL},
		{"websiteTitle", record.WebsiteTitle, &wire.WebsiteTitle},
	}
	for _, f := range fields {
		encrypted, err := c.cipher.EncryptField(f.src, key)
		if err != nil {
			return models.WireRecord{}, fmt.Errorf("encrypt field %q: %w", f.name, err)
		}
		*f.dst = encrypted
	}

	return wire, nil
}

// FromWire implements [RecordCodec].
func (c *recordCodec) FromWire(wire models.WireRecord) (models.CredentialRecord, error) {
	key, err := c.keys.GetKey()
	if err != nil {
		return models.CredentialRecord{}, fmt.Errorf("get master key: %w", err)
	}

	record := models.CredentialRecord{
		ID:       wire.ID,
		Category: wire.Category,
		Website:  wire.Website,
	}

	fields := []struct {
		name string
		src  models.Ciphered
		dst  *string
	}{
		{"appName", wire.AppName, &record.AppName},
		{"packageName", wire.PackageName, &record.PackageName},
		{"password", wire.Password, &record.Password},
		{"username", wire.Username, &record.Username},
		{"webUrl", wire.WebURL, &record.WebURL},
		{"websiteTitle", wire.WebsiteTitle, &record.WebsiteTitle},
	}
	for _, f := range fields {
		plaintext, err := c.cipher.DecryptField(f.src, key)
		if err != nil {
			return models.CredentialRecord{}, &RecordDecodeError{RecordID: wire.ID, Field: f.name, Err: err}
		}
		*f.dst = plaintext
	}

	return record, nil
}
