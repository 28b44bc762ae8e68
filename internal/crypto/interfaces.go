// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto implements the field-level envelope encryption used by the
// vault: AES-256 in CBC mode with PKCS7 padding, one fresh random IV per
// call, encoded as base64(IV || ciphertext).
//
// CBC carries no authentication tag, so the scheme provides confidentiality
// but detects tampering only as far as padding validity goes. This is a
// known limitation preserved for compatibility with already-stored
// ciphertext; do not "fix" it without a data migration path.
package crypto

import (
	"github.com/MKhiriev/go-cred-vault/internal/keystore"
	"github.com/MKhiriev/go-cred-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/field_cipher_mock.go -package=mock

// FieldCipher is a stateless codec for individual string fields.
type FieldCipher interface {
	// EncryptField encrypts the UTF-8 bytes of plaintext under key with a
	// fresh random 16-byte IV and returns base64(IV || ciphertext).
	// Encrypting the same plaintext twice yields different outputs.
	//
	// The empty string maps to the empty string without any encryption —
	// absent optional fields are stored as "" and existing data depends on
	// this round-tripping exactly.
	EncryptField(plaintext string, key keystore.Key) (models.Ciphered, error)

	// DecryptField reverses EncryptField. The empty string maps to the
	// empty string. Returns [ErrMalformedCiphertext] for undecodable or
	// too-short input and [ErrDecryptionFailed] for padding or key
	// mismatches.
	DecryptField(encoded models.Ciphered, key keystore.Key) (string, error)
}
