package crypto

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/MKhiriev/go-cred-vault/internal/keystore"
	"github.com/MKhiriev/go-cred-vault/models"
)

// ivSize is the AES block size; CBC uses one block as the IV.
const ivSize = 16

type fieldCipher struct{}

// NewFieldCipher constructs the AES-CBC/PKCS7 [FieldCipher].
func NewFieldCipher() FieldCipher {
	return &fieldCipher{}
}

// EncryptField implements [FieldCipher].
func (c *fieldCipher) EncryptField(plaintext string, key keystore.Key) (models.Ciphered, error) {
	if plaintext == "" {
		return "", nil
	}

	block, err := key.Block()
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}

	iv := make([]byte, ivSize)
	if _, err = io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("generate iv: %w", err)
	}

	padded := pkcs7Pad([]byte(plaintext), block.BlockSize())
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	// Prepend the IV so DecryptField can split it back out.
	blob := append(iv, ciphertext...)
	return models.Ciphered(base64.StdEncoding.EncodeToString(blob)), nil
}

// DecryptField implements [FieldCipher].
func (c *fieldCipher) DecryptField(encoded models.Ciphered, key keystore.Key) (string, error) {
	if encoded == "" {
		return "", nil
	}

	blob, err := base64.StdEncoding.DecodeString(string(encoded))
	if err != nil {
		return "", fmt.Errorf("%w: decode base64: %v", ErrMalformedCiphertext, err)
	}
	// Minimum is a full IV plus at least one ciphertext byte.
	if len(blob) < ivSize+1 {
		return "", fmt.Errorf("%w: blob length %d", ErrMalformedCiphertext, len(blob))
	}

	iv, ciphertext := blob[:ivSize], blob[ivSize:]

	block, err := key.Block()
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}
	if len(ciphertext)%block.BlockSize() != 0 {
		return "", fmt.Errorf("%w: ciphertext length %d not block-aligned", ErrMalformedCiphertext, len(ciphertext))
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, block.BlockSize())
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}
