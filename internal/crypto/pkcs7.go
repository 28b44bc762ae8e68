package crypto

import "bytes"

// pkcs7Pad pads b to a multiple of blockSize as specified in RFC 5652.
// Input that is already block-aligned gains a full block of padding so the
// padding is always unambiguously removable.
func pkcs7Pad(b []byte, blockSize int) []byte {
	padBytes := blockSize - len(b)%blockSize
	padding := bytes.Repeat([]byte{byte(padBytes)}, padBytes)
	return append(b, padding...)
}

// pkcs7Unpad removes PKCS7 padding. Unlike a programmer error, malformed
// padding here is a data error (wrong key or tampered ciphertext), so it is
// reported as [ErrDecryptionFailed] rather than a panic.
func pkcs7Unpad(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 || len(b)%blockSize != 0 {
		return nil, ErrDecryptionFailed
	}

	padBytes := int(b[len(b)-1])
	if padBytes == 0 || padBytes > blockSize || padBytes > len(b) {
		return nil, ErrDecryptionFailed
	}
	for _, v := range b[len(b)-padBytes:] {
		if int(v) != padBytes {
			return nil, ErrDecryptionFailed
		}
	}

	return b[:len(b)-padBytes], nil
}
