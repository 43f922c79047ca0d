package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha512"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
)

// KeyBits is the modulus size of generated identity keys. With OAEP/SHA-512
// padding a 4096-bit key leaves 382 bytes of plaintext, enough for one
// canonical location reading.
const KeyBits = 4096

var (
	// ErrNotRSA is returned when a PEM block decodes to a non-RSA key.
	ErrNotRSA = errors.New("not an RSA public key")
	// ErrBadPEM is returned when key material fails PEM decoding.
	ErrBadPEM = errors.New("malformed PEM block")
)

// GenerateKeypair returns a fresh RSA identity keypair.
func GenerateKeypair() (*rsa.PrivateKey, error) {
	return rsa.GenerateKey(rand.Reader, KeyBits)
}

// EncryptOAEP encrypts plaintext for pub using OAEP with a SHA-512 digest.
func EncryptOAEP(pub *rsa.PublicKey, plaintext []byte) ([]byte, error) {
	return rsa.EncryptOAEP(sha512.New(), rand.Reader, pub, plaintext, nil)
}

// DecryptOAEP decrypts an OAEP/SHA-512 ciphertext with the local private key.
func DecryptOAEP(priv *rsa.PrivateKey, ciphertext []byte) ([]byte, error) {
	return rsa.DecryptOAEP(sha512.New(), rand.Reader, priv, ciphertext, nil)
}

// EncodePublicPEM renders pub as a PKIX "PUBLIC KEY" PEM string.
func EncodePublicPEM(pub *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("marshal public key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})), nil
}

// DecodePublicPEM parses a PKIX "PUBLIC KEY" PEM string.
func DecodePublicPEM(text string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(text))
	if block == nil || block.Type != "PUBLIC KEY" {
		return nil, ErrBadPEM
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, ErrNotRSA
	}
	return rsaPub, nil
}

// EncodePrivatePEM renders priv as a PKCS#1 "RSA PRIVATE KEY" PEM string.
func EncodePrivatePEM(priv *rsa.PrivateKey) string {
	der := x509.MarshalPKCS1PrivateKey(priv)
	return string(pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: der}))
}

// DecodePrivatePEM parses a PKCS#1 "RSA PRIVATE KEY" PEM string.
func DecodePrivatePEM(text string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(text))
	if block == nil || block.Type != "RSA PRIVATE KEY" {
		return nil, ErrBadPEM
	}
	priv, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return priv, nil
}
