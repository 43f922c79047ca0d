package crypto

import (
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a short hex fingerprint of a public key for
// display and logging.
//
// It hashes the PKIX PEM encoding with SHA-256 and truncates to 10 bytes
// (20 hex chars).
func Fingerprint(pub *rsa.PublicKey) string {
	text, err := EncodePublicPEM(pub)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:10])
}
