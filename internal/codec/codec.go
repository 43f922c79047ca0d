package codec

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"locshare/internal/crypto"
	"locshare/internal/domain"
)

// Encrypt serializes reading to its canonical JSON form, encrypts the bytes
// for recipient's public key under OAEP/SHA-512, and wraps the base64
// ciphertext in a wire envelope addressed to recipient.
func Encrypt(reading domain.LocationReading, recipient domain.PeerID, pub *rsa.PublicKey) (domain.Envelope, error) {
	plain, err := json.Marshal(reading)
	if err != nil {
		return domain.Envelope{}, fmt.Errorf("encode reading: %w", err)
	}
	ct, err := crypto.EncryptOAEP(pub, plain)
	crypto.Wipe(plain)
	if err != nil {
		return domain.Envelope{}, fmt.Errorf("encrypt reading: %w", err)
	}
	return domain.Envelope{
		RecipientID: recipient,
		Payload:     base64.StdEncoding.EncodeToString(ct),
	}, nil
}

// Decrypt reverses Encrypt for a payload addressed to the local identity.
// Any mismatch in encoding, padding, or digest fails closed with an error;
// a corrupt reading is never returned.
func Decrypt(payload string, priv *rsa.PrivateKey) (domain.LocationReading, error) {
	ct, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return domain.LocationReading{}, fmt.Errorf("decode payload: %w", err)
	}
	plain, err := crypto.DecryptOAEP(priv, ct)
	if err != nil {
		return domain.LocationReading{}, fmt.Errorf("decrypt payload: %w", err)
	}
	var reading domain.LocationReading
	err = json.Unmarshal(plain, &reading)
	crypto.Wipe(plain)
	if err != nil {
		return domain.LocationReading{}, fmt.Errorf("decode reading: %w", err)
	}
	return reading, nil
}
