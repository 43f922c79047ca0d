// Package crypto exposes the asymmetric primitives used by the client.
//
// Contents
//
//   - RSA identity keypair generation (GenerateKeypair)
//   - OAEP/SHA-512 encryption and decryption (EncryptOAEP, DecryptOAEP)
//   - PEM encoding/decoding of public (PKIX) and private (PKCS#1) keys
//   - Short public-key fingerprints for display/logging (Fingerprint)
//   - Best-effort memory wiping for sensitive byte slices (Wipe)
//
// Every location payload is encrypted per-message for one recipient. There
// is no session key and no forward secrecy; payload size is bounded by the
// OAEP plaintext ceiling of the 4096-bit modulus.
package crypto
