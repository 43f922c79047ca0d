// Package store provides the client's durable state.
//
// It contains two backends:
//
//   - SecretStore / IdentityFileStore: named secure-storage slots for the
//     local key material and identifier. The private key is sealed at rest
//     with a passphrase-derived key (scrypt + ChaCha20-Poly1305).
//   - SQLite (via database/sql): the peer working set, loaded and flushed
//     wholesale by the Peer Cache, and the location-history table keyed by
//     {peer, timestamp}.
package store
