// Package identity manages the device's protocol identity: a single
// RSA keypair and 64-bit identifier, generated on first run, persisted in
// secure-storage slots, and immutable thereafter.
package identity
