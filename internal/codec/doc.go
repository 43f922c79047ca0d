// Package codec converts location readings to and from their encrypted
// wire form: canonical JSON, OAEP/SHA-512 for one recipient, base64.
// Both directions mirror the format exactly and fail closed on any
// mismatch.
package codec
