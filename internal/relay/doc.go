// Package relay provides the HTTP implementation of domain.RelayClient.
//
// The relay brokers registration, public-key discovery, encrypted location
// exchange, and sharing requests between peers. All requests are JSON over
// HTTP POST and accept a context for cancellation and deadlines. Non-2xx
// statuses are returned as errors carrying the path and status text.
//
// Key discovery is trust-on-first-use: the relay is trusted to return the
// correct public key for an identifier, and nothing signs the binding
// beyond what the relay asserts. Stronger directory authentication is a
// non-goal here; the client isolates the contract behind domain.RelayClient
// so an authenticated variant can be substituted later.
package relay
