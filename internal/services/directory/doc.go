// Package directory implements registration and trust-on-first-use public
// key discovery against the relay.
package directory
