// Package commands defines the locshare CLI: identity creation,
// registration, encrypted publish/receive, sharing requests, and peer
// working-set maintenance.
package commands
