// Package sharing implements the mutual-sharing request exchange.
package sharing
