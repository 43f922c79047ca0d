// Package location implements the encrypted location sync client: publish
// one reading per recipient, pull and decrypt the batch addressed to the
// local identity.
package location
