// Command relay is an in-memory development relay implementing the wire
// contract the client assumes: registration, key lookup, encrypted location
// store-and-forward, sharing requests, and problem reports. It keeps no
// durable state and is only meant for local end-to-end runs.
package main
