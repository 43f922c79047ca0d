// Package domain defines the core types and interfaces of the
// location-sharing client: peer records, location readings, the local
// identity, the wire envelope, and the service/store contracts the rest of
// the program is wired through.
package domain
