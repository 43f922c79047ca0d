package domain

import (
	"context"
	"crypto/rsa"
)

// RelayClient is the raw wire surface of the relay. Every method performs a
// single HTTP exchange and returns the transport/protocol error unclassified;
// the Network State Monitor wraps these calls and owns failure policy.
type RelayClient interface {
	Register(ctx context.Context, id PeerID, publicKeyPEM string) error
	GetKey(ctx context.Context, id PeerID) (keyB64 string, err error)
	PublishLocation(ctx context.Context, env Envelope) error
	ReceiveLocations(ctx context.Context, id PeerID) (payloads []string, err error)
	SendSharingRequest(ctx context.Context, requester, requested PeerID) error
	RetrieveSharingRequests(ctx context.Context, requester PeerID) ([]PeerID, error)
	ReportProblem(ctx context.Context, problem string) error
}

// IdentityService owns the device's protocol identity.
type IdentityService interface {
	// Initialize loads the persisted identity, generating and persisting a
	// fresh one if none exists. Corrupt persisted key material is fatal.
	Initialize(passphrase string) error
	// Current returns the in-memory identity. It never regenerates.
	Current() (Identity, error)
}

// DirectoryService registers the local key and resolves peers' keys.
type DirectoryService interface {
	Register(ctx context.Context) bool
	EnsureSelfRegistered(ctx context.Context) bool
	ResolveKey(ctx context.Context, id PeerID) (*rsa.PublicKey, bool)
}

// LocationService publishes and pulls encrypted readings.
type LocationService interface {
	Publish(ctx context.Context, reading LocationReading, recipient PeerID) bool
	Receive(ctx context.Context) ([]LocationReading, bool)
}

// SharingService sends and retrieves pending mutual-sharing requests.
type SharingService interface {
	SendRequest(ctx context.Context, target PeerID) bool
	PendingRequests(ctx context.Context) ([]PeerID, bool)
}

// IdentityStore persists the local key material and identifier in named
// secure-storage slots.
type IdentityStore interface {
	SaveIdentity(passphrase string, id Identity) error
	// LoadIdentity returns ok=false when no identity has been stored yet.
	// Stored-but-undecodable material is an error, not a miss.
	LoadIdentity(passphrase string) (Identity, bool, error)
}

// PeerStore is the durable source of truth for peer records across restarts.
// The Peer Cache loads from it at start and flushes back wholesale on save.
type PeerStore interface {
	LoadAll(ctx context.Context) ([]PeerRecord, error)
	ReplaceAll(ctx context.Context, records []PeerRecord) error
}

// HistoryStore appends received readings to the local location history.
type HistoryStore interface {
	Append(ctx context.Context, reading LocationReading) error
	ByPeer(ctx context.Context, id PeerID) ([]LocationReading, error)
}
