package domain

import (
	"crypto/rsa"
)

// PeerID identifies a participant. IDs are 64-bit, globally unique, and
// assigned by the relay's registration contract (or generated locally for
// the owning device).
type PeerID uint64

// ShareStatus is the relationship between the local device and a peer.
type ShareStatus int

const (
	// ShareMutual means both sides accepted the sharing request.
	ShareMutual ShareStatus = iota
	// ShareAwaitingOutbound means we sent a request the peer has not accepted.
	ShareAwaitingOutbound
	// ShareAwaitingInbound means the peer requested sharing and we have not
	// responded yet.
	ShareAwaitingInbound
)

// Coordinate is a latitude/longitude pair. It is embedded, never stored
// on its own.
type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// LocationReading is one observation of a device's position. Readings are
// immutable once created and are never transmitted in cleartext.
type LocationReading struct {
	ID          string     `json:"id"`
	PeerID      PeerID     `json:"peerId"`
	Coordinate  Coordinate `json:"coordinate"`
	Speed       float64    `json:"speed"`
	Accuracy    float64    `json:"accuracy"`
	TimestampMS int64      `json:"timestamp"`
	Battery     float64    `json:"battery"`
	Stationary  bool       `json:"stationary"`
}

// PeerRecord is the persisted and cached state for one peer. EncryptionKey,
// when set, holds the peer's public key as PEM text; a key that fails to
// decode is treated as a cache miss, never as a fatal error.
type PeerRecord struct {
	ID            PeerID
	Name          string
	PhotoRef      string
	LocationLabel string
	Sharing       bool
	Status        ShareStatus
	Battery       *float64
	Coordinate    *Coordinate
	LastMovedMS   int64
	LastReading   *LocationReading
	DeleteAtMS    *int64
	EncryptionKey string
}

// Expired reports whether the record is eligible for pruning at nowMS.
func (r PeerRecord) Expired(nowMS int64) bool {
	return r.DeleteAtMS != nil && *r.DeleteAtMS <= nowMS
}

// Identity holds the local device's protocol identity. There is exactly one
// per installation; the private key never leaves the device.
type Identity struct {
	ID         PeerID
	PublicKey  *rsa.PublicKey
	PrivateKey *rsa.PrivateKey
}

// Envelope is the wire structure carrying one encrypted location reading.
type Envelope struct {
	RecipientID PeerID `json:"recipientUserID"`
	Payload     string `json:"encryptedLocation"` // base64 ciphertext
}
