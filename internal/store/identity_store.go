package store

import (
	"errors"
	"fmt"
	"strconv"

	"locshare/internal/crypto"
	"locshare/internal/domain"
)

// Named secure-storage slots for the local identity. The private key is the
// only sealed slot; the public half and the identifier are not secret.
const (
	slotPrivateKey = "identity_private.enc"
	slotPublicKey  = "identity_public.pem"
	slotIdentifier = "identity_id"
)

// IdentityFileStore persists the local identity across the three slots.
type IdentityFileStore struct {
	slots *SecretStore
}

// NewIdentityFileStore returns an IdentityFileStore over slots.
func NewIdentityFileStore(slots *SecretStore) *IdentityFileStore {
	return &IdentityFileStore{slots: slots}
}

// SaveIdentity writes all three slots.
func (s *IdentityFileStore) SaveIdentity(passphrase string, id domain.Identity) error {
	privPEM := []byte(crypto.EncodePrivatePEM(id.PrivateKey))
	defer crypto.Wipe(privPEM)
	if err := s.slots.PutSealed(slotPrivateKey, passphrase, privPEM); err != nil {
		return fmt.Errorf("save private key: %w", err)
	}

	pubPEM, err := crypto.EncodePublicPEM(id.PublicKey)
	if err != nil {
		return err
	}
	if err := s.slots.Put(slotPublicKey, []byte(pubPEM)); err != nil {
		return fmt.Errorf("save public key: %w", err)
	}
	if err := s.slots.Put(slotIdentifier, []byte(strconv.FormatUint(uint64(id.ID), 10))); err != nil {
		return fmt.Errorf("save identifier: %w", err)
	}
	return nil
}

// LoadIdentity reads the three slots back. ok=false means no identity has
// been created yet. Material that exists but fails to decode is returned as
// an error: the device cannot act as a protocol participant, and silently
// regenerating would orphan its existing registration.
func (s *IdentityFileStore) LoadIdentity(passphrase string) (domain.Identity, bool, error) {
	idRaw, err := s.slots.Get(slotIdentifier)
	if errors.Is(err, ErrNoSlot) {
		return domain.Identity{}, false, nil
	}
	if err != nil {
		return domain.Identity{}, false, err
	}
	idNum, err := strconv.ParseUint(string(idRaw), 10, 64)
	if err != nil {
		return domain.Identity{}, false, fmt.Errorf("corrupt identifier slot: %w", err)
	}

	privPEM, err := s.slots.GetSealed(slotPrivateKey, passphrase)
	if err != nil {
		return domain.Identity{}, false, fmt.Errorf("load private key: %w", err)
	}
	defer crypto.Wipe(privPEM)
	priv, err := crypto.DecodePrivatePEM(string(privPEM))
	if err != nil {
		return domain.Identity{}, false, fmt.Errorf("corrupt private key slot: %w", err)
	}

	pubPEM, err := s.slots.Get(slotPublicKey)
	if err != nil {
		return domain.Identity{}, false, fmt.Errorf("load public key: %w", err)
	}
	pub, err := crypto.DecodePublicPEM(string(pubPEM))
	if err != nil {
		return domain.Identity{}, false, fmt.Errorf("corrupt public key slot: %w", err)
	}

	return domain.Identity{
		ID:         domain.PeerID(idNum),
		PublicKey:  pub,
		PrivateKey: priv,
	}, true, nil
}

var _ domain.IdentityStore = (*IdentityFileStore)(nil)
