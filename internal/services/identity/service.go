package identity

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"locshare/internal/crypto"
	"locshare/internal/domain"
)

// ErrNotInitialized is returned by Current before Initialize has run.
var ErrNotInitialized = errors.New("identity not initialized")

// Service owns the device's protocol identity: one asymmetric keypair and
// one locally generated 64-bit identifier, created on first run and loaded
// into memory for the rest of the process lifetime.
type Service struct {
	store domain.IdentityStore
	log   *zap.Logger

	mu      sync.Mutex
	current *domain.Identity
}

// New returns an identity service backed by store.
func New(store domain.IdentityStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log.Named("identity")}
}

// Initialize loads the persisted identity, generating and persisting a
// fresh one if none exists yet. Persisted material that fails to decode is
// a fatal configuration error: regenerating would orphan the device's
// existing relay registration, so the error propagates instead.
func (s *Service) Initialize(passphrase string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		return nil
	}

	id, ok, err := s.store.LoadIdentity(passphrase)
	if err != nil {
		return fmt.Errorf("identity: %w", err)
	}
	if !ok {
		id, err = s.generate(passphrase)
		if err != nil {
			return fmt.Errorf("identity: %w", err)
		}
		s.log.Info("identity created",
			zap.Uint64("id", uint64(id.ID)),
			zap.String("fingerprint", crypto.Fingerprint(id.PublicKey)),
		)
	}
	s.current = &id
	return nil
}

// Current returns the in-memory identity. It never regenerates.
func (s *Service) Current() (domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.Identity{}, ErrNotInitialized
	}
	return *s.current, nil
}

func (s *Service) generate(passphrase string) (domain.Identity, error) {
	priv, err := crypto.GenerateKeypair()
	if err != nil {
		return domain.Identity{}, fmt.Errorf("generate keypair: %w", err)
	}
	localID, err := randomID()
	if err != nil {
		return domain.Identity{}, err
	}
	id := domain.Identity{
		ID:         localID,
		PublicKey:  &priv.PublicKey,
		PrivateKey: priv,
	}
	if err := s.store.SaveIdentity(passphrase, id); err != nil {
		return domain.Identity{}, err
	}
	return id, nil
}

// randomID draws a nonzero random 64-bit identifier.
func randomID() (domain.PeerID, error) {
	var buf [8]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			return 0, fmt.Errorf("generate identifier: %w", err)
		}
		if id := binary.BigEndian.Uint64(buf[:]); id != 0 {
			return domain.PeerID(id), nil
		}
	}
}

var _ domain.IdentityService = (*Service)(nil)
