package directory

import (
	"context"
	"crypto/rsa"
	"encoding/base64"

	"go.uber.org/zap"

	"locshare/internal/crypto"
	"locshare/internal/domain"
	"locshare/internal/netmon"
)

// Service registers the local public key with the relay and resolves peers'
// keys by identifier.
//
// Key discovery is trust-on-first-use: the relay's answer is accepted
// as-is, with no signature binding identifier to key. The service does not
// populate the Peer Cache itself; callers that want caching do so
// explicitly.
type Service struct {
	ids     domain.IdentityService
	relay   domain.RelayClient
	monitor *netmon.Monitor
	log     *zap.Logger
}

// New returns a directory client over relay, monitored by monitor.
func New(ids domain.IdentityService, relay domain.RelayClient, monitor *netmon.Monitor, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{ids: ids, relay: relay, monitor: monitor, log: log.Named("directory")}
}

// Register submits the local identifier and public key to the relay.
func (s *Service) Register(ctx context.Context) bool {
	id, err := s.ids.Current()
	if err != nil {
		s.log.Error("register without identity", zap.Error(err))
		return false
	}
	pemText, err := crypto.EncodePublicPEM(id.PublicKey)
	if err != nil {
		s.log.Error("encode public key", zap.Error(err))
		return false
	}
	keyB64 := base64.StdEncoding.EncodeToString([]byte(pemText))

	res := netmon.Execute(ctx, s.monitor, "register", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.relay.Register(ctx, id.ID, keyB64)
	})
	return res.Ok()
}

// EnsureSelfRegistered checks whether the relay knows the local identifier
// and registers if not. Registration only ever happens after a failed
// self-lookup, which keeps it idempotent by construction.
func (s *Service) EnsureSelfRegistered(ctx context.Context) bool {
	id, err := s.ids.Current()
	if err != nil {
		s.log.Error("self-lookup without identity", zap.Error(err))
		return false
	}
	if _, known := s.ResolveKey(ctx, id.ID); known {
		return true
	}
	return s.Register(ctx)
}

// ResolveKey fetches and decodes the public key the relay holds for id.
// A non-success status or a key that fails to decode resolves to a miss.
func (s *Service) ResolveKey(ctx context.Context, id domain.PeerID) (*rsa.PublicKey, bool) {
	res := netmon.Execute(ctx, s.monitor, "getkey", func(ctx context.Context) (string, error) {
		return s.relay.GetKey(ctx, id)
	})
	if !res.Ok() {
		return nil, false
	}

	pemText, err := base64.StdEncoding.DecodeString(res.Value)
	if err != nil {
		s.log.Warn("undecodable key record", zap.Uint64("peer", uint64(id)), zap.Error(err))
		return nil, false
	}
	pub, err := crypto.DecodePublicPEM(string(pemText))
	if err != nil {
		s.log.Warn("undecodable key record", zap.Uint64("peer", uint64(id)), zap.Error(err))
		return nil, false
	}
	return pub, true
}

var _ domain.DirectoryService = (*Service)(nil)
