package location

import (
	"context"
	"crypto/rsa"
	"fmt"

	"go.uber.org/zap"

	"locshare/internal/cache"
	"locshare/internal/codec"
	"locshare/internal/crypto"
	"locshare/internal/domain"
	"locshare/internal/netmon"
)

// Service publishes the device's own readings, encrypted per recipient, and
// pulls the batch of readings addressed to the local identity.
//
// Publish flow, strictly ordered: resolve an encryption key (cache first,
// directory on miss, write-back on hit), encrypt, transmit. No partial
// send: without a key the call fails before touching the publish endpoint.
type Service struct {
	ids       domain.IdentityService
	directory domain.DirectoryService
	relay     domain.RelayClient
	monitor   *netmon.Monitor
	peers     *cache.PeerCache
	history   domain.HistoryStore
	log       *zap.Logger
}

// New returns a location sync client.
func New(
	ids domain.IdentityService,
	directory domain.DirectoryService,
	relay domain.RelayClient,
	monitor *netmon.Monitor,
	peers *cache.PeerCache,
	history domain.HistoryStore,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		ids:       ids,
		directory: directory,
		relay:     relay,
		monitor:   monitor,
		peers:     peers,
		history:   history,
		log:       log.Named("location"),
	}
}

// Publish encrypts reading for recipient and submits it to the relay.
func (s *Service) Publish(ctx context.Context, reading domain.LocationReading, recipient domain.PeerID) bool {
	pub, ok := s.recipientKey(ctx, recipient)
	if !ok {
		s.log.Warn("no key for recipient", zap.Uint64("peer", uint64(recipient)))
		return false
	}

	env, err := codec.Encrypt(reading, recipient, pub)
	if err != nil {
		s.log.Error("encrypt reading", zap.Uint64("peer", uint64(recipient)), zap.Error(err))
		return false
	}

	res := netmon.Execute(ctx, s.monitor, "location/publish", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.relay.PublishLocation(ctx, env)
	})
	return res.Ok()
}

// Receive pulls every envelope addressed to the local identity and decrypts
// each entry independently. One undecryptable entry is skipped and reported
// instead of failing the whole batch; ok=false only when the pull itself
// failed.
func (s *Service) Receive(ctx context.Context) ([]domain.LocationReading, bool) {
	id, err := s.ids.Current()
	if err != nil {
		s.log.Error("receive without identity", zap.Error(err))
		return nil, false
	}

	res := netmon.Execute(ctx, s.monitor, "location/receive", func(ctx context.Context) ([]string, error) {
		return s.relay.ReceiveLocations(ctx, id.ID)
	})
	if !res.Ok() {
		return nil, false
	}

	readings := make([]domain.LocationReading, 0, len(res.Value))
	for i, payload := range res.Value {
		reading, err := codec.Decrypt(payload, id.PrivateKey)
		if err != nil {
			s.log.Warn("skipping undecryptable entry", zap.Int("index", i), zap.Error(err))
			s.report(ctx, fmt.Sprintf("undecryptable location entry %d: %v", i, err))
			continue
		}
		s.recordReading(ctx, reading)
		readings = append(readings, reading)
	}
	return readings, true
}

// recipientKey resolves the encryption key for a peer: cached key when it
// decodes, directory lookup otherwise, with an eager write-back so the next
// publish hits the cache.
func (s *Service) recipientKey(ctx context.Context, recipient domain.PeerID) (*rsa.PublicKey, bool) {
	if rec, ok := s.peers.Get(recipient); ok && rec.EncryptionKey != "" {
		pub, err := crypto.DecodePublicPEM(rec.EncryptionKey)
		if err == nil {
			return pub, true
		}
		// Undecodable cached key is a miss, not a failure.
		s.log.Warn("cached key undecodable", zap.Uint64("peer", uint64(recipient)), zap.Error(err))
	}

	pub, ok := s.directory.ResolveKey(ctx, recipient)
	if !ok {
		return nil, false
	}
	pemText, err := crypto.EncodePublicPEM(pub)
	if err != nil {
		s.log.Error("encode resolved key", zap.Uint64("peer", uint64(recipient)), zap.Error(err))
		return nil, false
	}

	if _, exists := s.peers.Get(recipient); exists {
		s.peers.Update(recipient, func(rec domain.PeerRecord) domain.PeerRecord {
			rec.EncryptionKey = pemText
			return rec
		})
	} else {
		s.peers.Upsert(domain.PeerRecord{ID: recipient, EncryptionKey: pemText})
	}
	return pub, true
}

// recordReading folds a received reading into the working set and the
// location history.
func (s *Service) recordReading(ctx context.Context, reading domain.LocationReading) {
	r := reading
	rec, exists := s.peers.Get(r.PeerID)
	if !exists {
		rec = domain.PeerRecord{ID: r.PeerID}
	}
	moved := rec.Coordinate == nil || *rec.Coordinate != r.Coordinate
	rec.Coordinate = &r.Coordinate
	rec.Battery = &r.Battery
	rec.LastReading = &r
	if moved {
		rec.LastMovedMS = r.TimestampMS
	}
	s.peers.Upsert(rec)

	if err := s.history.Append(ctx, r); err != nil {
		s.log.Warn("append history", zap.Uint64("peer", uint64(r.PeerID)), zap.Error(err))
	}
}

// report files a fire-and-forget diagnostic with the relay.
func (s *Service) report(ctx context.Context, problem string) {
	netmon.Execute(ctx, s.monitor, "problem", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.relay.ReportProblem(ctx, problem)
	})
}

var _ domain.LocationService = (*Service)(nil)
