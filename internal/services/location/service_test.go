package location_test

import (
	"context"
	cryptorand "crypto/rand"
	"crypto/rsa"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"locshare/internal/cache"
	"locshare/internal/codec"
	"locshare/internal/crypto"
	"locshare/internal/domain"
	"locshare/internal/netmon"
	locationsvc "locshare/internal/services/location"
)

type fixedIdentity struct{ id domain.Identity }

func (f fixedIdentity) Initialize(string) error           { return nil }
func (f fixedIdentity) Current() (domain.Identity, error) { return f.id, nil }

// countingDirectory resolves keys from a fixed map and counts lookups.
type countingDirectory struct {
	keys     map[domain.PeerID]*rsa.PublicKey
	resolves int
}

func (d *countingDirectory) Register(context.Context) bool             { return true }
func (d *countingDirectory) EnsureSelfRegistered(context.Context) bool { return true }
func (d *countingDirectory) ResolveKey(_ context.Context, id domain.PeerID) (*rsa.PublicKey, bool) {
	d.resolves++
	pub, ok := d.keys[id]
	return pub, ok
}

// memRelay is an in-memory domain.RelayClient for the location endpoints.
type memRelay struct {
	mu         sync.Mutex
	inbox      []string
	published  []domain.Envelope
	problems   []string
	receiveErr error
}

func (m *memRelay) Register(context.Context, domain.PeerID, string) error { return nil }
func (m *memRelay) GetKey(context.Context, domain.PeerID) (string, error) {
	return "", errors.New("not implemented")
}
func (m *memRelay) PublishLocation(_ context.Context, env domain.Envelope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, env)
	return nil
}
func (m *memRelay) ReceiveLocations(context.Context, domain.PeerID) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.receiveErr != nil {
		return nil, m.receiveErr
	}
	return append([]string(nil), m.inbox...), nil
}
func (m *memRelay) SendSharingRequest(context.Context, domain.PeerID, domain.PeerID) error {
	return nil
}
func (m *memRelay) RetrieveSharingRequests(context.Context, domain.PeerID) ([]domain.PeerID, error) {
	return nil, nil
}
func (m *memRelay) ReportProblem(_ context.Context, problem string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.problems = append(m.problems, problem)
	return nil
}

// memHistory records appended readings.
type memHistory struct {
	mu       sync.Mutex
	readings []domain.LocationReading
}

func (h *memHistory) Append(_ context.Context, r domain.LocationReading) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readings = append(h.readings, r)
	return nil
}
func (h *memHistory) ByPeer(context.Context, domain.PeerID) ([]domain.LocationReading, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.LocationReading(nil), h.readings...), nil
}

// memPeerStore backs the cache in tests.
type memPeerStore struct{}

func (memPeerStore) LoadAll(context.Context) ([]domain.PeerRecord, error)  { return nil, nil }
func (memPeerStore) ReplaceAll(context.Context, []domain.PeerRecord) error { return nil }

var (
	keyOnce sync.Once
	keyVal  *rsa.PrivateKey
)

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	keyOnce.Do(func() {
		k, err := rsa.GenerateKey(cryptorand.Reader, 3072)
		if err != nil {
			t.Fatalf("generate test key: %v", err)
		}
		keyVal = k
	})
	return keyVal
}

type fixture struct {
	svc       *locationsvc.Service
	directory *countingDirectory
	relay     *memRelay
	peers     *cache.PeerCache
	history   *memHistory
	key       *rsa.PrivateKey
}

func newFixture(t *testing.T, self domain.PeerID) *fixture {
	t.Helper()
	key := testKey(t)
	f := &fixture{
		directory: &countingDirectory{keys: map[domain.PeerID]*rsa.PublicKey{}},
		relay:     &memRelay{},
		peers:     cache.New(memPeerStore{}, nil),
		history:   &memHistory{},
		key:       key,
	}
	ids := fixedIdentity{domain.Identity{ID: self, PublicKey: &key.PublicKey, PrivateKey: key}}
	f.svc = locationsvc.New(ids, f.directory, f.relay, netmon.New(nil, nil), f.peers, f.history, nil)
	return f
}

func sampleReading(owner domain.PeerID) domain.LocationReading {
	return domain.LocationReading{
		ID:          "r1",
		PeerID:      owner,
		Coordinate:  domain.Coordinate{Latitude: 1.0, Longitude: 2.0},
		Accuracy:    5,
		TimestampMS: 1000,
		Battery:     0.8,
	}
}

func cachedPEM(t *testing.T, pub *rsa.PublicKey) string {
	t.Helper()
	pem, err := crypto.EncodePublicPEM(pub)
	require.NoError(t, err)
	return pem
}

func TestPublish_CachedKeySkipsDirectory(t *testing.T) {
	f := newFixture(t, 1)
	f.peers.Upsert(domain.PeerRecord{ID: 42, EncryptionKey: cachedPEM(t, &f.key.PublicKey)})

	require.True(t, f.svc.Publish(context.Background(), sampleReading(1), 42))
	require.Zero(t, f.directory.resolves)
	require.Len(t, f.relay.published, 1)
	require.Equal(t, domain.PeerID(42), f.relay.published[0].RecipientID)
}

func TestPublish_MissResolvesThenCaches(t *testing.T) {
	f := newFixture(t, 1)
	f.directory.keys[42] = &f.key.PublicKey
	ctx := context.Background()

	require.True(t, f.svc.Publish(ctx, sampleReading(1), 42))
	require.Equal(t, 1, f.directory.resolves)

	rec, ok := f.peers.Get(42)
	require.True(t, ok)
	require.NotEmpty(t, rec.EncryptionKey)

	// Second publish must be a cache hit.
	require.True(t, f.svc.Publish(ctx, sampleReading(1), 42))
	require.Equal(t, 1, f.directory.resolves)
	require.Len(t, f.relay.published, 2)
}

func TestPublish_NoKeyFailsWithoutTransmit(t *testing.T) {
	f := newFixture(t, 1)

	require.False(t, f.svc.Publish(context.Background(), sampleReading(1), 99))
	require.Equal(t, 1, f.directory.resolves)
	require.Empty(t, f.relay.published)
}

func TestPublish_UndecodableCachedKeyIsMiss(t *testing.T) {
	f := newFixture(t, 1)
	f.peers.Upsert(domain.PeerRecord{ID: 42, EncryptionKey: "garbage"})
	f.directory.keys[42] = &f.key.PublicKey

	require.True(t, f.svc.Publish(context.Background(), sampleReading(1), 42))
	require.Equal(t, 1, f.directory.resolves)

	rec, _ := f.peers.Get(42)
	require.NotEqual(t, "garbage", rec.EncryptionKey)
}

func TestReceive_RoundTrip(t *testing.T) {
	f := newFixture(t, 42)
	reading := sampleReading(7)
	env, err := codec.Encrypt(reading, 42, &f.key.PublicKey)
	require.NoError(t, err)
	f.relay.inbox = []string{env.Payload}

	got, ok := f.svc.Receive(context.Background())
	require.True(t, ok)
	require.Equal(t, []domain.LocationReading{reading}, got)

	// Working set and history both see the reading.
	rec, exists := f.peers.Get(7)
	require.True(t, exists)
	require.NotNil(t, rec.Coordinate)
	require.Equal(t, reading.Coordinate, *rec.Coordinate)
	require.Equal(t, reading.TimestampMS, rec.LastMovedMS)
	require.Len(t, f.history.readings, 1)
}

func TestReceive_SkipsUndecryptableEntries(t *testing.T) {
	f := newFixture(t, 42)
	reading := sampleReading(7)
	env, err := codec.Encrypt(reading, 42, &f.key.PublicKey)
	require.NoError(t, err)
	f.relay.inbox = []string{"not even base64 !!!", env.Payload}

	got, ok := f.svc.Receive(context.Background())
	require.True(t, ok)
	require.Len(t, got, 1)
	require.Equal(t, reading, got[0])
	require.Len(t, f.relay.problems, 1)
}

// Publish to self with a cached key, then pull the published envelope back:
// the decrypted reading must match the original field for field.
func TestPublishThenReceive_EndToEnd(t *testing.T) {
	f := newFixture(t, 42)
	f.peers.Upsert(domain.PeerRecord{ID: 42, EncryptionKey: cachedPEM(t, &f.key.PublicKey)})
	ctx := context.Background()

	reading := sampleReading(42)
	require.True(t, f.svc.Publish(ctx, reading, 42))
	require.Len(t, f.relay.published, 1)

	f.relay.inbox = []string{f.relay.published[0].Payload}
	got, ok := f.svc.Receive(ctx)
	require.True(t, ok)
	require.Equal(t, []domain.LocationReading{reading}, got)
}

func TestReceive_PullFailure(t *testing.T) {
	f := newFixture(t, 42)
	f.relay.receiveErr = errors.New("relay post /api/location/receive: 500 Internal Server Error")

	got, ok := f.svc.Receive(context.Background())
	require.False(t, ok)
	require.Nil(t, got)
}
