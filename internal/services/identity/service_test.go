package identity_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	identitysvc "locshare/internal/services/identity"
	"locshare/internal/store"
)

func newService(t *testing.T) (*identitysvc.Service, *store.SecretStore) {
	t.Helper()
	slots := store.NewSecretStore(t.TempDir())
	return identitysvc.New(store.NewIdentityFileStore(slots), nil), slots
}

func TestInitialize_FirstRunGeneratesAndPersists(t *testing.T) {
	svc, _ := newService(t)

	require.NoError(t, svc.Initialize("pass"))

	id, err := svc.Current()
	require.NoError(t, err)
	require.NotZero(t, id.ID)
	require.NotNil(t, id.PublicKey)
	require.NotNil(t, id.PrivateKey)
}

func TestInitialize_SecondProcessLoadsSameIdentity(t *testing.T) {
	slots := store.NewSecretStore(t.TempDir())

	first := identitysvc.New(store.NewIdentityFileStore(slots), nil)
	require.NoError(t, first.Initialize("pass"))
	created, err := first.Current()
	require.NoError(t, err)

	second := identitysvc.New(store.NewIdentityFileStore(slots), nil)
	require.NoError(t, second.Initialize("pass"))
	loaded, err := second.Current()
	require.NoError(t, err)

	require.Equal(t, created.ID, loaded.ID)
	require.True(t, created.PublicKey.Equal(loaded.PublicKey))
}

func TestCurrent_BeforeInitialize(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Current()
	require.ErrorIs(t, err, identitysvc.ErrNotInitialized)
}

// Corrupt persisted material must abort, not silently regenerate: a fresh
// keypair would orphan the device's existing relay registration.
func TestInitialize_CorruptMaterialIsFatal(t *testing.T) {
	svc, slots := newService(t)

	require.NoError(t, svc.Initialize("pass"))

	require.NoError(t, slots.Put("identity_public.pem", []byte("garbage")))
	fresh := identitysvc.New(store.NewIdentityFileStore(slots), nil)
	err := fresh.Initialize("pass")
	require.Error(t, err)
	require.False(t, errors.Is(err, identitysvc.ErrNotInitialized))

	_, err = fresh.Current()
	require.ErrorIs(t, err, identitysvc.ErrNotInitialized)
}

func TestInitialize_Idempotent(t *testing.T) {
	svc, _ := newService(t)

	require.NoError(t, svc.Initialize("pass"))
	before, err := svc.Current()
	require.NoError(t, err)

	require.NoError(t, svc.Initialize("pass"))
	after, err := svc.Current()
	require.NoError(t, err)

	require.Equal(t, before.ID, after.ID)
}
