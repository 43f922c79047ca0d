package store_test

import (
	cryptorand "crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"locshare/internal/domain"
	"locshare/internal/store"
)

var (
	idKeyOnce sync.Once
	idKeyVal  *rsa.PrivateKey
)

func testIdentity(t *testing.T) domain.Identity {
	t.Helper()
	idKeyOnce.Do(func() {
		k, err := rsa.GenerateKey(cryptorand.Reader, 2048)
		if err != nil {
			t.Fatalf("generate test key: %v", err)
		}
		idKeyVal = k
	})
	return domain.Identity{
		ID:         1234567890,
		PublicKey:  &idKeyVal.PublicKey,
		PrivateKey: idKeyVal,
	}
}

func TestIdentity_SaveLoad_OK(t *testing.T) {
	s := store.NewIdentityFileStore(store.NewSecretStore(t.TempDir()))
	id := testIdentity(t)

	require.NoError(t, s.SaveIdentity("pass", id))

	got, ok, err := s.LoadIdentity("pass")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, id.ID, got.ID)
	require.True(t, id.PublicKey.Equal(got.PublicKey))
	require.True(t, id.PrivateKey.Equal(got.PrivateKey))
}

func TestIdentity_AbsentIsMissNotError(t *testing.T) {
	s := store.NewIdentityFileStore(store.NewSecretStore(t.TempDir()))

	_, ok, err := s.LoadIdentity("pass")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIdentity_WrongPassphrase_Fails(t *testing.T) {
	s := store.NewIdentityFileStore(store.NewSecretStore(t.TempDir()))

	require.NoError(t, s.SaveIdentity("correct", testIdentity(t)))

	_, _, err := s.LoadIdentity("wrong")
	require.Error(t, err)
}

// Corrupt persisted key material must surface as an error, never as a
// silent miss that would trigger regeneration.
func TestIdentity_CorruptSlot_IsFatal(t *testing.T) {
	slots := store.NewSecretStore(t.TempDir())
	s := store.NewIdentityFileStore(slots)

	require.NoError(t, s.SaveIdentity("pass", testIdentity(t)))
	require.NoError(t, slots.Put("identity_public.pem", []byte("garbage")))

	_, ok, err := s.LoadIdentity("pass")
	require.Error(t, err)
	require.False(t, ok)
}
