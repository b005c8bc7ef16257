package wallet

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Well-known anvil test key #0.
const testKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
const testAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

func newTestManager() *Manager {
	return NewManager(WithKeystore(NewInMemoryKeystore()))
}

func TestAddWithKeyDerivesAddress(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.AddWithKey("deployer", testKey))

	w, err := m.Get("deployer")
	require.NoError(t, err)
	assert.Equal(t, testAddr, w.Address)
	assert.Equal(t, TypeSigning, w.Type)
	assert.True(t, w.CanSign())
	assert.NotEmpty(t, w.KeyRef)
}

func TestAddWithKeyAccepts0xPrefix(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.AddWithKey("deployer", "0x"+testKey))

	w, err := m.Get("deployer")
	require.NoError(t, err)
	assert.Equal(t, testAddr, w.Address)
}

func TestAddWithKeyInvalid(t *testing.T) {
	m := newTestManager()
	err := m.AddWithKey("bad", "not-a-key")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestAddDuplicate(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.AddWithKey("deployer", testKey))
	assert.ErrorIs(t, m.AddWithKey("deployer", testKey), ErrWalletExists)
}

func TestWatchOnlyCannotSign(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.AddWatchOnly("observer", testAddr))

	w, err := m.Get("observer")
	require.NoError(t, err)
	assert.False(t, w.CanSign())
}

func TestRemove(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.AddWithKey("deployer", testKey))
	require.NoError(t, m.Remove("deployer"))

	_, err := m.Get("deployer")
	assert.ErrorIs(t, err, ErrWalletNotFound)
	assert.ErrorIs(t, m.Remove("deployer"), ErrWalletNotFound)
}

func TestRemoveDeletesKey(t *testing.T) {
	ks := NewInMemoryKeystore()
	m := NewManager(WithKeystore(ks))
	require.NoError(t, m.AddWithKey("deployer", testKey))

	w, err := m.Get("deployer")
	require.NoError(t, err)
	ref := w.KeyRef

	require.NoError(t, m.Remove("deployer"))
	_, err = ks.Retrieve(ref)
	assert.Error(t, err)
}

func TestDefaultSelection(t *testing.T) {
	m := newTestManager()
	require.NoError(t, m.AddWithKey("one", testKey))

	// A single wallet is implicitly the default.
	d := m.Default()
	require.NotNil(t, d)
	assert.Equal(t, "one", d.Name)

	require.NoError(t, m.AddWatchOnly("two", testAddr))
	assert.Nil(t, m.Default())

	require.NoError(t, m.SetDefault("two"))
	d = m.Default()
	require.NotNil(t, d)
	assert.Equal(t, "two", d.Name)

	assert.ErrorIs(t, m.SetDefault("missing"), ErrWalletNotFound)
}

func TestJSONStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallets.json")
	store := NewJSONStore(path)

	m := NewManager(WithStore(store), WithKeystore(NewInMemoryKeystore()))
	require.NoError(t, m.AddWithKey("deployer", testKey))
	require.NoError(t, m.AddWatchOnly("observer", testAddr))

	// Fresh manager over the same file sees both wallets.
	m2 := NewManager(WithStore(store), WithKeystore(NewInMemoryKeystore()))
	assert.Len(t, m2.List(), 2)

	w, err := m2.Get("deployer")
	require.NoError(t, err)
	assert.Equal(t, testAddr, w.Address)
}

func TestJSONStoreMissingFile(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "nope.json"))
	wallets, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, wallets)
}
