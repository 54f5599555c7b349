package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/craftsite/go-auth-client/store"
	"github.com/stretchr/testify/require"
)

func TestFile_RoundTrip(t *testing.T) {
	f := store.NewFile(t.TempDir(), store.AudienceCustomer)

	require.NoError(t, f.Save(&store.Record{Access: "access-token", Refresh: "refresh-token"}))

	record, err := f.Load()
	require.NoError(t, err)
	require.NotNil(t, record)
	require.Equal(t, "access-token", record.Access)
	require.Equal(t, "refresh-token", record.Refresh)
	require.Equal(t, "access-token", record.Token, "legacy alias should mirror access")
}

func TestFile_LoadAbsent(t *testing.T) {
	f := store.NewFile(t.TempDir(), store.AudienceCustomer)

	record, err := f.Load()
	require.NoError(t, err)
	require.Nil(t, record)
}

func TestFile_LoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	key := store.KeyForAudience(store.AudienceCustomer)
	require.NoError(t, os.WriteFile(filepath.Join(dir, key+".json"), []byte("{not json"), 0o600))

	f := store.NewFile(dir, store.AudienceCustomer)
	record, err := f.Load()
	require.NoError(t, err)
	require.Nil(t, record)
}

func TestFile_LegacyAliasReadBack(t *testing.T) {
	dir := t.TempDir()
	key := store.KeyForAudience(store.AudienceCustomer)
	require.NoError(t, os.WriteFile(filepath.Join(dir, key+".json"), []byte(`{"token":"legacy-access"}`), 0o600))

	f := store.NewFile(dir, store.AudienceCustomer)
	record, err := f.Load()
	require.NoError(t, err)
	require.NotNil(t, record)
	require.Equal(t, "legacy-access", record.Access)
}

func TestFile_ClearIdempotent(t *testing.T) {
	f := store.NewFile(t.TempDir(), store.AudienceCustomer)

	require.NoError(t, f.Save(&store.Record{Access: "a", Refresh: "r"}))
	require.NoError(t, f.Clear())
	require.NoError(t, f.Clear())

	record, err := f.Load()
	require.NoError(t, err)
	require.Nil(t, record)
}

func TestFile_SaveOnUnwritableMediumDoesNotFail(t *testing.T) {
	// A regular file where the storage directory should be makes every
	// write path fail.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	f := store.NewFile(filepath.Join(blocker, "nested"), store.AudienceCustomer)
	require.NoError(t, f.Save(&store.Record{Access: "a", Refresh: "r"}))

	record, err := f.Load()
	require.NoError(t, err)
	require.Nil(t, record)
}

func TestAudienceKeysAreDistinct(t *testing.T) {
	dir := t.TempDir()
	customer := store.NewFile(dir, store.AudienceCustomer)
	admin := store.NewFile(dir, store.AudienceAdmin)

	require.NoError(t, customer.Save(&store.Record{Access: "customer-token"}))
	require.NoError(t, admin.Save(&store.Record{Access: "admin-token"}))

	record, err := customer.Load()
	require.NoError(t, err)
	require.Equal(t, "customer-token", record.Access)

	record, err = admin.Load()
	require.NoError(t, err)
	require.Equal(t, "admin-token", record.Access)
}

func TestMemory(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		m := store.NewMemory()
		require.NoError(t, m.Save(&store.Record{Access: "a", Refresh: "r"}))

		record, err := m.Load()
		require.NoError(t, err)
		require.Equal(t, "a", record.Access)
		require.Equal(t, 1, m.Saves())
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		m := store.NewMemory()
		require.NoError(t, m.Clear())
		require.NoError(t, m.Clear())

		record, err := m.Load()
		require.NoError(t, err)
		require.Nil(t, record)
	})

	t.Run("empty record saves as absent", func(t *testing.T) {
		m := store.NewMemory()
		require.NoError(t, m.Save(&store.Record{}))

		record, err := m.Load()
		require.NoError(t, err)
		require.Nil(t, record)
	})
}
