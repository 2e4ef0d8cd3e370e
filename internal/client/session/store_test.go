package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := Open(context.Background(), "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteStore(db)
}

func TestSQLiteStore_SetGetRoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, KeyAuthToken, []byte("tok-1")))

	val, err := s.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.Equal(t, []byte("tok-1"), val)
}

func TestSQLiteStore_GetAbsentKeyIsNil(t *testing.T) {
	s := setupStore(t)

	val, err := s.Get(context.Background(), "no_such_key")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestSQLiteStore_SetOverwrites(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, KeyUserPhone, []byte("1")))
	require.NoError(t, s.Set(ctx, KeyUserPhone, []byte("2")))

	val, err := s.Get(ctx, KeyUserPhone)
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), val)
}

func TestSQLiteStore_DeleteAndClear(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, KeyAuthToken, []byte("tok")))
	require.NoError(t, s.Set(ctx, KeyUserData, []byte(`{}`)))

	require.NoError(t, s.Delete(ctx, KeyAuthToken))
	val, err := s.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, s.Clear(ctx))
	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSQLiteStore_DeleteManyRemovesOnlyGivenKeys(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, KeyAuthToken, []byte("tok")))
	require.NoError(t, s.Set(ctx, KeyUserData, []byte(`{}`)))
	require.NoError(t, s.Set(ctx, KeySelectedRole, []byte("delivery-partner")))
	require.NoError(t, s.Set(ctx, KeyUserPhone, []byte("+919876543210")))

	require.NoError(t, s.DeleteMany(ctx, KeyAuthToken, KeyUserData, KeySelectedRole))

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{KeyUserPhone: []byte("+919876543210")}, list)

	// Absent keys are not an error.
	require.NoError(t, s.DeleteMany(ctx, KeyAuthToken, KeyUserData))
}

func TestInvalidatePersistedSession_LeavesFieldCache(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, KeyAuthToken, []byte("tok")))
	require.NoError(t, s.Set(ctx, KeyUserData, []byte(`{"id":"u1"}`)))
	require.NoError(t, s.Set(ctx, KeyUserPhone, []byte("+919876543210")))

	require.NoError(t, InvalidatePersistedSession(ctx, s))

	token, err := s.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.Nil(t, token)

	user, err := s.Get(ctx, KeyUserData)
	require.NoError(t, err)
	assert.Nil(t, user)

	phone, err := s.Get(ctx, KeyUserPhone)
	require.NoError(t, err)
	assert.Equal(t, []byte("+919876543210"), phone, "field cache survives invalidation")
}
