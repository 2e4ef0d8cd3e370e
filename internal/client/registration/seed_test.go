package registration

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quisipp/onboard/internal/client/models"
	"github.com/quisipp/onboard/internal/client/session"
)

func TestSeedDraft_FillsOnlyCachedFields(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	require.NoError(t, store.Set(ctx, session.KeyUserPhone, []byte("9876543210")))
	require.NoError(t, store.Set(ctx, session.KeyUserFirstName, []byte("Asha")))
	require.NoError(t, store.Set(ctx, session.KeyUserID, []byte("srv-42")))

	d := models.NewDraft(models.RoleDeliveryPartner)
	d.Email = "typed@example.com"

	require.NoError(t, SeedDraft(ctx, store, d))
	assert.Equal(t, "9876543210", d.Phone)
	assert.Equal(t, "Asha", d.FirstName)
	assert.Equal(t, "srv-42", d.UserID)
	assert.Equal(t, "typed@example.com", d.Email, "absent keys never overwrite")
	assert.Empty(t, d.LastName)
}

func TestSeedDraft_ReadErrorKeepsPartialSeed(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{
		memStore: newMemStore(),
		failKey:  session.KeyUserEmail,
	}
	require.NoError(t, store.memStore.Set(ctx, session.KeyUserPhone, []byte("9876543210")))

	d := models.NewDraft(models.RoleDeliveryPartner)
	err := SeedDraft(ctx, store, d)
	assert.Error(t, err)
	assert.Equal(t, "9876543210", d.Phone, "the readable keys still land")
}

func TestCacheDraftFields_SkipsEmptyAndRoundTrips(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()

	d := models.NewDraft(models.RoleDeliveryPartner)
	d.Phone = "9876543210"
	d.FirstName = "Asha"

	require.NoError(t, CacheDraftFields(ctx, store, d))

	role, _ := store.Get(ctx, session.KeySelectedRole)
	assert.Equal(t, string(models.RoleDeliveryPartner), string(role))

	email, _ := store.Get(ctx, session.KeyUserEmail)
	assert.Nil(t, email, "empty fields are not cached")

	// A fresh wizard picks the fields back up.
	d2 := models.NewDraft(models.RoleDeliveryPartner)
	require.NoError(t, SeedDraft(ctx, store, d2))
	assert.Equal(t, d.Phone, d2.Phone)
	assert.Equal(t, d.FirstName, d2.FirstName)
}

// failingStore errors on Get for one key and delegates the rest.
type failingStore struct {
	*memStore
	failKey string
}

func (f *failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == f.failKey {
		return nil, errors.New("disk read failed")
	}
	return f.memStore.Get(ctx, key)
}
