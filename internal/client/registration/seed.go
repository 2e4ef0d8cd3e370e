package registration

import (
	"context"

	"github.com/quisipp/onboard/internal/client/models"
	"github.com/quisipp/onboard/internal/client/session"
)

// SeedDraft rehydrates draft fields from the lightweight field cache a
// previous screen may have written. Absent keys leave the draft untouched;
// read errors are reported but a partially seeded draft stays usable.
func SeedDraft(ctx context.Context, store session.Store, d *models.Draft) error {
	keys := map[string]*string{
		session.KeyUserPhone:       &d.Phone,
		session.KeyUserEmail:       &d.Email,
		session.KeyUserFirstName:   &d.FirstName,
		session.KeyUserLastName:    &d.LastName,
		session.KeySelectedVehicle: &d.VehicleType,
		session.KeyUserID:          &d.UserID,
	}

	var firstErr error
	for key, dst := range keys {
		val, err := store.Get(ctx, key)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if len(val) > 0 {
			*dst = string(val)
		}
	}
	return firstErr
}

// CacheDraftFields writes the seedable draft fields back to the store so a
// later screen (or a fresh wizard) can pick them up.
func CacheDraftFields(ctx context.Context, store session.Store, d *models.Draft) error {
	values := map[string]string{
		session.KeySelectedRole:    string(d.Role),
		session.KeyUserPhone:       d.Phone,
		session.KeyUserEmail:       d.Email,
		session.KeyUserFirstName:   d.FirstName,
		session.KeyUserLastName:    d.LastName,
		session.KeySelectedVehicle: d.VehicleType,
	}

	for key, val := range values {
		if val == "" {
			continue
		}
		if err := store.Set(ctx, key, []byte(val)); err != nil {
			return err
		}
	}
	return nil
}
