package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_Merge_ShallowPatch(t *testing.T) {
	base := User{
		ID:          "u1",
		PhoneNumber: "+919876543210",
		Email:       "old@example.com",
		Role:        RoleDeliveryPartner,
		Profile:     Profile{FirstName: "Asha", City: "Chennai"},
	}

	merged := base.Merge(User{Email: "a@b.com"})

	assert.Equal(t, "a@b.com", merged.Email)
	assert.Equal(t, "u1", merged.ID, "unpatched fields survive")
	assert.Equal(t, "Asha", merged.Profile.FirstName)
	assert.Equal(t, "old@example.com", base.Email, "receiver is not modified")
}

func TestUser_Merge_ProfileAndDetails(t *testing.T) {
	base := User{
		Profile:  Profile{FirstName: "Asha", City: "Chennai"},
		Delivery: &DeliveryDetails{VehicleType: "bicycle"},
	}

	merged := base.Merge(User{
		Profile:  Profile{LastName: "K"},
		Delivery: &DeliveryDetails{VehicleType: "motorcycle"},
	})

	assert.Equal(t, "Asha", merged.Profile.FirstName, "profile merges field-wise")
	assert.Equal(t, "K", merged.Profile.LastName)
	assert.Equal(t, "motorcycle", merged.Delivery.VehicleType, "details replace wholesale")
}

func TestUser_Merge_Documents(t *testing.T) {
	base := User{Documents: Documents{DocAadhar: "https://cdn/a.jpg"}}

	merged := base.Merge(User{Documents: Documents{DocPAN: "https://cdn/p.jpg"}})

	assert.Equal(t, "https://cdn/a.jpg", merged.Documents[DocAadhar])
	assert.Equal(t, "https://cdn/p.jpg", merged.Documents[DocPAN])
}

func TestMarshalUser_RoundTrip(t *testing.T) {
	u := &User{
		ID:         "u1",
		Role:       RoleBusinessOwner,
		IsVerified: true,
		Business:   &BusinessDetails{BusinessName: "Asha Stores", Pincode: "600001"},
	}

	raw, err := MarshalUser(u)
	require.NoError(t, err)

	got, err := UnmarshalUser(raw)
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestDraft_PickedDocuments_FixedOrder(t *testing.T) {
	d := NewDraft(RoleBusinessOwner)
	d.SetDocument(DocBusinessImage, "/tmp/shop.jpg")
	d.SetDocument(DocAadhar, "/tmp/aadhar.jpg")
	d.SetDocument(DocSelfie, "/tmp/selfie.jpg")

	picked := d.PickedDocuments()

	require.Len(t, picked, 3)
	assert.Equal(t, DocAadhar, picked[0].Type, "order follows the fixed sequence, not pick order")
	assert.Equal(t, DocSelfie, picked[1].Type)
	assert.Equal(t, DocBusinessImage, picked[2].Type)
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleDeliveryPartner.Valid())
	assert.True(t, RoleBusinessOwner.Valid())
	assert.False(t, Role("admin").Valid())
	assert.False(t, Role("").Valid())
}
