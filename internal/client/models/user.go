// Package models holds the client-side data model: the authenticated user,
// the per-role registration drafts, and the document references that flow
// between the wizard, the services, and the local session store.
package models

import "encoding/json"

// Role discriminates the two sides of the platform.
type Role string

const (
	RoleDeliveryPartner Role = "delivery-partner"
	RoleBusinessOwner   Role = "business-owner"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleDeliveryPartner || r == RoleBusinessOwner
}

// User is the server-owned account record as the client sees it.
// Exactly one of Delivery/Business is populated, matching Role.
type User struct {
	ID          string `json:"id"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	IsVerified  bool   `json:"isVerified"`

	Profile   Profile   `json:"profile"`
	Documents Documents `json:"documents"`

	Delivery *DeliveryDetails `json:"deliveryPartnerDetails,omitempty"`
	Business *BusinessDetails `json:"businessOwnerDetails,omitempty"`
}

// Profile holds the common, role-independent profile fields.
type Profile struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Pincode   string `json:"pincode,omitempty"`
}

// Documents maps a document type to its remote URL once uploaded.
type Documents map[DocumentType]string

// DeliveryDetails are the delivery-partner-specific fields.
type DeliveryDetails struct {
	VehicleType    string `json:"vehicleType,omitempty"`
	EmploymentType string `json:"employmentType,omitempty"`
	IsActive       bool   `json:"isActive,omitempty"`
}

// BusinessDetails are the business-owner-specific fields.
type BusinessDetails struct {
	BusinessName string   `json:"businessName,omitempty"`
	BusinessType string   `json:"businessType,omitempty"`
	Address      string   `json:"businessAddress,omitempty"`
	City         string   `json:"businessCity,omitempty"`
	State        string   `json:"businessState,omitempty"`
	Pincode      string   `json:"businessPincode,omitempty"`
	GSTIN        string   `json:"gstin,omitempty"`
	Categories   []string `json:"categories,omitempty"`
}

// Merge shallow-merges patch into u: non-zero scalar fields of patch win,
// role detail structs are replaced wholesale when present. The receiver is
// not modified; the merged copy is returned.
func (u User) Merge(patch User) User {
	out := u
	if patch.ID != "" {
		out.ID = patch.ID
	}
	if patch.PhoneNumber != "" {
		out.PhoneNumber = patch.PhoneNumber
	}
	if patch.Email != "" {
		out.Email = patch.Email
	}
	if patch.Role != "" {
		out.Role = patch.Role
	}
	if patch.IsVerified {
		out.IsVerified = true
	}
	if patch.Profile != (Profile{}) {
		out.Profile = mergeProfile(u.Profile, patch.Profile)
	}
	if len(patch.Documents) > 0 {
		merged := make(Documents, len(u.Documents)+len(patch.Documents))
		for k, v := range u.Documents {
			merged[k] = v
		}
		for k, v := range patch.Documents {
			merged[k] = v
		}
		out.Documents = merged
	}
	if patch.Delivery != nil {
		out.Delivery = patch.Delivery
	}
	if patch.Business != nil {
		out.Business = patch.Business
	}
	return out
}

func mergeProfile(base, patch Profile) Profile {
	out := base
	if patch.FirstName != "" {
		out.FirstName = patch.FirstName
	}
	if patch.LastName != "" {
		out.LastName = patch.LastName
	}
	if patch.Address != "" {
		out.Address = patch.Address
	}
	if patch.City != "" {
		out.City = patch.City
	}
	if patch.State != "" {
		out.State = patch.State
	}
	if patch.Pincode != "" {
		out.Pincode = patch.Pincode
	}
	return out
}

// MarshalUser serializes u for the local store.
func MarshalUser(u *User) ([]byte, error) {
	return json.Marshal(u)
}

// UnmarshalUser restores a user persisted by MarshalUser.
func UnmarshalUser(data []byte) (*User, error) {
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
