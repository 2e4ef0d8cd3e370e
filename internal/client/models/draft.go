package models

import "github.com/google/uuid"

// DocumentType identifies a KYC document slot.
type DocumentType string

const (
	DocAadhar        DocumentType = "aadhar"
	DocPAN           DocumentType = "pan"
	DocSelfie        DocumentType = "selfie"
	DocVideo         DocumentType = "video"
	DocBusinessImage DocumentType = "business-image"
	DocBusinessVideo DocumentType = "business-video"
)

// DeliveryDocumentOrder is the fixed upload order for delivery partners.
var DeliveryDocumentOrder = []DocumentType{DocAadhar, DocPAN, DocSelfie, DocVideo}

// BusinessDocumentOrder is the fixed upload order for business owners:
// personal documents first, then the business media.
var BusinessDocumentOrder = []DocumentType{
	DocAadhar, DocPAN, DocSelfie, DocVideo, DocBusinessImage, DocBusinessVideo,
}

// LocalDocument is a locally-picked file that has not been uploaded yet.
// Path is an opaque device location; the media service resolves it at
// upload time.
type LocalDocument struct {
	Type DocumentType
	Path string
}

// Draft accumulates the wizard's collected fields for one registration
// attempt. It lives only as long as the wizard; individual fields may be
// seeded from the local field cache written by earlier screens.
type Draft struct {
	ID   string
	Role Role

	Phone     string
	Email     string
	FirstName string
	LastName  string

	// Delivery-partner fields.
	VehicleType    string
	EmploymentType string

	// Business-owner fields.
	BusinessName string
	Address      string
	Pincode      string
	HasGSTIN     bool
	GSTIN        string
	Categories   []string

	// Locally-picked media keyed by slot.
	Documents map[DocumentType]string

	// Server-assigned id resolved by a previous OTP exchange, if any.
	// Included in finalize calls so the server updates instead of
	// duplicating the user.
	UserID string
}

// NewDraft returns an empty draft for the given role.
func NewDraft(role Role) *Draft {
	return &Draft{
		ID:        uuid.NewString(),
		Role:      role,
		Documents: make(map[DocumentType]string),
	}
}

// SetDocument records a locally-picked file for the given slot, replacing
// any previous pick.
func (d *Draft) SetDocument(t DocumentType, path string) {
	if d.Documents == nil {
		d.Documents = make(map[DocumentType]string)
	}
	d.Documents[t] = path
}

// PickedDocuments returns the non-empty documents in the fixed upload order
// for the draft's role.
func (d *Draft) PickedDocuments() []LocalDocument {
	order := DeliveryDocumentOrder
	if d.Role == RoleBusinessOwner {
		order = BusinessDocumentOrder
	}
	var out []LocalDocument
	for _, t := range order {
		if p := d.Documents[t]; p != "" {
			out = append(out, LocalDocument{Type: t, Path: p})
		}
	}
	return out
}
