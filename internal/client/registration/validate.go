package registration

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/quisipp/onboard/internal/client/models"
)

var validate = validator.New()

// ValidateStep runs the step's validator against the draft and returns a
// human-readable list of missing or malformed fields, empty when the step
// may be left. Validators are pure functions of the draft.
func ValidateStep(step Step, d *models.Draft) []string {
	switch step {
	case StepPersonalInfo:
		return validatePersonalInfo(d)
	case StepDocuments:
		return validateDocuments(d)
	case StepBasicInfo:
		return validateBasicInfo(d)
	case StepCategories:
		return validateCategories(d)
	case StepPersonalDocuments:
		return validatePersonalDocuments(d)
	case StepBusinessDocuments:
		return validateBusinessDocuments(d)
	default:
		return nil
	}
}

func validatePersonalInfo(d *models.Draft) []string {
	var missing []string
	missing = appendPhoneErrors(missing, d.Phone)
	missing = appendEmailErrors(missing, d.Email)
	return missing
}

func validateDocuments(d *models.Draft) []string {
	// The verification video is optional; the three identity documents
	// are not.
	return missingDocuments(d, models.DocAadhar, models.DocPAN, models.DocSelfie)
}

func validateBasicInfo(d *models.Draft) []string {
	var missing []string
	missing = appendPhoneErrors(missing, d.Phone)
	missing = appendEmailErrors(missing, d.Email)

	if strings.TrimSpace(d.BusinessName) == "" {
		missing = append(missing, "business name is required")
	}
	if strings.TrimSpace(d.Address) == "" {
		missing = append(missing, "business address is required")
	}
	if err := validate.Var(d.Pincode, "required,len=6,numeric"); err != nil {
		missing = append(missing, "pincode must be 6 digits")
	}
	// GSTIN applies only to registered businesses.
	if d.HasGSTIN {
		if err := validate.Var(d.GSTIN, "required,len=15,alphanum"); err != nil {
			missing = append(missing, "GSTIN must be 15 characters")
		}
	}
	return missing
}

func validateCategories(d *models.Draft) []string {
	if len(d.Categories) == 0 {
		return []string{"select at least one category"}
	}
	return nil
}

func validatePersonalDocuments(d *models.Draft) []string {
	return missingDocuments(d, models.DocAadhar, models.DocPAN, models.DocSelfie)
}

func validateBusinessDocuments(d *models.Draft) []string {
	// The shop video is optional; the shop image is not.
	return missingDocuments(d, models.DocBusinessImage)
}

func appendPhoneErrors(missing []string, phone string) []string {
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if strings.TrimSpace(phone) == "" {
		return append(missing, "phone number is required")
	}
	if digits < 10 {
		return append(missing, "phone number must have at least 10 digits")
	}
	return missing
}

func appendEmailErrors(missing []string, email string) []string {
	if err := validate.Var(email, "required,email"); err != nil {
		return append(missing, "a valid email address is required")
	}
	return missing
}

func missingDocuments(d *models.Draft, required ...models.DocumentType) []string {
	var missing []string
	for _, t := range required {
		if d.Documents[t] == "" {
			missing = append(missing, string(t)+" document is required")
		}
	}
	return missing
}
