package registration

import (
	"fmt"
	"strings"

	"github.com/quisipp/onboard/internal/client/models"
)

// DocumentOutcome is the result of one document upload attempt.
type DocumentOutcome struct {
	Type models.DocumentType
	URL  string
	Err  error
}

// UploadReport aggregates the per-document outcomes of one submit. Uploads
// are best-effort: a failed document never aborts the rest of the
// sequence, so the report is the only place the caller learns exactly
// which slots made it.
type UploadReport struct {
	Outcomes []DocumentOutcome
}

// Succeeded returns the document types that uploaded, in sequence order.
func (r *UploadReport) Succeeded() []models.DocumentType {
	var out []models.DocumentType
	for _, o := range r.Outcomes {
		if o.Err == nil {
			out = append(out, o.Type)
		}
	}
	return out
}

// Failed returns the document types that did not upload, in sequence order.
func (r *UploadReport) Failed() []models.DocumentType {
	var out []models.DocumentType
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o.Type)
		}
	}
	return out
}

// Summary renders a one-line account of the upload sequence.
func (r *UploadReport) Summary() string {
	if len(r.Outcomes) == 0 {
		return "no documents to upload"
	}
	failed := r.Failed()
	if len(failed) == 0 {
		return fmt.Sprintf("all %d documents uploaded", len(r.Outcomes))
	}
	names := make([]string, len(failed))
	for i, t := range failed {
		names[i] = string(t)
	}
	return fmt.Sprintf("%d of %d documents uploaded, failed: %s",
		len(r.Outcomes)-len(failed), len(r.Outcomes), strings.Join(names, ", "))
}
