// Package services contains the typed domain services of the onboarding
// client: auth, delivery partner, business owner, and media. Each is a flat
// set of request/response operations over the gateway client, with no retry
// and no backoff; errors arrive already normalized as *api.Error.
package services

import (
	"context"

	"github.com/quisipp/onboard/internal/client/api"
)

// Gateway is the subset of the api client the domain services use.
// *api.Client satisfies it; tests substitute a fake.
type Gateway interface {
	Get(ctx context.Context, path string) (*api.Envelope, error)
	PostJSON(ctx context.Context, path string, body any) (*api.Envelope, error)
	PutJSON(ctx context.Context, path string, body any) (*api.Envelope, error)
	Delete(ctx context.Context, path string) (*api.Envelope, error)
	UploadFile(ctx context.Context, path string, fields map[string]string, filePath string) (*api.Envelope, error)
}
