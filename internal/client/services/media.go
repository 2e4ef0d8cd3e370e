package services

import (
	"context"
	"fmt"

	"github.com/quisipp/onboard/internal/client/api"
	"github.com/quisipp/onboard/internal/client/models"
	"github.com/quisipp/onboard/internal/logging"
)

// UploadRequest identifies one document upload. Exactly one of UserID or
// PhoneNumber must be set; the server resolves a phone number to the owning
// account when no id is known yet.
type UploadRequest struct {
	Role         models.Role
	DocumentType models.DocumentType
	FilePath     string
	UserID       string
	PhoneNumber  string
	Email        string
}

// UploadResult is the server's record of a stored document.
type UploadResult struct {
	URL string `json:"url"`
	ID  string `json:"mediaId"`
}

// MediaRecord describes a stored media object.
type MediaRecord struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	DocumentType string `json:"documentType"`
	Category     string `json:"category"`
}

// MediaService wraps the /media endpoints. Upload has an authenticated and
// a public variant because documents are picked before OTP verification, so
// the bearer token may not exist yet.
type MediaService interface {
	// UploadDocument uploads through the authenticated endpoint.
	UploadDocument(ctx context.Context, req UploadRequest) (*UploadResult, error)
	// UploadDocumentPublic uploads through the pre-auth endpoint.
	UploadDocumentPublic(ctx context.Context, req UploadRequest) (*UploadResult, error)
	GetByID(ctx context.Context, mediaID string) (*MediaRecord, error)
	Delete(ctx context.Context, mediaID string) error
	ListForUser(ctx context.Context) ([]MediaRecord, error)
	ListByType(ctx context.Context, role models.Role, docType models.DocumentType) ([]MediaRecord, error)
}

type mediaService struct {
	gw  Gateway
	log logging.Logger
}

// NewMediaService constructs a MediaService over gw.
func NewMediaService(gw Gateway, log logging.Logger) MediaService {
	return &mediaService{gw: gw, log: log.With("service", "media")}
}

func (s *mediaService) UploadDocument(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	path := fmt.Sprintf("/media/upload-document/%s/%s", req.Role, req.DocumentType)
	return s.upload(ctx, path, req)
}

func (s *mediaService) UploadDocumentPublic(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	path := fmt.Sprintf("/media/upload-document-public/%s/%s", req.Role, req.DocumentType)
	return s.upload(ctx, path, req)
}

func (s *mediaService) upload(ctx context.Context, path string, req UploadRequest) (*UploadResult, error) {
	fields := map[string]string{
		"userId":      req.UserID,
		"phoneNumber": req.PhoneNumber,
		"email":       req.Email,
	}

	env, err := s.gw.UploadFile(ctx, path, fields, req.FilePath)
	if err != nil {
		s.log.Error(ctx, "document upload failed", "type", req.DocumentType, "error", err)
		return nil, err
	}

	var res UploadResult
	if err := env.Decode(&res); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return &res, nil
}

func (s *mediaService) GetByID(ctx context.Context, mediaID string) (*MediaRecord, error) {
	env, err := s.gw.Get(ctx, "/media/"+mediaID)
	if err != nil {
		s.log.Error(ctx, "media fetch failed", "id", mediaID, "error", err)
		return nil, err
	}
	var rec MediaRecord
	if err := env.Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode media response: %w", err)
	}
	return &rec, nil
}

func (s *mediaService) Delete(ctx context.Context, mediaID string) error {
	if _, err := s.gw.Delete(ctx, "/media/"+mediaID); err != nil {
		s.log.Error(ctx, "media delete failed", "id", mediaID, "error", err)
		return err
	}
	return nil
}

func (s *mediaService) ListForUser(ctx context.Context) ([]MediaRecord, error) {
	env, err := s.gw.Get(ctx, "/media/user")
	if err != nil {
		s.log.Error(ctx, "media list failed", "error", err)
		return nil, err
	}
	return decodeMediaList(env)
}

func (s *mediaService) ListByType(ctx context.Context, role models.Role, docType models.DocumentType) ([]MediaRecord, error) {
	env, err := s.gw.Get(ctx, fmt.Sprintf("/media/user/%s/%s", role, docType))
	if err != nil {
		s.log.Error(ctx, "media list by type failed", "type", docType, "error", err)
		return nil, err
	}
	return decodeMediaList(env)
}

func decodeMediaList(env *api.Envelope) ([]MediaRecord, error) {
	var list []MediaRecord
	if err := env.Decode(&list); err != nil {
		return nil, fmt.Errorf("decode media list: %w", err)
	}
	return list, nil
}
