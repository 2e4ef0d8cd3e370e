package services

import (
	"context"

	"github.com/quisipp/onboard/internal/client/models"
	"github.com/quisipp/onboard/internal/logging"
)

// BusinessRegistration is the payload for registering or updating a
// business owner. UserID, when set, tells the backend to update the
// existing account instead of creating a duplicate.
type BusinessRegistration struct {
	UserID       string   `json:"userId,omitempty"`
	Email        string   `json:"email"`
	PhoneNumber  string   `json:"phoneNumber"`
	BusinessName string   `json:"businessName,omitempty"`
	BusinessType string   `json:"businessType,omitempty"`
	Address      string   `json:"businessAddress,omitempty"`
	Pincode      string   `json:"pincode,omitempty"`
	GSTIN        string   `json:"gstin,omitempty"`
	Categories   []string `json:"categories,omitempty"`
}

// BusinessService wraps the /business-owners endpoints.
type BusinessService interface {
	Register(ctx context.Context, reg BusinessRegistration) (*models.User, error)
	UpdateBusinessDetails(ctx context.Context, reg BusinessRegistration) (*models.User, error)
	Profile(ctx context.Context) (*models.User, error)
}

type businessService struct {
	gw  Gateway
	log logging.Logger
}

// NewBusinessService constructs a BusinessService over gw.
func NewBusinessService(gw Gateway, log logging.Logger) BusinessService {
	return &businessService{gw: gw, log: log.With("service", "business")}
}

func (s *businessService) Register(ctx context.Context, reg BusinessRegistration) (*models.User, error) {
	env, err := s.gw.PostJSON(ctx, "/business-owners/register", reg)
	if err != nil {
		s.log.Error(ctx, "business registration failed", "error", err)
		return nil, err
	}
	return decodeUser(env)
}

func (s *businessService) UpdateBusinessDetails(ctx context.Context, reg BusinessRegistration) (*models.User, error) {
	env, err := s.gw.PutJSON(ctx, "/business-owners/business", reg)
	if err != nil {
		s.log.Error(ctx, "business details update failed", "error", err)
		return nil, err
	}
	return decodeUser(env)
}

func (s *businessService) Profile(ctx context.Context) (*models.User, error) {
	env, err := s.gw.Get(ctx, "/business-owners/profile")
	if err != nil {
		s.log.Error(ctx, "profile fetch failed", "error", err)
		return nil, err
	}
	return decodeUser(env)
}
