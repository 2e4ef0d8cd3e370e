package services

import (
	"context"
	"fmt"

	"github.com/quisipp/onboard/internal/client/api"
	"github.com/quisipp/onboard/internal/client/models"
	"github.com/quisipp/onboard/internal/logging"
)

// DeliveryRegistration is the payload for registering or updating a
// delivery partner. UserID, when set, tells the backend to update the
// existing account instead of creating a duplicate.
type DeliveryRegistration struct {
	UserID         string `json:"userId,omitempty"`
	FirstName      string `json:"firstName,omitempty"`
	LastName       string `json:"lastName,omitempty"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phoneNumber"`
	VehicleType    string `json:"vehicleType,omitempty"`
	EmploymentType string `json:"employmentType,omitempty"`
}

// ProfileUpdate carries the common profile fields for either role.
type ProfileUpdate struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Pincode   string `json:"pincode,omitempty"`
}

// DeliveryService wraps the /delivery-partners endpoints.
type DeliveryService interface {
	Register(ctx context.Context, reg DeliveryRegistration) (*models.User, error)
	UpdateDetails(ctx context.Context, reg DeliveryRegistration) (*models.User, error)
	UpdateProfile(ctx context.Context, p ProfileUpdate) error
	UpdateVehicle(ctx context.Context, vehicleType string) error
	UpdateLocation(ctx context.Context, latitude, longitude float64) error
	ToggleActiveStatus(ctx context.Context) (bool, error)
	Profile(ctx context.Context) (*models.User, error)
}

type deliveryService struct {
	gw  Gateway
	log logging.Logger
}

// NewDeliveryService constructs a DeliveryService over gw.
func NewDeliveryService(gw Gateway, log logging.Logger) DeliveryService {
	return &deliveryService{gw: gw, log: log.With("service", "delivery")}
}

func (s *deliveryService) Register(ctx context.Context, reg DeliveryRegistration) (*models.User, error) {
	env, err := s.gw.PostJSON(ctx, "/delivery-partners/register", reg)
	if err != nil {
		s.log.Error(ctx, "delivery registration failed", "error", err)
		return nil, err
	}
	return decodeUser(env)
}

func (s *deliveryService) UpdateDetails(ctx context.Context, reg DeliveryRegistration) (*models.User, error) {
	env, err := s.gw.PutJSON(ctx, "/delivery-partners/details", reg)
	if err != nil {
		s.log.Error(ctx, "delivery details update failed", "error", err)
		return nil, err
	}
	return decodeUser(env)
}

func (s *deliveryService) UpdateProfile(ctx context.Context, p ProfileUpdate) error {
	if _, err := s.gw.PutJSON(ctx, "/delivery-partners/profile", p); err != nil {
		s.log.Error(ctx, "profile update failed", "error", err)
		return err
	}
	return nil
}

func (s *deliveryService) UpdateVehicle(ctx context.Context, vehicleType string) error {
	body := map[string]string{"vehicleType": vehicleType}
	if _, err := s.gw.PutJSON(ctx, "/delivery-partners/vehicle", body); err != nil {
		s.log.Error(ctx, "vehicle update failed", "error", err)
		return err
	}
	return nil
}

func (s *deliveryService) UpdateLocation(ctx context.Context, latitude, longitude float64) error {
	body := map[string]float64{"latitude": latitude, "longitude": longitude}
	if _, err := s.gw.PutJSON(ctx, "/delivery-partners/location", body); err != nil {
		s.log.Error(ctx, "location update failed", "error", err)
		return err
	}
	return nil
}

func (s *deliveryService) ToggleActiveStatus(ctx context.Context) (bool, error) {
	env, err := s.gw.PutJSON(ctx, "/delivery-partners/toggle-status", nil)
	if err != nil {
		s.log.Error(ctx, "toggle status failed", "error", err)
		return false, err
	}
	var payload struct {
		IsActive bool `json:"isActive"`
	}
	if err := env.Decode(&payload); err != nil {
		return false, fmt.Errorf("decode toggle response: %w", err)
	}
	return payload.IsActive, nil
}

func (s *deliveryService) Profile(ctx context.Context) (*models.User, error) {
	env, err := s.gw.Get(ctx, "/delivery-partners/profile")
	if err != nil {
		s.log.Error(ctx, "profile fetch failed", "error", err)
		return nil, err
	}
	return decodeUser(env)
}

// decodeUser extracts a user record from an envelope that carries either
// {user: {...}} or the user object directly.
func decodeUser(env *api.Envelope) (*models.User, error) {
	var wrapped struct {
		User *models.User `json:"user"`
	}
	if err := env.Decode(&wrapped); err == nil && wrapped.User != nil {
		return wrapped.User, nil
	}
	var u models.User
	if err := env.Decode(&u); err != nil {
		return nil, fmt.Errorf("decode user payload: %w", err)
	}
	if u.ID == "" && u.PhoneNumber == "" {
		return nil, nil
	}
	return &u, nil
}
