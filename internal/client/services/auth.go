package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/quisipp/onboard/internal/client/api"
	"github.com/quisipp/onboard/internal/client/models"
	"github.com/quisipp/onboard/internal/logging"
)

// OTPSendResult is the outcome of an OTP issuance request.
type OTPSendResult struct {
	Message string `json:"message"`
	// DevCode is the fallback code the backend surfaces outside
	// production so the flow can be exercised without an SMS provider.
	DevCode string `json:"otp"`
	// UserID is set when issuance auto-registered (or resolved) the
	// account server-side.
	UserID string `json:"userId"`
}

// VerifyResult is the outcome of a successful OTP verification.
type VerifyResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// RegisterRequest creates a bare account ahead of OTP verification.
type RegisterRequest struct {
	PhoneNumber string      `json:"phoneNumber"`
	Email       string      `json:"email"`
	Role        models.Role `json:"role"`
}

// AuthService wraps the /auth endpoints.
type AuthService interface {
	// Login triggers OTP issuance. An unknown phone number is
	// auto-registered first, using a temporary email and the cached
	// role, and issuance is reported as successful.
	Login(ctx context.Context, phoneNumber string) (*OTPSendResult, error)
	// VerifyOTP exchanges a code for a token and user record.
	VerifyOTP(ctx context.Context, phoneNumber, code string) (*VerifyResult, error)
	// ResendOTP re-issues a code for an already-known phone number.
	ResendOTP(ctx context.Context, phoneNumber string) (*OTPSendResult, error)
	// Register creates an account explicitly.
	Register(ctx context.Context, req RegisterRequest) (*models.User, error)
	// Me fetches the current user.
	Me(ctx context.Context) (*models.User, error)
	// Logout invalidates the session server-side.
	Logout(ctx context.Context) error
}

// RoleSource yields the locally cached role selection, or "" when none.
type RoleSource func(ctx context.Context) (models.Role, error)

type authService struct {
	gw          Gateway
	countryCode string
	roleSource  RoleSource
	log         logging.Logger
}

// NewAuthService constructs an AuthService. countryCode is prefixed onto
// phone numbers entered without one. roleSource may be nil; auto-registered
// accounts then default to the delivery-partner role.
func NewAuthService(gw Gateway, countryCode string, roleSource RoleSource, log logging.Logger) AuthService {
	return &authService{
		gw:          gw,
		countryCode: countryCode,
		roleSource:  roleSource,
		log:         log.With("service", "auth"),
	}
}

// NormalizePhone reduces a phone number to canonical +<country><digits>
// form. Numbers already carrying an explicit '+' keep their prefix; a bare
// number that starts with the country digits and is long enough is assumed
// to include them; anything else gets countryCode prepended.
func NormalizePhone(phoneNumber, countryCode string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phoneNumber)

	if strings.HasPrefix(strings.TrimSpace(phoneNumber), "+") {
		return "+" + digits
	}

	cc := strings.TrimPrefix(countryCode, "+")
	if strings.HasPrefix(digits, cc) && len(digits) >= len(cc)+10 {
		return "+" + digits
	}
	return "+" + cc + digits
}

func (s *authService) Login(ctx context.Context, phoneNumber string) (*OTPSendResult, error) {
	phone := NormalizePhone(phoneNumber, s.countryCode)

	env, err := s.gw.PostJSON(ctx, "/auth/login", map[string]string{"phoneNumber": phone})
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return s.registerAndReport(ctx, phoneNumber, phone)
		}
		s.log.Error(ctx, "login failed", "error", err)
		return nil, err
	}

	var res OTPSendResult
	if err := env.Decode(&res); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	if res.Message == "" {
		res.Message = env.Message
	}
	return &res, nil
}

// registerAndReport handles the unknown-phone path: create the account with
// a temporary email and the cached role, then report issuance as started.
func (s *authService) registerAndReport(ctx context.Context, rawPhone, phone string) (*OTPSendResult, error) {
	role := models.RoleDeliveryPartner
	if s.roleSource != nil {
		if cached, err := s.roleSource(ctx); err == nil && cached.Valid() {
			role = cached
		}
	}

	digits := strings.TrimPrefix(phone, "+")
	user, err := s.Register(ctx, RegisterRequest{
		PhoneNumber: rawPhone,
		Email:       digits + "@temp.com",
		Role:        role,
	})
	if err != nil {
		s.log.Error(ctx, "auto-registration failed", "error", err)
		return nil, err
	}

	res := &OTPSendResult{Message: "OTP sent to your phone number"}
	if user != nil {
		res.UserID = user.ID
	}
	return res, nil
}

func (s *authService) VerifyOTP(ctx context.Context, phoneNumber, code string) (*VerifyResult, error) {
	phone := NormalizePhone(phoneNumber, s.countryCode)

	env, err := s.gw.PostJSON(ctx, "/auth/verify-otp", map[string]string{
		"phoneNumber": phone,
		"otp":         code,
	})
	if err != nil {
		s.log.Error(ctx, "otp verification failed", "error", err)
		return nil, err
	}

	var res VerifyResult
	if err := env.Decode(&res); err != nil {
		return nil, fmt.Errorf("decode verify response: %w", err)
	}
	if res.Token == "" || res.User == nil {
		return nil, &api.Error{Status: 200, Message: "verify response missing token or user", Soft: true}
	}
	return &res, nil
}

func (s *authService) ResendOTP(ctx context.Context, phoneNumber string) (*OTPSendResult, error) {
	phone := NormalizePhone(phoneNumber, s.countryCode)

	env, err := s.gw.PostJSON(ctx, "/auth/resend-otp", map[string]string{"phoneNumber": phone})
	if err != nil {
		s.log.Error(ctx, "resend otp failed", "error", err)
		return nil, err
	}

	var res OTPSendResult
	if err := env.Decode(&res); err != nil {
		return nil, fmt.Errorf("decode resend response: %w", err)
	}
	if res.Message == "" {
		res.Message = env.Message
	}
	return &res, nil
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	req.PhoneNumber = NormalizePhone(req.PhoneNumber, s.countryCode)

	env, err := s.gw.PostJSON(ctx, "/auth/register", req)
	if err != nil {
		s.log.Error(ctx, "registration failed", "error", err)
		return nil, err
	}

	var payload struct {
		User *models.User `json:"user"`
	}
	if err := env.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode register response: %w", err)
	}
	return payload.User, nil
}

func (s *authService) Me(ctx context.Context) (*models.User, error) {
	env, err := s.gw.Get(ctx, "/auth/me")
	if err != nil {
		s.log.Error(ctx, "fetch current user failed", "error", err)
		return nil, err
	}

	var payload struct {
		User *models.User `json:"user"`
	}
	if err := env.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode me response: %w", err)
	}
	return payload.User, nil
}

func (s *authService) Logout(ctx context.Context) error {
	if _, err := s.gw.PostJSON(ctx, "/auth/logout", nil); err != nil {
		s.log.Warn(ctx, "remote logout failed", "error", err)
		return err
	}
	return nil
}
