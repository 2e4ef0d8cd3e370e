package session

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/quisipp/onboard/internal/client/models"
	"github.com/quisipp/onboard/internal/client/services"
)

// OTPVerifier exchanges a phone number and code for a token and user.
// The real implementation is the auth domain service; a fixed-code test
// double exists for development and tests. The choice is made by explicit
// configuration, never by falling back on error.
type OTPVerifier interface {
	VerifyOTP(ctx context.Context, phoneNumber, code string) (*services.VerifyResult, error)
}

// FixedCodeVerifier accepts exactly one code and fabricates a local
// session. It never talks to the network.
type FixedCodeVerifier struct {
	Code string
	Role models.Role
}

func (v *FixedCodeVerifier) VerifyOTP(ctx context.Context, phoneNumber, code string) (*services.VerifyResult, error) {
	if code != v.Code {
		return nil, ErrCodeMismatch
	}
	role := v.Role
	if !role.Valid() {
		role = models.RoleDeliveryPartner
	}
	return &services.VerifyResult{
		Token: "dev-" + uuid.NewString(),
		User: &models.User{
			ID:          uuid.NewString(),
			PhoneNumber: phoneNumber,
			Role:        role,
			IsVerified:  true,
		},
	}, nil
}

// tokenExpired reports whether token is a JWT whose exp claim is in the
// past. Opaque tokens and JWTs without exp are treated as unexpired; the
// server remains the authority and will answer 401 if it disagrees.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
