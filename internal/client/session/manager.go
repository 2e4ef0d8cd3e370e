package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/quisipp/onboard/internal/client/models"
	"github.com/quisipp/onboard/internal/client/services"
	"github.com/quisipp/onboard/internal/logging"
)

// Sender issues OTP challenges and invalidates remote sessions. The auth
// domain service satisfies it.
type Sender interface {
	Login(ctx context.Context, phoneNumber string) (*services.OTPSendResult, error)
	Logout(ctx context.Context) error
}

// Manager is the auth session controller: the in-memory session plus its
// persisted mirror. All local session writes in the app go through it; the
// gateway client only ever reads.
//
// Invariant: IsAuthenticated() is true iff both token and user are present.
type Manager struct {
	store    Store
	sender   Sender
	verifier OTPVerifier
	log      logging.Logger

	mu        sync.Mutex
	token     string
	user      *models.User
	loading   bool
	verifying bool
}

// NewManager constructs a Manager. It starts in the loading state until
// Hydrate has run.
func NewManager(store Store, sender Sender, verifier OTPVerifier, log logging.Logger) *Manager {
	return &Manager{
		store:    store,
		sender:   sender,
		verifier: verifier,
		log:      log.With("component", "session"),
		loading:  true,
	}
}

// Hydrate restores token and user from the store. The loading flag drops
// regardless of outcome; a token that is a JWT with an expired exp claim is
// discarded along with the persisted pair.
func (m *Manager) Hydrate(ctx context.Context) error {
	defer func() {
		m.mu.Lock()
		m.loading = false
		m.mu.Unlock()
	}()

	tokenRaw, err := m.store.Get(ctx, KeyAuthToken)
	if err != nil {
		return fmt.Errorf("read stored token: %w", err)
	}
	userRaw, err := m.store.Get(ctx, KeyUserData)
	if err != nil {
		return fmt.Errorf("read stored user: %w", err)
	}
	if len(tokenRaw) == 0 || len(userRaw) == 0 {
		return nil
	}

	token := string(tokenRaw)
	if tokenExpired(token, time.Now()) {
		m.log.Info(ctx, "stored token expired, discarding session")
		return InvalidatePersistedSession(ctx, m.store)
	}

	user, err := models.UnmarshalUser(userRaw)
	if err != nil {
		m.log.Warn(ctx, "stored user unreadable, discarding session", "error", err)
		return InvalidatePersistedSession(ctx, m.store)
	}

	m.mu.Lock()
	m.token = token
	m.user = user
	m.mu.Unlock()
	return nil
}

// IsLoading reports whether hydration is still in flight.
func (m *Manager) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// IsAuthenticated reports whether both token and user are present.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != "" && m.user != nil
}

// Token returns the current bearer token, or "".
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// User returns a copy of the current user, or nil.
func (m *Manager) User() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Login triggers OTP issuance for the phone number. Local session state is
// untouched; failures surface to the caller without retry.
func (m *Manager) Login(ctx context.Context, phoneNumber string) (*services.OTPSendResult, error) {
	if phoneNumber == "" {
		return nil, ErrInvalidPhone
	}
	return m.sender.Login(ctx, phoneNumber)
}

// VerifyOTP completes the login. On success the token and user are
// persisted and the in-memory state switches to authenticated before the
// call returns; on failure nothing changes. A second call while one is
// outstanding is rejected with ErrOperationInFlight.
func (m *Manager) VerifyOTP(ctx context.Context, phoneNumber, code string) (*services.VerifyResult, error) {
	if !validOTPCode(code) {
		return nil, ErrInvalidCode
	}

	m.mu.Lock()
	if m.verifying {
		m.mu.Unlock()
		return nil, ErrOperationInFlight
	}
	m.verifying = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.verifying = false
		m.mu.Unlock()
	}()

	res, err := m.verifier.VerifyOTP(ctx, phoneNumber, code)
	if err != nil {
		return nil, err
	}

	userRaw, err := models.MarshalUser(res.User)
	if err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}
	if err := m.store.Set(ctx, KeyAuthToken, []byte(res.Token)); err != nil {
		return nil, fmt.Errorf("persist token: %w", err)
	}
	if err := m.store.Set(ctx, KeyUserData, userRaw); err != nil {
		return nil, fmt.Errorf("persist user: %w", err)
	}
	if res.User.ID != "" {
		if err := m.store.Set(ctx, KeyUserID, []byte(res.User.ID)); err != nil {
			m.log.Warn(ctx, "caching user id failed", "error", err)
		}
	}

	m.mu.Lock()
	m.token = res.Token
	m.user = res.User
	m.mu.Unlock()

	m.log.Info(ctx, "session established", "userId", res.User.ID)
	return res, nil
}

// Logout clears the session. The local clear is unconditional: a failed
// remote logout is logged and the error returned, but by then memory and
// store are already empty.
func (m *Manager) Logout(ctx context.Context) error {
	remoteErr := m.sender.Logout(ctx)

	m.mu.Lock()
	m.token = ""
	m.user = nil
	m.mu.Unlock()

	if err := m.store.DeleteMany(ctx, KeyAuthToken, KeyUserData, KeySelectedRole); err != nil {
		m.log.Error(ctx, "clearing persisted session failed", "error", err)
		return err
	}

	if remoteErr != nil {
		m.log.Warn(ctx, "remote logout failed, local session cleared anyway", "error", remoteErr)
	}
	return nil
}

// UpdateUserData shallow-merges patch into the in-memory user and persists
// the merged record. The patch shape is not validated.
func (m *Manager) UpdateUserData(ctx context.Context, patch models.User) error {
	m.mu.Lock()
	var base models.User
	if m.user != nil {
		base = *m.user
	}
	merged := base.Merge(patch)
	m.user = &merged
	m.mu.Unlock()

	raw, err := models.MarshalUser(&merged)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return m.store.Set(ctx, KeyUserData, raw)
}

func validOTPCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
