// Package cli wires the onboarding client together and drives it through a
// small REPL. The wizard screens interpret the flow's effect descriptions;
// no business decision lives here.
package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"

	_ "modernc.org/sqlite"

	"github.com/quisipp/onboard/internal/client/api"
	"github.com/quisipp/onboard/internal/client/config"
	"github.com/quisipp/onboard/internal/client/models"
	"github.com/quisipp/onboard/internal/client/registration"
	"github.com/quisipp/onboard/internal/client/services"
	"github.com/quisipp/onboard/internal/client/session"
	"github.com/quisipp/onboard/internal/logging"
)

// App holds the assembled client.
type App struct {
	config   *config.Config
	log      logging.Logger
	store    session.Store
	sess     *session.Manager
	auth     services.AuthService
	delivery services.DeliveryService
	business services.BusinessService
	media    services.MediaService
	runner   *registration.Runner
	reader   *bufio.Reader
}

// NewApp opens the local store and wires the gateway, services, session
// manager, and flow runner.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewDefault(slog.LevelInfo)

	db, err := session.Open(ctx, c.LocalDBPath)
	if err != nil {
		return nil, err
	}
	store := session.NewSQLiteStore(db)

	gw := api.New(c.APIBaseURL, log,
		api.WithTimeout(c.RequestTimeout),
		api.WithTokenSource(func(ctx context.Context) (string, error) {
			val, err := store.Get(ctx, session.KeyAuthToken)
			return string(val), err
		}),
		api.WithUnauthorizedHook(func(ctx context.Context) {
			if err := session.InvalidatePersistedSession(ctx, store); err != nil {
				log.Error(ctx, "clearing session after 401 failed", "error", err)
			}
		}),
	)

	roleSource := func(ctx context.Context) (models.Role, error) {
		val, err := store.Get(ctx, session.KeySelectedRole)
		return models.Role(val), err
	}

	auth := services.NewAuthService(gw, c.CountryCode, roleSource, log)
	delivery := services.NewDeliveryService(gw, log)
	business := services.NewBusinessService(gw, log)
	media := services.NewMediaService(gw, log)

	var verifier session.OTPVerifier = auth
	if c.MockOTPCode != "" {
		log.Warn(ctx, "using fixed-code OTP verifier", "code", c.MockOTPCode)
		verifier = &session.FixedCodeVerifier{Code: c.MockOTPCode}
	}

	sess := session.NewManager(store, auth, verifier, log)
	if err := sess.Hydrate(ctx); err != nil {
		log.Warn(ctx, "session hydration failed", "error", err)
	}

	runner := registration.NewRunner(sess, media, delivery, business, log)

	return &App{
		config:   c,
		log:      log,
		store:    store,
		sess:     sess,
		auth:     auth,
		delivery: delivery,
		business: business,
		media:    media,
		runner:   runner,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

// Run starts the REPL.
func (a *App) Run(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.sess.IsAuthenticated()
}

func (a *App) status() string {
	if u := a.sess.User(); u != nil {
		return u.PhoneNumber
	}
	return "not logged in"
}
