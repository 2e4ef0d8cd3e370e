package registration

import (
	"context"
	"fmt"
	"sync"

	"github.com/quisipp/onboard/internal/client/models"
	"github.com/quisipp/onboard/internal/client/services"
	"github.com/quisipp/onboard/internal/client/session"
	"github.com/quisipp/onboard/internal/logging"
)

// Runner executes the side effects the flow requests: OTP issuance,
// verification, the document upload sequence, and the finalize call. Each
// logical operation carries an in-flight guard; invoking it again while a
// previous invocation is outstanding is rejected, not queued.
type Runner struct {
	sess     *session.Manager
	media    services.MediaService
	delivery services.DeliveryService
	business services.BusinessService
	log      logging.Logger

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewRunner wires a Runner over the session manager and domain services.
func NewRunner(sess *session.Manager, media services.MediaService, delivery services.DeliveryService, business services.BusinessService, log logging.Logger) *Runner {
	return &Runner{
		sess:     sess,
		media:    media,
		delivery: delivery,
		business: business,
		log:      log.With("component", "registration"),
		inFlight: make(map[string]bool),
	}
}

func (r *Runner) begin(op string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inFlight[op] {
		return session.ErrOperationInFlight
	}
	r.inFlight[op] = true
	return nil
}

func (r *Runner) end(op string) {
	r.mu.Lock()
	delete(r.inFlight, op)
	r.mu.Unlock()
}

// SendOTP performs the EffectSendOTP side effect. A userId resolved by the
// issuance response is cached on the draft so finalize updates rather than
// duplicates the account.
func (r *Runner) SendOTP(ctx context.Context, d *models.Draft) (*services.OTPSendResult, error) {
	if err := r.begin("send-otp"); err != nil {
		return nil, err
	}
	defer r.end("send-otp")

	res, err := r.sess.Login(ctx, d.Phone)
	if err != nil {
		return nil, err
	}
	if res.UserID != "" {
		d.UserID = res.UserID
	}
	return res, nil
}

// Verify performs OTP verification and, on success, marks the flow
// verified. The returned effect is the submit request.
func (r *Runner) Verify(ctx context.Context, f *Flow, d *models.Draft, code string) (Effect, error) {
	if err := r.begin("verify"); err != nil {
		return Effect{}, err
	}
	defer r.end("verify")

	res, err := r.sess.VerifyOTP(ctx, d.Phone, code)
	if err != nil {
		return Effect{}, err
	}
	if res.User != nil && res.User.ID != "" {
		d.UserID = res.User.ID
	}
	return f.MarkVerified(), nil
}

// Submit performs the EffectSubmit sequence: upload every picked document
// in the fixed role order, then finalize the registration. Upload failures
// are non-fatal and land in the report; a finalize failure is returned as
// the error, with the draft left intact so the user can retry.
func (r *Runner) Submit(ctx context.Context, f *Flow, d *models.Draft) (*UploadReport, error) {
	if err := r.begin("submit"); err != nil {
		return nil, err
	}
	defer r.end("submit")

	report := r.uploadAll(ctx, d)

	if err := r.finalize(ctx, d); err != nil {
		return report, err
	}

	f.Finish()
	return report, nil
}

// uploadAll runs the strictly sequential upload loop. The registration
// record matters more than any single document: partial KYC is recoverable
// server-side, a lost registration is not, so each failure is logged,
// recorded, and the sequence moves on.
func (r *Runner) uploadAll(ctx context.Context, d *models.Draft) *UploadReport {
	report := &UploadReport{}

	for _, doc := range d.PickedDocuments() {
		req := services.UploadRequest{
			Role:         d.Role,
			DocumentType: doc.Type,
			FilePath:     doc.Path,
			UserID:       d.UserID,
			Email:        d.Email,
		}
		if req.UserID == "" {
			// Fallback key the server resolves to the account.
			req.PhoneNumber = d.Phone
		}

		var (
			res *services.UploadResult
			err error
		)
		if r.sess.IsAuthenticated() {
			res, err = r.media.UploadDocument(ctx, req)
		} else {
			res, err = r.media.UploadDocumentPublic(ctx, req)
		}

		outcome := DocumentOutcome{Type: doc.Type, Err: err}
		if err != nil {
			r.log.Warn(ctx, "document upload failed, continuing", "type", doc.Type, "error", err)
		} else {
			outcome.URL = res.URL
			r.log.Info(ctx, "document uploaded", "type", doc.Type, "url", res.URL)
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	return report
}

// finalize calls the role-specific registration/update service with the
// accumulated draft fields.
func (r *Runner) finalize(ctx context.Context, d *models.Draft) error {
	switch d.Role {
	case models.RoleBusinessOwner:
		return r.finalizeBusiness(ctx, d)
	case models.RoleDeliveryPartner:
		return r.finalizeDelivery(ctx, d)
	default:
		return fmt.Errorf("unknown role %q", d.Role)
	}
}

func (r *Runner) finalizeDelivery(ctx context.Context, d *models.Draft) error {
	reg := services.DeliveryRegistration{
		UserID:         d.UserID,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Email:          d.Email,
		PhoneNumber:    d.Phone,
		VehicleType:    d.VehicleType,
		EmploymentType: d.EmploymentType,
	}

	var (
		user *models.User
		err  error
	)
	if d.UserID != "" {
		user, err = r.delivery.UpdateDetails(ctx, reg)
	} else {
		user, err = r.delivery.Register(ctx, reg)
	}
	if err != nil {
		return err
	}
	return r.recordFinalized(ctx, d, user)
}

func (r *Runner) finalizeBusiness(ctx context.Context, d *models.Draft) error {
	reg := services.BusinessRegistration{
		UserID:       d.UserID,
		Email:        d.Email,
		PhoneNumber:  d.Phone,
		BusinessName: d.BusinessName,
		Address:      d.Address,
		Pincode:      d.Pincode,
		Categories:   d.Categories,
	}
	if d.HasGSTIN {
		reg.GSTIN = d.GSTIN
	}

	var (
		user *models.User
		err  error
	)
	if d.UserID != "" {
		user, err = r.business.UpdateBusinessDetails(ctx, reg)
	} else {
		user, err = r.business.Register(ctx, reg)
	}
	if err != nil {
		return err
	}
	return r.recordFinalized(ctx, d, user)
}

// recordFinalized patches the local session with whatever the finalize
// call returned, when a session exists.
func (r *Runner) recordFinalized(ctx context.Context, d *models.Draft, user *models.User) error {
	if user == nil {
		return nil
	}
	if user.ID != "" {
		d.UserID = user.ID
	}
	if !r.sess.IsAuthenticated() {
		return nil
	}
	if err := r.sess.UpdateUserData(ctx, *user); err != nil {
		r.log.Warn(ctx, "recording finalized user locally failed", "error", err)
	}
	return nil
}
