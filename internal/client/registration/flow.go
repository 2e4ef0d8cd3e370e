// Package registration implements the multi-step onboarding wizard as pure
// state-transition logic plus a Runner that executes the side effects the
// flow asks for. The flow itself never touches the network or the store;
// it returns effect descriptions that the presentation layer interprets,
// which keeps every transition testable without a UI harness.
package registration

import (
	"github.com/quisipp/onboard/internal/client/models"
)

// Step is one screen of the wizard.
type Step string

const (
	StepPersonalInfo      Step = "personal-info"
	StepDocuments         Step = "documents"
	StepBasicInfo         Step = "basic-info"
	StepCategories        Step = "categories"
	StepPersonalDocuments Step = "personal-documents"
	StepBusinessDocuments Step = "business-documents"
	StepOTPVerify         Step = "otp-verify"
	StepComplete          Step = "complete"
)

// StepsFor returns the ordered steps for a role.
func StepsFor(role models.Role) []Step {
	if role == models.RoleBusinessOwner {
		return []Step{
			StepBasicInfo, StepCategories, StepPersonalDocuments,
			StepBusinessDocuments, StepOTPVerify, StepComplete,
		}
	}
	return []Step{StepPersonalInfo, StepDocuments, StepOTPVerify, StepComplete}
}

// EffectKind names a side effect the flow wants performed.
type EffectKind int

const (
	// EffectNone: the transition needs nothing from the outside.
	EffectNone EffectKind = iota
	// EffectSendOTP: issue an OTP for Phone and clear any entered digits.
	EffectSendOTP
	// EffectSubmit: run the upload sequence and finalize registration.
	EffectSubmit
	// EffectComplete: show the completion screen.
	EffectComplete
)

// Effect describes one requested side effect.
type Effect struct {
	Kind  EffectKind
	Phone string
}

// Result is the outcome of a forward-transition attempt. When Invalid is
// non-empty the step did not change and Effect is EffectNone.
type Result struct {
	Step    Step
	Effect  Effect
	Invalid []string
}

// Flow is the wizard state machine for one registration attempt.
// It is not safe for concurrent use; the Runner serializes access.
type Flow struct {
	role     models.Role
	steps    []Step
	idx      int
	verified bool
}

// NewFlow starts a flow at the first step for the role.
func NewFlow(role models.Role) *Flow {
	return &Flow{role: role, steps: StepsFor(role)}
}

// Role returns the flow's role.
func (f *Flow) Role() models.Role { return f.role }

// Current returns the current step.
func (f *Flow) Current() Step { return f.steps[f.idx] }

// Verified reports whether the OTP sub-state reached its terminal success.
func (f *Flow) Verified() bool { return f.verified }

// Advance attempts the forward transition out of the current step. The
// step's validator runs on every attempt, never cached; on any missing or
// malformed field the step stays put and the offending fields are named.
// Entering the OTP step carries its one mandatory side effect: an
// EffectSendOTP, which also applies on re-entry after Back.
func (f *Flow) Advance(d *models.Draft) Result {
	step := f.Current()

	if step == StepOTPVerify || step == StepComplete {
		// Leaving the OTP step happens through MarkVerified, not Advance.
		return Result{Step: step}
	}

	if missing := ValidateStep(step, d); len(missing) > 0 {
		return Result{Step: step, Invalid: missing}
	}

	f.idx++
	next := f.Current()
	if next == StepOTPVerify {
		return Result{Step: next, Effect: Effect{Kind: EffectSendOTP, Phone: d.Phone}}
	}
	return Result{Step: next}
}

// Back moves to the previous step unconditionally. Side effects already
// performed (an issued OTP, an uploaded file) are not undone.
func (f *Flow) Back() Step {
	if f.idx > 0 && f.Current() != StepComplete {
		f.idx--
	}
	return f.Current()
}

// Resend re-requests OTP issuance for the current challenge. Valid only on
// the OTP step.
func (f *Flow) Resend(d *models.Draft) (Effect, bool) {
	if f.Current() != StepOTPVerify {
		return Effect{}, false
	}
	return Effect{Kind: EffectSendOTP, Phone: d.Phone}, true
}

// MarkVerified records OTP success, terminal for the OTP sub-state, and
// asks for the submit sequence: upload every picked document, then
// finalize.
func (f *Flow) MarkVerified() Effect {
	f.verified = true
	return Effect{Kind: EffectSubmit}
}

// Finish moves to the completion step after a successful finalize.
func (f *Flow) Finish() Effect {
	if f.Current() == StepOTPVerify && f.verified {
		f.idx++
	}
	return Effect{Kind: EffectComplete}
}
