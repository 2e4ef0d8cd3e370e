package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/quisipp/onboard/internal/client/models"
	"github.com/quisipp/onboard/internal/client/registration"
	"github.com/quisipp/onboard/internal/client/session"
)

// Register runs the onboarding wizard: role selection, then the per-role
// step loop. The wizard only collects input and interprets flow effects;
// every transition decision is the flow's.
func (a *App) Register(ctx context.Context) error {
	role, err := a.selectRole(ctx)
	if err != nil {
		return err
	}

	draft := models.NewDraft(role)
	if err := registration.SeedDraft(ctx, a.store, draft); err != nil {
		a.log.Warn(ctx, "draft seeding failed", "error", err)
	}

	flow := registration.NewFlow(role)

	for {
		step := flow.Current()
		if step == registration.StepComplete {
			printlnFn("Thank you! Your registration is complete.")
			return nil
		}

		if step == registration.StepOTPVerify {
			done, err := a.otpScreen(ctx, flow, draft)
			if err != nil {
				return err
			}
			if !done {
				// User backed out of the OTP screen.
				flow.Back()
			}
			continue
		}

		back, err := a.collectStep(ctx, step, draft)
		if err != nil {
			return err
		}
		if back {
			flow.Back()
			continue
		}

		if err := registration.CacheDraftFields(ctx, a.store, draft); err != nil {
			a.log.Warn(ctx, "caching draft fields failed", "error", err)
		}

		res := flow.Advance(draft)
		if len(res.Invalid) > 0 {
			printlnFn("Please fix the following before continuing:")
			for _, msg := range res.Invalid {
				printlnFn("  - " + msg)
			}
			continue
		}

		if res.Effect.Kind == registration.EffectSendOTP {
			if err := a.sendOTP(ctx, draft); err != nil {
				printlnFn("sending OTP failed: " + err.Error())
				flow.Back()
			}
		}
	}
}

func (a *App) selectRole(ctx context.Context) (models.Role, error) {
	for {
		answer, err := GetSimpleText(a.reader, "Register as (1) delivery partner or (2) business owner?", os.Stdout)
		if err != nil {
			return "", err
		}
		switch answer {
		case "1", string(models.RoleDeliveryPartner):
			return models.RoleDeliveryPartner, nil
		case "2", string(models.RoleBusinessOwner):
			return models.RoleBusinessOwner, nil
		}
		printlnFn("please choose 1 or 2")
	}
}

// collectStep prompts for the fields of one form step. Returns back=true
// when the user typed "back".
func (a *App) collectStep(ctx context.Context, step registration.Step, d *models.Draft) (back bool, err error) {
	printlnFn("")
	printlnFn("-- " + stepTitle(step) + " (type 'back' to go back) --")

	switch step {
	case registration.StepPersonalInfo:
		return a.promptFields(d,
			field{"Phone number", &d.Phone},
			field{"Email address", &d.Email},
			field{"Vehicle type (motorcycle/bicycle/electric_vehicle)", &d.VehicleType},
			field{"Employment type (part-time/full-time)", &d.EmploymentType},
		)
	case registration.StepBasicInfo:
		if back, err = a.promptFields(d,
			field{"Phone number", &d.Phone},
			field{"Email address", &d.Email},
			field{"Business name", &d.BusinessName},
			field{"Business address", &d.Address},
			field{"Pincode", &d.Pincode},
		); back || err != nil {
			return back, err
		}
		hasGSTIN, err := GetYesNo(a.reader, "Is the business GST-registered?", d.HasGSTIN, os.Stdout)
		if err != nil {
			return false, err
		}
		d.HasGSTIN = hasGSTIN
		if hasGSTIN {
			return a.promptFields(d, field{"GSTIN", &d.GSTIN})
		}
		return false, nil
	case registration.StepCategories:
		items, err := GetList(a.reader, "Business categories", os.Stdout)
		if err != nil {
			return false, err
		}
		if len(items) == 1 && strings.EqualFold(items[0], "back") {
			return true, nil
		}
		if len(items) > 0 {
			d.Categories = items
		}
		return false, nil
	case registration.StepDocuments, registration.StepPersonalDocuments:
		return a.promptDocuments(d, models.DocAadhar, models.DocPAN, models.DocSelfie, models.DocVideo)
	case registration.StepBusinessDocuments:
		return a.promptDocuments(d, models.DocBusinessImage, models.DocBusinessVideo)
	}
	return false, nil
}

type field struct {
	prompt string
	dst    *string
}

// promptFields reads each field, keeping the current value when the user
// just presses Enter.
func (a *App) promptFields(d *models.Draft, fields ...field) (back bool, err error) {
	for _, f := range fields {
		prompt := f.prompt
		if *f.dst != "" {
			prompt = fmt.Sprintf("%s [%s]", f.prompt, *f.dst)
		}
		answer, err := GetSimpleText(a.reader, prompt, os.Stdout)
		if err != nil {
			return false, err
		}
		if strings.EqualFold(answer, "back") {
			return true, nil
		}
		if answer != "" {
			*f.dst = answer
		}
	}
	return false, nil
}

func (a *App) promptDocuments(d *models.Draft, types ...models.DocumentType) (back bool, err error) {
	for _, t := range types {
		current := d.Documents[t]
		prompt := fmt.Sprintf("Path to %s file", t)
		if current != "" {
			prompt = fmt.Sprintf("%s [%s]", prompt, current)
		}
		answer, err := GetSimpleText(a.reader, prompt, os.Stdout)
		if err != nil {
			return false, err
		}
		if strings.EqualFold(answer, "back") {
			return true, nil
		}
		if answer != "" {
			d.SetDocument(t, answer)
		}
	}
	return false, nil
}

func (a *App) sendOTP(ctx context.Context, d *models.Draft) error {
	res, err := a.runner.SendOTP(ctx, d)
	if err != nil {
		return err
	}
	printlnFn(res.Message)
	if res.DevCode != "" {
		printlnFn("development OTP: " + res.DevCode)
	}
	return nil
}

// otpScreen runs the OTP step: read a code, verify, and on success run the
// submit sequence. A flow that is already verified (a previous submit failed
// to finalize) goes straight to a submit retry; its code is consumed and is
// not asked for again. Returns done=false when the user backs out.
func (a *App) otpScreen(ctx context.Context, flow *registration.Flow, d *models.Draft) (done bool, err error) {
	for {
		if flow.Verified() {
			answer, err := GetSimpleText(a.reader,
				"Your number is verified but the registration is not finalized. Press Enter to retry ('back' to go back)", os.Stdout)
			if err != nil {
				return false, err
			}
			if strings.EqualFold(answer, "back") {
				return false, nil
			}
			if a.submit(ctx, flow, d) {
				return true, nil
			}
			continue
		}

		answer, err := GetSimpleText(a.reader,
			"Enter the 6-digit code ('resend' to re-send, 'back' to go back)", os.Stdout)
		if err != nil {
			return false, err
		}

		switch strings.ToLower(answer) {
		case "back":
			return false, nil
		case "resend":
			if effect, ok := flow.Resend(d); ok && effect.Kind == registration.EffectSendOTP {
				if err := a.sendOTP(ctx, d); err != nil {
					printlnFn("resend failed: " + err.Error())
				}
			}
			continue
		}

		effect, err := a.runner.Verify(ctx, flow, d, answer)
		if err != nil {
			if errors.Is(err, session.ErrInvalidCode) {
				printlnFn("The code must be exactly 6 digits.")
			} else {
				printlnFn("Verification failed: " + err.Error())
			}
			continue
		}

		if effect.Kind != registration.EffectSubmit {
			continue
		}

		if a.submit(ctx, flow, d) {
			return true, nil
		}
	}
}

// submit runs the upload-and-finalize sequence and reports the outcome.
func (a *App) submit(ctx context.Context, flow *registration.Flow, d *models.Draft) bool {
	report, err := a.runner.Submit(ctx, flow, d)
	if report != nil {
		printlnFn(report.Summary())
	}
	if err != nil {
		// The draft survives; the user may retry from here.
		printlnFn("Finalizing registration failed: " + err.Error())
		return false
	}
	return true
}

func stepTitle(step registration.Step) string {
	switch step {
	case registration.StepPersonalInfo:
		return "Personal Information"
	case registration.StepDocuments:
		return "Document Verification"
	case registration.StepBasicInfo:
		return "Business Information"
	case registration.StepCategories:
		return "Business Categories"
	case registration.StepPersonalDocuments:
		return "Personal Documents"
	case registration.StepBusinessDocuments:
		return "Business Documents"
	case registration.StepOTPVerify:
		return "OTP Verification"
	default:
		return string(step)
	}
}
