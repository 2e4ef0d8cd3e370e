package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/quisipp/onboard/internal/client/models"
)

// Login authenticates an existing account: send OTP, read the code, verify.
func (a *App) Login(ctx context.Context) error {
	phone, err := GetSimpleText(a.reader, "Enter phone number", os.Stdout)
	if err != nil {
		return err
	}

	res, err := a.sess.Login(ctx, phone)
	if err != nil {
		return err
	}
	printlnFn(res.Message)
	if res.DevCode != "" {
		printlnFn("development OTP: " + res.DevCode)
	}

	code, err := GetSimpleText(a.reader, "Enter the 6-digit code", os.Stdout)
	if err != nil {
		return err
	}

	if _, err := a.sess.VerifyOTP(ctx, phone, code); err != nil {
		return err
	}
	printlnFn("Logged in.")
	return nil
}

// Logout clears the session, locally in any case.
func (a *App) Logout(ctx context.Context) error {
	if err := a.sess.Logout(ctx); err != nil {
		return err
	}
	printlnFn("Logged out.")
	return nil
}

// Profile fetches and prints the server-side profile for the session's role.
func (a *App) Profile(ctx context.Context) error {
	u := a.sess.User()
	if u == nil {
		printlnFn("Not logged in.")
		return nil
	}

	var (
		remote *models.User
		err    error
	)
	if u.Role == models.RoleBusinessOwner {
		remote, err = a.business.Profile(ctx)
	} else {
		remote, err = a.delivery.Profile(ctx)
	}
	if err != nil {
		return err
	}
	if remote == nil {
		printlnFn("No profile on record yet.")
		return nil
	}

	printlnFn(fmt.Sprintf("id: %s", remote.ID))
	printlnFn(fmt.Sprintf("phone: %s", remote.PhoneNumber))
	printlnFn(fmt.Sprintf("email: %s", remote.Email))
	printlnFn(fmt.Sprintf("role: %s", remote.Role))
	printlnFn(fmt.Sprintf("verified: %t", remote.IsVerified))

	// Keep the local mirror in step with what the server returned.
	return a.sess.UpdateUserData(ctx, *remote)
}

// ToggleStatus flips the delivery partner's active flag.
func (a *App) ToggleStatus(ctx context.Context) error {
	u := a.sess.User()
	if u == nil || u.Role != models.RoleDeliveryPartner {
		printlnFn("toggle is only available for delivery partners")
		return nil
	}

	active, err := a.delivery.ToggleActiveStatus(ctx)
	if err != nil {
		return err
	}
	if active {
		printlnFn("You are now active.")
	} else {
		printlnFn("You are now inactive.")
	}
	return nil
}
