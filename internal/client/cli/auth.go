package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/growthpods/growthpods/internal/client/client"
	"github.com/growthpods/growthpods/internal/client/models"
	"github.com/growthpods/growthpods/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// describeError turns transport failures into a line fit for the prompt.
func describeError(err error) string {
	var remote *client.RemoteError
	switch {
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable"
	case errors.Is(err, client.ErrUnauthorized):
		return "not authorized"
	case errors.As(err, &remote):
		return remote.Message
	case errors.Is(err, client.ErrMalformedResponse):
		return "unexpected server response"
	default:
		return err.Error()
	}
}

// Login prompts for an email and a hidden password and authenticates.
// The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.authService.Login(ctx, models.Credentials{Identifier: email, Secret: string(password)})
	if err != nil {
		a.logger.Debug(ctx, "login failed", "error", err)
		printlnFn("Login unsuccessful:", describeError(err))
		return err
	}

	if res.Token == "" {
		printlnFn("Server returned no session, still logged out")
		return nil
	}

	printlnFn(fmt.Sprintf("Logged in as %s (%s)", res.User.Email, res.User.Role))
	return nil
}

// Logout always ends the local session; a failed server call is only reported.
func (a *App) Logout(ctx context.Context) error {
	err := a.authService.Logout(ctx)
	if err == nil {
		printlnFn("Logged out")
		return nil
	}
	if a.isLoggedIn(ctx) {
		printlnFn("Logout failed:", describeError(err))
	} else {
		printlnFn("Logged out locally; server call failed:", describeError(err))
	}
	return err
}

func (a *App) Refresh(ctx context.Context) error {
	res, err := a.authService.RefreshToken(ctx)
	if err != nil {
		printlnFn("Refresh failed:", describeError(err))
		return err
	}
	printlnFn("Session refreshed for", res.User.Email)
	return nil
}

func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter account email", a.out)
	if err != nil {
		return err
	}

	if err := a.authService.ForgotPassword(ctx, email); err != nil {
		printlnFn("Request failed:", describeError(err))
		return err
	}
	printlnFn("If the account exists, a reset link is on its way")
	return nil
}

// ResetPassword asks for the emailed token and a new password entered twice.
func (a *App) ResetPassword(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Enter reset token", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter new password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.out, "Repeat new password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if string(password) != string(confirm) {
		printlnFn("Passwords do not match")
		return errPasswordMismatch
	}

	if err := a.authService.ResetPassword(ctx, token, string(password)); err != nil {
		printlnFn("Reset failed:", describeError(err))
		return err
	}
	printlnFn("Password changed, you can log in now")
	return nil
}

func (a *App) Status(ctx context.Context) error {
	printlnFn("Session:", a.getStatus(ctx))
	printlnFn("Server:", a.config.ServerBaseURL)
	return nil
}

var errPasswordMismatch = errors.New("passwords do not match")
