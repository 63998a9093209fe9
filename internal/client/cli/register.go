package cli

import (
	"context"
	"fmt"

	"github.com/kuba1e/food-delivery/internal/client/client"
	"github.com/kuba1e/food-delivery/internal/common"
)

// getSimpleText, getNumber and getPassword are indirections used to
// facilitate testing.
var (
	getSimpleText = GetSimpleText
	getNumber     = GetNumber
	getPassword   = GetPassword
)

// Register collects the sign-up form and keeps the returned activation
// token for the activate command.
func (a *App) Register(ctx context.Context) error {
	var (
		r   client.Registration
		err error
	)

	if r.Name, err = getSimpleText(a.reader, "Enter name", a.out); err != nil {
		return a.report(ctx, "register", err)
	}
	if r.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return a.report(ctx, "register", err)
	}

	password, err := getPassword(a.out)
	if err != nil {
		return a.report(ctx, "register", err)
	}
	defer common.WipeByteArray(password)
	r.Password = string(password)

	if r.PhoneNumber, err = getNumber(a.reader, "Enter phone number", a.out); err != nil {
		return a.report(ctx, "register", err)
	}
	if r.Address, err = getSimpleText(a.reader, "Enter address", a.out); err != nil {
		return a.report(ctx, "register", err)
	}

	token, err := a.api.Register(ctx, r)
	if err != nil {
		return a.report(ctx, "register", err)
	}

	a.activationToken = token
	fmt.Fprintf(a.out, "Please check your email %s to activate your account, then run 'activate'.\n", r.Email)
	return nil
}

// Activate submits the emailed code together with the token kept by the
// last register. Without one, the token is asked for.
func (a *App) Activate(ctx context.Context) error {
	token := a.activationToken
	if token == "" {
		var err error
		if token, err = getSimpleText(a.reader, "Enter activation token", a.out); err != nil {
			return a.report(ctx, "activate", err)
		}
	}

	code, err := getSimpleText(a.reader, "Enter activation code", a.out)
	if err != nil {
		return a.report(ctx, "activate", err)
	}

	user, err := a.api.Activate(ctx, token, code)
	if err != nil {
		return a.report(ctx, "activate", err)
	}

	a.activationToken = ""
	fmt.Fprintf(a.out, "Account %s activated, you can login now.\n", user.Email)
	return nil
}
