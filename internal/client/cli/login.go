package cli

import (
	"context"
	"fmt"

	"github.com/kuba1e/food-delivery/internal/common"
)

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return a.report(ctx, "login", err)
	}

	password, err := getPassword(a.out)
	if err != nil {
		return a.report(ctx, "login", err)
	}
	defer common.WipeByteArray(password)

	user, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		return a.report(ctx, "login", err)
	}

	a.userName = user.Email
	fmt.Fprintf(a.out, "Welcome, %s!\n", user.Name)
	return nil
}

// Logout always leaves the CLI logged out, even when the server call fails.
func (a *App) Logout(ctx context.Context) error {
	msg, err := a.api.Logout(ctx)
	a.userName = ""
	if err != nil {
		return a.report(ctx, "logout", err)
	}

	fmt.Fprintln(a.out, msg)
	return nil
}
