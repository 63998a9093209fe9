package cli

import (
	"context"
	"fmt"
)

func (a *App) Me(ctx context.Context) error {
	user, err := a.api.Me(ctx)
	if err != nil {
		return a.report(ctx, "me", err)
	}

	fmt.Fprintln(a.out, user)
	return nil
}

func (a *App) List(ctx context.Context) error {
	list, err := a.api.ListUsers(ctx)
	if err != nil {
		return a.report(ctx, "list", err)
	}

	if len(list) == 0 {
		fmt.Fprintln(a.out, "No users.")
		return nil
	}

	for i, u := range list {
		fmt.Fprintf(a.out, "%d. %s\n", i+1, u)
	}
	return nil
}
