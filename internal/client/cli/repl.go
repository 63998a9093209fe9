package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Activate(ctx context.Context) error
	Login(ctx context.Context) error
	Me(ctx context.Context) error
	List(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads commands from reader and dispatches them to a until the
// user types "exit" or "quit", input ends, or ctx is cancelled.
//
// Command errors are reported by the handlers themselves, so the loop
// ignores them and keeps going.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}

		fmt.Fprintf(w, "users%s> ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch cmd := parts[0]; cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: me, (l)ist, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, activate, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "activate":
			_ = a.Activate(ctx)

		case "login":
			_ = a.Login(ctx)

		case "me":
			_ = a.Me(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}
