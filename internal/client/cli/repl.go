package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/restorder/internal/client/client"
	"github.com/dmitrijs2005/restorder/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	Login(ctx context.Context, args []string) error
	endSession(ctx context.Context)
	commands() []command
}

// runREPL reads commands line by line from reader and dispatches them.
//
// Commands that need a session run the login flow instead when nobody is
// logged in, or when the backend rejects the stored token; admin commands
// are refused for customers. Command errors are
// printed and the loop goes on. It exits on EOF, on "exit"/"quit", or once
// ctx is done.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ro%s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printHelp(a)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			c, ok := findCommand(a.commands(), cmd)
			if !ok {
				printlnFn("Unknown command:", cmd)
				break
			}
			if c.access >= accessUser && !a.isLoggedIn() {
				printlnFn("Please log in first.")
				if lerr := a.Login(ctx, nil); lerr != nil {
					printlnFn("Error:", describeError(lerr))
				}
				break
			}
			if c.access == accessAdmin && !a.isAdmin() {
				printlnFn("Admin access required.")
				break
			}
			if rerr := c.run(ctx, args); rerr != nil {
				switch {
				case errors.Is(rerr, errUsage):
					printlnFn("Usage:", c.usage)
				case c.access >= accessUser && errors.Is(rerr, common.ErrUnauthorized):
					a.endSession(ctx)
					printlnFn("Session expired, please log in again.")
					if lerr := a.Login(ctx, nil); lerr != nil {
						printlnFn("Error:", describeError(lerr))
					}
				default:
					printlnFn("Error:", describeError(rerr))
				}
			}
		}

		if err != nil || ctx.Err() != nil {
			return
		}
	}
}

func findCommand(list []command, name string) (command, bool) {
	for _, c := range list {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func printHelp(a execIface) {
	names := []string{"help"}
	for _, c := range a.commands() {
		switch {
		case c.access == accessAdmin && !a.isAdmin():
			continue
		case c.access == accessUser && !a.isLoggedIn():
			continue
		}
		names = append(names, c.name)
	}
	names = append(names, "exit")
	printlnFn("Available commands:", strings.Join(names, ", "))
}

// describeError turns service errors into short messages for the prompt.
func describeError(err error) string {
	switch {
	case errors.Is(err, common.ErrAuthentication):
		return "invalid credentials"
	case errors.Is(err, common.ErrNotLoggedIn), errors.Is(err, common.ErrSessionPending):
		return "please log in first"
	case errors.Is(err, common.ErrForbidden):
		return "admin access required"
	case errors.Is(err, common.ErrEmptyCart):
		return "your cart is empty"
	case errors.Is(err, common.ErrUnavailable):
		return "server unavailable, try again later"
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
