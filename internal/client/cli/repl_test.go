package cli

import (
	"bufio"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/restorder/internal/client/client"
	"github.com/dmitrijs2005/restorder/internal/common"
)

type fakeExec struct {
	loggedIn bool
	admin    bool

	calls []string
	args  map[string][]string
	fail  map[string]error
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }

func (f *fakeExec) isAdmin() bool { return f.loggedIn && f.admin }

func (f *fakeExec) Login(context.Context, []string) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}

func (f *fakeExec) endSession(context.Context) {
	f.calls = append(f.calls, "end")
	f.loggedIn = false
}

func (f *fakeExec) record(name string) func(context.Context, []string) error {
	return func(_ context.Context, args []string) error {
		f.calls = append(f.calls, name)
		if f.args == nil {
			f.args = map[string][]string{}
		}
		f.args[name] = args
		return f.fail[name]
	}
}

func (f *fakeExec) commands() []command {
	return []command{
		{name: "menu", usage: "menu", run: f.record("menu")},
		{name: "cart", usage: "cart", access: accessUser, run: f.record("cart")},
		{name: "add", usage: "add <itemID> [qty]", access: accessUser, run: f.record("add")},
		{name: "aorders", usage: "aorders", access: accessAdmin, run: f.record("aorders")},
	}
}

func runLines(f *fakeExec, lines ...string) {
	reader := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), f, func() string { return "" }, reader)
}

func TestRunREPL_GuardedCommandRedirectsToLogin(t *testing.T) {
	silenceREPL(t)
	exec := &fakeExec{}

	runLines(exec, "cart", "cart", "exit")

	// the first cart only triggers login, the second one runs
	assert.Equal(t, []string{"login", "cart"}, exec.calls)
}

func TestRunREPL_PublicCommandNeedsNoLogin(t *testing.T) {
	silenceREPL(t)
	exec := &fakeExec{}

	runLines(exec, "menu starters paneer", "quit")

	assert.Equal(t, []string{"menu"}, exec.calls)
	assert.Equal(t, []string{"starters", "paneer"}, exec.args["menu"])
}

func TestRunREPL_AdminCommandRefusedForCustomer(t *testing.T) {
	out := silenceREPL(t)
	exec := &fakeExec{loggedIn: true}

	runLines(exec, "aorders", "exit")

	assert.Empty(t, exec.calls)
	assert.Contains(t, *out, "Admin access required.")

	exec.admin = true
	runLines(exec, "aorders 2", "exit")
	assert.Equal(t, []string{"aorders"}, exec.calls)
}

func TestRunREPL_ErrorsAndUsage(t *testing.T) {
	out := silenceREPL(t)
	exec := &fakeExec{loggedIn: true, fail: map[string]error{
		"add":  errUsage,
		"cart": common.ErrUnavailable,
	}}

	runLines(exec, "add", "cart", "foobar", "exit")

	assert.Contains(t, *out, "Usage: add <itemID> [qty]")
	assert.Contains(t, *out, "Error: server unavailable, try again later")
	assert.Contains(t, *out, "Unknown command: foobar")
}

func TestRunREPL_RejectedTokenEndsSessionAndLogsIn(t *testing.T) {
	out := silenceREPL(t)
	exec := &fakeExec{loggedIn: true, fail: map[string]error{
		"cart": &client.APIError{StatusCode: 401, Message: "token revoked"},
	}}

	runLines(exec, "cart", "exit")

	assert.Equal(t, []string{"cart", "end", "login"}, exec.calls)
	assert.Contains(t, *out, "Session expired, please log in again.")
	assert.True(t, exec.loggedIn)
}

func TestRunREPL_RejectedLoginDoesNotLoop(t *testing.T) {
	silenceREPL(t)
	exec := &fakeExec{fail: map[string]error{
		"menu": common.ErrUnauthorized,
	}}

	runLines(exec, "menu", "exit")

	assert.Equal(t, []string{"menu"}, exec.calls)
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	out := silenceREPL(t)

	runLines(&fakeExec{}, "help")
	require.NotEmpty(t, *out)
	helpLine := (*out)[1]
	assert.Contains(t, helpLine, "menu")
	assert.NotContains(t, helpLine, "cart")
	assert.NotContains(t, helpLine, "aorders")

	*out = nil
	runLines(&fakeExec{loggedIn: true, admin: true}, "help")
	helpLine = (*out)[1]
	assert.Contains(t, helpLine, "cart")
	assert.Contains(t, helpLine, "aorders")
}

func TestRunREPL_StopsAtEOFAfterLastLine(t *testing.T) {
	silenceREPL(t)
	exec := &fakeExec{}

	// no trailing newline; the last command still runs
	runLines(exec, "", "menu")

	assert.Equal(t, []string{"menu"}, exec.calls)
}

func TestDescribeError(t *testing.T) {
	assert.Equal(t, "invalid credentials", describeError(common.ErrAuthentication))
	assert.Equal(t, "please log in first", describeError(common.ErrNotLoggedIn))
	assert.Equal(t, "your cart is empty", describeError(common.ErrEmptyCart))
	assert.Equal(t, "boom", describeError(errors.New("boom")))
}
