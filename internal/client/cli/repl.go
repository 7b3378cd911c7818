package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/hkjobs/internal/client/client"
)

// printlnFn and printFn are test seams for user-facing output. In tests,
// replace them with stubs.
var (
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(stdout, a...) }
	printFn   = func(a ...any) (int, error) { return fmt.Fprint(stdout, a...) }
)

// command is one REPL verb.
type command struct {
	name  string
	usage string
	// auth commands are hidden and refused while logged out.
	auth bool
	run  func(ctx context.Context, args []string) error
}

// execIface defines the minimal surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	commands() []command
}

// runREPL starts a simple read–eval–print loop for the job-search CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to the matching entry of a.commands() with the remaining tokens
// as arguments. The loop exits on EOF, on "exit" or "quit", or when ctx is
// cancelled between commands.
//
// While logged out only commands with auth == false are offered. Errors
// returned by commands are printed; a session expiry is not, because the
// session notification already told the user.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printFn(fmt.Sprintf("hk %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			printlnFn()
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := strings.ToLower(parts[0]), parts[1:]

		switch name {
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "help":
			printlnFn(helpText(a.commands(), a.isLoggedIn()))
			continue
		}

		cmd, ok := lookup(a.commands(), name)
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}
		if cmd.auth && !a.isLoggedIn() {
			printlnFn("Please log in first (login or register).")
			continue
		}

		if err := cmd.run(ctx, args); err != nil {
			report(err)
		}
	}
}

func lookup(cmds []command, name string) (command, bool) {
	for _, c := range cmds {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func helpText(cmds []command, loggedIn bool) string {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, c := range cmds {
		if c.auth && !loggedIn {
			continue
		}
		usage := c.name
		if c.usage != "" {
			usage += " " + c.usage
		}
		fmt.Fprintf(&b, "  %s\n", usage)
	}
	b.WriteString("  help\n  exit")
	return b.String()
}

// errUsage is returned by commands called with the wrong arguments.
type errUsage struct {
	name, usage string
}

func (e errUsage) Error() string {
	return fmt.Sprintf("usage: %s %s", e.name, e.usage)
}

func report(err error) {
	var usage errUsage
	switch {
	case errors.Is(err, client.ErrSessionExpired), errors.Is(err, context.Canceled):
	case errors.As(err, &usage):
		printlnFn(fmt.Sprintf("Usage: %s %s", usage.name, usage.usage))
	case errors.Is(err, client.ErrRateLimited), errors.Is(err, client.ErrUnavailable):
		printlnFn(err.Error())
	default:
		printlnFn("Error:", err.Error())
	}
}
