package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// command is one REPL verb. Commands with auth set are hidden and refused
// while logged out.
type command struct {
	name  string
	usage string
	auth  bool
	run   func(ctx context.Context, args []string) error
}

// execIface is what the REPL needs from the application. The real App
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	commands() []command
	report(ctx context.Context, err error)
}

// runREPL reads one line at a time from reader, dispatches the first word to
// the matching command and reports command errors through a.report. It
// returns on EOF, on "exit"/"quit" or when ctx is done.
func runREPL(ctx context.Context, a execIface, promptFn func() string, reader *bufio.Reader, w io.Writer) {
	cmds := map[string]command{}
	for _, c := range a.commands() {
		cmds[c.name] = c
	}

	for ctx.Err() == nil {
		fmt.Fprint(w, promptFn())
		line, err := readLine(reader)
		if err != nil {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		case "help":
			printHelp(w, a.commands(), a.isLoggedIn())
			continue
		}

		c, ok := cmds[name]
		switch {
		case !ok:
			fmt.Fprintln(w, "Unknown command:", name)
		case c.auth && !a.isLoggedIn():
			fmt.Fprintln(w, "Please login first.")
		default:
			if err := c.run(ctx, args); err != nil {
				a.report(ctx, err)
			}
		}
	}
}

func printHelp(w io.Writer, cmds []command, loggedIn bool) {
	fmt.Fprintln(w, "Available commands:")
	for _, c := range cmds {
		if c.auth && !loggedIn {
			continue
		}
		fmt.Fprintf(w, "  %s\n", c.usage)
	}
	fmt.Fprintln(w, "  help")
	fmt.Fprintln(w, "  exit | quit")
}
