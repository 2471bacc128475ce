package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dkeye/RTCAgent/internal/app"
)

var errQuit = errors.New("quit")

type command struct {
	usage string
	run   func(ctx context.Context, s *shell, args []string) error
}

var commands = map[string]command{
	"join": {"join [room] [user]", func(ctx context.Context, s *shell, args []string) error {
		room, user := arg(args, 0), arg(args, 1)
		if room == "" {
			room = s.room
		}
		if user == "" {
			user = s.user
		}
		return s.app.Synchronizer().HandleJoin(ctx, room, user)
	}},
	"leave": {"leave", func(ctx context.Context, s *shell, _ []string) error {
		s.app.Synchronizer().HandleLeave(ctx)
		return nil
	}},
	"mic": {"mic", func(ctx context.Context, s *shell, _ []string) error {
		s.app.Synchronizer().HandleToggleMic(ctx)
		return nil
	}},
	"cam": {"cam", func(ctx context.Context, s *shell, _ []string) error {
		s.app.Synchronizer().HandleToggleCamera(ctx)
		return nil
	}},
	"share": {"share", func(ctx context.Context, s *shell, _ []string) error {
		s.app.Synchronizer().HandleToggleScreenShare(ctx)
		return nil
	}},
	"devices": {"devices", func(ctx context.Context, s *shell, _ []string) error {
		return s.printJSON(s.app.DevicesChanged(ctx))
	}},
	"status": {"status", func(_ context.Context, s *shell, _ []string) error {
		return s.printJSON(s.app.Status())
	}},
	"quit": {"quit", func(context.Context, *shell, []string) error {
		return errQuit
	}},
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

type shell struct {
	app *app.App
	out io.Writer
	// room and user prefill join when it is given no arguments.
	room, user string
}

func newShell(a *app.App, out io.Writer) *shell {
	return &shell{app: a, out: out}
}

func (s *shell) prefill(room, user string) {
	s.room, s.user = room, user
	if room != "" || user != "" {
		fmt.Fprintf(s.out, "join defaults: room=%q user=%q\n", room, user)
	}
}

// Run executes one command per input line until quit, EOF or ctx is done.
func (s *shell) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := s.exec(ctx, line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				fmt.Fprintln(s.out, "error:", err)
			}
		}
	}
}

func (s *shell) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name := strings.ToLower(fields[0])
	if name == "help" {
		s.printHelp()
		return nil
	}
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q, try help", fields[0])
	}
	return cmd.run(ctx, s, fields[1:])
}

func (s *shell) printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(s.out, string(b))
	return err
}

func (s *shell) printHelp() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)
	fmt.Fprintln(s.out, "  help")
	for _, name := range names {
		fmt.Fprintln(s.out, "  "+commands[name].usage)
	}
}
