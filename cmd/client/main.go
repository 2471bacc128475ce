package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dkeye/RTCAgent/internal/adapters/devices"
	"github.com/dkeye/RTCAgent/internal/app"
	"github.com/dkeye/RTCAgent/internal/config"
	"github.com/dkeye/RTCAgent/internal/ui/term"
)

type flags struct {
	room     string
	user     string
	engine   string
	signal   string
	autoJoin bool
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "rtcagent-client",
		Short: "Terminal client for RTC Agent rooms",
		Long:  `rtcagent-client joins a named room through the configured engine and renders participants, tiles and connection state in the terminal. Type "help" for commands.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), f)
		},
	}
	cmd.Flags().StringVar(&f.room, "room", "", "room to join")
	cmd.Flags().StringVar(&f.user, "user", "", "user id to join as")
	cmd.Flags().StringVar(&f.engine, "engine", "", "engine variant: signal or loopback")
	cmd.Flags().StringVar(&f.signal, "signal", "", "signaling websocket url")
	cmd.Flags().BoolVar(&f.autoJoin, "auto-join", false, "join as soon as room and user are known")
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return cmd
}

func run(ctx context.Context, f flags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Dev.DebugLog {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if f.engine != "" {
		cfg.RTC.Engine = f.engine
	}
	if f.signal != "" {
		cfg.RTC.SignalURL = f.signal
	}
	if f.autoJoin {
		cfg.UI.AutoJoin = true
	}

	view := term.New(os.Stdout, term.NewStyles(cfg.UI.Theme))
	a, err := app.New(cfg, app.Options{View: view, Devices: devices.NewEnumerator()})
	if err != nil {
		return err
	}
	defer a.Shutdown(context.Background())

	if err := a.Start(ctx); err != nil {
		log.Warn().Err(err).Msg("engine unavailable, join will retry initialization")
	}

	q := url.Values{}
	if f.room != "" {
		q.Set("room", f.room)
	}
	if f.user != "" {
		q.Set("user", f.user)
	}
	room, user, _ := a.HandleURLParams(ctx, q.Encode())

	sh := newShell(a, os.Stdout)
	sh.prefill(room, user)
	return sh.Run(ctx, os.Stdin)
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
