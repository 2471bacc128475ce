package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/dkeye/RTCAgent/internal/app"
	"github.com/dkeye/RTCAgent/internal/config"
	"github.com/dkeye/RTCAgent/internal/ui/term"
	"github.com/stretchr/testify/require"
)

func newTestShell(t *testing.T) (*shell, *app.App, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.RTC.Engine = config.EngineLoopback
	cfg.Dev.MockPeers = []string{"bob"}

	var out bytes.Buffer
	a, err := app.New(cfg, app.Options{View: term.New(&out, term.NewStyles(cfg.UI.Theme))})
	require.NoError(t, err)
	t.Cleanup(func() { a.Shutdown(context.Background()) })
	return newShell(a, &out), a, &out
}

func TestShell_JoinStatusLeave(t *testing.T) {
	s, a, out := newTestShell(t)
	in := strings.NewReader("join r1 alice\nstatus\nmic\nleave\nquit\njoin r2 never\n")

	require.NoError(t, s.Run(context.Background(), in))
	require.False(t, a.Status().Connected)
	require.Contains(t, out.String(), `"isConnected": true`)
	require.Contains(t, out.String(), "Participants (2)")
	require.Contains(t, out.String(), "Mic off")
	require.NotContains(t, out.String(), "r2")
}

func TestShell_JoinUsesPrefill(t *testing.T) {
	s, a, _ := newTestShell(t)
	room, user, scheduled := a.HandleURLParams(context.Background(), "room=standup&user=dana")
	require.False(t, scheduled)
	s.prefill(room, user)

	require.NoError(t, s.Run(context.Background(), strings.NewReader("join\n")))
	info := a.Status().RoomInfo
	require.EqualValues(t, "standup", info.RoomID)
	require.EqualValues(t, "dana", info.LocalUserID)

	require.NoError(t, s.Run(context.Background(), strings.NewReader("join other\n")))
	info = a.Status().RoomInfo
	require.EqualValues(t, "other", info.RoomID)
	require.EqualValues(t, "dana", info.LocalUserID)
}

func TestShell_UnknownCommand(t *testing.T) {
	s, _, out := newTestShell(t)
	require.NoError(t, s.Run(context.Background(), strings.NewReader("dance\n\nhelp\n")))
	require.Contains(t, out.String(), `unknown command "dance"`)
	require.Contains(t, out.String(), "join [room] [user]")
}

func TestShell_Devices(t *testing.T) {
	s, _, out := newTestShell(t)
	require.NoError(t, s.Run(context.Background(), strings.NewReader("devices\n")))
	require.Contains(t, out.String(), `"cameras": []`)
}

func TestRootCmd_Flags(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"room", "user", "engine", "signal", "auto-join"} {
		require.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}
