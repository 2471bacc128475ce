package term

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dkeye/RTCAgent/internal/config"
	"github.com/dkeye/RTCAgent/internal/core"
	"github.com/dkeye/RTCAgent/internal/domain"
	"github.com/stretchr/testify/require"
)

type fakeHandle string

func (h fakeHandle) ID() string   { return string(h) }
func (h fakeHandle) Kind() string { return "video" }

func newTestView() (*View, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(&buf, NewStyles(config.Default().UI.Theme)), &buf
}

func TestView_ParticipantsTable(t *testing.T) {
	v, buf := newTestView()
	v.RenderParticipants("alice", true, []domain.Participant{{UserID: "bob", DisplayName: "Bob"}}, 2)

	out := buf.String()
	require.Contains(t, out, "Participants (2)")
	require.Contains(t, out, "alice (You)")
	require.Contains(t, out, "Bob")
}

func TestView_GridTruncatesBeyondCapacity(t *testing.T) {
	v, buf := newTestView()
	for _, u := range []domain.UserID{"u1", "u2", "u3", "u4", "u5"} {
		v.AttachTile(u, fakeHandle("t-"+string(u)))
	}
	v.SetLayout(domain.LayoutFor(5))

	out := buf.String()
	for _, u := range []string{"u1", "u2", "u3", "u4"} {
		require.Contains(t, out, u)
	}
	require.NotContains(t, out, "u5")
}

func TestView_RemoveAndClearTiles(t *testing.T) {
	v, buf := newTestView()
	v.AttachTile("u1", fakeHandle("a"))
	v.AttachTile("u2", fakeHandle("b"))
	v.RemoveTile("u1")
	v.SetLayout(domain.LayoutFor(1))
	require.NotContains(t, buf.String(), "u1")
	require.Contains(t, buf.String(), "u2")

	buf.Reset()
	v.ClearTiles()
	v.SetLayout(domain.LayoutFor(0))
	require.Empty(t, buf.String())
}

func TestView_NotifyAndBanner(t *testing.T) {
	v, buf := newTestView()
	v.Notify(core.Notice{Level: core.NoticeError, Title: "Room Full", Message: "try later"})
	v.SetConnectionStatus(domain.StateReconnecting)
	v.ShowPlaceholder("")

	out := buf.String()
	require.Contains(t, out, "Room Full")
	require.Contains(t, out, "try later")
	require.Contains(t, out, "Reconnecting...")
	require.Contains(t, out, "demo-room")
	require.True(t, strings.Contains(out, "Waiting for participants..."))
}

func TestView_Toggles(t *testing.T) {
	v, buf := newTestView()
	v.SetMicState(false)
	v.SetCameraState(true)
	v.SetScreenShareState(true)

	out := buf.String()
	require.Contains(t, out, "Mic off")
	require.Contains(t, out, "Camera on")
	require.Contains(t, out, "Stop Share")
}

func TestView_LoadingIsOperationNeutral(t *testing.T) {
	v, buf := newTestView()
	v.SetLoading(true)
	v.SetLoading(false)

	require.Contains(t, buf.String(), "Please wait...")
	require.NotContains(t, buf.String(), "Joining")
	require.Equal(t, 1, strings.Count(buf.String(), "\n"))
}
