package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/RTCAgent/internal/adapters/loopback"
	"github.com/dkeye/RTCAgent/internal/adapters/signal"
	"github.com/dkeye/RTCAgent/internal/config"
	"github.com/dkeye/RTCAgent/internal/core"
	"github.com/dkeye/RTCAgent/internal/domain"
	"github.com/dkeye/RTCAgent/internal/session"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type recordingView struct {
	mu          sync.Mutex
	formShown   bool
	status      domain.ConnectionState
	tiles       map[domain.UserID]domain.MediaHandle
	layout      domain.Layout
	placeholder bool
	count       int
	listed      []domain.Participant
	notices     []core.Notice
	mic         bool
	sharing     bool
}

func newRecordingView() *recordingView {
	return &recordingView{tiles: make(map[domain.UserID]domain.MediaHandle)}
}

func (v *recordingView) ShowJoinForm()             { v.mu.Lock(); v.formShown = true; v.mu.Unlock() }
func (v *recordingView) HideJoinForm()             { v.mu.Lock(); v.formShown = false; v.mu.Unlock() }
func (v *recordingView) SetLoading(bool)           {}
func (v *recordingView) SetRoomInfo(domain.RoomID) {}
func (v *recordingView) SetCameraState(bool)       {}

func (v *recordingView) SetConnectionStatus(s domain.ConnectionState) {
	v.mu.Lock()
	v.status = s
	v.mu.Unlock()
}

func (v *recordingView) RenderParticipants(_ domain.UserID, _ bool, remote []domain.Participant, count int) {
	v.mu.Lock()
	v.listed = remote
	v.count = count
	v.mu.Unlock()
}

func (v *recordingView) AttachTile(u domain.UserID, h domain.MediaHandle) {
	v.mu.Lock()
	v.tiles[u] = h
	v.placeholder = false
	v.mu.Unlock()
}

func (v *recordingView) RemoveTile(u domain.UserID) {
	v.mu.Lock()
	delete(v.tiles, u)
	v.mu.Unlock()
}

func (v *recordingView) ClearTiles() {
	v.mu.Lock()
	v.tiles = make(map[domain.UserID]domain.MediaHandle)
	v.mu.Unlock()
}

func (v *recordingView) ShowPlaceholder(domain.RoomID) {
	v.mu.Lock()
	v.placeholder = true
	v.mu.Unlock()
}

func (v *recordingView) SetLayout(l domain.Layout) {
	v.mu.Lock()
	v.layout = l
	v.mu.Unlock()
}

func (v *recordingView) SetMicState(on bool) { v.mu.Lock(); v.mic = on; v.mu.Unlock() }

func (v *recordingView) SetScreenShareState(on bool) {
	v.mu.Lock()
	v.sharing = on
	v.mu.Unlock()
}

func (v *recordingView) Notify(n core.Notice) {
	v.mu.Lock()
	v.notices = append(v.notices, n)
	v.mu.Unlock()
}

func (v *recordingView) snapshot() recordingView {
	v.mu.Lock()
	defer v.mu.Unlock()
	tiles := make(map[domain.UserID]domain.MediaHandle, len(v.tiles))
	for k, h := range v.tiles {
		tiles[k] = h
	}
	return recordingView{
		formShown:   v.formShown,
		status:      v.status,
		tiles:       tiles,
		layout:      v.layout,
		placeholder: v.placeholder,
		count:       v.count,
		listed:      append([]domain.Participant(nil), v.listed...),
		notices:     append([]core.Notice(nil), v.notices...),
		mic:         v.mic,
		sharing:     v.sharing,
	}
}

type fixture struct {
	sync   *Synchronizer
	view   *recordingView
	engine *loopback.Engine
	facade *session.Facade
}

func newFixture(t *testing.T, peers ...string) *fixture {
	t.Helper()
	cfg := config.Default()
	eng := loopback.New(loopback.Options{Peers: peers})
	facade := session.NewFacade(session.Options{
		Factory: func() (core.Engine, error) { return eng, nil },
	})
	view := newRecordingView()
	s := NewSynchronizer(cfg, facade, view)
	t.Cleanup(facade.Destroy)
	return &fixture{sync: s, view: view, engine: eng, facade: facade}
}

func TestSynchronizer_JoinAndLeave(t *testing.T) {
	f := newFixture(t, "bob")
	ctx := context.Background()

	require.NoError(t, f.sync.HandleJoin(ctx, "r1", "alice"))
	v := f.view.snapshot()
	require.False(t, v.formShown)
	require.Equal(t, domain.StateConnected, v.status)
	require.Equal(t, 2, v.count)
	require.Contains(t, v.tiles, domain.UserID("bob"))
	require.Equal(t, domain.Layout{Columns: 1, Rows: 1}, v.layout)
	require.True(t, f.sync.State().IsJoined)

	f.sync.HandleLeave(ctx)
	v = f.view.snapshot()
	require.True(t, v.formShown)
	require.Equal(t, domain.StateDisconnected, v.status)
	require.Equal(t, 0, v.count)
	require.Empty(t, v.tiles)
	require.True(t, v.placeholder)
	require.False(t, f.facade.IsJoined())
}

func TestSynchronizer_DefaultsForEmptyFields(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.sync.HandleJoin(context.Background(), "", " "))

	info := f.facade.RoomInfo()
	require.EqualValues(t, "demo-room", info.RoomID)
	require.True(t, strings.HasPrefix(string(info.LocalUserID), "user_"))
}

func TestSynchronizer_UserLeftRemovesParticipantAndTile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.sync.HandleJoin(ctx, "r1", "alice"))

	f.engine.AddPeer("bob")
	require.Equal(t, []domain.UserID{"bob"}, f.sync.Participants())
	require.True(t, f.sync.HasTile("bob"))

	f.engine.RemovePeer("bob")
	require.Empty(t, f.sync.Participants())
	require.False(t, f.sync.HasTile("bob"))
	v := f.view.snapshot()
	require.NotContains(t, v.tiles, domain.UserID("bob"))
	require.True(t, v.placeholder)
}

func TestSynchronizer_StreamRemoveKeepsParticipant(t *testing.T) {
	f := newFixture(t, "bob", "carol")
	require.NoError(t, f.sync.HandleJoin(context.Background(), "r1", "alice"))
	require.Equal(t, domain.Layout{Columns: 2, Rows: 1}, f.view.snapshot().layout)

	f.engine.DropStream("bob")
	require.False(t, f.sync.HasTile("bob"))
	require.Equal(t, []domain.UserID{"bob", "carol"}, f.sync.Participants())
	v := f.view.snapshot()
	require.Equal(t, domain.Layout{Columns: 1, Rows: 1}, v.layout)
	require.False(t, v.placeholder)
}

func TestSynchronizer_ParticipantCountInvariant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	check := func() {
		t.Helper()
		want := len(f.sync.Participants())
		if f.sync.State().IsJoined {
			want++
		}
		require.Equal(t, want, f.sync.ParticipantCount())
		require.Equal(t, want, f.view.snapshot().count)
	}

	require.NoError(t, f.sync.HandleJoin(ctx, "r1", "alice"))
	check()
	for _, p := range []domain.UserID{"b", "c", "d", "e", "f"} {
		f.engine.AddPeer(p)
		check()
	}
	require.Equal(t, domain.Layout{Columns: 2, Rows: 2}, f.view.snapshot().layout)
	f.engine.AddPeer("alice")
	check()
	for _, p := range []domain.UserID{"c", "e"} {
		f.engine.RemovePeer(p)
		check()
	}
	require.Equal(t, 4, f.sync.ParticipantCount())
	f.sync.HandleLeave(ctx)
	check()
	require.Equal(t, 0, f.sync.ParticipantCount())
}

func TestSynchronizer_ToggleMicTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.sync.HandleJoin(ctx, "r1", "alice"))

	f.sync.HandleToggleMic(ctx)
	require.False(t, f.sync.State().IsMicOn)
	f.sync.HandleToggleMic(ctx)
	require.True(t, f.sync.State().IsMicOn)
	require.True(t, f.view.snapshot().mic)
}

func TestSynchronizer_ScreenShare(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.sync.HandleJoin(ctx, "r1", "alice"))

	f.sync.HandleToggleScreenShare(ctx)
	require.True(t, f.sync.State().IsScreenSharing)
	require.True(t, f.engine.Sharing())

	f.sync.HandleToggleScreenShare(ctx)
	require.False(t, f.sync.State().IsScreenSharing)
	require.False(t, f.view.snapshot().sharing)
}

func TestSynchronizer_TokenExpiredForcesLeave(t *testing.T) {
	f := newFixture(t, "bob")
	ctx := context.Background()
	require.NoError(t, f.sync.HandleJoin(ctx, "r1", "alice"))

	f.engine.InjectError(domain.ErrTokenExpired, "token expired")
	f.sync.Wait()

	require.False(t, f.sync.State().IsJoined)
	require.False(t, f.facade.IsJoined())
	v := f.view.snapshot()
	require.True(t, v.formShown)
	require.Equal(t, "Session Expired", v.notices[len(v.notices)-1].Title)
}

func TestSynchronizer_UnknownErrorUsesGenericMessage(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.sync.HandleJoin(context.Background(), "r1", "alice"))

	f.engine.InjectError("WEIRD", "boom")
	v := f.view.snapshot()
	require.Len(t, v.notices, 1)
	require.Equal(t, "An error occurred: boom", v.notices[0].Message)
	require.Equal(t, domain.StateFailed, v.status)
	require.True(t, f.sync.State().IsJoined)
}

func TestSynchronizer_JoinFailureResetsState(t *testing.T) {
	cfg := config.Default()
	eng := loopback.New(loopback.Options{Peers: []string{"a", "b", "c"}, MaxParticipants: 2})
	facade := session.NewFacade(session.Options{
		Factory: func() (core.Engine, error) { return eng, nil },
	})
	view := newRecordingView()
	s := NewSynchronizer(cfg, facade, view)
	t.Cleanup(facade.Destroy)

	err := s.HandleJoin(context.Background(), "r1", "alice")
	require.ErrorIs(t, err, session.ErrJoinFailed)

	v := view.snapshot()
	require.True(t, v.formShown)
	require.Equal(t, domain.StateDisconnected, v.status)
	require.Len(t, v.notices, 1)
	require.Equal(t, "Room Full", v.notices[0].Title)
	require.False(t, s.State().IsJoined)
	require.Equal(t, 0, s.ParticipantCount())
}

func TestSynchronizer_TogglesResetOnRejoin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.sync.HandleJoin(ctx, "r1", "alice"))
	f.sync.HandleToggleMic(ctx)
	f.sync.HandleToggleCamera(ctx)
	require.False(t, f.sync.State().IsMicOn)
	require.False(t, f.sync.State().IsCameraOn)

	f.sync.HandleLeave(ctx)
	f.sync.HandleToggleMic(ctx)
	require.True(t, f.sync.State().IsMicOn)

	require.NoError(t, f.sync.HandleJoin(ctx, "r1", "alice"))
	muted, err := f.engine.AudioMuted(ctx)
	require.NoError(t, err)
	st := f.sync.State()
	require.Equal(t, !muted, st.IsMicOn)
	require.True(t, st.IsCameraOn)
	require.True(t, f.view.snapshot().mic)
}

func noticeTitles(v *recordingView) []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	titles := make([]string, 0, len(v.notices))
	for _, n := range v.notices {
		titles = append(titles, n.Title)
	}
	return titles
}

func TestSynchronizer_DisconnectResetsSession(t *testing.T) {
	f := newFixture(t, "bob")
	ctx := context.Background()
	require.NoError(t, f.sync.HandleJoin(ctx, "r1", "alice"))

	f.engine.Disconnect()
	require.False(t, f.facade.IsJoined())
	require.False(t, f.sync.State().IsJoined)
	require.Equal(t, 0, f.sync.ParticipantCount())
	v := f.view.snapshot()
	require.True(t, v.formShown)
	require.Empty(t, v.tiles)
	require.Equal(t, domain.StateDisconnected, v.status)
	require.Equal(t, []string{"Network Connection Error"}, noticeTitles(f.view))

	f.sync.HandleLeave(ctx)
	require.Equal(t, []string{"Network Connection Error"}, noticeTitles(f.view))

	require.NoError(t, f.sync.HandleJoin(ctx, "r1", "alice"))
	require.True(t, f.facade.IsJoined())
}

var upgrader = websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

func TestSynchronizer_SignalingDropResetsSession(t *testing.T) {
	drop := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		var m signal.Message
		if err := ws.ReadJSON(&m); err != nil {
			return
		}
		_ = ws.WriteJSON(signal.Message{
			Type:    signal.TypeRoomState,
			Room:    m.Room,
			Members: []signal.Member{{ID: "bob", Username: "Bob"}},
			Count:   2,
		})
		<-drop
	}))
	t.Cleanup(srv.Close)
	var once sync.Once
	closeDrop := func() { once.Do(func() { close(drop) }) }
	t.Cleanup(closeDrop)

	eng := signal.New(signal.Options{URL: "ws" + strings.TrimPrefix(srv.URL, "http")})
	facade := session.NewFacade(session.Options{
		Factory: func() (core.Engine, error) { return eng, nil },
	})
	view := newRecordingView()
	s := NewSynchronizer(config.Default(), facade, view)
	t.Cleanup(facade.Destroy)

	ctx := context.Background()
	require.NoError(t, s.HandleJoin(ctx, "r1", "alice"))
	require.Eventually(t, func() bool { return s.ParticipantCount() == 2 }, 5*time.Second, 10*time.Millisecond)

	closeDrop()
	require.Eventually(t, func() bool {
		return !facade.IsJoined() && !s.State().IsJoined && view.snapshot().formShown
	}, 5*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		return len(view.snapshot().notices) > 0
	}, 5*time.Second, 10*time.Millisecond)
	v := view.snapshot()
	require.Equal(t, domain.StateDisconnected, v.status)
	require.Equal(t, 0, v.count)
	require.Equal(t, []string{"Network Connection Error"}, noticeTitles(view))

	s.HandleLeave(ctx)
	require.NotContains(t, noticeTitles(view), "Leave Error")
}
