package loopback

import (
	"context"
	"testing"
	"time"

	"github.com/dkeye/RTCAgent/internal/core"
	"github.com/dkeye/RTCAgent/internal/domain"
	"github.com/dkeye/RTCAgent/internal/token"
	"github.com/stretchr/testify/require"
)

func collect(e *Engine) *[]core.EngineEvent {
	var evs []core.EngineEvent
	e.Subscribe(func(ev core.EngineEvent) { evs = append(evs, ev) })
	return &evs
}

func TestEngine_JoinEmitsPeers(t *testing.T) {
	e := New(Options{Peers: []string{"bob"}})
	evs := collect(e)
	ctx := context.Background()
	require.NoError(t, e.Init(ctx))

	require.NoError(t, e.Join(ctx, "room", "alice", "whatever"))

	kinds := make([]core.EventKind, 0, len(*evs))
	for _, ev := range *evs {
		kinds = append(kinds, ev.Kind)
	}
	require.Equal(t, []core.EventKind{
		core.EventConnectionStateChanged,
		core.EventConnectionStateChanged,
		core.EventUserJoined,
		core.EventStreamAdd,
	}, kinds)
	require.Equal(t, domain.StateConnected, (*evs)[1].State)
	require.EqualValues(t, "bob", (*evs)[3].Stream.UserID)
	require.Equal(t, "video", (*evs)[3].Stream.Handle.Kind())
}

func TestEngine_ExpiredToken(t *testing.T) {
	issuedAt := time.UnixMilli(1_700_000_000_000)
	issued, err := token.Issue("room", "alice", 1, issuedAt)
	require.NoError(t, err)

	e := New(Options{Now: func() time.Time { return issuedAt.Add(time.Minute) }})
	err = e.Join(context.Background(), "room", "alice", issued.Token)
	require.Equal(t, domain.ErrTokenExpired, domain.ErrorTypeOf(err))
}

func TestEngine_TokenExpiresDuringSession(t *testing.T) {
	now := time.Now()
	issued, err := token.Issue("room", "alice", 1, now.Add(-900*time.Millisecond))
	require.NoError(t, err)

	e := New(Options{})
	got := make(chan domain.ErrorType, 1)
	e.Subscribe(func(ev core.EngineEvent) {
		if ev.Kind == core.EventError {
			got <- ev.Err.Type
		}
	})
	require.NoError(t, e.Join(context.Background(), "room", "alice", issued.Token))

	select {
	case typ := <-got:
		require.Equal(t, domain.ErrTokenExpired, typ)
	case <-time.After(2 * time.Second):
		t.Fatal("expiry was not reported")
	}
}

func TestEngine_RoomFull(t *testing.T) {
	e := New(Options{Peers: []string{"a", "b"}, MaxParticipants: 2})
	err := e.Join(context.Background(), "room", "me", "")
	require.Equal(t, domain.ErrRoomFull, domain.ErrorTypeOf(err))
}

func TestEngine_MuteRequiresSession(t *testing.T) {
	e := New(Options{})
	ctx := context.Background()
	_, err := e.AudioMuted(ctx)
	require.ErrorIs(t, err, ErrNotJoined)

	require.NoError(t, e.Join(ctx, "room", "me", ""))
	require.NoError(t, e.SetAudioMuted(ctx, true))
	muted, err := e.AudioMuted(ctx)
	require.NoError(t, err)
	require.True(t, muted)

	require.NoError(t, e.Leave(ctx))
	require.ErrorIs(t, e.Leave(ctx), ErrNotJoined)
	require.NoError(t, e.Close())
	require.NoError(t, e.Close())
	require.ErrorIs(t, e.Join(ctx, "room", "me", ""), ErrClosed)
}
