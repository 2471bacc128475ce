package rtc

import (
	"strings"
	"testing"

	"github.com/dkeye/RTCAgent/internal/domain"
	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/require"
)

func newTestConnection(t *testing.T) *Connection {
	t.Helper()
	c, err := NewConnection(WebRTCConfig(nil), "alice")
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestConnection_MuteRoundTrip(t *testing.T) {
	c := newTestConnection(t)

	_, err := c.Muted(TrackAudio)
	require.ErrorIs(t, err, ErrNoLocalMedia)

	require.NoError(t, c.AddLocalMedia())
	muted, err := c.Muted(TrackAudio)
	require.NoError(t, err)
	require.False(t, muted)

	require.NoError(t, c.SetMuted(TrackAudio, true))
	muted, _ = c.Muted(TrackAudio)
	require.True(t, muted)

	require.NoError(t, c.SetMuted(TrackAudio, false))
	muted, _ = c.Muted(TrackAudio)
	require.False(t, muted)

	videoMuted, err := c.Muted(TrackVideo)
	require.NoError(t, err)
	require.False(t, videoMuted)
}

func TestConnection_OfferCarriesLocalMedia(t *testing.T) {
	c := newTestConnection(t)
	require.NoError(t, c.AddLocalMedia())
	require.NoError(t, c.Start(t.Context()))

	offer, err := c.CreateOffer()
	require.NoError(t, err)
	require.Equal(t, webrtc.SDPTypeOffer, offer.Type)
	require.True(t, strings.Contains(offer.SDP, "m=audio"))
	require.True(t, strings.Contains(offer.SDP, "m=video"))
}

func TestConnection_ScreenTrack(t *testing.T) {
	c := newTestConnection(t)
	require.NoError(t, c.AddLocalMedia())

	require.NoError(t, c.StartScreen())
	require.NoError(t, c.StartScreen())
	_, err := c.Muted(TrackScreen)
	require.NoError(t, err)

	require.NoError(t, c.StopScreen())
	require.NoError(t, c.StopScreen())
	_, err = c.Muted(TrackScreen)
	require.ErrorIs(t, err, ErrNoLocalMedia)
}

func TestConnectionStateOf(t *testing.T) {
	require.Equal(t, domain.StateConnected, ConnectionStateOf(webrtc.PeerConnectionStateConnected))
	require.Equal(t, domain.StateReconnecting, ConnectionStateOf(webrtc.PeerConnectionStateDisconnected))
	require.Equal(t, domain.StateFailed, ConnectionStateOf(webrtc.PeerConnectionStateFailed))
	require.Equal(t, domain.StateDisconnected, ConnectionStateOf(webrtc.PeerConnectionStateClosed))
}

func TestWebRTCConfig(t *testing.T) {
	require.Empty(t, WebRTCConfig(nil).ICEServers)
	cfg := WebRTCConfig([]string{"stun:stun.l.google.com:19302"})
	require.Len(t, cfg.ICEServers, 1)
	require.Equal(t, []string{"stun:stun.l.google.com:19302"}, cfg.ICEServers[0].URLs)
}
