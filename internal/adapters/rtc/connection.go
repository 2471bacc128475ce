// Package rtc wraps a pion PeerConnection as the media half of the
// signaling engine.
package rtc

import (
	"context"
	"errors"
	"sync"

	"github.com/dkeye/RTCAgent/internal/domain"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

var ErrNoLocalMedia = errors.New("local media not attached")

type TrackKind int

const (
	TrackAudio TrackKind = iota
	TrackVideo
	TrackScreen
)

func (k TrackKind) String() string {
	switch k {
	case TrackAudio:
		return "audio"
	case TrackVideo:
		return "video"
	case TrackScreen:
		return "screen"
	}
	return "unknown"
}

type localTrack struct {
	track  *webrtc.TrackLocalStaticSample
	sender *webrtc.RTPSender
	muted  bool
}

type Connection struct {
	pc     *webrtc.PeerConnection
	user   domain.UserID
	cancel context.CancelFunc

	onICE    func(webrtc.ICECandidateInit)
	onTrack  func(ctx context.Context, track *webrtc.TrackRemote, receiver *webrtc.RTPReceiver)
	onState  func(domain.ConnectionState)
	onClosed func()

	mu     sync.Mutex
	local  map[TrackKind]*localTrack
	closed bool
}

// WebRTCConfig builds the ICE configuration from configured server URLs.
func WebRTCConfig(iceServers []string) webrtc.Configuration {
	cfg := webrtc.Configuration{}
	if len(iceServers) > 0 {
		cfg.ICEServers = []webrtc.ICEServer{{URLs: iceServers}}
	}
	return cfg
}

func NewConnection(cfg webrtc.Configuration, user domain.UserID) (*Connection, error) {
	pc, err := webrtc.NewPeerConnection(cfg)
	if err != nil {
		return nil, err
	}
	return &Connection{pc: pc, user: user, local: make(map[TrackKind]*localTrack)}, nil
}

var peerStates = map[webrtc.PeerConnectionState]domain.ConnectionState{
	webrtc.PeerConnectionStateNew:          domain.StateConnecting,
	webrtc.PeerConnectionStateConnecting:   domain.StateConnecting,
	webrtc.PeerConnectionStateConnected:    domain.StateConnected,
	webrtc.PeerConnectionStateDisconnected: domain.StateReconnecting,
	webrtc.PeerConnectionStateFailed:       domain.StateFailed,
	webrtc.PeerConnectionStateClosed:       domain.StateDisconnected,
}

// ConnectionStateOf maps a peer connection state to the banner state.
func ConnectionStateOf(s webrtc.PeerConnectionState) domain.ConnectionState {
	if st, ok := peerStates[s]; ok {
		return st
	}
	return domain.StateDisconnected
}

func (c *Connection) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.pc.OnICEConnectionStateChange(func(s webrtc.ICEConnectionState) {
		log.Debug().Str("module", "webrtc").Str("user", string(c.user)).Str("ice_state", s.String()).Msg("ICE state")
		if s == webrtc.ICEConnectionStateFailed || s == webrtc.ICEConnectionStateClosed {
			cancel()
		}
	})

	c.pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		log.Info().Str("module", "webrtc").Str("user", string(c.user)).Str("peer_connection_state", s.String()).Msg("Peer state")
		if c.onState != nil {
			c.onState(ConnectionStateOf(s))
		}
		if s == webrtc.PeerConnectionStateFailed && c.onClosed != nil {
			c.onClosed()
		}
	})

	c.pc.OnICECandidate(func(cand *webrtc.ICECandidate) {
		if cand != nil && c.onICE != nil {
			c.onICE(cand.ToJSON())
		}
	})

	c.pc.OnTrack(func(track *webrtc.TrackRemote, receiver *webrtc.RTPReceiver) {
		log.Info().
			Str("module", "webrtc").
			Str("kind", track.Kind().String()).
			Str("track_id", track.ID()).
			Str("stream_id", track.StreamID()).
			Msg("OnTrack received")
		if c.onTrack != nil {
			c.onTrack(ctx, track, receiver)
		}
	})

	return nil
}

// AddLocalMedia attaches the microphone and camera tracks. Both share the
// local user id as stream id so remote peers can attribute them.
func (c *Connection) AddLocalMedia() error {
	if err := c.addTrack(TrackAudio, webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus}); err != nil {
		return err
	}
	return c.addTrack(TrackVideo, webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8})
}

func (c *Connection) addTrack(kind TrackKind, codec webrtc.RTPCodecCapability) error {
	track, err := webrtc.NewTrackLocalStaticSample(codec, kind.String(), string(c.user))
	if err != nil {
		return err
	}
	sender, err := c.pc.AddTrack(track)
	if err != nil {
		return err
	}
	go drainRTCP(sender)

	c.mu.Lock()
	c.local[kind] = &localTrack{track: track, sender: sender}
	c.mu.Unlock()
	return nil
}

// drainRTCP keeps interceptors running until the sender stops.
func drainRTCP(sender *webrtc.RTPSender) {
	buf := make([]byte, 1500)
	for {
		if _, _, err := sender.Read(buf); err != nil {
			return
		}
	}
}

func (c *Connection) Muted(kind TrackKind) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	lt, ok := c.local[kind]
	if !ok {
		return false, ErrNoLocalMedia
	}
	return lt.muted, nil
}

// SetMuted detaches or restores the local track on its sender; the
// transceiver stays so no renegotiation is needed.
func (c *Connection) SetMuted(kind TrackKind, muted bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	lt, ok := c.local[kind]
	if !ok {
		return ErrNoLocalMedia
	}
	if lt.muted == muted {
		return nil
	}
	var next webrtc.TrackLocal
	if !muted {
		next = lt.track
	}
	if err := lt.sender.ReplaceTrack(next); err != nil {
		return err
	}
	lt.muted = muted
	return nil
}

// StartScreen adds the screen track. The caller renegotiates.
func (c *Connection) StartScreen() error {
	c.mu.Lock()
	_, ok := c.local[TrackScreen]
	c.mu.Unlock()
	if ok {
		return nil
	}
	return c.addTrack(TrackScreen, webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8})
}

// StopScreen removes the screen track. The caller renegotiates.
func (c *Connection) StopScreen() error {
	c.mu.Lock()
	lt, ok := c.local[TrackScreen]
	delete(c.local, TrackScreen)
	c.mu.Unlock()
	if !ok {
		return nil
	}
	return c.pc.RemoveTrack(lt.sender)
}

// CreateOffer sets and returns a local offer. Candidates trickle through
// OnICECandidate.
func (c *Connection) CreateOffer() (*webrtc.SessionDescription, error) {
	offer, err := c.pc.CreateOffer(nil)
	if err != nil {
		return nil, err
	}
	if err := c.pc.SetLocalDescription(offer); err != nil {
		return nil, err
	}
	return c.pc.LocalDescription(), nil
}

func (c *Connection) ApplyAnswer(sdp string) error {
	return c.pc.SetRemoteDescription(webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: sdp})
}

// ApplyOfferAndCreateAnswer handles server-initiated renegotiation.
func (c *Connection) ApplyOfferAndCreateAnswer(sdp string) (*webrtc.SessionDescription, error) {
	if err := c.pc.SetRemoteDescription(webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: sdp}); err != nil {
		return nil, err
	}
	answer, err := c.pc.CreateAnswer(nil)
	if err != nil {
		return nil, err
	}
	if err := c.pc.SetLocalDescription(answer); err != nil {
		return nil, err
	}
	return c.pc.LocalDescription(), nil
}

func (c *Connection) AddICECandidate(ci webrtc.ICECandidateInit) error {
	return c.pc.AddICECandidate(ci)
}

func (c *Connection) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}
	if err := c.pc.Close(); err != nil {
		log.Error().Err(err).Str("module", "webrtc").Str("user", string(c.user)).Msg("close error")
	} else {
		log.Info().Str("module", "webrtc").Str("user", string(c.user)).Msg("closed")
	}
}

func (c *Connection) OnICECandidate(fn func(webrtc.ICECandidateInit)) { c.onICE = fn }

// OnTrack sets application-level callback for remote tracks.
func (c *Connection) OnTrack(fn func(ctx context.Context, track *webrtc.TrackRemote, receiver *webrtc.RTPReceiver)) {
	c.onTrack = fn
}

func (c *Connection) OnStateChange(fn func(domain.ConnectionState)) { c.onState = fn }

// OnClosed is called when the peer connection fails.
func (c *Connection) OnClosed(fn func()) { c.onClosed = fn }

// RemoteHandle exposes a remote track as a media handle.
type RemoteHandle struct {
	Track *webrtc.TrackRemote
}

func (h RemoteHandle) ID() string   { return h.Track.ID() }
func (h RemoteHandle) Kind() string { return h.Track.Kind().String() }
