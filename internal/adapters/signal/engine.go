// Package signal is the networked engine: websocket signaling plus a pion
// peer connection for media.
package signal

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/dkeye/RTCAgent/internal/adapters/rtc"
	"github.com/dkeye/RTCAgent/internal/core"
	"github.com/dkeye/RTCAgent/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

var (
	ErrClosed     = errors.New("engine closed")
	ErrNotJoined  = errors.New("not joined")
	ErrNoEndpoint = errors.New("signal url is not configured")
)

type Options struct {
	URL        string
	AppID      string
	ICEServers []string
	// Dialer defaults to websocket.DefaultDialer.
	Dialer *websocket.Dialer
}

// Factory adapts New to the facade's engine constructor.
func Factory(opts Options) core.EngineFactory {
	return func() (core.Engine, error) { return New(opts), nil }
}

type Engine struct {
	opts Options

	mu      sync.Mutex
	sink    func(core.EngineEvent)
	closed  bool
	cli     *client
	media   *rtc.Connection
	cancel  context.CancelFunc
	room    domain.RoomID
	user    domain.UserID
	joined  bool
	leaving bool
	members map[domain.UserID]domain.Participant
	sharing bool

	// joinResult and leftCh are armed while Join/Leave wait on the server.
	joinResult chan error
	leftCh     chan struct{}
}

func New(opts Options) *Engine {
	if opts.Dialer == nil {
		opts.Dialer = websocket.DefaultDialer
	}
	return &Engine{opts: opts, members: make(map[domain.UserID]domain.Participant)}
}

func (e *Engine) Init(context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.opts.URL == "" {
		return ErrNoEndpoint
	}
	if _, err := url.Parse(e.opts.URL); err != nil {
		return fmt.Errorf("invalid signal URL: %w", err)
	}
	log.Debug().Str("module", "signal").Str("url", e.opts.URL).Msg("engine ready")
	return nil
}

func (e *Engine) Subscribe(sink func(core.EngineEvent)) {
	e.mu.Lock()
	e.sink = sink
	e.mu.Unlock()
}

func (e *Engine) emit(ev core.EngineEvent) {
	e.mu.Lock()
	sink := e.sink
	e.mu.Unlock()
	if sink != nil {
		sink(ev)
	}
}

func (e *Engine) emitState(s domain.ConnectionState) {
	e.emit(core.EngineEvent{Kind: core.EventConnectionStateChanged, State: s})
}

func (e *Engine) emitError(t domain.ErrorType, msg string) {
	e.emit(core.EngineEvent{Kind: core.EventError, Err: domain.NewRTCError(t, msg)})
}

// Join connects, waits for the room state and then starts negotiation.
// It returns once the server has admitted the user.
func (e *Engine) Join(ctx context.Context, room domain.RoomID, user domain.UserID, tok string) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.mu.Unlock()

	logger := log.With().Str("module", "signal").Str("room", string(room)).Str("user", string(user)).Logger()
	e.emitState(domain.StateConnecting)

	media, err := rtc.NewConnection(rtc.WebRTCConfig(e.opts.ICEServers), user)
	if err != nil {
		return domain.NewRTCError(domain.ErrEngine, err.Error())
	}
	if err := media.AddLocalMedia(); err != nil {
		media.Close()
		return domain.NewRTCError(domain.ErrStreamFailed, err.Error())
	}

	cli, err := dial(ctx, e.opts.Dialer, e.opts.URL, url.Values{"app_id": {e.opts.AppID}})
	if err != nil {
		media.Close()
		logger.Error().Err(err).Msg("dial failed")
		return domain.NewRTCError(domain.ErrNetwork, err.Error())
	}

	runCtx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)

	e.mu.Lock()
	e.cli, e.media, e.cancel = cli, media, cancel
	e.room, e.user = room, user
	e.members = make(map[domain.UserID]domain.Participant)
	e.joinResult = result
	e.leaving = false
	e.mu.Unlock()

	e.bindMedia(runCtx, cli, media)
	if err := media.Start(runCtx); err != nil {
		e.teardown()
		return domain.NewRTCError(domain.ErrEngine, err.Error())
	}
	cli.run(runCtx, e.handleMessage, func(err error) { e.handleClosed(cli, err) })

	if err := cli.sendJSON(Message{Type: TypeJoin, Room: string(room), Name: string(user), Token: tok, AppID: e.opts.AppID}); err != nil {
		e.teardown()
		return domain.NewRTCError(domain.ErrNetwork, err.Error())
	}

	select {
	case err = <-result:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		logger.Error().Err(err).Msg("join rejected")
		e.teardown()
		return err
	}

	offer, err := media.CreateOffer()
	if err != nil {
		logger.Error().Err(err).Msg("create offer")
		e.emitError(domain.ErrStreamFailed, err.Error())
		return nil
	}
	if err := cli.sendJSON(Message{Type: TypeOffer, SDP: offer.SDP}); err != nil {
		logger.Warn().Err(err).Msg("send offer")
	}
	logger.Info().Msg("joined")
	return nil
}

func (e *Engine) bindMedia(ctx context.Context, cli *client, media *rtc.Connection) {
	media.OnICECandidate(func(ci webrtc.ICECandidateInit) {
		msg := Message{Type: TypeCandidate, Candidate: ci.Candidate, SDPMLineIndex: ci.SDPMLineIndex}
		if ci.SDPMid != nil {
			msg.SDPMid = *ci.SDPMid
		}
		if err := cli.sendJSON(msg); err != nil {
			log.Warn().Err(err).Str("module", "signal").Msg("send candidate")
		}
	})
	media.OnStateChange(func(s domain.ConnectionState) {
		if s == domain.StateDisconnected {
			// reported by Leave and handleClosed
			return
		}
		e.emitState(s)
	})
	media.OnTrack(func(_ context.Context, track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		owner := domain.UserID(track.StreamID())
		rs := domain.RemoteStream{UserID: owner, Handle: rtc.RemoteHandle{Track: track}}
		e.emit(core.EngineEvent{Kind: core.EventStreamAdd, Stream: rs})
		for {
			if _, _, err := track.ReadRTP(); err != nil {
				break
			}
		}
		if ctx.Err() == nil {
			e.emit(core.EngineEvent{Kind: core.EventStreamRemove, Stream: rs})
		}
	})
}

func (e *Engine) handleMessage(msg Message) {
	switch msg.Type {
	case TypeRoomState:
		e.handleRoomState(msg)
	case TypeMemberJoined:
		if msg.User != nil {
			e.memberJoined(*msg.User)
		}
	case TypeMemberLeft:
		if msg.User != nil {
			e.memberLeft(*msg.User)
		}
	case TypeAnswer:
		e.handleAnswer(msg)
	case TypeOffer:
		e.handleOffer(msg)
	case TypeCandidate:
		e.handleCandidate(msg)
	case TypeLeft:
		e.mu.Lock()
		ch := e.leftCh
		e.leftCh = nil
		e.mu.Unlock()
		if ch != nil {
			close(ch)
		}
	case TypeError:
		e.handleServerError(msg)
	case TypePong:
	default:
		log.Warn().Str("module", "signal").Str("type", msg.Type).Msg("unknown signal")
	}
}

func (e *Engine) handleRoomState(msg Message) {
	e.mu.Lock()
	result := e.joinResult
	e.joinResult = nil
	e.joined = true
	e.mu.Unlock()

	if result != nil {
		result <- nil
	}
	e.emitState(domain.StateConnected)
	for _, m := range msg.Members {
		e.memberJoined(m)
	}
}

func (e *Engine) memberJoined(m Member) {
	p := participantOf(m)
	e.mu.Lock()
	if p.UserID == e.user {
		e.mu.Unlock()
		return
	}
	_, known := e.members[p.UserID]
	e.members[p.UserID] = p
	e.mu.Unlock()
	if !known {
		e.emit(core.EngineEvent{Kind: core.EventUserJoined, Participant: p})
	}
}

func (e *Engine) memberLeft(m Member) {
	p := participantOf(m)
	e.mu.Lock()
	_, known := e.members[p.UserID]
	delete(e.members, p.UserID)
	e.mu.Unlock()
	if known {
		e.emit(core.EngineEvent{Kind: core.EventUserLeft, Participant: p})
	}
}

func participantOf(m Member) domain.Participant {
	name := m.Username
	if name == "" {
		name = m.ID
	}
	return domain.Participant{UserID: domain.UserID(m.ID), DisplayName: name}
}

func (e *Engine) handleAnswer(msg Message) {
	media := e.currentMedia()
	if media == nil {
		return
	}
	if err := media.ApplyAnswer(msg.SDP); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("apply answer")
		e.emitError(domain.ErrEngine, err.Error())
	}
}

func (e *Engine) handleOffer(msg Message) {
	e.mu.Lock()
	media, cli := e.media, e.cli
	e.mu.Unlock()
	if media == nil || cli == nil {
		return
	}
	answer, err := media.ApplyOfferAndCreateAnswer(msg.SDP)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("apply offer")
		e.emitError(domain.ErrEngine, err.Error())
		return
	}
	_ = cli.sendJSON(Message{Type: TypeAnswer, SDP: answer.SDP})
}

func (e *Engine) handleCandidate(msg Message) {
	media := e.currentMedia()
	if media == nil {
		log.Warn().Str("module", "signal").Msg("candidate: no media connection")
		return
	}
	cand := webrtc.ICECandidateInit{Candidate: msg.Candidate, SDPMLineIndex: msg.SDPMLineIndex}
	if msg.SDPMid != "" {
		cand.SDPMid = &msg.SDPMid
	}
	if err := media.AddICECandidate(cand); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("add ice candidate")
	}
}

var serverErrorTypes = map[string]domain.ErrorType{
	CodeRoomFull:         domain.ErrRoomFull,
	CodeTokenExpired:     domain.ErrTokenExpired,
	CodePermissionDenied: domain.ErrPermissionDenied,
}

func (e *Engine) handleServerError(msg Message) {
	text := msg.Message
	if text == "" {
		text = msg.Error
	}

	e.mu.Lock()
	result := e.joinResult
	e.joinResult = nil
	e.mu.Unlock()

	if result != nil {
		t, ok := serverErrorTypes[msg.Error]
		if !ok {
			t = domain.ErrJoinFailed
		}
		result <- domain.NewRTCError(t, text)
		return
	}

	t, ok := serverErrorTypes[msg.Error]
	if !ok {
		t = domain.ErrEngine
	}
	log.Warn().Str("module", "signal").Str("code", msg.Error).Msg("server error")
	e.emitError(t, text)
}

// handleClosed runs when the read side of cli ends.
func (e *Engine) handleClosed(cli *client, err error) {
	e.mu.Lock()
	if e.cli != cli {
		e.mu.Unlock()
		return
	}
	result := e.joinResult
	e.joinResult = nil
	left := e.leftCh
	e.leftCh = nil
	wasJoined, leaving := e.joined, e.leaving
	e.mu.Unlock()

	if result != nil {
		result <- domain.NewRTCError(domain.ErrNetwork, "signaling connection closed")
	}
	if left != nil {
		close(left)
	}
	if !wasJoined || leaving {
		return
	}

	log.Warn().Err(err).Str("module", "signal").Msg("signaling connection lost")
	e.teardown()
	e.emitState(domain.StateDisconnected)
	e.emit(core.EngineEvent{
		Kind: core.EventSessionLost,
		Err:  domain.NewRTCError(domain.ErrNetwork, "signaling connection lost"),
	})
}

func (e *Engine) currentMedia() *rtc.Connection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.media
}

// Leave asks the server to remove the user and waits for its reply or
// for the connection to drop.
func (e *Engine) Leave(ctx context.Context) error {
	e.mu.Lock()
	if !e.joined || e.cli == nil {
		e.mu.Unlock()
		return ErrNotJoined
	}
	e.leaving = true
	left := make(chan struct{})
	e.leftCh = left
	cli := e.cli
	e.mu.Unlock()

	var err error
	if sendErr := cli.sendJSON(Message{Type: TypeLeave}); sendErr == nil {
		select {
		case <-left:
		case <-ctx.Done():
			err = ctx.Err()
		}
	}

	e.teardown()
	e.emitState(domain.StateDisconnected)
	log.Info().Str("module", "signal").Msg("left")
	return err
}

func (e *Engine) teardown() {
	e.mu.Lock()
	cli, media, cancel := e.cli, e.media, e.cancel
	e.cli, e.media, e.cancel = nil, nil, nil
	e.joined, e.sharing = false, false
	e.joinResult, e.leftCh = nil, nil
	e.members = make(map[domain.UserID]domain.Participant)
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if cli != nil {
		cli.Close()
	}
	if media != nil {
		media.Close()
	}
}

func (e *Engine) joinedMedia() (*rtc.Connection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.joined || e.media == nil {
		return nil, ErrNotJoined
	}
	return e.media, nil
}

func (e *Engine) AudioMuted(context.Context) (bool, error) {
	media, err := e.joinedMedia()
	if err != nil {
		return false, err
	}
	return media.Muted(rtc.TrackAudio)
}

func (e *Engine) SetAudioMuted(_ context.Context, muted bool) error {
	media, err := e.joinedMedia()
	if err != nil {
		return err
	}
	return media.SetMuted(rtc.TrackAudio, muted)
}

func (e *Engine) VideoMuted(context.Context) (bool, error) {
	media, err := e.joinedMedia()
	if err != nil {
		return false, err
	}
	return media.Muted(rtc.TrackVideo)
}

func (e *Engine) SetVideoMuted(_ context.Context, muted bool) error {
	media, err := e.joinedMedia()
	if err != nil {
		return err
	}
	return media.SetMuted(rtc.TrackVideo, muted)
}

func (e *Engine) StartScreenShare(context.Context) error {
	media, err := e.joinedMedia()
	if err != nil {
		return err
	}
	if err := media.StartScreen(); err != nil {
		return err
	}
	if err := e.renegotiate(media); err != nil {
		_ = media.StopScreen()
		return err
	}
	e.mu.Lock()
	e.sharing = true
	e.mu.Unlock()
	return nil
}

func (e *Engine) StopScreenShare(context.Context) error {
	media, err := e.joinedMedia()
	if err != nil {
		return err
	}
	if err := media.StopScreen(); err != nil {
		return err
	}
	e.mu.Lock()
	e.sharing = false
	e.mu.Unlock()
	return e.renegotiate(media)
}

func (e *Engine) renegotiate(media *rtc.Connection) error {
	e.mu.Lock()
	cli := e.cli
	e.mu.Unlock()
	if cli == nil {
		return ErrNotJoined
	}
	offer, err := media.CreateOffer()
	if err != nil {
		return err
	}
	return cli.sendJSON(Message{Type: TypeOffer, SDP: offer.SDP})
}

func (e *Engine) Sharing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sharing
}

func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.leaving = true
	e.sink = nil
	e.mu.Unlock()

	e.teardown()
	log.Debug().Str("module", "signal").Msg("engine closed")
	return nil
}
