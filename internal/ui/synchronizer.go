// Package ui binds user input to the session facade and renders facade
// callbacks through a View.
package ui

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dkeye/RTCAgent/internal/config"
	"github.com/dkeye/RTCAgent/internal/core"
	"github.com/dkeye/RTCAgent/internal/domain"
	"github.com/rs/zerolog/log"
)

var (
	ErrMissingFields = errors.New("room id and user id are required")
	ErrSessionLost   = errors.New("session lost while joining")
)

// Facade is the part of the session facade the synchronizer drives.
type Facade interface {
	Join(ctx context.Context, room, user, tok string) (domain.SessionInfo, error)
	Leave(ctx context.Context)
	ToggleMicrophone(ctx context.Context) bool
	ToggleCamera(ctx context.Context) bool
	StartScreenShare(ctx context.Context) bool
	StopScreenShare(ctx context.Context) bool
	RoomInfo() domain.SessionInfo

	OnUserJoined(func(domain.Participant))
	OnUserLeft(func(domain.Participant))
	OnStreamAdd(func(domain.RemoteStream))
	OnStreamRemove(func(domain.RemoteStream))
	OnConnectionStateChanged(func(domain.ConnectionState))
	OnError(func(domain.RTCError))
	OnSessionLost(func(domain.RTCError))
}

// Synchronizer owns UI-only state. Its mutex is never held across facade
// calls, so facade callbacks may arrive at any time.
type Synchronizer struct {
	cfg    *config.Config
	facade Facade
	view   core.View
	now    func() time.Time

	mu           sync.Mutex
	state        domain.UIState
	local        domain.UserID
	room         domain.RoomID
	participants map[domain.UserID]domain.Participant
	tiles        map[domain.UserID]domain.MediaHandle
	// losses counts sessions the engine dropped by itself.
	losses int

	// leaves tracks forced leaves started from error callbacks.
	leaves sync.WaitGroup
}

func NewSynchronizer(cfg *config.Config, facade Facade, view core.View) *Synchronizer {
	s := &Synchronizer{
		cfg:          cfg,
		facade:       facade,
		view:         view,
		now:          time.Now,
		state:        domain.DefaultUIState(),
		participants: make(map[domain.UserID]domain.Participant),
		tiles:        make(map[domain.UserID]domain.MediaHandle),
	}
	s.bind()

	view.ShowJoinForm()
	view.SetConnectionStatus(domain.StateDisconnected)
	view.SetMicState(s.state.IsMicOn)
	view.SetCameraState(s.state.IsCameraOn)
	view.SetScreenShareState(false)
	view.ShowPlaceholder(domain.RoomID(cfg.RTC.DefaultRoom))
	log.Debug().Str("module", "ui").Msg("synchronizer ready")
	return s
}

func (s *Synchronizer) bind() {
	s.facade.OnUserJoined(s.onUserJoined)
	s.facade.OnUserLeft(s.onUserLeft)
	s.facade.OnStreamAdd(s.onStreamAdd)
	s.facade.OnStreamRemove(s.onStreamRemove)
	s.facade.OnConnectionStateChanged(s.onConnectionStateChanged)
	s.facade.OnError(func(e domain.RTCError) { s.HandleError(e) })
	s.facade.OnSessionLost(s.onSessionLost)
}

// HandleJoin is the join form submit. An empty room falls back to the
// default room and an empty user gets a generated id.
func (s *Synchronizer) HandleJoin(ctx context.Context, roomInput, userInput string) error {
	room := strings.TrimSpace(roomInput)
	if room == "" {
		room = s.cfg.RTC.DefaultRoom
	}
	user := strings.TrimSpace(userInput)
	if user == "" {
		user = s.cfg.GenerateUserID(s.now())
	}
	if room == "" || user == "" {
		s.view.Notify(core.Notice{Level: core.NoticeError, Title: "Error", Message: "Please enter both room ID and your name"})
		return ErrMissingFields
	}

	s.view.SetLoading(true)
	defer s.view.SetLoading(false)
	s.view.SetConnectionStatus(domain.StateConnecting)

	s.mu.Lock()
	s.resetSessionLocked()
	s.local = domain.UserID(user)
	s.room = domain.RoomID(room)
	losses := s.losses
	s.mu.Unlock()
	s.view.ClearTiles()

	info, err := s.facade.Join(ctx, room, user, "")
	if err != nil {
		log.Error().Err(err).Str("module", "ui").Str("room", room).Msg("join failed")
		s.mu.Lock()
		s.resetSessionLocked()
		s.mu.Unlock()
		if _, known := semanticErrors[domain.ErrorTypeOf(err)]; !known {
			s.view.Notify(core.Notice{Level: core.NoticeError, Title: "Error", Message: "Failed to join room: " + err.Error()})
		}
		s.view.SetConnectionStatus(domain.StateDisconnected)
		s.view.ShowJoinForm()
		s.render()
		return err
	}

	s.mu.Lock()
	if s.losses != losses {
		// onSessionLost already reset the UI
		s.mu.Unlock()
		log.Warn().Str("module", "ui").Str("room", room).Msg("session lost during join")
		return ErrSessionLost
	}
	s.state.IsJoined = true
	s.local = info.LocalUserID
	s.room = info.RoomID
	mic, cam := s.state.IsMicOn, s.state.IsCameraOn
	s.mu.Unlock()

	s.view.HideJoinForm()
	s.view.SetMicState(mic)
	s.view.SetCameraState(cam)
	s.view.SetRoomInfo(info.RoomID)
	s.view.SetConnectionStatus(domain.StateConnected)
	s.render()
	log.Info().Str("module", "ui").Str("room", room).Str("user", user).Msg("joined room")
	return nil
}

// HandleLeave is the hang-up button.
func (s *Synchronizer) HandleLeave(ctx context.Context) {
	s.view.SetLoading(true)
	defer s.view.SetLoading(false)

	s.facade.Leave(ctx)
	s.showDisconnected()
	log.Info().Str("module", "ui").Msg("left room")
}

// onSessionLost runs when the engine ended the session by itself. The
// facade has already forgotten it, so only the UI is reset.
func (s *Synchronizer) onSessionLost(e domain.RTCError) {
	log.Warn().Str("module", "ui").Str("type", string(e.Type)).Msg("session lost")
	s.mu.Lock()
	s.losses++
	s.mu.Unlock()
	s.showDisconnected()
}

func (s *Synchronizer) showDisconnected() {
	s.mu.Lock()
	room := s.room
	s.resetSessionLocked()
	mic, cam := s.state.IsMicOn, s.state.IsCameraOn
	s.mu.Unlock()

	s.view.ShowJoinForm()
	s.view.ClearTiles()
	s.view.ShowPlaceholder(room)
	s.view.SetScreenShareState(false)
	s.view.SetMicState(mic)
	s.view.SetCameraState(cam)
	s.view.SetConnectionStatus(domain.StateDisconnected)
	s.render()
}

// resetSessionLocked drops every per-session field. Engines start each
// session with microphone and camera live, so the toggles reset too.
func (s *Synchronizer) resetSessionLocked() {
	s.state = domain.DefaultUIState()
	s.local = ""
	s.participants = make(map[domain.UserID]domain.Participant)
	s.tiles = make(map[domain.UserID]domain.MediaHandle)
}

func (s *Synchronizer) joined() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsJoined
}

func (s *Synchronizer) HandleToggleMic(ctx context.Context) {
	if !s.joined() {
		log.Debug().Str("module", "ui").Msg("mic toggle ignored, not joined")
		return
	}
	on := s.facade.ToggleMicrophone(ctx)
	s.mu.Lock()
	if !s.state.IsJoined {
		s.mu.Unlock()
		return
	}
	s.state.IsMicOn = on
	s.mu.Unlock()
	s.view.SetMicState(on)
}

func (s *Synchronizer) HandleToggleCamera(ctx context.Context) {
	if !s.joined() {
		log.Debug().Str("module", "ui").Msg("camera toggle ignored, not joined")
		return
	}
	on := s.facade.ToggleCamera(ctx)
	s.mu.Lock()
	if !s.state.IsJoined {
		s.mu.Unlock()
		return
	}
	s.state.IsCameraOn = on
	s.mu.Unlock()
	s.view.SetCameraState(on)
}

func (s *Synchronizer) HandleToggleScreenShare(ctx context.Context) {
	if !s.cfg.UI.EnableScreenShare {
		s.view.Notify(core.Notice{Level: core.NoticeWarning, Title: "Screen Share", Message: "Screen sharing is disabled"})
		return
	}
	s.mu.Lock()
	sharing := s.state.IsScreenSharing
	s.mu.Unlock()

	if sharing {
		s.facade.StopScreenShare(ctx)
		sharing = false
	} else {
		sharing = s.facade.StartScreenShare(ctx)
	}

	s.mu.Lock()
	s.state.IsScreenSharing = sharing
	s.mu.Unlock()
	s.view.SetScreenShareState(sharing)
}

func (s *Synchronizer) onUserJoined(p domain.Participant) {
	s.mu.Lock()
	if p.UserID == s.local {
		s.mu.Unlock()
		return
	}
	s.participants[p.UserID] = p
	s.mu.Unlock()
	s.render()
	log.Debug().Str("module", "ui").Str("user", string(p.UserID)).Msg("user joined")
}

func (s *Synchronizer) onUserLeft(p domain.Participant) {
	s.mu.Lock()
	delete(s.participants, p.UserID)
	s.mu.Unlock()
	s.removeTile(p.UserID)
	s.render()
	log.Debug().Str("module", "ui").Str("user", string(p.UserID)).Msg("user left")
}

func (s *Synchronizer) onStreamAdd(rs domain.RemoteStream) {
	s.mu.Lock()
	if rs.UserID == s.local {
		s.mu.Unlock()
		return
	}
	_, replaced := s.tiles[rs.UserID]
	s.tiles[rs.UserID] = rs.Handle
	n := len(s.tiles)
	s.mu.Unlock()

	if replaced {
		s.view.RemoveTile(rs.UserID)
	}
	s.view.AttachTile(rs.UserID, rs.Handle)
	s.view.SetLayout(domain.LayoutFor(n))
}

func (s *Synchronizer) onStreamRemove(rs domain.RemoteStream) {
	s.removeTile(rs.UserID)
}

func (s *Synchronizer) removeTile(user domain.UserID) {
	s.mu.Lock()
	_, ok := s.tiles[user]
	delete(s.tiles, user)
	n, room := len(s.tiles), s.room
	s.mu.Unlock()

	if ok {
		s.view.RemoveTile(user)
		s.view.SetLayout(domain.LayoutFor(n))
	}
	if n == 0 {
		s.view.ShowPlaceholder(room)
	}
}

func (s *Synchronizer) onConnectionStateChanged(state domain.ConnectionState) {
	s.view.SetConnectionStatus(state)
}

func (s *Synchronizer) render() {
	s.mu.Lock()
	remote := make([]domain.Participant, 0, len(s.participants))
	for _, p := range s.participants {
		remote = append(remote, p)
	}
	local, joined := s.local, s.state.IsJoined
	count := len(s.participants)
	if joined {
		count++
	}
	s.mu.Unlock()

	slices.SortFunc(remote, func(a, b domain.Participant) int {
		return strings.Compare(string(a.UserID), string(b.UserID))
	})
	s.view.RenderParticipants(local, joined, remote, count)
}

// ParticipantCount is remote participants plus the local user when joined.
func (s *Synchronizer) ParticipantCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.participants)
	if s.state.IsJoined {
		n++
	}
	return n
}

func (s *Synchronizer) State() domain.UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Participants returns remote participant ids in sorted order.
func (s *Synchronizer) Participants() []domain.UserID {
	s.mu.Lock()
	ids := make([]domain.UserID, 0, len(s.participants))
	for id := range s.participants {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	slices.Sort(ids)
	return ids
}

func (s *Synchronizer) HasTile(user domain.UserID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tiles[user]
	return ok
}

// Wait blocks until forced leaves started by error callbacks are done.
func (s *Synchronizer) Wait() {
	s.leaves.Wait()
}
