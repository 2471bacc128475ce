package domain

import (
	"strings"
	"time"
)

type RoomID string

func NewRoomID(raw string) (RoomID, error) {
	s := strings.TrimSpace(raw)
	if len(s) == 0 {
		return "", ErrRoomIDEmpty
	}
	if len(s) > MaxRoomIDLen {
		return "", ErrRoomIDTooLong
	}
	return RoomID(s), nil
}

// RoomDescriptor is the static room view served by the bootstrap service.
// Nothing backs it: membership authority lives in the external engine.
type RoomDescriptor struct {
	RoomID          RoomID        `json:"roomId"`
	Participants    []Participant `json:"participants"`
	CreatedAt       time.Time     `json:"createdAt"`
	IsActive        bool          `json:"isActive"`
	MaxParticipants int           `json:"maxParticipants"`
}

func NewRoomDescriptor(id RoomID, maxParticipants int, now time.Time) RoomDescriptor {
	return RoomDescriptor{
		RoomID:          id,
		Participants:    []Participant{},
		CreatedAt:       now.UTC(),
		IsActive:        true,
		MaxParticipants: maxParticipants,
	}
}
