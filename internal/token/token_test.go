package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIssue_DefaultTTL(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)

	got, err := Issue("r1", "u1", 0, now)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(got.Token, Prefix))
	require.Equal(t, now.UnixMilli()+3_600_000, got.ExpireTime)
	require.EqualValues(t, "r1", got.RoomID)
	require.EqualValues(t, "u1", got.UserID)

	p, err := Decode(got.Token)
	require.NoError(t, err)
	require.EqualValues(t, "r1", p.RoomID)
	require.EqualValues(t, "u1", p.UserID)
	require.Equal(t, now.UnixMilli(), p.Timestamp)
	require.Equal(t, DefaultTTL, p.ExpireTime)
}

func TestValidate(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	issued, err := Issue("room", "user", 10, now)
	require.NoError(t, err)

	_, err = Validate(issued.Token, now.Add(5*time.Second))
	require.NoError(t, err)

	_, err = Validate(issued.Token, now.Add(11*time.Second))
	require.ErrorIs(t, err, ErrExpired)

	_, err = Validate("bearer_abc", now)
	require.ErrorIs(t, err, ErrInvalidFormat)

	_, err = Validate(Prefix+"!!not-base64!!", now)
	require.ErrorIs(t, err, ErrInvalid)
}
