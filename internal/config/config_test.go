package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.Equal(t, 3000, cfg.Server.Port)
	require.Equal(t, "1.0.0", cfg.Server.Version)
	require.Equal(t, 30*time.Second, cfg.Server.ProxyTimeout)
	require.Equal(t, "demo-room", cfg.RTC.DefaultRoom)
	require.Equal(t, int64(3600), cfg.RTC.TokenTTL)
	require.Equal(t, time.Second, cfg.UI.AutoJoinDelay)
	require.Equal(t, 4, cfg.UI.MaxParticipants)
	require.True(t, cfg.Dev.AutoGenerateUserID)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_ENV", "does-not-exist")
	t.Setenv("RTC_APP_ID", "app-123")
	t.Setenv("PORT", "4100")
	t.Setenv("DEV_MOCK_MODE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "app-123", cfg.RTC.AppID)
	require.Equal(t, 4100, cfg.Server.Port)
	require.Equal(t, EngineLoopback, cfg.RTC.Engine)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	errs := cfg.Validate()
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error(), "AppId")

	cfg.RTC.AppID = "real"
	require.Empty(t, cfg.Validate())

	cfg.RTC.Engine = EngineLoopback
	cfg.RTC.AppID = ""
	require.Empty(t, cfg.Validate())

	cfg.RTC.Engine = "widget"
	errs = cfg.Validate()
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], ErrUnknownEngine)
}

func TestGenerateUserID(t *testing.T) {
	cfg := Default()
	now := time.UnixMilli(1700000000000)

	id := cfg.GenerateUserID(now)
	require.True(t, strings.HasPrefix(id, "user_"))
	require.Len(t, id, len("user_")+9)

	cfg.Dev.AutoGenerateUserID = false
	require.Equal(t, "user_1700000000000", cfg.GenerateUserID(now))
}
