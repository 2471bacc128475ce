package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const placeholderAppID = "your_app_id"

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	RTC    RTCConfig    `mapstructure:"rtc"`
	UI     UIConfig     `mapstructure:"ui"`
	Dev    DevConfig    `mapstructure:"dev"`
}

type ServerConfig struct {
	Mode         string        `mapstructure:"mode"`
	Port         int           `mapstructure:"port"`
	Version      string        `mapstructure:"version"`
	Environment  string        `mapstructure:"environment"`
	Secret       string        `mapstructure:"secret"`
	ProxyTimeout time.Duration `mapstructure:"proxy_timeout"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
	BaseURL      string        `mapstructure:"base_url"`

	// TokenRateLimit caps token requests per client address within TokenRateWindow; 0 disables it.
	TokenRateLimit  int           `mapstructure:"token_rate_limit"`
	TokenRateWindow time.Duration `mapstructure:"token_rate_window"`
}

type RTCConfig struct {
	// Engine selects the engine variant: "signal" or "loopback".
	Engine      string   `mapstructure:"engine"`
	Domain      string   `mapstructure:"domain"`
	SignalURL   string   `mapstructure:"signal_url"`
	AppID       string   `mapstructure:"app_id"`
	AppKey      string   `mapstructure:"app_key"`
	AppSecret   string   `mapstructure:"app_secret"`
	DefaultRoom string   `mapstructure:"default_room"`
	TokenTTL    int64    `mapstructure:"token_ttl"`
	ICEServers  []string `mapstructure:"ice_servers"`
}

type UIConfig struct {
	MaxParticipants   int           `mapstructure:"max_participants"`
	AutoJoin          bool          `mapstructure:"auto_join"`
	AutoJoinDelay     time.Duration `mapstructure:"auto_join_delay"`
	EnableScreenShare bool          `mapstructure:"enable_screen_share"`
	Theme             ThemeConfig   `mapstructure:"theme"`
}

type ThemeConfig struct {
	PrimaryColor   string `mapstructure:"primary_color"`
	SecondaryColor string `mapstructure:"secondary_color"`
}

type DevConfig struct {
	DebugLog           bool     `mapstructure:"debug_log"`
	MockMode           bool     `mapstructure:"mock_mode"`
	AutoGenerateUserID bool     `mapstructure:"auto_generate_user_id"`
	MockPeers          []string `mapstructure:"mock_peers"`
}

const (
	EngineSignal   = "signal"
	EngineLoopback = "loopback"
)

var ErrUnknownEngine = errors.New("unknown engine")

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.version", "1.0.0")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.secret", "rtc-agent-dev-secret")
	v.SetDefault("server.proxy_timeout", "30s")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.base_url", "http://localhost:3000")
	v.SetDefault("server.token_rate_limit", 30)
	v.SetDefault("server.token_rate_window", "1m")

	v.SetDefault("rtc.engine", EngineSignal)
	v.SetDefault("rtc.domain", "meet.jit.si")
	v.SetDefault("rtc.signal_url", "ws://localhost:8080/api/ws/signal")
	v.SetDefault("rtc.app_id", placeholderAppID)
	v.SetDefault("rtc.app_key", "your_app_key")
	v.SetDefault("rtc.app_secret", "your_app_secret")
	v.SetDefault("rtc.default_room", "demo-room")
	v.SetDefault("rtc.token_ttl", 3600)
	v.SetDefault("rtc.ice_servers", []string{"stun:stun.l.google.com:19302"})

	v.SetDefault("ui.max_participants", 4)
	v.SetDefault("ui.auto_join", false)
	v.SetDefault("ui.auto_join_delay", "1s")
	v.SetDefault("ui.enable_screen_share", true)
	v.SetDefault("ui.theme.primary_color", "#667eea")
	v.SetDefault("ui.theme.secondary_color", "#764ba2")

	v.SetDefault("dev.debug_log", true)
	v.SetDefault("dev.mock_mode", false)
	v.SetDefault("dev.auto_generate_user_id", true)
	v.SetDefault("dev.mock_peers", []string{})
}

// Load reads config/config.<CONFIG_ENV>.yaml over built-in defaults.
// Environment variables such as RTC_APP_ID or SERVER_PORT win over both.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// PORT is what hosting platforms set.
	_ = v.BindEnv("server.port", "SERVER_PORT", "PORT")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Dev.MockMode {
		cfg.RTC.Engine = EngineLoopback
	}
	log.Info().
		Str("module", "config").
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("engine", cfg.RTC.Engine).
		Msg("config ready")
	return &cfg, nil
}

// Validate returns every problem that keeps the client from starting.
func (c *Config) Validate() []error {
	var errs []error
	switch c.RTC.Engine {
	case EngineSignal:
		if c.RTC.AppID == "" || c.RTC.AppID == placeholderAppID {
			errs = append(errs, errors.New("RTC AppId is not configured"))
		}
		if c.RTC.SignalURL == "" {
			errs = append(errs, errors.New("rtc.signal_url is required for the signal engine"))
		}
	case EngineLoopback:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownEngine, c.RTC.Engine))
	}
	return errs
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Default returns the built-in defaults without reading files or env.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return &cfg
}
