package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string          `mapstructure:"mode"`
	Port       int             `mapstructure:"port"`
	StaticPath string          `mapstructure:"static_path"`
	LogLevel   string          `mapstructure:"log_level"`
	Secret     string          `mapstructure:"secret"`
	WS         WSConfig        `mapstructure:"ws"`
	Video      VideoConfig     `mapstructure:"video"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
}

type WSConfig struct {
	ReadLimit          int64         `mapstructure:"read_limit"`
	PingPeriod         time.Duration `mapstructure:"ping_period"`
	PongWait           time.Duration `mapstructure:"pong_wait"`
	WriteWait          time.Duration `mapstructure:"write_wait"`
	SendBuffer         int           `mapstructure:"send_buffer"`
	BackpressurePolicy string        `mapstructure:"backpressure_policy"`
}

// VideoConfig holds the video provider credentials. All empty means no
// provider is configured.
type VideoConfig struct {
	AccountSID   string        `mapstructure:"account_sid"`
	APIKeySID    string        `mapstructure:"api_key_sid"`
	APIKeySecret string        `mapstructure:"api_key_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
}

func (v VideoConfig) Configured() bool {
	return v.AccountSID != "" || v.APIKeySID != "" || v.APIKeySecret != ""
}

type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Interval time.Duration `mapstructure:"interval"`
}

// Load reads config/config.<CONFIG_ENV>.yaml, falling back to defaults when
// the file is missing.
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)

	v.SetEnvPrefix("TOWN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("config loaded")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.WS.PingPeriod >= cfg.WS.PongWait {
		return nil, fmt.Errorf("ws.ping_period (%s) must be shorter than ws.pong_wait (%s)", cfg.WS.PingPeriod, cfg.WS.PongWait)
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Str("static", cfg.StaticPath).Msg("config ready")
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8081)
	v.SetDefault("static_path", "./web")
	v.SetDefault("log_level", "info")
	v.SetDefault("secret", "town-dev-secret")

	v.SetDefault("ws.read_limit", 4096)
	v.SetDefault("ws.ping_period", "54s")
	v.SetDefault("ws.pong_wait", "60s")
	v.SetDefault("ws.write_wait", "5s")
	v.SetDefault("ws.send_buffer", 32)
	v.SetDefault("ws.backpressure_policy", "kick")

	v.SetDefault("video.account_sid", "")
	v.SetDefault("video.api_key_sid", "")
	v.SetDefault("video.api_key_secret", "")
	v.SetDefault("video.token_ttl", "1h")

	v.SetDefault("rate_limit.requests", 20)
	v.SetDefault("rate_limit.interval", "1m")
}
