package internal

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Host     string `env:"HOST,default=0.0.0.0"`
	Port     int    `env:"PORT,default=8080"`
	LogLevel string `env:"LOG_LEVEL,default=INFO"`

	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,required=true"`
	LimitMessages  *int   `env:"LIMIT_MESSAGES"`

	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	CookieName        string        `env:"COOKIE_NAME,default=auth-token"`
	CookieSecure      bool          `env:"COOKIE_SECURE,default=false"`
	MaxUsers          int           `env:"MAX_USERS,default=2"`
	CorsOrigins       string        `env:"CORS_ORIGINS,default=http://localhost:3000"`

	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	HandshakeTimeout     time.Duration `env:"HANDSHAKE_TIMEOUT,default=5s"`
	WriteTimeout         time.Duration `env:"WRITE_TIMEOUT,default=10s"`
	PingInterval         time.Duration `env:"PING_INTERVAL,default=30s"`
	ReadLimit            int64         `env:"READ_LIMIT,default=65536"`
	SocketRatePerMinute  int           `env:"SOCKET_RATE_PER_MINUTE,default=30"`
	SocketRateBurst      int           `env:"SOCKET_RATE_BURST,default=10"`
	AllowAnonymousSender bool          `env:"ALLOW_ANONYMOUS_SENDER,default=false"`

	ModerationEnabled bool   `env:"MODERATION_ENABLED,default=false"`
	CharReplacement   string `env:"CHARACTER_REPLACEMENT,default=*"`
	MaxMediaSize      int64  `env:"MAX_MEDIA_SIZE,default=10485760"`

	BackfillBufferSize int           `env:"BACKFILL_BUFFER_SIZE,default=256"`
	MetricInterval     time.Duration `env:"METRIC_INTERVAL,default=30s"`
	RestartInterval    time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AllowedOrigins splits CORS_ORIGINS on commas. Credentials are always
// allowed, so a wildcard entry is dropped.
func (c Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CorsOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" && o != "*" {
			origins = append(origins, o)
		}
	}
	return origins
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
