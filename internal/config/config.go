package config

import "time"

// Config holds gateway configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	// AllowedOrigins restricts cross-origin websocket handshakes. Empty
	// means allow any origin.
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`

	// SessionBuffer is how many undelivered envelopes a connection may
	// queue before further ones are dropped.
	SessionBuffer int `mapstructure:"session_buffer" yaml:"session_buffer"`

	// WSMessageLimit caps inbound frames per connection per minute.
	// Zero disables the limit.
	WSMessageLimit int `mapstructure:"ws_message_limit" yaml:"ws_message_limit"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8090",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		SessionBuffer:     16,
		WSMessageLimit:    120,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if len(other.AllowedOrigins) > 0 {
		c.AllowedOrigins = other.AllowedOrigins
	}
	if other.SessionBuffer != 0 {
		c.SessionBuffer = other.SessionBuffer
	}
	if other.WSMessageLimit != 0 {
		c.WSMessageLimit = other.WSMessageLimit
	}
}
