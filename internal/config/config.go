package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr                 string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout    time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout      time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel             string        `mapstructure:"log_level" yaml:"log_level"`
	DatabasePath         string        `mapstructure:"database_path" yaml:"database_path"`
	StaticDir            string        `mapstructure:"static_dir" yaml:"static_dir"`
	MaxMessageBytes      int64         `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
	MaxMessagesPerMinute int           `mapstructure:"max_messages_per_minute" yaml:"max_messages_per_minute"`
	CORSAllowedOrigins   string        `mapstructure:"cors_allowed_origins" yaml:"cors_allowed_origins"`

	Relay  RelayConfig  `mapstructure:"relay" yaml:"relay"`
	MQTT   MQTTConfig   `mapstructure:"mqtt" yaml:"mqtt"`
	Influx InfluxConfig `mapstructure:"influx" yaml:"influx"`
}

// RelayConfig tunes the realtime room relay.
type RelayConfig struct {
	// DisconnectOnLeave closes a client's session after it leaves a room.
	DisconnectOnLeave bool `mapstructure:"disconnect_on_leave" yaml:"disconnect_on_leave"`
	// ScopedIngestion sends readings only to the reporting home's room.
	ScopedIngestion bool `mapstructure:"scoped_ingestion" yaml:"scoped_ingestion"`
	// DiagnosticRoom receives the "test" event; empty disables the endpoint.
	DiagnosticRoom string `mapstructure:"diagnostic_room" yaml:"diagnostic_room"`
	ClientBuffer   int    `mapstructure:"client_buffer" yaml:"client_buffer"`
}

// MQTTConfig contains sensor ingestion broker settings.
type MQTTConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Broker   string `mapstructure:"broker" yaml:"broker"`
	ClientID string `mapstructure:"client_id" yaml:"client_id"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
	Topic    string `mapstructure:"topic" yaml:"topic"`
	QoS      int    `mapstructure:"qos" yaml:"qos"`
}

// InfluxConfig contains sensor history settings.
type InfluxConfig struct {
	Enabled       bool          `mapstructure:"enabled" yaml:"enabled"`
	URL           string        `mapstructure:"url" yaml:"url"`
	Token         string        `mapstructure:"token" yaml:"token"`
	Org           string        `mapstructure:"org" yaml:"org"`
	Bucket        string        `mapstructure:"bucket" yaml:"bucket"`
	BatchSize     int           `mapstructure:"batch_size" yaml:"batch_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval" yaml:"flush_interval"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:                 ":8080",
		ReadHeaderTimeout:    5 * time.Second,
		ShutdownTimeout:      5 * time.Second,
		LogLevel:             "info",
		DatabasePath:         "home_automation.db",
		MaxMessageBytes:      1 << 16,
		MaxMessagesPerMinute: 120,
		CORSAllowedOrigins:   "*",
		Relay: RelayConfig{
			DisconnectOnLeave: true,
			ClientBuffer:      32,
		},
		MQTT: MQTTConfig{
			Broker:   "tcp://localhost:1883",
			ClientID: "home-automation",
			Topic:    "homeauto/+/sensors",
			QoS:      1,
		},
		Influx: InfluxConfig{
			URL:           "http://localhost:8086",
			Org:           "home",
			Bucket:        "sensors",
			BatchSize:     100,
			FlushInterval: 10 * time.Second,
		},
	}
}

// UpdateFrom overwrites non-zero top-level values from other config into receiver.
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
	if other.DatabasePath != "" {
		c.DatabasePath = other.DatabasePath
	}
	if other.StaticDir != "" {
		c.StaticDir = other.StaticDir
	}
}
