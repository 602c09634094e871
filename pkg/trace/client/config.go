package client

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultHost                   = "localhost"
	DefaultPort                   = "8126"
	DefaultBufferQueueCapacity    = 65535
	DefaultBufferSize             = 200
	DefaultBufferFlushMaxInterval = 200 * time.Millisecond

	defaultHTTPTimeout = 10 * time.Second
)

// Config holds the client settings. Zero values fall back to the defaults
// above; only Service is required.
type Config struct {
	// Service is the name spans are reported under. Required.
	Service string
	// Env is the deployment environment recorded in every span's meta.
	Env string
	// Host and Port locate the local trace agent.
	Host string
	Port string
	// BufferQueueCapacity bounds how many traces may sit in the ingestion
	// queue before new traces are dropped.
	BufferQueueCapacity int
	// BufferSize is the number of traces sent in a single agent request and
	// the size trigger for flushing.
	BufferSize int
	// BufferFlushMaxInterval is the longest a non-empty batch waits before
	// being flushed.
	BufferFlushMaxInterval time.Duration
	// Logger receives the client's diagnostics. Defaults to a nop logger so
	// the library stays silent unless the host wires one in.
	Logger *zap.Logger
	// HTTPClient performs the agent requests.
	HTTPClient *http.Client
}

func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == "" {
		c.Port = DefaultPort
	}
	if c.BufferQueueCapacity <= 0 {
		c.BufferQueueCapacity = DefaultBufferQueueCapacity
	}
	if c.BufferSize <= 0 {
		c.BufferSize = DefaultBufferSize
	}
	if c.BufferFlushMaxInterval <= 0 {
		c.BufferFlushMaxInterval = DefaultBufferFlushMaxInterval
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return c
}
