package topology

import (
	"io"
	"os"
	"time"

	"github.com/nikitakosatka/toposim/pkg/toposim"
)

const (
	// DefaultShutdownTimeout bounds each phase of the two-phase executor stop.
	DefaultShutdownTimeout = 5 * time.Second

	// DefaultSwitchQueueCapacity bounds the queue of the switched topology.
	DefaultSwitchQueueCapacity = 4096
)

// Config holds the options shared by every topology.
type Config struct {
	// NodeOptions are applied to every node the topology creates.
	NodeOptions []toposim.Option

	ShutdownTimeout     time.Duration
	SwitchQueueCapacity int

	// ErrOutput receives the topology diagnostics.
	ErrOutput io.Writer
}

// Option is a function that modifies the Config.
type Option func(*Config)

// WithNodeOptions appends options applied to every created node.
func WithNodeOptions(opts ...toposim.Option) Option {
	return func(c *Config) {
		c.NodeOptions = append(c.NodeOptions, opts...)
	}
}

// WithShutdownTimeout sets the wait of each shutdown phase.
func WithShutdownTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.ShutdownTimeout = d
	}
}

// WithSwitchQueueCapacity sets the switch queue capacity.
func WithSwitchQueueCapacity(capacity int) Option {
	return func(c *Config) {
		c.SwitchQueueCapacity = capacity
	}
}

// WithErrOutput redirects the topology diagnostics.
func WithErrOutput(w io.Writer) Option {
	return func(c *Config) {
		c.ErrOutput = w
	}
}

// NewConfig creates a new Config with default values.
func NewConfig(opts ...Option) *Config {
	config := &Config{
		ShutdownTimeout:     DefaultShutdownTimeout,
		SwitchQueueCapacity: DefaultSwitchQueueCapacity,
		ErrOutput:           os.Stderr,
	}

	for _, opt := range opts {
		opt(config)
	}

	if config.SwitchQueueCapacity <= 0 {
		config.SwitchQueueCapacity = DefaultSwitchQueueCapacity
	}

	return config
}
