package toposim

import (
	"io"
	"os"
	"time"
)

const (
	// DefaultQueueCapacity bounds a node's inbound queue.
	DefaultQueueCapacity = 1024

	// DefaultPollTimeout is how long one loop iteration waits for a message.
	DefaultPollTimeout = 50 * time.Millisecond

	// DefaultOfferTimeout is how long an enqueue waits for room in a full queue.
	DefaultOfferTimeout = 1 * time.Second

	// DefaultYieldInterval is the pause at the end of every loop iteration.
	DefaultYieldInterval = 10 * time.Millisecond

	// DefaultHeartbeatInterval is the period of the heartbeat broadcast.
	DefaultHeartbeatInterval = 5 * time.Second

	// DefaultBusyThreshold is the queue depth above which a node reports BUSY.
	DefaultBusyThreshold = 100
)

// HookFunc handles one dispatched message. A returned error is treated like a
// panic: it is logged, reported as EventError and the loop keeps going.
type HookFunc func(node *Node, msg *Message) error

// Hooks are the per-type handlers invoked by the dispatch loop.
// A nil hook means the message is consumed without side effects.
type Hooks struct {
	OnData           HookFunc
	OnControl        HookFunc
	OnHeartbeat      HookFunc
	OnTopologyUpdate HookFunc
	OnUnknown        HookFunc
}

// Config holds the runtime parameters of a node.
type Config struct {
	Name string

	QueueCapacity     int
	PollTimeout       time.Duration
	OfferTimeout      time.Duration
	YieldInterval     time.Duration
	HeartbeatInterval time.Duration
	BusyThreshold     int

	// Output receives the traffic protocol lines, ErrOutput the drop diagnostics.
	Output    io.Writer
	ErrOutput io.Writer

	Hooks Hooks

	// PeriodicWork runs once per loop iteration unless the node is paused.
	// The default broadcasts a heartbeat every HeartbeatInterval.
	PeriodicWork func(node *Node)
}

// Option is a function that modifies the Config.
type Option func(*Config)

// WithName sets the display name of the node.
func WithName(name string) Option {
	return func(c *Config) {
		c.Name = name
	}
}

// WithQueueCapacity sets the inbound queue capacity.
func WithQueueCapacity(capacity int) Option {
	return func(c *Config) {
		c.QueueCapacity = capacity
	}
}

// WithPollTimeout sets the bounded wait of a dequeue.
func WithPollTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.PollTimeout = d
	}
}

// WithOfferTimeout sets the bounded wait of an enqueue.
func WithOfferTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.OfferTimeout = d
	}
}

// WithYieldInterval sets the pause between loop iterations.
func WithYieldInterval(d time.Duration) Option {
	return func(c *Config) {
		c.YieldInterval = d
	}
}

// WithHeartbeatInterval sets the heartbeat period.
func WithHeartbeatInterval(d time.Duration) Option {
	return func(c *Config) {
		c.HeartbeatInterval = d
	}
}

// WithBusyThreshold sets the queue depth that flips the node to BUSY.
func WithBusyThreshold(n int) Option {
	return func(c *Config) {
		c.BusyThreshold = n
	}
}

// WithOutput redirects the traffic protocol lines.
func WithOutput(w io.Writer) Option {
	return func(c *Config) {
		c.Output = w
	}
}

// WithErrOutput redirects the drop diagnostics.
func WithErrOutput(w io.Writer) Option {
	return func(c *Config) {
		c.ErrOutput = w
	}
}

// WithHooks replaces the dispatch hooks. Nil entries keep their defaults.
func WithHooks(h Hooks) Option {
	return func(c *Config) {
		if h.OnData != nil {
			c.Hooks.OnData = h.OnData
		}
		if h.OnControl != nil {
			c.Hooks.OnControl = h.OnControl
		}
		if h.OnHeartbeat != nil {
			c.Hooks.OnHeartbeat = h.OnHeartbeat
		}
		if h.OnTopologyUpdate != nil {
			c.Hooks.OnTopologyUpdate = h.OnTopologyUpdate
		}
		if h.OnUnknown != nil {
			c.Hooks.OnUnknown = h.OnUnknown
		}
	}
}

// WithPeriodicWork replaces the per-iteration work, heartbeats by default.
func WithPeriodicWork(fn func(node *Node)) Option {
	return func(c *Config) {
		c.PeriodicWork = fn
	}
}

// NewConfig creates a new Config with default values.
func NewConfig(opts ...Option) *Config {
	config := &Config{
		QueueCapacity:     DefaultQueueCapacity,
		PollTimeout:       DefaultPollTimeout,
		OfferTimeout:      DefaultOfferTimeout,
		YieldInterval:     DefaultYieldInterval,
		HeartbeatInterval: DefaultHeartbeatInterval,
		BusyThreshold:     DefaultBusyThreshold,
		Output:            os.Stdout,
		ErrOutput:         os.Stderr,
		Hooks: Hooks{
			OnData: PrintDataMessage,
		},
	}

	for _, opt := range opts {
		opt(config)
	}

	if config.QueueCapacity <= 0 {
		config.QueueCapacity = DefaultQueueCapacity
	}
	if config.PeriodicWork == nil {
		config.PeriodicWork = HeartbeatWork
	}

	return config
}
