// Package config loads the run settings of the simulator driver from files,
// .env files and TOPOSIM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/nikitakosatka/toposim/pkg/network"
	"github.com/nikitakosatka/toposim/pkg/pacing"
	"github.com/nikitakosatka/toposim/pkg/topology"
	"github.com/nikitakosatka/toposim/pkg/toposim"
)

// ErrInvalidConfig is wrapped by every loading and validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TOPOSIM_"

// DefaultMessage is the demo text template. {from} and {to} are replaced
// with the node indices.
const DefaultMessage = "Hola de nodo {from} a nodo {to}"

// Settings drive one simulator run.
type Settings struct {
	// Topology is a menu number or name; empty means ask.
	Topology string `toml:"topology" yaml:"topology"`
	// Nodes is the node count; zero means ask.
	Nodes int `toml:"nodes" yaml:"nodes"`

	Message string `toml:"message" yaml:"message"`

	Pacing PacingSettings `toml:"pacing" yaml:"pacing"`
	Node   NodeSettings   `toml:"node" yaml:"node"`

	ShutdownTimeout time.Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
	NonInteractive  bool          `toml:"non_interactive" yaml:"non_interactive"`
	Stats           bool          `toml:"stats" yaml:"stats"`
}

// PacingSettings space out the demo messages.
type PacingSettings struct {
	Kind     string        `toml:"kind" yaml:"kind"`
	Interval time.Duration `toml:"interval" yaml:"interval"`
	Jitter   float64       `toml:"jitter" yaml:"jitter"`
}

// NodeSettings tune every node of the topology.
type NodeSettings struct {
	QueueCapacity     int           `toml:"queue_capacity" yaml:"queue_capacity"`
	HeartbeatInterval time.Duration `toml:"heartbeat_interval" yaml:"heartbeat_interval"`
	BusyThreshold     int           `toml:"busy_threshold" yaml:"busy_threshold"`
}

// Default returns the settings used when nothing overrides them.
func Default() Settings {
	return Settings{
		Message: DefaultMessage,
		Pacing: PacingSettings{
			Kind:     string(pacing.KindConstant),
			Interval: pacing.DefaultInterval,
		},
		Node: NodeSettings{
			QueueCapacity:     toposim.DefaultQueueCapacity,
			HeartbeatInterval: toposim.DefaultHeartbeatInterval,
			BusyThreshold:     toposim.DefaultBusyThreshold,
		},
		ShutdownTimeout: topology.DefaultShutdownTimeout,
	}
}

// Load reads a settings file over the defaults. The format follows the
// extension: .toml, .yaml or .yml.
func Load(path string) (Settings, error) {
	s := Default()
	if err := s.MergeFile(path); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// MergeFile decodes the file at path over s. Keys absent from the file keep
// their current values.
func (s *Settings) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrInvalidConfig, path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), s); err != nil {
			return fmt.Errorf("%w: parse TOML %s: %v", ErrInvalidConfig, path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, s); err != nil {
			return fmt.Errorf("%w: parse YAML %s: %v", ErrInvalidConfig, path, err)
		}
	default:
		return fmt.Errorf("%w: unsupported config file format %q", ErrInvalidConfig, ext)
	}
	return nil
}

// LoadEnvFile exports the variables of the given .env files into the process
// environment. Variables already set are left alone, so the real environment
// wins over the file.
func LoadEnvFile(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("%w: load env file: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ApplyEnv overrides s with the TOPOSIM_* variables of the process.
func (s *Settings) ApplyEnv() error {
	return s.ApplyLookup(os.LookupEnv)
}

// ApplyLookup overrides s with the TOPOSIM_* variables reported by lookup.
func (s *Settings) ApplyLookup(lookup func(string) (string, bool)) error {
	env := envReader{lookup: lookup}

	env.str("TOPOSIM_TOPOLOGY", &s.Topology)
	env.integer("TOPOSIM_NODES", &s.Nodes)
	env.str("TOPOSIM_MESSAGE", &s.Message)
	env.str("TOPOSIM_PACING", &s.Pacing.Kind)
	env.duration("TOPOSIM_INTERVAL", &s.Pacing.Interval)
	env.float("TOPOSIM_JITTER", &s.Pacing.Jitter)
	env.integer("TOPOSIM_QUEUE_CAPACITY", &s.Node.QueueCapacity)
	env.duration("TOPOSIM_HEARTBEAT_INTERVAL", &s.Node.HeartbeatInterval)
	env.integer("TOPOSIM_BUSY_THRESHOLD", &s.Node.BusyThreshold)
	env.duration("TOPOSIM_SHUTDOWN_TIMEOUT", &s.ShutdownTimeout)
	env.boolean("TOPOSIM_NON_INTERACTIVE", &s.NonInteractive)
	env.boolean("TOPOSIM_STATS", &s.Stats)

	return errors.Join(env.errs...)
}

type envReader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (r *envReader) raw(key string) (string, bool) {
	value, ok := r.lookup(key)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(value), true
}

func (r *envReader) fail(key, value string, err error) {
	r.errs = append(r.errs, fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, key, value, err))
}

func (r *envReader) str(key string, dst *string) {
	if value, ok := r.raw(key); ok {
		*dst = value
	}
}

func (r *envReader) integer(key string, dst *int) {
	value, ok := r.raw(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		r.fail(key, value, err)
		return
	}
	*dst = n
}

func (r *envReader) float(key string, dst *float64) {
	value, ok := r.raw(key)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		r.fail(key, value, err)
		return
	}
	*dst = f
}

func (r *envReader) duration(key string, dst *time.Duration) {
	value, ok := r.raw(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		r.fail(key, value, err)
		return
	}
	*dst = d
}

func (r *envReader) boolean(key string, dst *bool) {
	value, ok := r.raw(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		r.fail(key, value, err)
		return
	}
	*dst = b
}

// Validate checks the settings that do not depend on user input.
func (s Settings) Validate() error {
	var errs []error

	kind, err := s.Kind()
	if err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidConfig, err))
	}
	if s.Nodes < 0 {
		errs = append(errs, fmt.Errorf("%w: negative node count %d", ErrInvalidConfig, s.Nodes))
	} else if kind != 0 && s.Nodes != 0 {
		if err := ValidateNodeCount(kind, s.Nodes); err != nil {
			errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidConfig, err))
		}
	}
	if s.Pacing.Jitter < 0 || s.Pacing.Jitter > 1 {
		errs = append(errs, fmt.Errorf("%w: jitter must be within [0, 1], got %g", ErrInvalidConfig, s.Pacing.Jitter))
	}
	if _, err := s.Interval(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidConfig, err))
	}
	if s.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: shutdown timeout must be positive, got %s", ErrInvalidConfig, s.ShutdownTimeout))
	}
	if s.Node.QueueCapacity < 0 || s.Node.BusyThreshold < 0 || s.Node.HeartbeatInterval < 0 {
		errs = append(errs, fmt.Errorf("%w: node settings must not be negative", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// Kind resolves the configured topology; zero when none was configured.
func (s Settings) Kind() (topology.Kind, error) {
	if strings.TrimSpace(s.Topology) == "" {
		return 0, nil
	}
	return topology.ParseKind(s.Topology)
}

// Interval builds the demo pacing.
func (s Settings) Interval() (pacing.Interval, error) {
	return pacing.New(pacing.Kind(s.Pacing.Kind), s.Pacing.Interval, s.Pacing.Jitter)
}

// Text renders the demo message from node from to node to.
func (s Settings) Text(from, to int) string {
	template := s.Message
	if template == "" {
		template = DefaultMessage
	}
	return strings.NewReplacer(
		"{from}", strconv.Itoa(from),
		"{to}", strconv.Itoa(to),
	).Replace(template)
}

// NodeOptions translates the node settings, zero values keep the defaults.
func (s Settings) NodeOptions() []toposim.Option {
	var opts []toposim.Option
	if s.Node.QueueCapacity > 0 {
		opts = append(opts, toposim.WithQueueCapacity(s.Node.QueueCapacity))
	}
	if s.Node.HeartbeatInterval > 0 {
		opts = append(opts, toposim.WithHeartbeatInterval(s.Node.HeartbeatInterval))
	}
	if s.Node.BusyThreshold > 0 {
		opts = append(opts, toposim.WithBusyThreshold(s.Node.BusyThreshold))
	}
	return opts
}

// TopologyOptions translates the settings into topology options.
func (s Settings) TopologyOptions() []topology.Option {
	opts := []topology.Option{topology.WithNodeOptions(s.NodeOptions()...)}
	if s.ShutdownTimeout > 0 {
		opts = append(opts, topology.WithShutdownTimeout(s.ShutdownTimeout))
	}
	return opts
}

// ValidateNodeCount applies the interactive node count rules: at least two
// nodes, at least three for a ring and a power of two for a hypercube.
func ValidateNodeCount(kind topology.Kind, n int) error {
	switch {
	case kind == topology.Ring && n < 3:
		return fmt.Errorf("%w: a ring needs at least 3 nodes", toposim.ErrInvalidArgument)
	case kind == topology.HyperCube && (n < 2 || !network.IsPowerOfTwo(n)):
		return fmt.Errorf("%w: a hypercube needs a power of two of at least 2 nodes", toposim.ErrInvalidArgument)
	case n < 2:
		return fmt.Errorf("%w: at least 2 nodes are needed", toposim.ErrInvalidArgument)
	}
	return nil
}

