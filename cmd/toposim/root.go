package main

import (
	"io"
	"os"
	"time"

	logs "github.com/danmuck/smplog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nikitakosatka/toposim/pkg/config"
	"github.com/nikitakosatka/toposim/pkg/topology"
)

const defaultEnvFile = ".env"

type flags struct {
	topology       string
	nodes          int
	configPath     string
	envFile        string
	message        string
	pacing         string
	interval       time.Duration
	jitter         float64
	nonInteractive bool
	stats          bool
}

func newRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "toposim",
		Short: "Simulate classical network topologies with concurrent nodes.",
		Long: `toposim builds a network of concurrent nodes wired as a mesh, star, ` +
			`fully connected, switched, bus, ring, hypercube or tree topology, ` +
			`sends one message from every node to the next one and prints the ` +
			`traffic it observes.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := f.settings(cmd.Flags())
			if err != nil {
				return err
			}

			d := &driver{
				in:       cmd.InOrStdin(),
				settings: settings,
				newTopology: func(kind topology.Kind, opts ...topology.Option) (topology.Topology, error) {
					return topology.New(kind, opts...)
				},
			}
			return d.run(cmd.Context())
		},
	}

	cmd.SetIn(in)
	cmd.SetOut(out)
	f.register(cmd.Flags())

	return cmd
}

func (f *flags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.topology, "topology", "t", "", "topology number (1-8) or name; asked for when empty")
	fs.IntVarP(&f.nodes, "nodes", "n", 0, "number of nodes; asked for when zero")
	fs.StringVarP(&f.configPath, "config", "c", "", "settings file (.toml, .yaml or .yml)")
	fs.StringVar(&f.envFile, "env-file", "", "env file with TOPOSIM_* overrides (default .env when present)")
	fs.StringVar(&f.message, "message", config.DefaultMessage, "demo message template, {from} and {to} are node indices")
	fs.StringVar(&f.pacing, "pacing", "constant", "pause distribution between demo messages: constant, uniform or jittered")
	fs.DurationVar(&f.interval, "interval", 0, "pause between demo messages")
	fs.Float64Var(&f.jitter, "jitter", 0, "relative spread of the pause, within [0, 1]")
	fs.BoolVar(&f.nonInteractive, "non-interactive", false, "never prompt; stop after the demo")
	fs.BoolVar(&f.stats, "stats", false, "print node and process statistics after shutdown")
}

// settings layers defaults, the settings file, the env file, the
// environment and finally the flags given on the command line.
func (f *flags) settings(fs *pflag.FlagSet) (config.Settings, error) {
	s := config.Default()

	if f.configPath != "" {
		if err := s.MergeFile(f.configPath); err != nil {
			return config.Settings{}, err
		}
	}

	switch {
	case f.envFile != "":
		if err := config.LoadEnvFile(f.envFile); err != nil {
			return config.Settings{}, err
		}
	case fileExists(defaultEnvFile):
		if err := config.LoadEnvFile(defaultEnvFile); err != nil {
			logs.Warnf("ignoring %s: %v", defaultEnvFile, err)
		}
	}

	if err := s.ApplyEnv(); err != nil {
		return config.Settings{}, err
	}

	changed := fs.Changed
	if changed("topology") {
		s.Topology = f.topology
	}
	if changed("nodes") {
		s.Nodes = f.nodes
	}
	if changed("message") {
		s.Message = f.message
	}
	if changed("pacing") {
		s.Pacing.Kind = f.pacing
	}
	if changed("interval") {
		s.Pacing.Interval = f.interval
	}
	if changed("jitter") {
		s.Pacing.Jitter = f.jitter
	}
	if changed("non-interactive") {
		s.NonInteractive = f.nonInteractive
	}
	if changed("stats") {
		s.Stats = f.stats
	}

	if err := s.Validate(); err != nil {
		return config.Settings{}, err
	}
	return s, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
