package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	logs "github.com/danmuck/smplog"
	"github.com/tebeka/atexit"

	"github.com/nikitakosatka/toposim/pkg/config"
	"github.com/nikitakosatka/toposim/pkg/pacing"
	"github.com/nikitakosatka/toposim/pkg/topology"
)

type topologyFactory func(kind topology.Kind, opts ...topology.Option) (topology.Topology, error)

// driver walks one simulation: choose, configure, run, demo, stop.
type driver struct {
	in          io.Reader
	settings    config.Settings
	newTopology topologyFactory

	reader *bufio.Reader
}

func (d *driver) run(ctx context.Context) error {
	d.reader = bufio.NewReader(d.in)

	kind, err := d.selectTopology()
	if errors.Is(err, errMenuExit) {
		return nil
	}
	if err != nil {
		return err
	}

	n, err := d.selectNodeCount(kind)
	if errors.Is(err, errMenuExit) {
		return nil
	}
	if err != nil {
		return err
	}

	topo, err := d.newTopology(kind, d.settings.TopologyOptions()...)
	if err != nil {
		return fmt.Errorf("create %s network: %w", kind, err)
	}
	atexit.Register(topo.Shutdown)

	if err := topo.Configure(n); err != nil {
		topo.Shutdown()
		return fmt.Errorf("configure %s network: %w", kind, err)
	}
	if err := topo.Run(); err != nil {
		topo.Shutdown()
		return fmt.Errorf("run %s network: %w", kind, err)
	}
	nodes := topo.Nodes()

	logs.Titlef("\n%s running with %d nodes\n\n", kind.Label(), n)

	if err := d.demo(ctx, topo, n); err != nil {
		logs.Warnf("demo interrupted: %v", err)
	}
	d.awaitStop(ctx)

	topo.Shutdown()
	logs.Printf("%s stopped\n", kind.Label())

	if d.settings.Stats {
		report(nodes)
	}
	return nil
}

// demo sends one message from every node to its successor modulo n.
func (d *driver) demo(ctx context.Context, topo topology.Topology, n int) error {
	interval, err := d.settings.Interval()
	if err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		if err := topo.Send(i, j, d.settings.Text(i, j)); err != nil {
			logs.Warnf("send %d -> %d: %v", i, j, err)
		}
		if err := pacing.Wait(ctx, interval); err != nil {
			return err
		}
	}
	return nil
}

// awaitStop blocks until the user presses ENTER. Without a terminal it
// leaves one more pacing interval for the last deliveries.
func (d *driver) awaitStop(ctx context.Context) {
	if d.settings.NonInteractive {
		_ = pacing.Wait(ctx, pacing.Constant{Every: d.settings.Pacing.Interval})
		return
	}

	logs.Promptf("\nPress ENTER to stop the simulation...\n")

	lines := make(chan struct{})
	go func() {
		defer close(lines)
		_, _ = d.reader.ReadString('\n')
	}()

	select {
	case <-lines:
	case <-ctx.Done():
	}
}
