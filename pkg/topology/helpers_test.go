package topology

import (
	"bytes"
	"sync"
	"time"

	"github.com/nikitakosatka/toposim/pkg/toposim"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type delivery struct {
	node string
	msg  *toposim.Message
}

// deliveries records every DATA message dispatched by any node of a network.
type deliveries struct {
	mu   sync.Mutex
	seen []delivery
}

func (d *deliveries) hook(n *toposim.Node, msg *toposim.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen = append(d.seen, delivery{node: n.ID(), msg: msg})
	return nil
}

func (d *deliveries) at(nodeID string) []*toposim.Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	var result []*toposim.Message
	for _, entry := range d.seen {
		if entry.node == nodeID {
			result = append(result, entry.msg)
		}
	}
	return result
}

func (d *deliveries) total() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

// newQuiet builds a topology whose nodes skip heartbeats and write to out.
func newQuiet(kind Kind, out *syncBuffer, extra ...toposim.Option) (*Network, error) {
	nodeOpts := append([]toposim.Option{
		toposim.WithOutput(out),
		toposim.WithErrOutput(out),
		toposim.WithPeriodicWork(func(*toposim.Node) {}),
	}, extra...)

	return New(kind,
		WithNodeOptions(nodeOpts...),
		WithShutdownTimeout(time.Second),
		WithErrOutput(out),
	)
}
