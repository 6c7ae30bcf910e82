package topology

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	logs "github.com/danmuck/smplog"

	"github.com/nikitakosatka/toposim/pkg/network"
	"github.com/nikitakosatka/toposim/pkg/toposim"
)

// policy is what distinguishes one topology from another: how nodes are
// named and wired, which executor runs them and how traffic is routed.
type policy struct {
	kind       Kind
	nodeID     func(i int) string
	minNodes   int
	powerOfTwo bool
	wiring     network.Wiring

	// cached selects an unbounded executor instead of a fixed n+1 one.
	cached bool

	// guarded makes Send fail with ErrInvalidState before Run.
	guarded bool

	route func(net *Network, from, to int, text string) error

	// configured runs at the end of Configure, with the nodes in place.
	configured func(net *Network)
}

func standardID(i int) string {
	return fmt.Sprintf("Node-%d", i)
}

func familyID(family string) func(int) string {
	return func(i int) string {
		return fmt.Sprintf("%s-node-%d", family, i)
	}
}

// Network is a configured set of nodes wired after one topology.
type Network struct {
	policy policy
	config *Config

	mu       sync.RWMutex
	nodes    []*toposim.Node
	byID     map[string]*toposim.Node
	executor *toposim.Executor
	router   *toposim.MessageRouter

	// switched topology only
	switchQueue    chan *toposim.Message
	switchExecutor *toposim.Executor

	running atomic.Bool
}

func newNetwork(p policy, config *Config) *Network {
	return &Network{
		policy: p,
		config: config,
	}
}

// Kind returns which topology this is.
func (n *Network) Kind() Kind {
	return n.policy.kind
}

// Configure validates count, creates the nodes, wires them and prepares the
// executor and router.
func (n *Network) Configure(count int) error {
	if err := n.validate(count); err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.nodes != nil {
		return fmt.Errorf("%w: %s network is already configured", toposim.ErrInvalidState, n.policy.kind)
	}

	nodes := make([]*toposim.Node, count)
	byID := make(map[string]*toposim.Node, count)
	for i := range nodes {
		id := n.policy.nodeID(i)
		if _, exists := byID[id]; exists {
			return fmt.Errorf("%w: %s", toposim.ErrDuplicateNode, id)
		}
		nodes[i] = toposim.NewNode(id, n.config.NodeOptions...)
		byID[id] = nodes[i]
	}

	for i, neighbors := range n.policy.wiring(count) {
		for _, j := range neighbors {
			nodes[i].AddNeighbor(nodes[j])
		}
	}

	n.nodes = nodes
	n.byID = byID
	n.router = toposim.NewMessageRouter(nodes)
	if n.policy.cached {
		n.executor = toposim.NewCachedExecutor(n.policy.kind.String())
	} else {
		n.executor = toposim.NewFixedExecutor(n.policy.kind.String(), count+1)
	}

	if n.policy.configured != nil {
		n.policy.configured(n)
	}

	logs.Debugf("%s network configured with %d nodes", n.policy.kind, count)
	return nil
}

func (n *Network) validate(count int) error {
	if count <= 0 {
		return fmt.Errorf("%w: number of nodes must be positive, got %d", toposim.ErrInvalidArgument, count)
	}
	if count < n.policy.minNodes {
		return fmt.Errorf("%w: %s network requires at least %d nodes, got %d",
			toposim.ErrInvalidArgument, n.policy.kind, n.policy.minNodes, count)
	}
	if n.policy.powerOfTwo && !network.IsPowerOfTwo(count) {
		return fmt.Errorf("%w: %s network requires a power of two number of nodes, got %d",
			toposim.ErrInvalidArgument, n.policy.kind, count)
	}
	return nil
}

// Run submits every node to the executor. Calling it again is a no-op. When a
// submission fails, the nodes already submitted are shut down and the network
// stays not running.
func (n *Network) Run() error {
	n.mu.RLock()
	nodes, executor := n.nodes, n.executor
	n.mu.RUnlock()

	if nodes == nil {
		return fmt.Errorf("%w: %s network is not configured", toposim.ErrInvalidState, n.policy.kind)
	}
	if !n.running.CompareAndSwap(false, true) {
		return nil
	}

	for i, node := range nodes {
		if err := executor.Submit(node.Run); err != nil {
			n.running.Store(false)
			for _, started := range nodes[:i] {
				started.Shutdown()
			}
			return fmt.Errorf("start node %s: %w", node.ID(), err)
		}
	}

	logs.Debugf("%s network running", n.policy.kind)
	return nil
}

// Send routes text from node index from to node index to.
func (n *Network) Send(from, to int, text string) error {
	if n.policy.guarded && !n.running.Load() {
		return fmt.Errorf("%w: %s network is not running", toposim.ErrInvalidState, n.policy.kind)
	}
	return n.policy.route(n, from, to, text)
}

// IsRunning reports whether Run has been called and Shutdown has not.
func (n *Network) IsRunning() bool {
	return n.running.Load()
}

// Shutdown asks every node to stop, then terminates the executors in two
// bounded phases. The nodes are released.
func (n *Network) Shutdown() {
	n.running.Store(false)

	n.mu.Lock()
	nodes := n.nodes
	executor := n.executor
	switchExecutor := n.switchExecutor
	n.nodes, n.byID, n.router, n.executor = nil, nil, nil, nil
	n.switchQueue, n.switchExecutor = nil, nil
	n.mu.Unlock()

	for _, node := range nodes {
		node.Shutdown()
	}

	timeout := n.config.ShutdownTimeout
	if switchExecutor != nil {
		switchExecutor.ShutdownNow()
		if !switchExecutor.AwaitTermination(timeout) {
			fmt.Fprintln(n.config.ErrOutput, "Switch did not terminate gracefully")
		}
	}
	if executor != nil {
		if !executor.Terminate(timeout) {
			fmt.Fprintln(n.config.ErrOutput, "Executor did not terminate gracefully")
		}
		logs.Debugf("%s network stopped", n.policy.kind)
	}
}

// Nodes returns the nodes ordered by index, nil before Configure and after
// Shutdown.
func (n *Network) Nodes() []*toposim.Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.nodes == nil {
		return nil
	}
	result := make([]*toposim.Node, len(n.nodes))
	copy(result, n.nodes)
	return result
}

// Node returns the node at index i, or nil.
func (n *Network) Node(i int) *toposim.Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if i < 0 || i >= len(n.nodes) {
		return nil
	}
	return n.nodes[i]
}

// NodeByID returns the node with the given id, or nil.
func (n *Network) NodeByID(id string) *toposim.Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.byID[id]
}

// routeViaRouter validates the indices on the caller and hands the delivery
// to the executor.
func routeViaRouter(n *Network, from, to int, text string) error {
	n.mu.RLock()
	router, executor := n.router, n.executor
	n.mu.RUnlock()

	if router == nil {
		return fmt.Errorf("%w: %s network is not configured", toposim.ErrInvalidState, n.policy.kind)
	}
	if err := router.Validate(from, to); err != nil {
		return err
	}

	return executor.Submit(func(_ context.Context) {
		if err := router.Route(from, to, text); err != nil {
			logs.Warnf("%s network: route %d -> %d: %v", n.policy.kind, from, to, err)
		}
	})
}

// endpoints resolves both indices; ok is false when either node is absent.
func (n *Network) endpoints(from, to int) (sender, receiver *toposim.Node, ok bool) {
	sender, receiver = n.Node(from), n.Node(to)
	return sender, receiver, sender != nil && receiver != nil
}

var _ Topology = (*Network)(nil)
