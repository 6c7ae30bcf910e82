package toposim

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	logs "github.com/danmuck/smplog"
)

// Control commands understood by every node, compared case-insensitively.
const (
	CommandStop   = "stop"
	CommandPause  = "pause"
	CommandResume = "resume"
)

// Node is a concurrent worker with an inbound queue, a neighbor set and a
// lifecycle state machine. A node is created dormant; Run drives its dispatch
// loop until Shutdown is requested or the context is cancelled.
type Node struct {
	id   string
	name string
	cfg  *Config

	queue chan *Message

	active  atomic.Bool
	running atomic.Bool
	state   atomic.Int32

	processed     atomic.Int64
	lastUpdate    atomic.Int64
	lastHeartbeat atomic.Int64

	// quit is closed on shutdown to abort pending offers and polls.
	quit     chan struct{}
	quitOnce sync.Once
	done     chan struct{}
	doneOnce sync.Once

	mu        sync.RWMutex
	neighbors map[string]*Node

	lmu          sync.RWMutex
	listeners    []listenerEntry
	nextListener uint64

	properties sync.Map
}

type listenerEntry struct {
	id uint64
	fn Listener
}

// NewNode creates a dormant node: active, not running, IDLE.
func NewNode(id string, opts ...Option) *Node {
	cfg := NewConfig(opts...)
	name := cfg.Name
	if name == "" {
		name = id
	}

	n := &Node{
		id:        id,
		name:      name,
		cfg:       cfg,
		queue:     make(chan *Message, cfg.QueueCapacity),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
		neighbors: make(map[string]*Node),
	}
	n.active.Store(true)
	n.state.Store(int32(StateIdle))

	now := time.Now().UnixNano()
	n.lastUpdate.Store(now)
	n.lastHeartbeat.Store(now)

	return n
}

// ID returns the node's identifier.
func (n *Node) ID() string { return n.id }

// Name returns the display name, the id unless WithName was given.
func (n *Node) Name() string { return n.name }

// Output returns the writer that receives the traffic protocol lines.
func (n *Node) Output() io.Writer { return n.cfg.Output }

// Run executes the dispatch loop on the calling goroutine. A second call while
// the loop is live returns immediately.
func (n *Node) Run(ctx context.Context) {
	if !n.running.CompareAndSwap(false, true) {
		return
	}
	defer n.finish()

	n.notify(EventStarted)
	n.setState(StateRunning)
	logs.Debugf("node %s: dispatch loop started", n.id)

	for n.active.Load() {
		if err := n.step(ctx); err != nil {
			logs.Debugf("node %s: dispatch loop interrupted: %v", n.id, err)
			return
		}
	}
}

// step runs one loop iteration. It only fails when ctx is done.
func (n *Node) step(ctx context.Context) error {
	msg, err := n.poll(ctx)
	if err != nil {
		return err
	}

	if msg != nil {
		if n.guard(fmt.Sprintf("dispatch %s from %s", msg.Type(), msg.SenderID()), func() error {
			return n.dispatch(msg)
		}) {
			n.processed.Add(1)
		}
	}

	if n.State() != StatePaused {
		n.guard("periodic work", func() error {
			n.cfg.PeriodicWork(n)
			return nil
		})
	}

	n.refreshState()

	return sleepCtx(ctx, n.cfg.YieldInterval)
}

func (n *Node) poll(ctx context.Context) (*Message, error) {
	select {
	case msg := <-n.queue:
		return msg, nil
	default:
	}

	timer := time.NewTimer(n.cfg.PollTimeout)
	defer timer.Stop()

	select {
	case msg := <-n.queue:
		return msg, nil
	case <-timer.C:
		return nil, nil
	case <-n.quit:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (n *Node) dispatch(msg *Message) error {
	hooks := n.cfg.Hooks

	switch msg.Type() {
	case Data:
		return invoke(hooks.OnData, n, msg)
	case Control:
		switch strings.ToLower(fmt.Sprint(msg.Payload())) {
		case CommandStop:
			n.Shutdown()
			return nil
		case CommandPause:
			n.setState(StatePaused)
			return nil
		case CommandResume:
			n.setState(StateRunning)
			return nil
		default:
			return invoke(hooks.OnControl, n, msg)
		}
	case Heartbeat:
		return invoke(hooks.OnHeartbeat, n, msg)
	case TopologyUpdate:
		return invoke(hooks.OnTopologyUpdate, n, msg)
	default:
		return invoke(hooks.OnUnknown, n, msg)
	}
}

func invoke(hook HookFunc, n *Node, msg *Message) error {
	if hook == nil {
		return nil
	}
	return hook(n, msg)
}

// guard runs fn, turning a returned error or a panic into an ERROR event.
// It reports whether fn completed cleanly.
func (n *Node) guard(what string, fn func() error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			n.fault(fmt.Errorf("%s: panic: %v", what, r))
			ok = false
		}
	}()

	if err := fn(); err != nil {
		n.fault(fmt.Errorf("%s: %w", what, err))
		return false
	}
	return true
}

func (n *Node) fault(err error) {
	logs.Errorf(err, "node %s: dispatch fault", n.id)
	n.notify(EventError)
}

func (n *Node) refreshState() {
	n.lastUpdate.Store(time.Now().UnixNano())

	if n.State() == StatePaused {
		return
	}

	depth := len(n.queue)
	switch {
	case depth > n.cfg.BusyThreshold:
		n.setState(StateBusy)
	case depth == 0:
		n.setState(StateIdle)
	}
}

func (n *Node) finish() {
	// a cancelled context ends the loop without Shutdown
	n.deactivate()

	for {
		select {
		case <-n.queue:
			continue
		default:
		}
		break
	}

	n.mu.Lock()
	n.neighbors = make(map[string]*Node)
	n.mu.Unlock()

	n.running.Store(false)
	n.setState(StateStopped)
	n.notify(EventStopped)
	logs.Debugf("node %s: stopped after %d messages", n.id, n.processed.Load())

	n.lmu.Lock()
	n.listeners = nil
	n.lmu.Unlock()

	n.doneOnce.Do(func() { close(n.done) })
}

// Done is closed once the dispatch loop has exited and cleanup finished.
func (n *Node) Done() <-chan struct{} {
	return n.done
}

// HeartbeatWork is the default periodic work: once HeartbeatInterval has
// elapsed since the previous heartbeat, broadcast one to every neighbor.
// The interval is measured from the last heartbeat, not from LastUpdateTime,
// so every neighbor dispatches and counts one HEARTBEAT message per interval.
// Use WithPeriodicWork to replace it when processed counts must only reflect
// injected traffic.
func HeartbeatWork(n *Node) {
	last := time.Unix(0, n.lastHeartbeat.Load())
	if time.Since(last) <= n.cfg.HeartbeatInterval {
		return
	}
	n.BroadcastMessage(NewMessage(Heartbeat, n.id, "heartbeat"))
	n.lastHeartbeat.Store(time.Now().UnixNano())
}

// PrintDataMessage is the default DATA hook. It writes
// "<receiver> recibió de <sender>: <payload>" to the node output.
func PrintDataMessage(n *Node, msg *Message) error {
	receiver := msg.ReceiverID()
	if receiver == "" {
		receiver = n.id
	}
	_, err := fmt.Fprintf(n.cfg.Output, "%s recibió de %s: %v\n", receiver, msg.SenderID(), msg.Payload())
	return err
}

// SendMessage enqueues msg into this node, waiting up to OfferTimeout for room.
// It returns false when the node is inactive, the queue stayed full, or the
// node shut down while waiting.
func (n *Node) SendMessage(msg *Message) bool {
	if err := n.offer(msg); err != nil {
		return false
	}

	if msg.Type() == Data && msg.ReceiverID() != "" {
		fmt.Fprintf(n.cfg.Output, "%s envió a %s: %v\n", msg.SenderID(), msg.ReceiverID(), msg.Payload())
	}
	return true
}

func (n *Node) offer(msg *Message) error {
	if !n.active.Load() {
		return ErrNodeInactive
	}

	select {
	case n.queue <- msg:
		return nil
	default:
	}

	timer := time.NewTimer(n.cfg.OfferTimeout)
	defer timer.Stop()

	select {
	case n.queue <- msg:
		return nil
	case <-timer.C:
		return ErrQueueFull
	case <-n.quit:
		return ErrNodeInactive
	}
}

// ReceiveMessage wraps text into a DATA message from "external" and enqueues
// it. Inactive nodes drop the text silently; a full queue is reported on the
// error output.
func (n *Node) ReceiveMessage(text string) {
	if !n.active.Load() {
		return
	}

	switch err := n.offer(NewMessage(Data, ExternalSender, text)); err {
	case nil:
	case ErrQueueFull:
		fmt.Fprintf(n.cfg.ErrOutput, "Failed to receive message: queue is full for node %s\n", n.id)
	default:
		fmt.Fprintf(n.cfg.ErrOutput, "Interrupted while trying to receive message for node %s\n", n.id)
	}
}

// SendMessageToNeighbor enqueues msg into the neighbor with the given id.
func (n *Node) SendMessageToNeighbor(neighborID string, msg *Message) bool {
	n.mu.RLock()
	neighbor, ok := n.neighbors[neighborID]
	n.mu.RUnlock()

	if !ok {
		return false
	}
	return neighbor.SendMessage(msg)
}

// BroadcastMessage enqueues a copy of msg, addressed to each neighbor, into
// every neighbor. Individual failures are ignored.
func (n *Node) BroadcastMessage(msg *Message) {
	for _, neighbor := range n.Neighbors() {
		neighbor.SendMessage(msg.copyFor(neighbor.id))
	}
}

// AddNeighbor links neighbor to this node. Nil and self are rejected; it
// reports whether the neighbor set changed.
func (n *Node) AddNeighbor(neighbor *Node) bool {
	if neighbor == nil || neighbor.id == n.id {
		return false
	}

	n.mu.Lock()
	_, exists := n.neighbors[neighbor.id]
	if !exists {
		n.neighbors[neighbor.id] = neighbor
	}
	n.mu.Unlock()

	if exists {
		return false
	}
	n.notify(EventNeighborAdded)
	return true
}

// RemoveNeighbor unlinks neighbor; it reports whether the neighbor set changed.
func (n *Node) RemoveNeighbor(neighbor *Node) bool {
	if neighbor == nil {
		return false
	}

	n.mu.Lock()
	_, exists := n.neighbors[neighbor.id]
	delete(n.neighbors, neighbor.id)
	n.mu.Unlock()

	if !exists {
		return false
	}
	n.notify(EventNeighborRemoved)
	return true
}

// Neighbors returns a snapshot of the neighbor set ordered by id.
func (n *Node) Neighbors() []*Node {
	n.mu.RLock()
	result := make([]*Node, 0, len(n.neighbors))
	for _, neighbor := range n.neighbors {
		result = append(result, neighbor)
	}
	n.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool { return result[i].id < result[j].id })
	return result
}

// NeighborIDs returns the sorted ids of the neighbors.
func (n *Node) NeighborIDs() []string {
	neighbors := n.Neighbors()
	ids := make([]string, len(neighbors))
	for i, neighbor := range neighbors {
		ids[i] = neighbor.id
	}
	return ids
}

// IsNeighbor reports whether other is linked to this node.
func (n *Node) IsNeighbor(other *Node) bool {
	if other == nil {
		return false
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	_, ok := n.neighbors[other.id]
	return ok
}

// NeighborCount returns the size of the neighbor set.
func (n *Node) NeighborCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.neighbors)
}

// Shutdown asks the loop to stop after the current iteration.
func (n *Node) Shutdown() {
	if n.deactivate() {
		n.notify(EventShutdownRequested)
	}
}

// ForceStop deactivates the node without notifying listeners.
func (n *Node) ForceStop() {
	n.deactivate()
}

func (n *Node) deactivate() bool {
	changed := n.active.CompareAndSwap(true, false)
	n.quitOnce.Do(func() { close(n.quit) })
	return changed
}

// AddListener registers l and returns a function that removes it.
func (n *Node) AddListener(l Listener) (remove func()) {
	n.lmu.Lock()
	n.nextListener++
	id := n.nextListener
	n.listeners = append(n.listeners, listenerEntry{id: id, fn: l})
	n.lmu.Unlock()

	return func() {
		n.lmu.Lock()
		defer n.lmu.Unlock()
		for i, entry := range n.listeners {
			if entry.id == id {
				n.listeners = append(n.listeners[:i:i], n.listeners[i+1:]...)
				return
			}
		}
	}
}

func (n *Node) notify(event Event) {
	n.lmu.RLock()
	listeners := make([]listenerEntry, len(n.listeners))
	copy(listeners, n.listeners)
	n.lmu.RUnlock()

	for _, entry := range listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logs.Warnf("node %s: listener panicked on %s: %v", n.id, event, r)
				}
			}()
			entry.fn(n, event)
		}()
	}
}

// SetProperty stores a metadata value.
func (n *Node) SetProperty(key string, value interface{}) {
	n.properties.Store(key, value)
}

// Property returns a metadata value.
func (n *Node) Property(key string) (interface{}, bool) {
	return n.properties.Load(key)
}

// PropertyAs returns a metadata value when it has type T.
func PropertyAs[T any](n *Node, key string) (T, bool) {
	var zero T
	value, ok := n.properties.Load(key)
	if !ok {
		return zero, false
	}
	typed, ok := value.(T)
	return typed, ok
}

func (n *Node) setState(s State) {
	old := State(n.state.Swap(int32(s)))
	if old != s {
		n.notify(EventStateChanged)
	}
}

// State returns the current lifecycle state.
func (n *Node) State() State {
	return State(n.state.Load())
}

// IsActive reports whether the node still accepts messages.
func (n *Node) IsActive() bool {
	return n.active.Load()
}

// IsRunning reports whether the dispatch loop is live.
func (n *Node) IsRunning() bool {
	return n.running.Load()
}

// ProcessedCount returns how many dequeued messages completed dispatch.
func (n *Node) ProcessedCount() int64 {
	return n.processed.Load()
}

// QueueSize returns the number of messages waiting in the queue.
func (n *Node) QueueSize() int {
	return len(n.queue)
}

// LastUpdateTime returns the time of the latest loop iteration.
func (n *Node) LastUpdateTime() time.Time {
	return time.Unix(0, n.lastUpdate.Load())
}

// Status returns a snapshot of the node.
func (n *Node) Status() Status {
	return Status{
		NodeID:            n.id,
		NodeName:          n.name,
		State:             n.State(),
		Active:            n.IsActive(),
		Running:           n.IsRunning(),
		NeighborCount:     n.NeighborCount(),
		QueueSize:         n.QueueSize(),
		ProcessedMessages: n.ProcessedCount(),
		LastUpdateTime:    n.LastUpdateTime(),
	}
}

// Equal compares nodes by id only.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	return n.id == other.id
}

func (n *Node) String() string {
	return fmt.Sprintf("Node{id='%s', name='%s', state=%s, neighbors=%d, queue=%d}",
		n.id, n.name, n.State(), n.NeighborCount(), n.QueueSize())
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
