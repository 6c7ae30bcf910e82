package toposim

import (
	"bytes"
	"context"
	"sync"
)

// syncBuffer is a bytes.Buffer safe for the concurrent writes of node loops.
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

type recorder struct {
	mu   sync.Mutex
	msgs []*Message
}

func (r *recorder) hook(_ *Node, msg *Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *recorder) messages() []*Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*Message, len(r.msgs))
	copy(result, r.msgs)
	return result
}

func (r *recorder) payloads() []interface{} {
	var result []interface{}
	for _, msg := range r.messages() {
		result = append(result, msg.Payload())
	}
	return result
}

type eventLog struct {
	mu     sync.Mutex
	events []Event
	states []State
}

func (l *eventLog) listen(n *Node, event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	if event == EventStateChanged {
		l.states = append(l.states, n.State())
	}
}

func (l *eventLog) snapshot() ([]Event, []State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.events...), append([]State(nil), l.states...)
}

func (l *eventLog) count(event Event) int {
	events, _ := l.snapshot()
	total := 0
	for _, e := range events {
		if e == event {
			total++
		}
	}
	return total
}

// quietNode creates a node writing to buffers, without heartbeats.
func quietNode(id string, out *syncBuffer, opts ...Option) *Node {
	base := []Option{
		WithOutput(out),
		WithErrOutput(out),
		WithPeriodicWork(func(*Node) {}),
	}
	return NewNode(id, append(base, opts...)...)
}

// start runs n on its own goroutine and returns a function that stops it and
// waits for the loop to exit.
func start(n *Node) (stop func()) {
	go n.Run(context.Background())
	return func() {
		n.Shutdown()
		<-n.Done()
	}
}
