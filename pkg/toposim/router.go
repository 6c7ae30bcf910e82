package toposim

import "fmt"

// MessageRouter delivers text to a node picked by its index in an ordered
// node list. The sender index is only validated, never carried in the message.
type MessageRouter struct {
	nodes []*Node
}

// NewMessageRouter creates a router over nodes. The slice is copied.
func NewMessageRouter(nodes []*Node) *MessageRouter {
	owned := make([]*Node, len(nodes))
	copy(owned, nodes)
	return &MessageRouter{nodes: owned}
}

// Validate checks that both indices address a node.
func (r *MessageRouter) Validate(from, to int) error {
	if from < 0 || from >= len(r.nodes) {
		return fmt.Errorf("%w: from node index %d (nodes: %d)", ErrIndexOutOfRange, from, len(r.nodes))
	}
	if to < 0 || to >= len(r.nodes) {
		return fmt.Errorf("%w: to node index %d (nodes: %d)", ErrIndexOutOfRange, to, len(r.nodes))
	}
	return nil
}

// Route validates the indices and hands text to the receiver through
// Node.ReceiveMessage, so the delivered sender id is "external".
func (r *MessageRouter) Route(from, to int, text string) error {
	if err := r.Validate(from, to); err != nil {
		return err
	}
	r.nodes[to].ReceiveMessage(text)
	return nil
}

// Len returns the number of routable nodes.
func (r *MessageRouter) Len() int {
	return len(r.nodes)
}
