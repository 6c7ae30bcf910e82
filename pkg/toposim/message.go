package toposim

import (
	"fmt"
	"time"

	"github.com/rs/xid"
)

// MessageType tells a node how to dispatch a message.
type MessageType int

const (
	// Data carries user payload between nodes.
	Data MessageType = iota
	// Control carries lifecycle commands ("stop", "pause", "resume") or custom commands.
	Control
	// Heartbeat is the periodic liveness broadcast.
	Heartbeat
	// TopologyUpdate announces a change of the wiring.
	TopologyUpdate
)

func (t MessageType) String() string {
	switch t {
	case Data:
		return "DATA"
	case Control:
		return "CONTROL"
	case Heartbeat:
		return "HEARTBEAT"
	case TopologyUpdate:
		return "TOPOLOGY_UPDATE"
	default:
		return fmt.Sprintf("MessageType(%d)", int(t))
	}
}

// ExternalSender is the sender id used for text injected through Node.ReceiveMessage.
const ExternalSender = "external"

// Message is the envelope exchanged between nodes.
// Type, sender, payload and timestamp are fixed at construction. The receiver
// id may be assigned once by the routing layer before the message is enqueued.
type Message struct {
	id         string
	typ        MessageType
	senderID   string
	receiverID string
	payload    interface{}
	timestamp  time.Time
}

// NewMessage creates a message stamped with the current wall-clock time.
func NewMessage(typ MessageType, senderID string, payload interface{}) *Message {
	return NewMessageAt(typ, senderID, payload, time.Now())
}

// NewMessageAt creates a message with an explicit timestamp.
func NewMessageAt(typ MessageType, senderID string, payload interface{}, ts time.Time) *Message {
	return &Message{
		id:        xid.New().String(),
		typ:       typ,
		senderID:  senderID,
		payload:   payload,
		timestamp: ts,
	}
}

// NewDataMessage is a shortcut for a DATA message addressed to receiverID.
func NewDataMessage(senderID, receiverID string, payload interface{}) *Message {
	msg := NewMessage(Data, senderID, payload)
	msg.SetReceiverID(receiverID)
	return msg
}

// ID returns the unique envelope id.
func (m *Message) ID() string { return m.id }

// Type returns the message type.
func (m *Message) Type() MessageType { return m.typ }

// SenderID returns the id of the originating node.
func (m *Message) SenderID() string { return m.senderID }

// ReceiverID returns the receiver id, or "" when the message was not addressed.
func (m *Message) ReceiverID() string { return m.receiverID }

// Payload returns the opaque payload.
func (m *Message) Payload() interface{} { return m.payload }

// Timestamp returns the construction time.
func (m *Message) Timestamp() time.Time { return m.timestamp }

// TimestampMillis returns the construction time as unix milliseconds.
func (m *Message) TimestampMillis() int64 { return m.timestamp.UnixMilli() }

// SetReceiverID assigns the receiver id. Only the first non-empty assignment
// sticks; it reports whether the id was stored.
func (m *Message) SetReceiverID(id string) bool {
	if m.receiverID != "" || id == "" {
		return false
	}
	m.receiverID = id
	return true
}

// copyFor returns a copy sharing id, type, sender, payload and timestamp,
// addressed to receiverID.
func (m *Message) copyFor(receiverID string) *Message {
	c := *m
	c.receiverID = receiverID
	return &c
}

func (m *Message) String() string {
	return fmt.Sprintf("Message{id=%s, type=%s, from=%q, to=%q, payload=%v}",
		m.id, m.typ, m.senderID, m.receiverID, m.payload)
}
