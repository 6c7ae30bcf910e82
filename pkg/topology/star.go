package topology

import (
	"fmt"

	"github.com/nikitakosatka/toposim/pkg/network"
	"github.com/nikitakosatka/toposim/pkg/toposim"
)

// HubSender is the sender id of the hub-to-leaf leg of a relayed star send.
const HubSender = "HUB"

var starPolicy = policy{
	kind:     Star,
	nodeID:   standardID,
	minNodes: 2,
	wiring:   network.Star,
	cached:   true,
	route:    routeStar,
}

// routeStar delivers directly when either end is the hub. Leaf-to-leaf
// traffic is relayed as two envelopes, one into the hub and one from "HUB"
// into the receiver; the two legs are not atomic.
func routeStar(n *Network, from, to int, text string) error {
	sender, receiver, ok := n.endpoints(from, to)
	if !ok {
		return nil
	}
	hub := n.Node(network.Hub)

	if !sender.Equal(hub) && !receiver.Equal(hub) {
		hub.SendMessage(toposim.NewDataMessage(sender.ID(), hub.ID(), "→ HUB: "+text))
		receiver.SendMessage(toposim.NewDataMessage(HubSender, receiver.ID(),
			fmt.Sprintf("→ %s: %s", receiver.ID(), text)))
		return nil
	}

	receiver.SendMessage(toposim.NewDataMessage(sender.ID(), receiver.ID(), text))
	return nil
}
