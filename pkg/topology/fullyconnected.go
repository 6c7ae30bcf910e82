package topology

import (
	"github.com/nikitakosatka/toposim/pkg/network"
	"github.com/nikitakosatka/toposim/pkg/toposim"
)

var fullyConnectedPolicy = policy{
	kind:     FullyConnected,
	nodeID:   standardID,
	minNodes: 1,
	wiring:   network.FullMesh,
	cached:   true,
	route:    routeFullyConnected,
}

// routeFullyConnected enqueues an addressed DATA envelope straight into the
// receiver when both nodes exist and are linked. Anything else is a no-op.
func routeFullyConnected(n *Network, from, to int, text string) error {
	sender, receiver, ok := n.endpoints(from, to)
	if !ok || !sender.IsNeighbor(receiver) {
		return nil
	}
	receiver.SendMessage(toposim.NewDataMessage(sender.ID(), receiver.ID(), text))
	return nil
}
