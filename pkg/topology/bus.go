package topology

import "github.com/nikitakosatka/toposim/pkg/network"

// A bus is a shared medium: every node hears every other one, so the
// neighbor relation is complete and delivery is direct.
var busPolicy = policy{
	kind:     Bus,
	nodeID:   familyID("bus"),
	minNodes: 1,
	wiring:   network.FullMesh,
	guarded:  true,
	route:    routeViaRouter,
}
