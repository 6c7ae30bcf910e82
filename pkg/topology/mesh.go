package topology

import "github.com/nikitakosatka/toposim/pkg/network"

// Every pair of mesh nodes is linked; traffic is delivered through the
// router straight to the destination.
var meshPolicy = policy{
	kind:     Mesh,
	nodeID:   familyID("mesh"),
	minNodes: 1,
	wiring:   network.FullMesh,
	guarded:  true,
	route:    routeViaRouter,
}
