package topology

import "github.com/nikitakosatka/toposim/pkg/network"

// HyperCube nodes are linked when their indices differ in one bit. The node
// count must be a power of two. Delivery is direct through the router.
var hyperCubePolicy = policy{
	kind:       HyperCube,
	nodeID:     familyID("hypercube"),
	minNodes:   2,
	powerOfTwo: true,
	wiring:     network.HyperCube,
	guarded:    true,
	route:      routeViaRouter,
}
