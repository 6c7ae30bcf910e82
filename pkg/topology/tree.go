package topology

import "github.com/nikitakosatka/toposim/pkg/network"

// Tree nodes form a binary heap: node i has parent (i-1)/2 and children
// 2i+1 and 2i+2. Delivery is direct through the router.
var treePolicy = policy{
	kind:     Tree,
	nodeID:   familyID("tree"),
	minNodes: 1,
	wiring:   network.BinaryTree,
	guarded:  true,
	route:    routeViaRouter,
}
