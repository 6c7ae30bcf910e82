package topology

import "github.com/nikitakosatka/toposim/pkg/network"

// Ring nodes are linked to their predecessor and successor. Delivery goes
// straight to the destination through the router; messages do not hop.
var ringPolicy = policy{
	kind:     Ring,
	nodeID:   familyID("ring"),
	minNodes: 3,
	wiring:   network.Ring,
	guarded:  true,
	route:    routeViaRouter,
}
