// Package topology builds node sets wired after classical network topologies
// and routes test traffic through them.
package topology

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nikitakosatka/toposim/pkg/toposim"
)

// Topology is the lifecycle every simulated network exposes.
type Topology interface {
	// Kind returns which topology this is.
	Kind() Kind

	// Configure creates n nodes and wires them.
	Configure(n int) error

	// Run starts the dispatch loop of every node.
	Run() error

	// Send delivers text from node index from to node index to according to
	// the routing policy of the topology.
	Send(from, to int, text string) error

	// Shutdown stops the nodes and releases the workers. It is safe to call
	// more than once.
	Shutdown()

	// Nodes returns the nodes ordered by index.
	Nodes() []*toposim.Node
}

// Kind enumerates the supported topologies. The values double as menu numbers.
type Kind int

const (
	Mesh Kind = iota + 1
	Star
	FullyConnected
	Switched
	Bus
	Ring
	HyperCube
	Tree
)

// Kinds lists every topology in menu order.
var Kinds = []Kind{Mesh, Star, FullyConnected, Switched, Bus, Ring, HyperCube, Tree}

var kindNames = map[Kind]string{
	Mesh:           "mesh",
	Star:           "star",
	FullyConnected: "fully-connected",
	Switched:       "switched",
	Bus:            "bus",
	Ring:           "ring",
	HyperCube:      "hypercube",
	Tree:           "tree",
}

var kindLabels = map[Kind]string{
	Mesh:           "Mesh Network",
	Star:           "Star Network",
	FullyConnected: "Fully Connected Network",
	Switched:       "Switched Network",
	Bus:            "Bus Network",
	Ring:           "Ring Network",
	HyperCube:      "HyperCube Network",
	Tree:           "Tree Network",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Label returns the human readable menu label.
func (k Kind) Label() string {
	if label, ok := kindLabels[k]; ok {
		return label
	}
	return k.String()
}

// Valid reports whether k names a supported topology.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind accepts a menu number or a name ("fully-connected",
// "fullyconnected" and "fully_connected" are equivalent).
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if k := Kind(n); k.Valid() {
			return k, nil
		}
		return 0, fmt.Errorf("%w: unknown topology number %d", toposim.ErrInvalidArgument, n)
	}

	normalized := strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
	for k, name := range kindNames {
		if strings.ReplaceAll(name, "-", "") == normalized {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown topology %q", toposim.ErrInvalidArgument, s)
}

// New creates an unconfigured topology of the given kind.
func New(kind Kind, opts ...Option) (*Network, error) {
	p, ok := policies[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown topology %s", toposim.ErrInvalidArgument, kind)
	}
	return newNetwork(p, NewConfig(opts...)), nil
}

var policies = map[Kind]policy{
	Mesh:           meshPolicy,
	Star:           starPolicy,
	FullyConnected: fullyConnectedPolicy,
	Switched:       switchedPolicy,
	Bus:            busPolicy,
	Ring:           ringPolicy,
	HyperCube:      hyperCubePolicy,
	Tree:           treePolicy,
}
