// Package network holds the wiring rules of the supported topologies as pure
// index arithmetic. Every function returns, for each node index, the sorted
// indices of its neighbors; no node ever lists itself.
package network

import (
	"math/bits"
	"sort"
)

// Wiring computes the adjacency lists of an n-node topology.
type Wiring func(n int) [][]int

// Isolated wires nothing; all traffic goes through an intermediary.
func Isolated(n int) [][]int {
	return make([][]int, max(n, 0))
}

// FullMesh links every pair of distinct nodes.
func FullMesh(n int) [][]int {
	adj := Isolated(n)
	for i := range adj {
		adj[i] = make([]int, 0, n-1)
		for j := 0; j < n; j++ {
			if i != j {
				adj[i] = append(adj[i], j)
			}
		}
	}
	return adj
}

// Hub is the index of the central node of a star.
const Hub = 0

// Star links every node to the hub and nothing else.
func Star(n int) [][]int {
	adj := Isolated(n)
	for i := range adj {
		if i == Hub {
			continue
		}
		adj[i] = []int{Hub}
		adj[Hub] = append(adj[Hub], i)
	}
	return adj
}

// RingNeighbors returns the predecessor and successor of i on an n-ring.
func RingNeighbors(i, n int) []int {
	return dedupe([]int{(i - 1 + n) % n, (i + 1) % n}, i)
}

// Ring links every node to its predecessor and successor modulo n.
func Ring(n int) [][]int {
	adj := Isolated(n)
	for i := range adj {
		adj[i] = RingNeighbors(i, n)
	}
	return adj
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Dimensions returns log2(n) for a power of two n.
func Dimensions(n int) int {
	return bits.TrailingZeros(uint(n))
}

// HyperCubeNeighbors returns i with each of its dims low bits flipped.
func HyperCubeNeighbors(i, dims int) []int {
	result := make([]int, 0, dims)
	for d := 0; d < dims; d++ {
		result = append(result, i^(1<<d))
	}
	sort.Ints(result)
	return result
}

// HyperCube links nodes whose indices differ in exactly one bit. n must be a
// power of two.
func HyperCube(n int) [][]int {
	adj := Isolated(n)
	dims := Dimensions(n)
	for i := range adj {
		adj[i] = HyperCubeNeighbors(i, dims)
	}
	return adj
}

// Parent returns the parent index of i in a binary tree, -1 for the root.
func Parent(i int) int {
	if i <= 0 {
		return -1
	}
	return (i - 1) / 2
}

// Children returns the child indices of i that exist in an n-node binary tree.
func Children(i, n int) []int {
	var result []int
	for _, c := range []int{2*i + 1, 2*i + 2} {
		if c < n {
			result = append(result, c)
		}
	}
	return result
}

// BinaryTree links every node to its parent and children by heap indexing.
func BinaryTree(n int) [][]int {
	adj := Isolated(n)
	for i := range adj {
		var neighbors []int
		if p := Parent(i); p >= 0 {
			neighbors = append(neighbors, p)
		}
		adj[i] = append(neighbors, Children(i, n)...)
	}
	return adj
}

func dedupe(indices []int, self int) []int {
	seen := make(map[int]bool, len(indices))
	result := make([]int, 0, len(indices))
	for _, idx := range indices {
		if idx == self || seen[idx] {
			continue
		}
		seen[idx] = true
		result = append(result, idx)
	}
	sort.Ints(result)
	return result
}
