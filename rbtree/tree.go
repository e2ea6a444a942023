// Package rbtree implements the §4.2 NSEC3 interval tree: a red-black tree
// keyed by hashed owner name, augmented with subtree size (for O(1) chain
// cardinality), a cached wrap-around node and a running coverage distance
// over the 2^160 hash circle.
//
// Per §9's design note, nodes live in a single arena (a slice) addressed by
// index rather than by pointer, so parent/child/sibling back-references are
// plain ints with no cycle for the garbage collector to reason about and a
// sentinel index stands in for nil.
package rbtree

import (
	"bytes"
	"math/big"
)

// KeyLen is the width of tree keys: NSEC3 hashed owners are 20-byte SHA-1
// digests (§3).
const KeyLen = 20

// Key is a 160-bit hashed owner name.
type Key [KeyLen]byte

func (k Key) compare(o Key) int {
	return bytes.Compare(k[:], o[:])
}

// Compare returns -1, 0 or 1 as k is numerically less than, equal to, or
// greater than o, treating both as big-endian 160-bit integers.
func (k Key) Compare(o Key) int {
	return k.compare(o)
}

const nilIdx = -1

type color bool

const (
	red   color = true
	black color = false
)

type node struct {
	key         Key
	end         Key // int_end: next_hashed_owner
	value       any
	left, right int
	parent      int
	color       color
	size        int
	// wrap reports whether this node's interval numerically wraps past the
	// top of the hash circle (end <= key; end == key is a single interval
	// spanning the whole circle). At most one node may have wrap set.
	wrap bool
}

// Tree is an arena-backed red-black interval tree. The zero value is not
// usable; use New.
type Tree struct {
	nodes []node
	// free holds indices of deleted nodes available for reuse.
	free []int
	root int
	// lastIdx is the index of the single wrap-around node, or nilIdx.
	lastIdx int
	// covered is the sum of arc lengths of every stored interval, capped
	// conceptually at hashSpace = 2^160 (it cannot exceed that since
	// intervals are pairwise non-overlapping outside ignore-overlapping mode).
	covered *big.Int
}

// hashSpace is 2^160, the number of values on the hash circle.
// nolint:gochecknoglobals
var hashSpace = new(big.Int).Lsh(big.NewInt(1), 160)

// New returns an empty interval tree.
func New() *Tree {
	return &Tree{root: nilIdx, lastIdx: nilIdx, covered: new(big.Int)}
}

// Len returns the number of stored nodes (chain cardinality), O(1) via the
// root's augmented size.
func (t *Tree) Len() int {
	if t.root == nilIdx {
		return 0
	}

	return t.nodes[t.root].size
}

// CoveredDistance returns the sum of arc lengths over all stored intervals.
func (t *Tree) CoveredDistance() *big.Int {
	return new(big.Int).Set(t.covered)
}

// CoversFull reports whether the tree's coverage equals the entire 2^160
// hash circle.
func (t *Tree) CoversFull() bool {
	return t.covered.Cmp(hashSpace) >= 0
}

func (t *Tree) n(i int) *node {
	if i == nilIdx {
		return nil
	}

	return &t.nodes[i]
}

func (t *Tree) sizeOf(i int) int {
	if i == nilIdx {
		return 0
	}

	return t.nodes[i].size
}

func (t *Tree) fixSize(i int) {
	if i == nilIdx {
		return
	}

	t.nodes[i].size = 1 + t.sizeOf(t.nodes[i].left) + t.sizeOf(t.nodes[i].right)
}

// NodeHandle identifies a stored node for Delete/inspection. It remains
// valid until the node is deleted.
type NodeHandle int

// Key returns the node's key.
func (t *Tree) Key(h NodeHandle) Key { return t.nodes[h].key }

// End returns the node's int_end (next_hashed_owner).
func (t *Tree) End(h NodeHandle) Key { return t.nodes[h].end }

// Value returns the node's stored value.
func (t *Tree) Value(h NodeHandle) any { return t.nodes[h].value }

// IsWrap reports whether this node is the cached wrap-around ("last") node.
func (t *Tree) IsWrap(h NodeHandle) bool { return t.nodes[h].wrap }
