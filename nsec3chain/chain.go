// Package nsec3chain wraps the interval tree in rbtree with the bookkeeping
// a single NSEC3 walk needs: the zone's hashing parameters must stay
// constant for the whole walk, and newly inserted spans must not overlap
// anything already recorded (unless the operator has accepted that the zone
// may be changing underneath the walk).
package nsec3chain

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/anonion0/n3map/log"
	"github.com/anonion0/n3map/name"
	"github.com/anonion0/n3map/rbtree"
	"github.com/anonion0/n3map/rr"
)

// ErrZoneChanged is returned when an incoming NSEC3 record's hashing
// parameters or zone no longer match the first record this chain saw.
var ErrZoneChanged = errors.New("nsec3chain: zone, salt or iterations changed mid-walk")

// ErrOverlap is returned by Insert when the new interval overlaps an
// already-recorded one and overlap tolerance is not enabled.
var ErrOverlap = errors.New("nsec3chain: overlapping NSEC3 interval")

// Record is the value stored at each tree node: the NSEC3 record an owner
// hash was learned from, plus the plaintext owner name when known (it is
// not always known — an NSEC3 can be discovered via an intermediate hash
// the walker computed itself before it has a plaintext label for it).
type Record struct {
	NSEC3 *rr.NSEC3
	Owner name.DomainName
	Known bool
}

// Chain accumulates the NSEC3 interval coverage of a single zone walk.
type Chain struct {
	tree   *rbtree.Tree
	zone   name.DomainName
	seeded bool
	params rr.NSEC3

	ignoreOverlapping bool
}

// New returns an empty chain for the given zone. ignoreOverlapping governs
// Insert's behavior when two spans overlap: when false Insert returns
// ErrOverlap; when true it logs a warning and keeps both spans.
func New(zone name.DomainName, ignoreOverlapping bool) *Chain {
	return &Chain{tree: rbtree.New(), zone: zone, ignoreOverlapping: ignoreOverlapping}
}

// Len returns the number of distinct NSEC3 owners recorded so far.
func (c *Chain) Len() int { return c.tree.Len() }

// Seeded reports whether a first NSEC3 record has fixed this chain's
// hashing parameters yet.
func (c *Chain) Seeded() bool { return c.seeded }

// Salt returns the chain's seeded salt, or "" if not yet seeded.
func (c *Chain) Salt() string { return c.params.Salt }

// Iterations returns the chain's seeded iteration count, or 0 if not yet
// seeded.
func (c *Chain) Iterations() uint16 { return c.params.Iterations }

// CoversFull reports whether the recorded spans cover the entire hash
// circle, i.e. the zone has been fully mapped.
func (c *Chain) CoversFull() bool { return c.tree.CoversFull() }

// CoveredDistance returns the sum of arc lengths of every recorded span.
func (c *Chain) CoveredDistance() *big.Int { return c.tree.CoveredDistance() }

// checkParams enforces the first-seen (salt, iterations, zone) invariant.
func (c *Chain) checkParams(rec *rr.NSEC3) error {
	if !c.seeded {
		c.params = *rec
		c.seeded = true

		return nil
	}

	if !c.params.SameParameters(rec) {
		return fmt.Errorf("%w: have salt=%q iterations=%d zone=%q, got salt=%q iterations=%d zone=%q",
			ErrZoneChanged, c.params.Salt, c.params.Iterations, c.params.Zone,
			rec.Salt, rec.Iterations, rec.Zone)
	}

	return nil
}

// Insert records the span [hashed, nextHashed) proved by rec, attributing
// it to owner when the plaintext name is known (pass name.DomainName{},
// false when it isn't, e.g. a span discovered only via its hash).
//
// It validates rec's hashing parameters against the chain's first-seen
// parameters, then checks the new node's in-order neighbours for overlap
// per the rule in checkOverlap.
func (c *Chain) Insert(rec *rr.NSEC3, owner name.DomainName, known bool) (bool, error) {
	if err := c.checkParams(rec); err != nil {
		return false, err
	}

	var key, end rbtree.Key
	copy(key[:], rec.Hashed[:])
	copy(end[:], rec.NextHashed[:])

	h, wasUpdated := c.tree.Insert(key, Record{NSEC3: rec, Owner: owner, Known: known}, end)

	if err := c.checkOverlap(h); err != nil {
		return wasUpdated, err
	}

	return wasUpdated, nil
}

// checkOverlap implements §4.2's overlap rule: after inserting node X,
// overlap ⇔ P.int_end > X.key or X.int_end > S.key, where P and S are X's
// in-order predecessor and successor.
func (c *Chain) checkOverlap(h rbtree.NodeHandle) error {
	key := c.tree.Key(h)
	end := c.tree.End(h)

	if pred, ok := c.tree.Predecessor(h); ok && pred != h {
		if c.tree.End(pred).Compare(key) > 0 {
			return c.overlapErr()
		}
	}

	if succ, ok := c.tree.Successor(h); ok && succ != h {
		if end.Compare(c.tree.Key(succ)) > 0 {
			return c.overlapErr()
		}
	}

	return nil
}

func (c *Chain) overlapErr() error {
	if c.ignoreOverlapping {
		log.WithPrefix("nsec3chain").Warn(
			"overlapping NSEC3 interval; zone contents likely changed mid-walk, continuing")

		return nil
	}

	return ErrOverlap
}

// FindInterval locates the span covering hashed, if one has been recorded.
func (c *Chain) FindInterval(hashed [rbtree.KeyLen]byte) (Record, bool) {
	h, ok := c.tree.FindInterval(rbtree.Key(hashed))
	if !ok {
		return Record{}, false
	}

	return c.tree.Value(h).(Record), true
}
