package rbtree_test

import (
	"math/big"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/anonion0/n3map/rbtree"
)

func fill(b byte) rbtree.Key {
	var k rbtree.Key
	for i := range k {
		k[i] = b
	}

	return k
}

var (
	zeroKey = fill(0x00)
	maxKey  = fill(0xff)
	midKey  = fill(0x80)
	q1      = fill(0x40)
	q3      = fill(0xc0)
)

var _ = Describe("Tree", func() {
	var t *rbtree.Tree

	BeforeEach(func() {
		t = rbtree.New()
	})

	It("starts empty", func() {
		Expect(t.Len()).To(Equal(0))
		Expect(t.CoveredDistance().Sign()).To(Equal(0))
		Expect(t.CoversFull()).To(BeFalse())
	})

	It("finds an interval a plain insert covers", func() {
		_, updated := t.Insert(zeroKey, "a", midKey)
		Expect(updated).To(BeFalse())

		h, ok := t.FindInterval(q1)
		Expect(ok).To(BeTrue())
		Expect(t.Value(h)).To(Equal("a"))

		_, ok = t.FindInterval(q3)
		Expect(ok).To(BeFalse())
	})

	It("updates value and end on re-insert of an existing key", func() {
		t.Insert(zeroKey, "a", midKey)
		h, updated := t.Insert(zeroKey, "b", q3)
		Expect(updated).To(BeTrue())
		Expect(t.Value(h)).To(Equal("b"))
		Expect(t.End(h)).To(Equal(q3))
		Expect(t.Len()).To(Equal(1))
	})

	It("tracks covered distance as the sum of arc lengths", func() {
		t.Insert(zeroKey, "a", q1)
		t.Insert(q1, "b", midKey)

		want := new(big.Int).SetBytes(midKey[:])
		Expect(t.CoveredDistance()).To(Equal(want))
	})

	It("treats a key > end node as the wrap-around node", func() {
		h, _ := t.Insert(q3, "wrap", q1)
		Expect(t.IsWrap(h)).To(BeTrue())

		found, ok := t.FindInterval(maxKey)
		Expect(ok).To(BeTrue())
		Expect(t.Value(found)).To(Equal("wrap"))

		found, ok = t.FindInterval(zeroKey)
		Expect(ok).To(BeTrue())
		Expect(t.Value(found)).To(Equal("wrap"))
	})

	It("reports full coverage once two complementary intervals tile the circle", func() {
		t.Insert(zeroKey, "lower", midKey)
		t.Insert(midKey, "upper", zeroKey)

		Expect(t.CoversFull()).To(BeTrue())
	})

	It("walks successor and predecessor around the circle with wraparound", func() {
		ha, _ := t.Insert(zeroKey, "a", q1)
		hb, _ := t.Insert(q1, "b", midKey)
		hc, _ := t.Insert(midKey, "c", zeroKey)

		succ, ok := t.Successor(ha)
		Expect(ok).To(BeTrue())
		Expect(t.Value(succ)).To(Equal("b"))

		succ, ok = t.Successor(hb)
		Expect(ok).To(BeTrue())
		Expect(t.Value(succ)).To(Equal("c"))

		succ, ok = t.Successor(hc)
		Expect(ok).To(BeTrue())
		Expect(t.Value(succ)).To(Equal("a"))

		pred, ok := t.Predecessor(ha)
		Expect(ok).To(BeTrue())
		Expect(t.Value(pred)).To(Equal("c"))
	})

	It("shrinks size and coverage on delete and forgets a deleted wrap node", func() {
		ha, _ := t.Insert(zeroKey, "a", midKey)
		hb, _ := t.Insert(midKey, "wrap", zeroKey)
		Expect(t.CoversFull()).To(BeTrue())

		t.Delete(hb)
		Expect(t.Len()).To(Equal(1))
		Expect(t.CoversFull()).To(BeFalse())

		_, ok := t.FindInterval(q3)
		Expect(ok).To(BeFalse())

		t.Delete(ha)
		Expect(t.Len()).To(Equal(0))
		Expect(t.CoveredDistance().Sign()).To(Equal(0))
	})

	It("treats a single self-referencing node as full coverage", func() {
		// An empty zone's sole NSEC3 record has hashed_owner == next_hashed_owner,
		// i.e. key == end: the one record wraps the whole ring.
		t.Insert(zeroKey, "only", zeroKey)

		Expect(t.Len()).To(Equal(1))
		Expect(t.CoversFull()).To(BeTrue())
	})

	It("keeps the size invariant across many inserts and deletes", func() {
		var handles []rbtree.NodeHandle

		for i := 0; i < 64; i++ {
			k := fill(byte(i))
			h, _ := t.Insert(k, i, k)
			handles = append(handles, h)
		}

		Expect(t.Len()).To(Equal(64))

		for i := 0; i < 64; i += 2 {
			t.Delete(handles[i])
		}

		Expect(t.Len()).To(Equal(32))
	})
})
