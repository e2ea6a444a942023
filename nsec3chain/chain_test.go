package nsec3chain_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/anonion0/n3map/name"
	"github.com/anonion0/n3map/nsec3chain"
	"github.com/anonion0/n3map/rr"
)

func fillDigest(b byte) [20]byte {
	var d [20]byte
	for i := range d {
		d[i] = b
	}

	return d
}

func rec(hashed, next [20]byte) *rr.NSEC3 {
	return &rr.NSEC3{
		Zone:       "example.com.",
		Salt:       "ab",
		Iterations: 3,
		Algorithm:  1,
		Hashed:     hashed,
		NextHashed: next,
	}
}

var zone = mustZone()

func mustZone() name.DomainName {
	dn, err := name.FromString("example.com.")
	if err != nil {
		panic(err)
	}

	return dn
}

var _ = Describe("Chain", func() {
	var c *nsec3chain.Chain

	BeforeEach(func() {
		c = nsec3chain.New(zone, false)
	})

	It("accepts non-overlapping spans", func() {
		_, err := c.Insert(rec(fillDigest(0x00), fillDigest(0x80)), name.DomainName{}, false)
		Expect(err).NotTo(HaveOccurred())

		_, err = c.Insert(rec(fillDigest(0x80), fillDigest(0x00)), name.DomainName{}, false)
		Expect(err).NotTo(HaveOccurred())

		Expect(c.Len()).To(Equal(2))
		Expect(c.CoversFull()).To(BeTrue())
	})

	It("rejects a record whose hashing parameters differ from the first seen", func() {
		_, err := c.Insert(rec(fillDigest(0x00), fillDigest(0x80)), name.DomainName{}, false)
		Expect(err).NotTo(HaveOccurred())

		bad := rec(fillDigest(0x80), fillDigest(0x00))
		bad.Salt = "cd"
		_, err = c.Insert(bad, name.DomainName{}, false)
		Expect(err).To(MatchError(nsec3chain.ErrZoneChanged))
	})

	It("rejects overlapping spans unless overlap is tolerated", func() {
		_, err := c.Insert(rec(fillDigest(0x00), fillDigest(0x80)), name.DomainName{}, false)
		Expect(err).NotTo(HaveOccurred())

		_, err = c.Insert(rec(fillDigest(0x40), fillDigest(0xc0)), name.DomainName{}, false)
		Expect(err).To(MatchError(nsec3chain.ErrOverlap))

		tolerant := nsec3chain.New(zone, true)
		_, err = tolerant.Insert(rec(fillDigest(0x00), fillDigest(0x80)), name.DomainName{}, false)
		Expect(err).NotTo(HaveOccurred())

		_, err = tolerant.Insert(rec(fillDigest(0x40), fillDigest(0xc0)), name.DomainName{}, false)
		Expect(err).NotTo(HaveOccurred())
	})

	It("finds the span covering a hash once recorded", func() {
		_, err := c.Insert(rec(fillDigest(0x00), fillDigest(0x80)), name.DomainName{}, false)
		Expect(err).NotTo(HaveOccurred())

		found, ok := c.FindInterval(fillDigest(0x40))
		Expect(ok).To(BeTrue())
		Expect(found.NSEC3.Zone).To(Equal("example.com."))

		_, ok = c.FindInterval(fillDigest(0x90))
		Expect(ok).To(BeFalse())
	})
})
