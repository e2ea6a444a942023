package walker_test

import (
	"context"

	"github.com/miekg/dns"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/anonion0/n3map/name"
	"github.com/anonion0/n3map/rr"
	"github.com/anonion0/n3map/walker"
)

func digest(fill byte) [rr.DigestLength]byte {
	var d [rr.DigestLength]byte
	for i := range d {
		d[i] = fill
	}

	return d
}

func nsec3Msg(hashed, next [rr.DigestLength]byte, zone, salt string, iterations uint16) *dns.Msg {
	owner := rr.ToBase32Hex(hashed[:]) + "." + zone

	msg := new(dns.Msg)
	msg.Rcode = dns.RcodeNameError
	msg.Ns = []dns.RR{
		&dns.NSEC3{
			Hdr:        dns.RR_Header{Name: owner, Rrtype: dns.TypeNSEC3},
			Hash:       dns.SHA1,
			Iterations: iterations,
			Salt:       salt,
			NextDomain: rr.ToBase32Hex(next[:]),
		},
	}

	return msg
}

var _ = Describe("NSEC3Walker", func() {
	zone := mustDN("example.com.")

	It("bootstraps and closes the hash circle from two complementary spans", func() {
		fq := &fakeQuerier{
			respond: func(call int, dn name.DomainName, rrtype uint16) (*dns.Msg, error) {
				switch call {
				case 1:
					return nsec3Msg(digest(0x00), digest(0x80), "example.com.", "ab", 3), nil
				default:
					return nsec3Msg(digest(0x80), digest(0x00), "example.com.", "ab", 3), nil
				}
			},
		}

		var emitted int

		w := walker.NewNSEC3Walker(fq, walker.NSEC3Options{
			Zone: zone, Workers: 1, ElementSize: 4, LabelCounterInit: 0,
		}, nil)

		err := w.Walk(context.Background(), func(*rr.NSEC3, name.DomainName, bool) { emitted++ })

		Expect(err).NotTo(HaveOccurred())
		Expect(w.Chain().Len()).To(Equal(2))
		Expect(w.Chain().CoversFull()).To(BeTrue())
		Expect(emitted).To(Equal(2))
		Expect(fq.calls).To(BeNumerically(">=", 2))
	})

	It("aborts when a bootstrap NSEC3 minimally covers (RFC 7129 white lie)", func() {
		fq := &fakeQuerier{
			respond: func(call int, dn name.DomainName, rrtype uint16) (*dns.Msg, error) {
				next := digest(0x00)
				next[rr.DigestLength-1] = 0x02

				return nsec3Msg(digest(0x00), next, "example.com.", "ab", 3), nil
			},
		}

		w := walker.NewNSEC3Walker(fq, walker.NSEC3Options{
			Zone: zone, Workers: 1, ElementSize: 4,
		}, nil)

		err := w.Walk(context.Background(), func(*rr.NSEC3, name.DomainName, bool) {})

		Expect(err).To(MatchError(walker.ErrMinimallyCovering))
	})
})
