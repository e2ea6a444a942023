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

var _ = Describe("NSECWalker", func() {
	zone := mustDN("example.com.")

	It("reconstructs a two-record chain and closes on wraparound", func() {
		fq := &fakeQuerier{
			respond: func(call int, dn name.DomainName, rrtype uint16) (*dns.Msg, error) {
				switch call {
				case 1:
					return nsecMsg("example.com.", "m.example.com.", "example.com.", dns.RcodeNameError), nil
				case 2:
					return nsecMsg("m.example.com.", "example.com.", "example.com.", dns.RcodeNameError), nil
				default:
					Fail("unexpected extra query")

					return nil, nil
				}
			},
		}

		var chain []*rr.NSEC

		w := walker.NewNSECWalker(fq, walker.NSECOptions{Zone: zone, Mode: walker.ModeNSEC})
		err := w.Walk(context.Background(), func(n *rr.NSEC) { chain = append(chain, n) })

		Expect(err).NotTo(HaveOccurred())
		Expect(chain).To(HaveLen(2))
		Expect(fq.calls).To(Equal(2))
		Expect(w.Status().ChainSize).To(Equal(2))
	})

	It("retries past an ERROR classification without advancing the chain", func() {
		fq := &fakeQuerier{
			respond: func(call int, dn name.DomainName, rrtype uint16) (*dns.Msg, error) {
				switch call {
				case 1:
					return emptyAnswerMsg(), nil
				case 2:
					return nsecMsg("zzzzzzzz.example.com.", "example.com.", "example.com.", dns.RcodeNameError), nil
				default:
					Fail("unexpected extra query")

					return nil, nil
				}
			},
		}

		var chain []*rr.NSEC

		w := walker.NewNSECWalker(fq, walker.NSECOptions{Zone: zone, Mode: walker.ModeNSEC})
		err := w.Walk(context.Background(), func(n *rr.NSEC) { chain = append(chain, n) })

		Expect(err).NotTo(HaveOccurred())
		Expect(chain).To(HaveLen(1))
		Expect(fq.calls).To(Equal(2))
	})

	It("steps over a sub-zone indication and then closes the chain", func() {
		fq := &fakeQuerier{
			respond: func(call int, dn name.DomainName, rrtype uint16) (*dns.Msg, error) {
				switch call {
				case 1:
					return nsecMsg("example.com.", "m.example.com.", "sub.example.com.", dns.RcodeNameError), nil
				case 2:
					// Owner equals the exact synthetic name the walker just
					// queried, apex-wrapping straight back to the zone — this
					// closes the chain in one step regardless of which
					// leftmost-label value stepping over the sub-zone produced.
					return nsecMsg(dn.String(), "example.com.", "example.com.", dns.RcodeNameError), nil
				default:
					Fail("unexpected extra query")

					return nil, nil
				}
			},
		}

		var chain []*rr.NSEC

		w := walker.NewNSECWalker(fq, walker.NSECOptions{
			Zone: zone, Mode: walker.ModeNSEC, Alphabet: name.AlphabetLdh,
		})
		err := w.Walk(context.Background(), func(n *rr.NSEC) { chain = append(chain, n) })

		Expect(err).NotTo(HaveOccurred())
		Expect(chain).To(HaveLen(1))
		Expect(fq.calls).To(Equal(2))
	})
})
