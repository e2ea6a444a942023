package queryprovider_test

import (
	"context"
	"time"

	"github.com/miekg/dns"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/anonion0/n3map/name"
	"github.com/anonion0/n3map/queryprovider"
)

var _ = Describe("Provider", func() {
	var dn name.DomainName

	BeforeEach(func() {
		var err error
		dn, err = name.FromString("www.example.com.")
		Expect(err).NotTo(HaveOccurred())
	})

	It("returns the answer from a well-behaved server", func() {
		srv := newMockServer(func(req *dns.Msg) *dns.Msg {
			resp := new(dns.Msg)
			resp.Rcode = dns.RcodeSuccess

			return resp
		})
		defer srv.close()

		p := queryprovider.New([]string{srv.addr()}, queryprovider.Options{
			MaxRetries: 2, MaxErrors: 2, QueryInterval: 0, Timeout: time.Second,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		resp, ns, err := p.Query(ctx, dn, dns.TypeA)
		Expect(err).NotTo(HaveOccurred())
		Expect(ns).To(Equal(srv.addr()))
		Expect(resp.Rcode).To(Equal(dns.RcodeSuccess))
	})

	It("falls over to the next server when one never answers", func() {
		bad := newMockServer(func(req *dns.Msg) *dns.Msg { return nil })
		defer bad.close()

		good := newMockServer(func(req *dns.Msg) *dns.Msg {
			resp := new(dns.Msg)
			resp.Rcode = dns.RcodeSuccess

			return resp
		})
		defer good.close()

		p := queryprovider.New([]string{bad.addr(), good.addr()}, queryprovider.Options{
			MaxRetries: 0, MaxErrors: 0, QueryInterval: 0, Timeout: 100 * time.Millisecond,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		_, ns, err := p.Query(ctx, dn, dns.TypeA)
		Expect(err).NotTo(HaveOccurred())
		Expect(ns).To(Equal(good.addr()))
	})

	It("fails with ErrNoServersLeft once every server is evicted", func() {
		bad := newMockServer(func(req *dns.Msg) *dns.Msg { return nil })
		defer bad.close()

		p := queryprovider.New([]string{bad.addr()}, queryprovider.Options{
			MaxRetries: 0, MaxErrors: 0, QueryInterval: 0, Timeout: 50 * time.Millisecond,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		_, _, err := p.Query(ctx, dn, dns.TypeA)
		Expect(err).To(MatchError(queryprovider.ErrNoServersLeft))
	})

	It("reports a query rate over the sliding window", func() {
		srv := newMockServer(func(req *dns.Msg) *dns.Msg {
			resp := new(dns.Msg)
			resp.Rcode = dns.RcodeSuccess

			return resp
		})
		defer srv.close()

		p := queryprovider.New([]string{srv.addr()}, queryprovider.Options{
			MaxRetries: 1, MaxErrors: 1, QueryInterval: 0, Timeout: time.Second,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		_, _, err := p.Query(ctx, dn, dns.TypeA)
		Expect(err).NotTo(HaveOccurred())

		Expect(p.QueryRate()).To(BeNumerically(">", 0))
	})
})
