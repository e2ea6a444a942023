package walker_test

import (
	"context"

	"github.com/miekg/dns"

	"github.com/anonion0/n3map/name"
)

// fakeQuerier is a scripted Querier: respond is invoked with the 1-based
// call number so tests can script a sequence of responses without having to
// predict the exact synthetic names the walker under test constructs.
type fakeQuerier struct {
	respond func(call int, dn name.DomainName, rrtype uint16) (*dns.Msg, error)

	calls           int
	errors, resets  int
	timeouts        int
}

func (f *fakeQuerier) Query(_ context.Context, dn name.DomainName, rrtype uint16) (*dns.Msg, string, error) {
	f.calls++

	msg, err := f.respond(f.calls, dn, rrtype)

	return msg, "ns1", err
}

func (f *fakeQuerier) AddNSError(string)   { f.errors++ }
func (f *fakeQuerier) AddNSTimeout(string) { f.timeouts++ }
func (f *fakeQuerier) ResetErrors(string)  { f.resets++ }
func (f *fakeQuerier) QueryRate() float64  { return 1.0 }

func mustDN(s string) name.DomainName {
	dn, err := name.FromString(s)
	if err != nil {
		panic(err)
	}

	return dn
}

func nsecMsg(owner, next, signer string, rcode int) *dns.Msg {
	msg := new(dns.Msg)
	msg.Rcode = rcode
	msg.Ns = []dns.RR{
		&dns.NSEC{
			Hdr:        dns.RR_Header{Name: owner, Rrtype: dns.TypeNSEC},
			NextDomain: next,
		},
		&dns.RRSIG{
			Hdr:         dns.RR_Header{Name: owner, Rrtype: dns.TypeRRSIG},
			TypeCovered: dns.TypeNSEC,
			SignerName:  signer,
		},
	}

	return msg
}

func emptyAnswerMsg() *dns.Msg {
	msg := new(dns.Msg)
	msg.Rcode = dns.RcodeSuccess

	return msg
}
