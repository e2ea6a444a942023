package record

import (
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonion0/n3map/name"
	"github.com/anonion0/n3map/rr"
)

func mustDomain(t *testing.T, s string) name.DomainName {
	t.Helper()

	dn, err := name.FromString(s)
	require.NoError(t, err)

	return dn
}

func TestFormatParseNSECRoundTrips(t *testing.T) {
	owner := mustDomain(t, "www.example.com.")
	next := mustDomain(t, "ftp.example.com.")

	n := &rr.NSEC{
		RR:    &dns.NSEC{Hdr: dns.RR_Header{Name: owner.String(), Rrtype: dns.TypeNSEC, Ttl: 3600}},
		Owner: owner,
		Next:  next,
		Types: []uint16{dns.TypeA, dns.TypeRRSIG, dns.TypeNSEC},
	}

	line := formatNSEC(n)
	assert.Equal(t, "www.example.com. 3600 IN NSEC ftp.example.com. A RRSIG NSEC", line)

	got, err := parseNSEC(line)
	require.NoError(t, err)
	assert.True(t, got.Owner.Equal(owner))
	assert.True(t, got.Next.Equal(next))
	assert.Equal(t, n.Types, got.Types)
}

func TestParseNSECRejectsMalformedLine(t *testing.T) {
	_, err := parseNSEC("not a valid record line")
	assert.Error(t, err)
}
