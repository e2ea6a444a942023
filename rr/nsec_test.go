package rr

import (
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonion0/n3map/name"
)

func mustName(t *testing.T, s string) name.DomainName {
	t.Helper()

	dn, err := name.FromString(s)
	require.NoError(t, err)

	return dn
}

func TestNSECFromSectionAndCovers(t *testing.T) {
	section := []dns.RR{
		&dns.NSEC{
			Hdr:        dns.RR_Header{Name: "b.example.com.", Rrtype: dns.TypeNSEC},
			NextDomain: "d.example.com.",
			TypeBitMap: []uint16{dns.TypeA},
		},
		&dns.RRSIG{
			Hdr:         dns.RR_Header{Name: "b.example.com.", Rrtype: dns.TypeRRSIG},
			TypeCovered: dns.TypeNSEC,
			SignerName:  "example.com.",
		},
	}

	nsecs, err := NSECFromSection(section)
	require.NoError(t, err)
	require.Len(t, nsecs, 1)

	n := nsecs[0]
	require.NoError(t, n.Validate(mustName(t, "example.com.")))

	signer, ok := n.SignerZone()
	require.True(t, ok)
	assert.True(t, mustName(t, "example.com.").Equal(signer))

	zone := mustName(t, "example.com.")
	assert.True(t, n.Covers(mustName(t, "c.example.com."), zone, true))
	assert.False(t, n.Covers(mustName(t, "e.example.com."), zone, true))
	assert.True(t, n.HasType(dns.TypeA))
	assert.False(t, n.HasType(dns.TypeAAAA))
}

func TestNSECApexWrapCovers(t *testing.T) {
	zone := mustName(t, "example.com.")

	section := []dns.RR{
		&dns.NSEC{
			Hdr:        dns.RR_Header{Name: "z.example.com.", Rrtype: dns.TypeNSEC},
			NextDomain: "example.com.",
		},
	}

	nsecs, err := NSECFromSection(section)
	require.NoError(t, err)

	n := nsecs[0]
	require.NoError(t, n.Validate(zone))

	// wraps: owner >= q, next == zone apex.
	assert.True(t, n.Covers(mustName(t, "zz.example.com."), zone, true))
	assert.False(t, n.Covers(mustName(t, "a.example.com."), zone, true))
}

func TestNSECValidateRejectsEqualOwnerNext(t *testing.T) {
	n := &NSEC{Owner: mustName(t, "a.example.com."), Next: mustName(t, "a.example.com.")}
	err := n.Validate(mustName(t, "example.com."))
	assert.ErrorIs(t, err, ErrInvalidNSEC)
}

func TestNSECValidateRejectsBadOrderingWithoutWrap(t *testing.T) {
	n := &NSEC{Owner: mustName(t, "z.example.com."), Next: mustName(t, "a.example.com.")}
	err := n.Validate(mustName(t, "example.com."))
	assert.ErrorIs(t, err, ErrInvalidNSEC)
}
