// Package rr wraps the three record types the walkers consume — NSEC,
// NSEC3 and RRSIG — adding the domain-specific operations spec'd in §3/§4:
// covering tests, invariant checks and NSEC3 hashing, grounded on how
// blocky's resolver/dnssec package already reads these same wire records
// out of a *dns.Msg (see resolver/dnssec/nsec.go, nsec3.go).
package rr

import (
	"errors"
	"fmt"

	"github.com/miekg/dns"

	"github.com/anonion0/n3map/name"
)

// ErrInvalidNSEC is the §3 "owner != next_owner" invariant violation, fatal
// per §7 unless the record legitimately wraps to the zone apex.
var ErrInvalidNSEC = errors.New("rr: invalid NSEC record")

// NSEC wraps a parsed dns.NSEC with its owner/next as canonical DomainNames.
type NSEC struct {
	RR      *dns.NSEC
	Owner   name.DomainName
	Next    name.DomainName
	Types   []uint16
	RRSig   *dns.RRSIG // signer used for sub-zone detection, may be nil
}

// NSECFromSection extracts every NSEC record from an RR slice (answer or
// authority section), pairing each with a covering RRSIG if present in the
// same slice, matching extractNSECRecords+signer lookup in blocky's
// nsec.go.
func NSECFromSection(section []dns.RR) ([]*NSEC, error) {
	var sigs []*dns.RRSIG

	for _, r := range section {
		if sig, ok := r.(*dns.RRSIG); ok && sig.TypeCovered == dns.TypeNSEC {
			sigs = append(sigs, sig)
		}
	}

	var out []*NSEC

	for _, r := range section {
		nsec, ok := r.(*dns.NSEC)
		if !ok {
			continue
		}

		owner, err := name.FromString(nsec.Hdr.Name)
		if err != nil {
			return nil, fmt.Errorf("rr: bad NSEC owner %q: %w", nsec.Hdr.Name, err)
		}

		next, err := name.FromString(nsec.NextDomain)
		if err != nil {
			return nil, fmt.Errorf("rr: bad NSEC next-owner %q: %w", nsec.NextDomain, err)
		}

		n := &NSEC{RR: nsec, Owner: owner, Next: next, Types: append([]uint16(nil), nsec.TypeBitMap...)}

		for _, sig := range sigs {
			if sig.Hdr.Name == nsec.Hdr.Name {
				n.RRSig = sig
				break
			}
		}

		out = append(out, n)
	}

	return out, nil
}

// Validate enforces the §3 NSEC invariant: owner != next_owner, and a
// non-wrapping record (next_owner != zone apex) must have owner < next.
func (n *NSEC) Validate(zone name.DomainName) error {
	if n.Owner.Equal(n.Next) {
		return fmt.Errorf("%w: owner equals next-owner at %s", ErrInvalidNSEC, n.Owner)
	}

	if name.Compare(n.Owner, n.Next) > 0 && !n.Next.Equal(zone) {
		return fmt.Errorf("%w: owner %s > next-owner %s but next-owner is not the zone apex",
			ErrInvalidNSEC, n.Owner, n.Next)
	}

	return nil
}

// Covers implements the §4.4 "covering test": q is covered by this NSEC
// record if it falls in [owner, next] (closed, wrap-aware), or the record
// wraps to the zone apex and owner >= q (apex wrap).
//
// inclusive selects the NSEC-mode semantics (closed interval); A-mode
// NXDOMAIN results use the exclusive form since q is a synthetic name
// known not to equal either endpoint.
func (n *NSEC) Covers(q, zone name.DomainName, inclusive bool) bool {
	if n.Next.Equal(zone) && name.Compare(n.Owner, q) >= 0 {
		return true
	}

	if inclusive {
		return q.CoveredBy(n.Owner, n.Next)
	}

	return q.CoveredByExclusive(n.Owner, n.Next)
}

// SignerZone returns the RRSIG signer name covering this NSEC, or nil if no
// RRSIG was paired with it.
func (n *NSEC) SignerZone() (name.DomainName, bool) {
	if n.RRSig == nil {
		return nil, false
	}

	z, err := name.FromString(n.RRSig.SignerName)
	if err != nil {
		return nil, false
	}

	return z, true
}

// HasType reports whether the NSEC type bitmap claims qtype exists at owner.
func (n *NSEC) HasType(qtype uint16) bool {
	for _, t := range n.Types {
		if t == qtype {
			return true
		}
	}

	return false
}
