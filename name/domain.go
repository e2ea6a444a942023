package name

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/miekg/dns"
)

// MaxWireLength is the maximum total length of a domain name in wire form
// (RFC 1035 §3.1).
const MaxWireLength = 255

// ErrMaxDomainNameLength is raised when an operation would produce a name
// exceeding MaxWireLength.
var ErrMaxDomainNameLength = errors.New("name: domain name would exceed the maximum wire length")

// DomainName is an ordered sequence of labels, most-significant (TLD-most)
// label last, matching how zones are walked: labels are compared and
// extended left-to-right from the owner name towards the root.
type DomainName []Label

// FromString parses a presentation-format domain name ("www.example.com.")
// into canonical labels using miekg/dns's escaping-aware splitter.
func FromString(s string) (DomainName, error) {
	labels := dns.SplitDomainName(s)

	dn := make(DomainName, 0, len(labels))

	for _, l := range labels {
		lbl, err := NewLabel([]byte(l))
		if err != nil {
			return nil, err
		}

		dn = append(dn, lbl)
	}

	if dn.wireLength() > MaxWireLength {
		return nil, ErrMaxDomainNameLength
	}

	return dn, nil
}

func (d DomainName) wireLength() int {
	total := 1 // root zero-octet
	for _, l := range d {
		total += len(l) + 1
	}

	return total
}

// String renders the domain name in presentation format.
func (d DomainName) String() string {
	if len(d) == 0 {
		return "."
	}

	parts := make([]string, len(d))
	for i, l := range d {
		parts[i] = dns.EscapeFQDN(string(l))
	}

	return strings.Join(parts, ".") + "."
}

// Equal reports byte-for-byte equality of canonical labels.
func (d DomainName) Equal(o DomainName) bool {
	if len(d) != len(o) {
		return false
	}

	for i := range d {
		if !bytes.Equal(d[i], o[i]) {
			return false
		}
	}

	return true
}

// canonicalKey returns the label-reversed byte sequence used for canonical
// ordering: the root-most label first. Since DomainName is already stored
// root-most-last, we walk back to front. Each label byte is written as the
// pair (0x01, byte) and each label ends with 0x00, so a label sorts before
// any longer label it is a prefix of, and labels compare byte by byte
// regardless of their lengths.
func (d DomainName) canonicalKey() []byte {
	var buf bytes.Buffer

	for i := len(d) - 1; i >= 0; i-- {
		for _, c := range d[i] {
			buf.WriteByte(1)
			buf.WriteByte(c)
		}

		buf.WriteByte(0)
	}

	return buf.Bytes()
}

// Compare implements canonical DNS name ordering (RFC 4034 §6.1): compare
// labels starting from the root, most-significant label first.
func Compare(a, b DomainName) int {
	return bytes.Compare(a.canonicalKey(), b.canonicalKey())
}

// PartOfZone reports whether d is equal to or a subdomain of zone.
func (d DomainName) PartOfZone(zone DomainName) bool {
	if len(d) < len(zone) {
		return false
	}

	offset := len(d) - len(zone)
	for i, zl := range zone {
		if !bytes.Equal(d[offset+i], zl) {
			return false
		}
	}

	return true
}

// Split returns the leftmost k labels and the remaining suffix, so that
// Split(k) on "a.b.c.example.com." with k=2 yields ("a.b", "c.example.com.").
func (d DomainName) Split(k int) (prefix, suffix DomainName, err error) {
	if k < 0 || k > len(d) {
		return nil, nil, fmt.Errorf("name: split index %d out of range [0,%d]", k, len(d))
	}

	return d[:k], d[k:], nil
}

// NextLabelAdd prepends a minimal new label (the smallest label in the given
// alphabet) to d, producing a synthetic child name guaranteed not to exist
// unless the zone itself published it.
func (d DomainName) NextLabelAdd(alpha Alphabet) (DomainName, error) {
	var first byte

	switch alpha {
	case AlphabetBinary:
		first = 0x00
	case AlphabetLdh:
		first = '0'
	default:
		return nil, fmt.Errorf("name: unknown alphabet %v", alpha)
	}

	lbl, err := NewLabel([]byte{first})
	if err != nil {
		return nil, err
	}

	out := make(DomainName, 0, len(d)+1)
	out = append(out, lbl)
	out = append(out, d...)

	if out.wireLength() > MaxWireLength {
		return nil, ErrMaxDomainNameLength
	}

	return out, nil
}

// NextExtendIncrease extends the leftmost label by one byte if there's room,
// else increases (increments) it. This is the core "synthesize a name that
// sorts just after d in canonical order" primitive used by A-mode walking
// and sub-zone skipping.
func (d DomainName) NextExtendIncrease(alpha Alphabet) (DomainName, error) {
	if len(d) == 0 {
		return d.NextLabelAdd(alpha)
	}

	leftmost := d[0]

	extend := len(leftmost) < MaxLabelLength
	if extend {
		next, err := leftmost.ForwardNext(alpha, true)
		if err != nil {
			return nil, err
		}

		out := append(DomainName{next}, d[1:]...)
		if out.wireLength() <= MaxWireLength {
			return out, nil
		}
		// extension would overflow the wire length; fall through to increase.
	}

	next, err := leftmost.ForwardNext(alpha, false)
	if err != nil {
		return nil, err
	}

	out := make(DomainName, len(d))
	copy(out, d)
	out[0] = next

	return out, nil
}

// CoveredBy reports whether d lies in the closed interval [owner, next]
// under canonical ordering, honoring wrap-around (owner > next means the
// interval wraps past the end of the chain back to its start).
func (d DomainName) CoveredBy(owner, next DomainName) bool {
	return covered(d, owner, next, true, true)
}

// CoveredByExclusive is CoveredBy with both endpoints excluded, used for
// A-mode NXDOMAIN results where d is a synthetic name constructed to be
// strictly between owner and next.
func (d DomainName) CoveredByExclusive(owner, next DomainName) bool {
	return covered(d, owner, next, false, false)
}

func covered(d, owner, next DomainName, inclLow, inclHigh bool) bool {
	lowCmp := Compare(owner, d)
	highCmp := Compare(d, next)

	lowOK := lowCmp < 0 || (inclLow && lowCmp == 0)
	highOK := highCmp < 0 || (inclHigh && highCmp == 0)

	if Compare(owner, next) < 0 {
		// normal case, no wrap
		return lowOK && highOK
	}

	// wrap-around: the interval covers [owner, end-of-circle] U [start-of-circle, next]
	return lowOK || highOK
}
