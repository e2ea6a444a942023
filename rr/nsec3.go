package rr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/miekg/dns"

	"github.com/anonion0/n3map/name"
)

// MaxIterations is the §3 NSEC3 invariant ceiling (0..2500).
const MaxIterations = 2500

// DigestLength is the SHA-1 digest length backing every NSEC3 hashed owner.
const DigestLength = 20

var (
	// ErrUnsupportedAlgorithm is raised for any NSEC3 hash algorithm other
	// than SHA-1 (algorithm 1), the only one this tool speaks.
	ErrUnsupportedAlgorithm = errors.New("rr: unsupported NSEC3 hash algorithm")
	// ErrIterationsOutOfRange is the §3 iterations invariant violation.
	ErrIterationsOutOfRange = errors.New("rr: NSEC3 iterations out of range")
	// ErrBadDigestLength is raised when a hashed owner isn't 20 bytes.
	ErrBadDigestLength = errors.New("rr: NSEC3 digest has the wrong length")
)

// NSEC3 wraps a parsed dns.NSEC3 with its hashed owner/next as raw 20-byte
// digests (base32hex-decoded) plus the zone it was seen under.
type NSEC3 struct {
	RR         *dns.NSEC3
	Zone       string // lowercase, FQDN
	Hashed     [DigestLength]byte
	NextHashed [DigestLength]byte
	Salt       string // hex, as carried on the wire
	Iterations uint16
	Algorithm  uint8
	Flags      uint8
	Types      []uint16
}

// NSEC3FromSection extracts every NSEC3 record from an RR slice.
func NSEC3FromSection(section []dns.RR) ([]*NSEC3, error) {
	var out []*NSEC3

	for _, r := range section {
		n3, ok := r.(*dns.NSEC3)
		if !ok {
			continue
		}

		wrapped, err := wrapNSEC3(n3)
		if err != nil {
			return nil, err
		}

		out = append(out, wrapped)
	}

	return out, nil
}

func wrapNSEC3(n3 *dns.NSEC3) (*NSEC3, error) {
	zone, err := ownerZone(n3.Hdr.Name)
	if err != nil {
		return nil, err
	}

	hashed, err := decodeDigest(n3.Hdr.Name)
	if err != nil {
		return nil, fmt.Errorf("rr: bad NSEC3 owner %q: %w", n3.Hdr.Name, err)
	}

	next, err := decodeDigest(n3.NextDomain + ".")
	if err != nil {
		return nil, fmt.Errorf("rr: bad NSEC3 next-hashed-owner %q: %w", n3.NextDomain, err)
	}

	w := &NSEC3{
		RR:         n3,
		Zone:       zone,
		Salt:       n3.Salt,
		Iterations: n3.Iterations,
		Algorithm:  n3.Hash,
		Flags:      n3.Flags,
		Types:      append([]uint16(nil), n3.TypeBitMap...),
	}
	copy(w.Hashed[:], hashed)
	copy(w.NextHashed[:], next)

	return w, nil
}

// ownerZone splits "<b32hex-hash>.zone." into lowercase FQDN "zone.".
func ownerZone(owner string) (string, error) {
	labels := dns.SplitDomainName(owner)
	if len(labels) < 2 {
		return "", fmt.Errorf("rr: NSEC3 owner %q has no zone suffix", owner)
	}

	return strings.ToLower(dns.Fqdn(strings.Join(labels[1:], "."))), nil
}

// decodeDigest decodes the base32hex-encoded leftmost label of a name (used
// for both the owner hash and, with a synthetic trailing dot, the raw
// next-hashed-owner field which miekg/dns leaves undotted).
func decodeDigest(dotted string) ([]byte, error) {
	labels := dns.SplitDomainName(dotted)
	if len(labels) == 0 {
		return nil, errors.New("rr: empty name")
	}

	b, err := FromBase32Hex(labels[0])
	if err != nil {
		return nil, err
	}

	if len(b) != DigestLength {
		return nil, fmt.Errorf("%w: got %d bytes", ErrBadDigestLength, len(b))
	}

	return b, nil
}

// Validate enforces the §3 NSEC3 invariants.
func (n *NSEC3) Validate() error {
	if n.Algorithm != dns.SHA1 {
		return fmt.Errorf("%w: %d", ErrUnsupportedAlgorithm, n.Algorithm)
	}

	if n.Iterations > MaxIterations {
		return fmt.Errorf("%w: %d > %d", ErrIterationsOutOfRange, n.Iterations, MaxIterations)
	}

	return nil
}

// SameParameters reports whether two NSEC3 records share (zone, salt,
// iterations) — the §4.5 seeding invariant every record in a chain must
// satisfy.
func (n *NSEC3) SameParameters(o *NSEC3) bool {
	return n.Zone == o.Zone && n.Salt == o.Salt && n.Iterations == o.Iterations
}

// HashName computes the RFC 5155 §5 NSEC3 hash of a domain name under the
// given zone parameters, delegating to miekg/dns's HashName which already
// implements the iterated-SHA1-with-salt construction.
func HashName(dn name.DomainName, salt string, iterations uint16) ([DigestLength]byte, error) {
	var out [DigestLength]byte

	hashed := dns.HashName(dn.String(), dns.SHA1, iterations, salt)

	b, err := FromBase32Hex(hashed)
	if err != nil {
		return out, err
	}

	if len(b) != DigestLength {
		return out, fmt.Errorf("%w: got %d bytes", ErrBadDigestLength, len(b))
	}

	copy(out[:], b)

	return out, nil
}
