package record

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/miekg/dns"

	"github.com/anonion0/n3map/rr"
)

// formatNSEC3 renders a record-file line for n, grounded on
// rrtypes/nsec3.py's __str__:
// "<hashed-owner-b32hex.zone> <ttl> IN NSEC3 <alg> <flags> <iter> <salt|-> <next-b32hex> <TYPE> ...".
func formatNSEC3(n *rr.NSEC3) string {
	owner := rr.ToBase32Hex(n.Hashed[:]) + "." + n.Zone

	salt := "-"
	if n.Salt != "" {
		salt = strings.ToLower(n.Salt)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s %d IN NSEC3 %d %d %d %s %s",
		strvis(owner), n.RR.Hdr.Ttl, n.Algorithm, n.Flags, n.Iterations, salt,
		rr.ToBase32Hex(n.NextHashed[:]))

	for _, t := range n.Types {
		b.WriteByte(' ')
		b.WriteString(dns.Type(t).String())
	}

	return b.String()
}

// parseNSEC3 reverses formatNSEC3, grounded on rrtypes/nsec3.py's parser().
func parseNSEC3(line string) (*rr.NSEC3, error) {
	f := strings.Fields(line)
	if len(f) < 9 || !strings.EqualFold(f[2], "IN") || !strings.EqualFold(f[3], "NSEC3") {
		return nil, fmt.Errorf("record: malformed NSEC3 line")
	}

	ownerStr, err := strunvis(f[0])
	if err != nil {
		return nil, err
	}

	hashLabel, zone, ok := strings.Cut(ownerStr, ".")
	if !ok {
		return nil, fmt.Errorf("record: NSEC3 owner %q has no zone suffix", ownerStr)
	}

	hashed, err := rr.FromBase32Hex(hashLabel)
	if err != nil || len(hashed) != rr.DigestLength {
		return nil, fmt.Errorf("record: bad NSEC3 hashed owner %q", hashLabel)
	}

	ttl, err := strconv.ParseUint(f[1], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("record: bad NSEC3 ttl: %w", err)
	}

	algorithm, err := strconv.ParseUint(f[4], 10, 8)
	if err != nil {
		return nil, fmt.Errorf("record: bad NSEC3 algorithm: %w", err)
	}

	flags, err := strconv.ParseUint(f[5], 10, 8)
	if err != nil {
		return nil, fmt.Errorf("record: bad NSEC3 flags: %w", err)
	}

	iterations, err := strconv.ParseUint(f[6], 10, 16)
	if err != nil {
		return nil, fmt.Errorf("record: bad NSEC3 iterations: %w", err)
	}

	salt := ""
	if f[7] != "-" {
		b, err := hex.DecodeString(f[7])
		if err != nil {
			return nil, fmt.Errorf("record: bad NSEC3 salt: %w", err)
		}

		salt = strings.ToUpper(hex.EncodeToString(b))
	}

	next, err := rr.FromBase32Hex(f[8])
	if err != nil || len(next) != rr.DigestLength {
		return nil, fmt.Errorf("record: bad NSEC3 next-hashed-owner %q", f[8])
	}

	types, err := parseTypes(f[9:])
	if err != nil {
		return nil, err
	}

	n := &rr.NSEC3{
		RR: &dns.NSEC3{
			Hdr:        dns.RR_Header{Name: dns.Fqdn(rr.ToBase32Hex(hashed) + "." + zone), Rrtype: dns.TypeNSEC3, Ttl: uint32(ttl)},
			Hash:       uint8(algorithm),
			Flags:      uint8(flags),
			Iterations: uint16(iterations),
			Salt:       salt,
			NextDomain: rr.ToBase32Hex(next),
		},
		Zone:       dns.Fqdn(zone),
		Salt:       salt,
		Iterations: uint16(iterations),
		Algorithm:  uint8(algorithm),
		Flags:      uint8(flags),
		Types:      types,
	}
	copy(n.Hashed[:], hashed)
	copy(n.NextHashed[:], next)

	return n, nil
}
