package record

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/miekg/dns"

	"github.com/anonion0/n3map/name"
	"github.com/anonion0/n3map/rr"
)

// formatNSEC renders a record-file line for n, grounded on rrtypes/nsec.py's
// __str__: "<owner> <ttl> IN NSEC <next> <TYPE> <TYPE> ...".
func formatNSEC(n *rr.NSEC) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %d IN NSEC %s", strvis(n.Owner.String()), n.RR.Hdr.Ttl, strvis(n.Next.String()))

	for _, t := range n.Types {
		b.WriteByte(' ')
		b.WriteString(dns.Type(t).String())
	}

	return b.String()
}

// parseNSEC reverses formatNSEC, grounded on rrtypes/nsec.py's parser().
func parseNSEC(line string) (*rr.NSEC, error) {
	f := strings.Fields(line)
	if len(f) < 5 || !strings.EqualFold(f[2], "IN") || !strings.EqualFold(f[3], "NSEC") {
		return nil, fmt.Errorf("record: malformed NSEC line")
	}

	ownerStr, err := strunvis(f[0])
	if err != nil {
		return nil, err
	}

	owner, err := name.FromString(ownerStr)
	if err != nil {
		return nil, fmt.Errorf("record: bad NSEC owner: %w", err)
	}

	ttl, err := strconv.ParseUint(f[1], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("record: bad NSEC ttl: %w", err)
	}

	nextStr, err := strunvis(f[4])
	if err != nil {
		return nil, err
	}

	next, err := name.FromString(nextStr)
	if err != nil {
		return nil, fmt.Errorf("record: bad NSEC next-owner: %w", err)
	}

	types, err := parseTypes(f[5:])
	if err != nil {
		return nil, err
	}

	return &rr.NSEC{
		RR: &dns.NSEC{
			Hdr:        dns.RR_Header{Name: owner.String(), Rrtype: dns.TypeNSEC, Ttl: uint32(ttl)},
			NextDomain: next.String(),
			TypeBitMap: types,
		},
		Owner: owner,
		Next:  next,
		Types: types,
	}, nil
}

func parseTypes(fields []string) ([]uint16, error) {
	types := make([]uint16, 0, len(fields))

	for _, f := range fields {
		name := strings.ToUpper(f)

		if t, ok := dns.StringToType[name]; ok {
			types = append(types, t)

			continue
		}

		if rest, ok := strings.CutPrefix(name, "TYPE"); ok {
			n, err := strconv.ParseUint(rest, 10, 16)
			if err == nil {
				types = append(types, uint16(n))

				continue
			}
		}

		return nil, fmt.Errorf("record: unknown RR type %q", f)
	}

	return types, nil
}
