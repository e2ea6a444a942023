package rr

import (
	"github.com/miekg/dns"

	"github.com/anonion0/n3map/name"
)

// SignerOf returns the signer name of the first RRSIG in section covering
// rrtype, and whether one was found. Per §9's design note, this is the only
// RRSIG field the walkers need — sub-zone detection by signer-name matching
// doesn't require validating the signature itself.
func SignerOf(section []dns.RR, rrtype uint16) (name.DomainName, bool) {
	for _, r := range section {
		sig, ok := r.(*dns.RRSIG)
		if !ok || sig.TypeCovered != rrtype {
			continue
		}

		signer, err := name.FromString(sig.SignerName)
		if err != nil {
			continue
		}

		return signer, true
	}

	return nil, false
}
