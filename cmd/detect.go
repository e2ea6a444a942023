// Package cmd implements the CLI front-end (§6): flag parsing, the
// pre-flight SOA/DNSKEY checks, NSEC-vs-NSEC3 auto-detection, and the
// orchestration that wires queryprovider/nsec3chain/prehash/walker/record
// together into a single walk.
package cmd

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/miekg/dns"
	"github.com/mroth/weightedrand"

	"github.com/anonion0/n3map/name"
	"github.com/anonion0/n3map/walker"
)

// ErrDetectionExhausted is returned by DetectZoneType when every allotted
// probe came back inconclusive (a timeout, a SERVFAIL, an answer with
// neither NSEC nor NSEC3 in the authority section, ...).
var ErrDetectionExhausted = errors.New("cmd: exhausted detection attempts without a conclusive answer")

// ErrNotAuthoritative is returned by CheckSOA when no SOA owned by the
// zone itself comes back, meaning the configured servers likely aren't
// authoritative for it.
var ErrNotAuthoritative = errors.New("cmd: no SOA record found for zone, server may not be authoritative")

// ErrZoneNotSigned is returned by CheckDNSKEY when the zone carries no
// DNSKEY record, i.e. it isn't DNSSEC-signed and can't be walked.
var ErrZoneNotSigned = errors.New("cmd: no DNSKEY record found, zone does not appear to be signed")

// commonLabels are probed when the weighted pick lands on "common" and the
// attempt number still indexes into this list: real zones are far more
// likely to have an NXDOMAIN-worthy gap under one of these than under a
// random label, letting detection succeed in fewer round trips against a
// small zone.
var commonLabels = []string{"www", "mail", "ftp", "ns1", "ns2", "webmail", "admin", "test"}

// randomLabel returns a random 10-hex-digit label, used once the common
// labels are exhausted or the weighted pick lands on "random".
func randomLabel() (string, error) {
	b := make([]byte, 5)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("cmd: generating random probe label: %w", err)
	}

	return hex.EncodeToString(b), nil
}

// newProbeChooser returns a weighted.Chooser that favors a random label
// over a common one, so repeated probes don't all retry the same handful
// of names against a zone where none of them happen to be free.
func newProbeChooser() (*weightedrand.Chooser, error) {
	return weightedrand.NewChooser(
		weightedrand.Choice{Item: "common", Weight: 1},
		weightedrand.Choice{Item: "random", Weight: 4},
	)
}

// DetectZoneType probes zone with NXDOMAIN-provoking names until an
// authority section carrying an NSEC or NSEC3 record settles the
// question, or attempts is exhausted (0 means unlimited). It implements
// map.py's top-level "-a/--auto" detection flow.
func DetectZoneType(ctx context.Context, q walker.Querier, zone name.DomainName, attempts int) (nsec3 bool, err error) {
	chooser, err := newProbeChooser()
	if err != nil {
		return false, err
	}

	for i := 0; attempts == 0 || i < attempts; i++ {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
		}

		label, err := pickProbeLabel(chooser, i)
		if err != nil {
			return false, err
		}

		probe, err := name.FromString(label + "." + zone.String())
		if err != nil {
			continue
		}

		msg, ns, err := q.Query(ctx, probe, dns.TypeA)
		if err != nil {
			q.AddNSError(ns)

			continue
		}

		if msg.Rcode != dns.RcodeNameError && msg.Rcode != dns.RcodeSuccess {
			continue
		}

		if is3, ok := classifyDenial(msg.Ns); ok {
			return is3, nil
		}
	}

	return false, ErrDetectionExhausted
}

func pickProbeLabel(chooser *weightedrand.Chooser, attempt int) (string, error) {
	if chooser.Pick().(string) == "common" && attempt < len(commonLabels) {
		return commonLabels[attempt], nil
	}

	return randomLabel()
}

// classifyDenial inspects an authority section for the record type that
// settles auto-detection: NSEC means the zone walks in NSEC mode, NSEC3
// means it walks in NSEC3 mode. ok is false when neither is present.
func classifyDenial(authority []dns.RR) (nsec3 bool, ok bool) {
	for _, rr := range authority {
		switch rr.(type) {
		case *dns.NSEC3:
			return true, true
		case *dns.NSEC:
			return false, true
		}
	}

	return false, false
}

// CheckSOA is the pre-flight check map.py performs unless
// --omit-soa-check is given: the zone's own SOA should come back,
// confirming the configured servers are authoritative for it.
func CheckSOA(ctx context.Context, q walker.Querier, zone name.DomainName) error {
	msg, ns, err := q.Query(ctx, zone, dns.TypeSOA)
	if err != nil {
		q.AddNSError(ns)

		return fmt.Errorf("querying SOA: %w", err)
	}

	for _, rr := range msg.Answer {
		if _, ok := rr.(*dns.SOA); ok {
			return nil
		}
	}

	return ErrNotAuthoritative
}

// CheckDNSKEY is the --omit-dnskey-check counterpart: confirms the zone
// actually carries DNSKEY records before a walk that only makes sense
// against a signed zone is attempted.
func CheckDNSKEY(ctx context.Context, q walker.Querier, zone name.DomainName) error {
	msg, ns, err := q.Query(ctx, zone, dns.TypeDNSKEY)
	if err != nil {
		q.AddNSError(ns)

		return fmt.Errorf("querying DNSKEY: %w", err)
	}

	for _, rr := range msg.Answer {
		if _, ok := rr.(*dns.DNSKEY); ok {
			return nil
		}
	}

	return ErrZoneNotSigned
}
