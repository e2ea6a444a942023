package walker

import (
	"context"
	"fmt"

	"github.com/miekg/dns"
	"github.com/sirupsen/logrus"

	"github.com/anonion0/n3map/log"
	"github.com/anonion0/n3map/name"
	"github.com/anonion0/n3map/rr"
)

// Querier is the subset of queryprovider.Provider/Aggressive the walkers
// need: send a query and report caller-detected server health back.
type Querier interface {
	Query(ctx context.Context, dn name.DomainName, rrtype uint16) (*dns.Msg, string, error)
	AddNSError(ns string)
	AddNSTimeout(ns string)
	ResetErrors(ns string)
	QueryRate() float64
}

// NSECOptions configures an NSEC walk (§4.4).
type NSECOptions struct {
	Zone     name.DomainName
	Mode     NSECMode
	Alphabet name.Alphabet
	Start    name.DomainName
	End      name.DomainName // nil = unbounded

	// NeverPrefix disables descending a label deeper when probing in A
	// or mixed mode: candidates are formed by incrementing the current
	// leftmost label instead of prefixing a brand-new one under it.
	NeverPrefix bool
}

// NSECWalker reconstructs a zone's NSEC chain, one query at a time.
type NSECWalker struct {
	q       Querier
	opts    NSECOptions
	logger  *logrus.Entry
	subzone name.DomainName // learned sub-zone apex, nil until discovered

	queries int
	chain   []*rr.NSEC
}

// NewNSECWalker constructs a walker over zone, starting at opts.Start (or
// the zone apex when nil).
func NewNSECWalker(q Querier, opts NSECOptions) *NSECWalker {
	start := opts.Start
	if start == nil {
		start = opts.Zone
	}

	opts.Start = start

	return &NSECWalker{q: q, opts: opts, logger: log.WithPrefix("nsecwalker")}
}

// Status exposes (zone, queries, chain_size, query_rate) for external
// rendering (§4.5's "status surface").
type Status struct {
	Zone      string
	Queries   int
	ChainSize int
	QueryRate float64
}

func (w *NSECWalker) Status() Status {
	return Status{
		Zone:      w.opts.Zone.String(),
		Queries:   w.queries,
		ChainSize: len(w.chain),
		QueryRate: w.q.QueryRate(),
	}
}

// Walk drives the chain reconstruction, invoking emit for every NSEC record
// appended to the chain, until the chain closes or the configured End
// boundary is reached.
func (w *NSECWalker) Walk(ctx context.Context, emit func(*rr.NSEC)) error {
	dname := w.opts.Start

	// candidate holds the synthetic non-existent name currently under test
	// in A/mixed mode; nil means "build a fresh one from dname".
	var candidate name.DomainName

	mode := w.opts.Mode

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		queryDn, rrtype, err := w.buildQuery(mode, dname, candidate)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNSECWalk, err)
		}

		resp, ns, err := w.q.Query(ctx, queryDn, rrtype)
		w.queries++

		if err != nil {
			w.logger.WithField("query", queryDn).Debugf("query error: %v", err)

			continue
		}

		st, nsec, err := w.classify(resp, queryDn, rrtype)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNSECWalk, err)
		}

		switch st {
		case statusOK:
			w.q.ResetErrors(ns)
			w.chain = append(w.chain, nsec)
			emit(nsec)

			dname = nsec.Next
			candidate = nil

			if dname.Equal(w.opts.Zone) {
				return nil
			}

			if w.opts.End != nil && name.Compare(dname, w.opts.End) >= 0 && len(w.chain) > 0 {
				return nil
			}

		case statusHitOwner:
			if mode == ModeNSEC {
				return fmt.Errorf("%w: NSEC mode received an owner match it cannot step over", ErrNSECWalk)
			}

			next, err := w.extendCandidate(dname, candidate)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrNSECWalk, err)
			}

			candidate = next

		case statusSubzone:
			w.logger.Warnf("sub-zone indication at %s, stepping over", queryDn)

			base := dname
			if w.subzone != nil && len(w.subzone) < len(dname) {
				base = w.subzone
			}

			next, err := base.NextExtendIncrease(w.opts.Alphabet)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrNSECWalk, err)
			}

			if mode == ModeNSEC {
				dname = next
			} else {
				candidate = next
			}

		case statusError:
			w.logger.Debugf("unexpected response for %s, retrying", queryDn)
		}
	}
}

// buildQuery constructs the next query per the active mode.
func (w *NSECWalker) buildQuery(mode NSECMode, dname, candidate name.DomainName) (name.DomainName, uint16, error) {
	switch mode {
	case ModeNSEC:
		return dname, dns.TypeNSEC, nil
	default: // ModeA, ModeMixed
		if candidate != nil {
			return candidate, dns.TypeA, nil
		}

		if w.opts.NeverPrefix && !dname.Equal(w.opts.Zone) {
			first, err := dname.NextExtendIncrease(w.opts.Alphabet)

			return first, dns.TypeA, err
		}

		first, err := dname.NextLabelAdd(w.opts.Alphabet)

		return first, dns.TypeA, err
	}
}

func (w *NSECWalker) extendCandidate(dname, candidate name.DomainName) (name.DomainName, error) {
	if candidate == nil {
		return dname.NextLabelAdd(w.opts.Alphabet)
	}

	return candidate.NextExtendIncrease(w.opts.Alphabet)
}

// classify implements §4.4's classification table. A non-nil error is
// fatal (§7): an NSEC record failing its owner>next_owner invariant check
// means the server is broken or malicious, never something to retry past.
func (w *NSECWalker) classify(resp *dns.Msg, qdn name.DomainName, rrtype uint16) (status, *rr.NSEC, error) {
	nsecs, err := rr.NSECFromSection(append(append([]dns.RR{}, resp.Answer...), resp.Ns...))
	if err == nil {
		for _, n := range nsecs {
			if err := n.Validate(w.opts.Zone); err != nil {
				return statusError, nil, err
			}

			inclusive := rrtype == dns.TypeNSEC
			if !n.Covers(qdn, w.opts.Zone, inclusive) {
				continue
			}

			signer, ok := n.SignerZone()
			if !ok || !signer.Equal(w.opts.Zone) {
				return statusSubzone, nil, nil
			}

			return statusOK, n, nil
		}
	}

	if resp.Rcode == dns.RcodeSuccess && len(resp.Answer) > 0 {
		if signer, ok := rr.SignerOf(resp.Answer, rrtype); ok && signer.Equal(w.opts.Zone) {
			return statusHitOwner, nil, nil
		}

		return statusSubzone, nil, nil
	}

	if resp.Rcode == dns.RcodeSuccess && len(resp.Answer) == 0 {
		if hasSubdelegation(resp.Ns) {
			return statusSubzone, nil, nil
		}
	}

	if resp.Rcode == dns.RcodeNameError && hasSubdelegation(resp.Ns) {
		return statusSubzone, nil, nil
	}

	return statusError, nil, nil
}

func hasSubdelegation(section []dns.RR) bool {
	for _, r := range section {
		switch r.(type) {
		case *dns.SOA, *dns.NS:
			return true
		}
	}

	return false
}
