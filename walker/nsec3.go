package walker

import (
	"context"
	"fmt"

	"github.com/miekg/dns"
	"github.com/sirupsen/logrus"

	"github.com/anonion0/n3map/log"
	"github.com/anonion0/n3map/name"
	"github.com/anonion0/n3map/nsec3chain"
	"github.com/anonion0/n3map/prehash"
	"github.com/anonion0/n3map/queryprovider"
	"github.com/anonion0/n3map/rr"
)

// Predictor is the optional zone-size estimator (§4.5); the walker polls it
// non-blockingly and never fails the walk when one isn't wired up.
type Predictor interface {
	Observe(coverageFraction float64, chainSize int)
	Estimate() (size float64, ok bool)
}

// NSEC3Options configures an NSEC3 walk.
type NSEC3Options struct {
	Zone              name.DomainName
	Workers           int
	ElementSize       int
	LabelCounterInit  uint64
	HashLimit         uint64 // 0 = unlimited
	IgnoreOverlapping bool
	Aggressive        int // 0 = synchronous provider
	Predictor         Predictor
}

// NSEC3Walker drives the NSEC3 coverage loop of §4.5: bootstrap via A
// queries until the chain is seeded, then pull pre-hashed candidates from a
// prehash.Pool and dispatch the uncovered ones.
type NSEC3Walker struct {
	q     Querier
	opts  NSEC3Options
	chain *nsec3chain.Chain

	logger *logrus.Entry

	queries      int
	testedHashes uint64
	labelCounter uint64
}

// NewNSEC3Walker constructs a walker for zone, resuming from an existing
// chain when chain is non-nil (the persistence layer's resume path).
func NewNSEC3Walker(q Querier, opts NSEC3Options, chain *nsec3chain.Chain) *NSEC3Walker {
	if chain == nil {
		chain = nsec3chain.New(opts.Zone, opts.IgnoreOverlapping)
	}

	return &NSEC3Walker{q: q, opts: opts, chain: chain, logger: log.WithPrefix("nsec3walker")}
}

// Status exposes (zone, queries, chain_size, tested_hashes, coverage,
// query_rate, prediction) per §4.5's status surface.
type NSEC3Status struct {
	Zone         string
	Queries      int
	ChainSize    int
	TestedHashes uint64
	Coverage     float64
	QueryRate    float64
	Prediction   float64
	HasPredicton bool
}

func (w *NSEC3Walker) Status() NSEC3Status {
	st := NSEC3Status{
		Zone:         w.opts.Zone.String(),
		Queries:      w.queries,
		ChainSize:    w.chain.Len(),
		TestedHashes: w.testedHashes,
		Coverage:     w.coverageFraction(),
		QueryRate:    w.q.QueryRate(),
	}

	if w.opts.Predictor != nil {
		if est, ok := w.opts.Predictor.Estimate(); ok {
			st.Prediction = est
			st.HasPredicton = true
		}
	}

	return st
}

func (w *NSEC3Walker) coverageFraction() float64 {
	dist := w.chain.CoveredDistance()
	f := new(bigFloat).SetInt(dist)
	f.Quo(f, hashSpaceFloat())

	out, _ := f.Float64()

	return out
}

// Chain returns the walker's interval chain, for the persistence layer to
// serialize on checkpoint/shutdown.
func (w *NSEC3Walker) Chain() *nsec3chain.Chain { return w.chain }

// LabelCounter returns the highest counter value observed so far, for the
// resume checkpoint.
func (w *NSEC3Walker) LabelCounter() uint64 { return w.labelCounter }

// Walk drives the bootstrap and main loop, invoking emit for every newly
// discovered NSEC3 record (known owner or hash-only).
func (w *NSEC3Walker) Walk(ctx context.Context, emit func(rec *rr.NSEC3, owner name.DomainName, known bool)) error {
	if w.chain.Len() == 0 {
		if err := w.bootstrap(ctx, emit); err != nil {
			return err
		}
	}

	params := prehash.Params{Zone: w.opts.Zone, Salt: w.chain.Salt(), Iterations: w.chain.Iterations()}

	pool := prehash.New(ctx, params, w.opts.Workers, w.opts.ElementSize, w.labelCounter)
	defer pool.Stop()

	if w.opts.Aggressive > 0 {
		return w.runAggressive(ctx, pool, emit)
	}

	return w.runSync(ctx, pool, emit)
}

// bootstrap submits sequential hex-label A queries until the first NSEC3
// record seeds the chain's hashing parameters (§4.5 "Bootstrap").
func (w *NSEC3Walker) bootstrap(ctx context.Context, emit func(*rr.NSEC3, name.DomainName, bool)) error {
	counter := w.opts.LabelCounterInit

	for w.chain.Len() == 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		label := fmt.Sprintf("%x", counter)

		dn, err := name.FromString(label + "." + w.opts.Zone.String())
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNSEC3Walk, err)
		}

		resp, ns, err := w.q.Query(ctx, dn, dns.TypeA)
		w.queries++
		w.testedHashes++
		counter++

		if err != nil {
			w.logger.Debugf("bootstrap query error: %v", err)

			continue
		}

		if err := w.ingest(resp, emit); err != nil {
			return err
		}

		if w.chain.Len() > 0 {
			w.q.ResetErrors(ns)
		}

		if w.opts.HashLimit > 0 && w.testedHashes > w.opts.HashLimit {
			return ErrHashLimitReached
		}
	}

	w.labelCounter = counter

	return nil
}

// batchSource round-robins across a prehash pool's worker channels,
// refilling from whichever worker's current batch has run dry (§4.3
// "Consumption").
type batchSource struct {
	w       *NSEC3Walker
	chans   []chan prehash.Batch
	batches []prehash.Batch
	idx     []int
	next    int
}

func newBatchSource(w *NSEC3Walker, pool *prehash.Pool) *batchSource {
	chans := pool.Chans()

	return &batchSource{
		w:       w,
		chans:   chans,
		batches: make([]prehash.Batch, len(chans)),
		idx:     make([]int, len(chans)),
	}
}

func (s *batchSource) fetch(ctx context.Context, worker int) error {
	select {
	case b, ok := <-s.chans[worker]:
		if !ok {
			return fmt.Errorf("%w: prehash worker %d channel closed", ErrNSEC3Walk, worker)
		}

		s.batches[worker] = b
		s.idx[worker] = 0
		s.w.testedHashes += uint64(len(b.Items))
		s.w.labelCounter = maxUint64(s.w.labelCounter, b.Counter)

		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next returns the next candidate (label, hash), blocking on a worker
// channel if that worker's current batch is exhausted.
func (s *batchSource) Next(ctx context.Context) (prehash.LabelHash, error) {
	worker := s.next
	s.next = (s.next + 1) % len(s.chans)

	if s.idx[worker] >= len(s.batches[worker].Items) {
		if err := s.fetch(ctx, worker); err != nil {
			return prehash.LabelHash{}, err
		}
	}

	item := s.batches[worker].Items[s.idx[worker]]
	s.idx[worker]++

	return item, nil
}

// runSync implements the non-aggressive main loop: one in-flight query at a
// time, consuming prehash batches round-robin.
func (w *NSEC3Walker) runSync(ctx context.Context, pool *prehash.Pool, emit func(*rr.NSEC3, name.DomainName, bool)) error {
	src := newBatchSource(w, pool)

	for !w.chain.CoversFull() {
		if w.opts.HashLimit > 0 && w.testedHashes > w.opts.HashLimit {
			return ErrHashLimitReached
		}

		item, err := src.Next(ctx)
		if err != nil {
			return err
		}

		if _, ok := w.chain.FindInterval(item.Hash); ok {
			continue
		}

		dn, err := name.FromString(item.Label + "." + w.opts.Zone.String())
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNSEC3Walk, err)
		}

		resp, ns, err := w.q.Query(ctx, dn, dns.TypeA)
		w.queries++

		if err != nil {
			w.logger.Debugf("query error for %s: %v", dn, err)

			continue
		}

		if err := w.ingest(resp, emit); err != nil {
			return err
		}

		w.q.ResetErrors(ns)
	}

	return nil
}

// aggressiveQuerier is the subset of *queryprovider.Aggressive the NSEC3
// walker's in-flight-pool loop needs (§4.5 "Aggressive mode").
type aggressiveQuerier interface {
	Querier
	QueryFF(ctx context.Context, dn name.DomainName, rrtype uint16) string
	CollectResponses(ctx context.Context, block bool) []queryprovider.Result
}

// inflight tracks an outstanding aggressive query's candidate, so a response
// can be matched back to the (label, hash) it was testing.
type inflight struct {
	label string
	hash  [rr.DigestLength]byte
}

// runAggressive implements §4.5's "Aggressive mode": up to opts.Aggressive
// requests in flight at once, draining completed responses as they arrive
// instead of waiting for each one in turn.
func (w *NSEC3Walker) runAggressive(
	ctx context.Context, pool *prehash.Pool, emit func(*rr.NSEC3, name.DomainName, bool),
) error {
	agg, ok := w.q.(aggressiveQuerier)
	if !ok {
		return fmt.Errorf("%w: aggressive mode requires an aggressive query provider", ErrNSEC3Walk)
	}

	src := newBatchSource(w, pool)
	outstanding := make(map[string]inflight)
	maxInFlight := w.opts.Aggressive

	for !w.chain.CoversFull() || len(outstanding) > 0 {
		if w.opts.HashLimit > 0 && w.testedHashes > w.opts.HashLimit {
			return ErrHashLimitReached
		}

		if !w.chain.CoversFull() && len(outstanding) < maxInFlight {
			item, err := src.Next(ctx)
			if err != nil {
				return err
			}

			if _, ok := w.chain.FindInterval(item.Hash); ok {
				continue
			}

			dn, err := name.FromString(item.Label + "." + w.opts.Zone.String())
			if err != nil {
				return fmt.Errorf("%w: %v", ErrNSEC3Walk, err)
			}

			id := agg.QueryFF(ctx, dn, dns.TypeA)
			outstanding[id] = inflight{label: item.Label, hash: item.Hash}
			w.queries++

			continue
		}

		block := len(outstanding) >= maxInFlight || w.chain.CoversFull()

		results := agg.CollectResponses(ctx, block)
		if len(results) == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			continue
		}

		for _, res := range results {
			cand, known := outstanding[res.ID]
			delete(outstanding, res.ID)

			if res.Err != nil {
				w.logger.Debugf("query error for %s: %v", cand.label, res.Err)

				continue
			}

			if err := w.ingest(res.Response, emit); err != nil {
				return err
			}

			if known {
				agg.ResetErrors(res.NS)
			}
		}
	}

	return nil
}

// ingest validates and inserts every NSEC3 RR found in a response, emitting
// the newly-learned ones, and detecting the RFC 7129 "white lie" case.
func (w *NSEC3Walker) ingest(resp *dns.Msg, emit func(*rr.NSEC3, name.DomainName, bool)) error {
	n3s, err := rr.NSEC3FromSection(append(append([]dns.RR{}, resp.Answer...), resp.Ns...))
	if err != nil {
		return nil // malformed record, treated as no information gained
	}

	for _, n3 := range n3s {
		if err := n3.Validate(); err != nil {
			w.logger.Debugf("invalid NSEC3: %v", err)

			continue
		}

		wasUpdated, err := w.chain.Insert(n3, name.DomainName(nil), false)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNSEC3Walk, err)
		}

		if wasUpdated {
			continue
		}

		if minimallyCovers(n3) {
			return ErrMinimallyCovering
		}

		emit(n3, nil, false)

		if w.opts.Predictor != nil {
			w.opts.Predictor.Observe(w.coverageFraction(), w.chain.Len())
		}
	}

	return nil
}

// minimallyCovers detects the RFC 7129 white-lie pattern: an NSEC3 whose
// interval spans exactly the two adjacent hash values (distance 2).
func minimallyCovers(n3 *rr.NSEC3) bool {
	dist := new(bigInt).Sub(bigIntFromDigest(n3.NextHashed), bigIntFromDigest(n3.Hashed))
	if dist.Sign() < 0 {
		dist.Add(dist, hashSpaceInt())
	}

	return dist.Cmp(bigInt2) == 0
}

func maxUint64(a, b uint64) uint64 {
	if a > b {
		return a
	}

	return b
}
