package queryprovider

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/miekg/dns"

	"github.com/anonion0/n3map/log"
	"github.com/anonion0/n3map/name"
)

// Result is one completed (or permanently failed) query, correlated back to
// the Query that produced it via ID.
type Result struct {
	ID       string
	Response *dns.Msg
	NS       string
	Err      error
}

// query is an in-flight request sitting in the aggressive worker queue.
type query struct {
	id     string
	dn     name.DomainName
	rrtype uint16
}

// Aggressive is the §4.1 aggressive query provider: a fixed worker pool
// draining a request queue and posting results to a response queue, so
// many requests can be in flight at once instead of one at a time.
type Aggressive struct {
	base *Provider

	reqCh  chan query
	respCh chan Result

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewAggressive starts `workers` goroutines pulling from a shared request
// queue fed by QueryFF/Query, all sharing base's server rotation, rate
// limit and eviction bookkeeping.
func NewAggressive(ctx context.Context, base *Provider, workers, queueSize int) *Aggressive {
	ctx, cancel := context.WithCancel(ctx)

	a := &Aggressive{
		base:   base,
		reqCh:  make(chan query, queueSize),
		respCh: make(chan Result, queueSize),
		cancel: cancel,
	}

	logger := log.WithPrefix("queryprovider.aggressive")

	for i := 0; i < workers; i++ {
		a.wg.Add(1)

		workerCtx, _ := log.NewCtx(ctx, logger.WithField("worker", i))

		go func(c context.Context) {
			defer a.wg.Done()
			a.runWorker(c)
		}(workerCtx)
	}

	return a
}

func (a *Aggressive) runWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case q, ok := <-a.reqCh:
			if !ok {
				return
			}

			a.serve(ctx, q)
		}
	}
}

func (a *Aggressive) serve(ctx context.Context, q query) {
	logger := log.FromCtx(ctx)

	msg := buildQuery(q.dn, q.rrtype)

	ns, err := a.base.next()
	if err != nil {
		a.respCh <- Result{ID: q.id, Err: err}

		return
	}

	a.base.throttle(ctx)

	resp, err := a.base.exchange(ctx, msg, ns)
	switch {
	case err != nil:
		if isTimeout(err) {
			a.base.handleTimeout(ns)
		} else {
			a.base.handleError(ns)
		}

		logger.Debugf("requeuing %s after error from %s: %v", q.dn, ns, err)
		// resubmitted rather than looped in this goroutine, per §4.1.
		select {
		case a.reqCh <- q:
		case <-ctx.Done():
		}
	case resp.Rcode != dns.RcodeSuccess && resp.Rcode != dns.RcodeNameError:
		a.base.handleError(ns)

		logger.Debugf("requeuing %s after rcode %s from %s", q.dn, dns.RcodeToString[resp.Rcode], ns)

		select {
		case a.reqCh <- q:
		case <-ctx.Done():
		}
	default:
		a.respCh <- Result{ID: q.id, Response: resp, NS: ns.addr}
	}
}

// QueryFF enqueues dn/rrtype and returns immediately with a correlation id;
// the result arrives later via CollectResponses.
func (a *Aggressive) QueryFF(ctx context.Context, dn name.DomainName, rrtype uint16) string {
	id := uuid.NewString()

	select {
	case a.reqCh <- query{id: id, dn: dn, rrtype: rrtype}:
	case <-ctx.Done():
	}

	return id
}

// Query enqueues dn/rrtype and blocks until its own result is available,
// draining (and buffering) any other responses that complete first.
func (a *Aggressive) Query(ctx context.Context, dn name.DomainName, rrtype uint16) (*dns.Msg, string, error) {
	id := a.QueryFF(ctx, dn, rrtype)

	for {
		select {
		case r := <-a.respCh:
			if r.ID == id {
				return r.Response, r.NS, r.Err
			}
			// not ours; re-queue for CollectResponses to pick up later.
			select {
			case a.respCh <- r:
			default:
			}
		case <-ctx.Done():
			return nil, "", ctx.Err()
		}
	}
}

// CollectResponses drains completed results. If block is true it waits for
// at least one; otherwise it returns immediately with whatever is ready.
func (a *Aggressive) CollectResponses(ctx context.Context, block bool) []Result {
	var out []Result

	if block {
		select {
		case r := <-a.respCh:
			out = append(out, r)
		case <-ctx.Done():
			return out
		}
	}

	for {
		select {
		case r := <-a.respCh:
			out = append(out, r)
		default:
			return out
		}
	}
}

// Stop terminates the worker pool and waits for every goroutine to exit.
func (a *Aggressive) Stop() {
	a.cancel()
	a.wg.Wait()
}

// QueryRate, AddNSError, AddNSTimeout and ResetErrors delegate to the
// shared base provider, whose server rotation and rate-limit state the
// whole worker pool draws from.
func (a *Aggressive) QueryRate() float64         { return a.base.QueryRate() }
func (a *Aggressive) AddNSError(ns string)       { a.base.AddNSError(ns) }
func (a *Aggressive) AddNSTimeout(ns string)     { a.base.AddNSTimeout(ns) }
func (a *Aggressive) ResetErrors(ns string)      { a.base.ResetErrors(ns) }
