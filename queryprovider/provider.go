// Package queryprovider implements the rate-limited, multi-server query
// front-end the walkers send every DNS request through: round-robin
// server rotation, per-server retry/error accounting with eviction, and a
// sliding-window request-rate gauge for the status line.
package queryprovider

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/miekg/dns"
	"github.com/sirupsen/logrus"

	"github.com/anonion0/n3map/log"
	"github.com/anonion0/n3map/name"
)

// ErrNoServersLeft is returned once every configured nameserver has been
// evicted for exceeding its retry or error budget.
var ErrNoServersLeft = errors.New("queryprovider: no nameservers left")

// rateWindow is the lookback for QueryRate's sliding window (§4.1).
const rateWindow = 2 * time.Second

// Options configures a Provider. MaxRetries and MaxErrors of -1 mean
// unlimited.
type Options struct {
	MaxRetries    int
	MaxErrors     int
	QueryInterval time.Duration
	Timeout       time.Duration
}

// nameserver tracks one authoritative server's retry/error budget.
type nameserver struct {
	addr    string
	retries int
	errors  int
}

func (ns *nameserver) String() string { return ns.addr }

// Provider is the plain (synchronous, single-request-in-flight) query
// front-end described in §4.1.
type Provider struct {
	mu       sync.Mutex
	servers  []*nameserver
	idx      int
	interval time.Duration
	sendLog  []time.Time

	opts   Options
	udp    *dns.Client
	tcp    *dns.Client
	logger *logrus.Entry
}

// New builds a Provider over the given authoritative servers (host:port).
func New(servers []string, opts Options) *Provider {
	ns := make([]*nameserver, len(servers))
	for i, s := range servers {
		ns[i] = &nameserver{addr: s}
	}

	return &Provider{
		servers:  ns,
		interval: opts.QueryInterval,
		opts:     opts,
		udp:      &dns.Client{Net: "udp", Timeout: opts.Timeout, UDPSize: 4096},
		tcp:      &dns.Client{Net: "tcp", Timeout: opts.Timeout},
		logger:   log.WithPrefix("queryprovider"),
	}
}

// Query sends dn/rrtype to the nameserver list, rotating and retrying per
// §4.1, and returns once some server answers NOERROR or NXDOMAIN.
func (p *Provider) Query(ctx context.Context, dn name.DomainName, rrtype uint16) (*dns.Msg, string, error) {
	msg := buildQuery(dn, rrtype)

	var errs error

	for {
		ns, err := p.next()
		if err != nil {
			if errs != nil {
				return nil, "", fmt.Errorf("%w: %v", err, errs)
			}

			return nil, "", err
		}

		p.throttle(ctx)

		resp, err := p.exchange(ctx, msg, ns)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", ns, err))

			if isTimeout(err) {
				p.handleTimeout(ns)
			} else {
				p.handleError(ns)
			}

			continue
		}

		if resp.Rcode != dns.RcodeSuccess && resp.Rcode != dns.RcodeNameError {
			errs = multierror.Append(errs, fmt.Errorf("%s: unexpected rcode %s", ns, dns.RcodeToString[resp.Rcode]))
			p.handleError(ns)

			continue
		}

		return resp, ns.addr, nil
	}
}

func buildQuery(dn name.DomainName, rrtype uint16) *dns.Msg {
	msg := new(dns.Msg)
	msg.SetQuestion(dn.String(), rrtype)
	msg.RecursionDesired = false
	msg.SetEdns0(4096, true)

	return msg
}

// exchange sends over UDP, retrying over TCP to the same server on
// truncation, using retry-go to bound the TCP fallback attempt.
func (p *Provider) exchange(ctx context.Context, msg *dns.Msg, ns *nameserver) (*dns.Msg, error) {
	resp, _, err := p.udp.ExchangeContext(ctx, msg, ns.addr)
	if err != nil {
		return nil, err
	}

	if !resp.Truncated {
		return resp, nil
	}

	p.logger.Debugf("response from %s truncated, retrying over TCP", ns)

	return retry.DoWithData(
		func() (*dns.Msg, error) {
			r, _, err := p.tcp.ExchangeContext(ctx, msg, ns.addr)

			return r, err
		},
		retry.Context(ctx),
		retry.Attempts(2),
		retry.LastErrorOnly(true),
	)
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return errors.Is(err, context.DeadlineExceeded)
}

// next returns the nameserver to use for this attempt, round-robin.
func (p *Provider) next() (*nameserver, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.servers) == 0 {
		return nil, ErrNoServersLeft
	}

	ns := p.servers[p.idx%len(p.servers)]
	p.idx++

	return ns, nil
}

// handleTimeout implements the timeout branch of §4.1's retry/eviction
// policy.
func (p *Provider) handleTimeout(ns *nameserver) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ns.retries++
	if p.opts.MaxRetries >= 0 && ns.retries > p.opts.MaxRetries {
		p.evictLocked(ns)
	}
}

// handleError implements the malformed/unexpected-status branch.
func (p *Provider) handleError(ns *nameserver) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ns.errors++
	if p.opts.MaxErrors >= 0 && ns.errors > p.opts.MaxErrors {
		p.evictLocked(ns)
	}
}

// AddNSError lets a caller (the walker) report an error it detected that
// the provider itself could not (e.g. a semantically invalid NSEC).
func (p *Provider) AddNSError(addr string) {
	if ns := p.find(addr); ns != nil {
		p.handleError(ns)
	}
}

// AddNSTimeout is AddNSError's counterpart for caller-detected timeouts.
func (p *Provider) AddNSTimeout(addr string) {
	if ns := p.find(addr); ns != nil {
		p.handleTimeout(ns)
	}
}

// ResetErrors clears a server's error count after a fully-processed,
// semantically valid response.
func (p *Provider) ResetErrors(addr string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ns := p.findLocked(addr); ns != nil {
		ns.errors = 0
	}
}

func (p *Provider) find(addr string) *nameserver {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.findLocked(addr)
}

func (p *Provider) findLocked(addr string) *nameserver {
	for _, ns := range p.servers {
		if ns.addr == addr {
			return ns
		}
	}

	return nil
}

// evictLocked removes ns from the rotation and rescales the send interval
// to preserve the per-server rate (§4.1 "On eviction rescale").
// Caller must hold p.mu.
func (p *Provider) evictLocked(ns *nameserver) {
	n := len(p.servers)

	idx := -1

	for i, s := range p.servers {
		if s == ns {
			idx = i

			break
		}
	}

	if idx == -1 {
		return
	}

	p.logger.Warnf("evicting nameserver %s (retries=%d errors=%d)", ns, ns.retries, ns.errors)

	p.servers = append(p.servers[:idx], p.servers[idx+1:]...)
	if idx < p.idx {
		p.idx--
	}

	if n > 1 {
		p.interval = time.Duration(float64(p.interval) * float64(n) / float64(n-1))
	}
}

// throttle blocks until the rate limit allows the next send.
func (p *Provider) throttle(ctx context.Context) {
	p.mu.Lock()
	interval := p.interval

	var wait time.Duration

	if len(p.sendLog) > 0 {
		last := p.sendLog[len(p.sendLog)-1]
		if until := interval - time.Since(last); until > 0 {
			wait = until
		}
	}
	p.mu.Unlock()

	if wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
		}
	}

	p.mu.Lock()
	now := time.Now()
	p.sendLog = append(p.sendLog, now)
	p.trimSendLogLocked(now)
	p.mu.Unlock()
}

func (p *Provider) trimSendLogLocked(now time.Time) {
	cut := 0

	for cut < len(p.sendLog) && now.Sub(p.sendLog[cut]) > rateWindow {
		cut++
	}

	p.sendLog = p.sendLog[cut:]
}

// QueryRate returns requests/second averaged over the last 2s of sends.
func (p *Provider) QueryRate() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	p.trimSendLogLocked(now)

	if len(p.sendLog) == 0 {
		return 0
	}

	span := now.Sub(p.sendLog[0]).Seconds()
	if span <= 0 {
		return float64(len(p.sendLog))
	}

	return float64(len(p.sendLog)) / span
}
