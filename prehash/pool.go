// Package prehash runs a pool of workers that pre-compute NSEC3 hashes for
// sequential hex-label guesses, so the walker never blocks on SHA-1 while
// waiting for a network round trip.
package prehash

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/anonion0/n3map/log"
	"github.com/anonion0/n3map/name"
	"github.com/anonion0/n3map/rr"
)

// gap is the size of the contiguous counter block each worker claims before
// moving on to its next one (§4.3).
const gap = 1024

// LabelHash is one pre-computed guess: the plaintext label and the NSEC3
// hash of "<label>.<zone>" under the chain's (salt, iterations).
type LabelHash struct {
	Label string
	Hash  [rr.DigestLength]byte
}

// Batch is what a worker hands to the walker once its buffer fills.
type Batch struct {
	Items   []LabelHash
	Counter uint64
}

// Params are the hashing parameters every worker seeds from once, fixed for
// the lifetime of the pool (§4.5's seeding invariant applies here too: a
// pool is started only after the chain's parameters are known).
type Params struct {
	Zone       name.DomainName
	Salt       string
	Iterations uint16
}

// Pool runs Workers goroutines, each producing batches on its own output
// channel. The walker consumes the channels round-robin (see Chans).
type Pool struct {
	chans       []chan Batch
	elementSize int
	cancel      context.CancelFunc
	group       *errgroup.Group
}

// New starts a pool of `workers` goroutines, each generating hex labels from
// a sharded counter starting at labelCounterInit, batching elementSize
// (plaintext, hash) pairs per send.
func New(ctx context.Context, params Params, workers, elementSize int, labelCounterInit uint64) *Pool {
	ctx, cancel := context.WithCancel(ctx)
	group, ctx := errgroup.WithContext(ctx)

	p := &Pool{
		chans:       make([]chan Batch, workers),
		elementSize: elementSize,
		cancel:      cancel,
		group:       group,
	}

	for id := 0; id < workers; id++ {
		p.chans[id] = make(chan Batch, 1)

		id := id
		group.Go(func() error {
			return runWorker(ctx, id, workers, params, elementSize, labelCounterInit, p.chans[id])
		})
	}

	return p
}

// Chans returns the per-worker output channels, in worker-id order, for the
// walker's round-robin consumption loop (§4.3 "Consumption").
func (p *Pool) Chans() []chan Batch { return p.chans }

// Stop terminates every worker and waits for them to exit. Safe to call
// more than once.
func (p *Pool) Stop() error {
	p.cancel()

	err := p.group.Wait()
	if err != nil && err != context.Canceled {
		return err
	}

	return nil
}

func runWorker(
	ctx context.Context, id, workers int, params Params, elementSize int, init uint64, out chan<- Batch,
) error {
	logger := log.WithPrefix("prehash").WithField("worker", id)

	blockStart := uint64(id)*gap + init
	counter := blockStart
	blockEnd := blockStart + gap

	buf := make([]LabelHash, 0, elementSize)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if counter >= blockEnd {
			blockStart += uint64(workers) * gap
			counter = blockStart
			blockEnd = blockStart + gap
		}

		label := fmt.Sprintf("%x", counter)

		dn, err := name.FromString(label + "." + params.Zone.String())
		if err != nil {
			logger.Errorf("building candidate name from counter %d: %v", counter, err)
			counter++

			continue
		}

		hash, err := rr.HashName(dn, params.Salt, params.Iterations)
		if err != nil {
			logger.Errorf("hashing candidate %s: %v", dn, err)
			counter++

			continue
		}

		buf = append(buf, LabelHash{Label: label, Hash: hash})
		counter++

		if len(buf) >= elementSize {
			batch := Batch{Items: buf, Counter: counter}

			select {
			case out <- batch:
			case <-ctx.Done():
				return nil
			}

			buf = make([]LabelHash, 0, elementSize)
		}
	}
}
