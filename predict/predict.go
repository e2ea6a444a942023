// Package predict estimates a zone's total record count from the NSEC3
// walk's (coverage_fraction, chain_size) progress, fitting the curve
// b - sqrt(exp(a)*(1-x)) the way the original tool's separate predictor
// process did (predict.py), translated from scipy.optimize.leastsq to a
// hand-rolled Gauss-Newton solver since the pack carries no numerical
// optimization library for either language's ecosystem to borrow from.
package predict

import (
	"context"
	"math"
	"sync"
)

// repredictThreshold bounds how many additional ready samples are drained
// into one fit, mirroring predict.py's PredictorProcess.run loop.
const repredictThreshold = 20

// sampleQueueSize is the Observe() backlog. A full queue means the fit
// goroutine is still busy; Observe drops rather than blocks the walker.
const sampleQueueSize = 256

type observation struct {
	coverage float64
	chain    int
}

// Zone implements walker.Predictor: it accumulates (coverage, chain size)
// samples off of the walker's hot path and asynchronously maintains a
// best-effort estimate of the zone's total record count.
type Zone struct {
	in chan observation

	mu     sync.Mutex
	size   float64
	hasEst bool
}

// NewZone starts a Zone predictor. The background fit loop exits when ctx
// is cancelled.
func NewZone(ctx context.Context) *Zone {
	z := &Zone{in: make(chan observation, sampleQueueSize)}

	go z.run(ctx)

	return z
}

// Observe records one progress sample. Non-blocking: a saturated backlog is
// dropped, since the next observation will supersede it anyway.
func (z *Zone) Observe(coverageFraction float64, chainSize int) {
	select {
	case z.in <- observation{coverage: coverageFraction, chain: chainSize}:
	default:
	}
}

// Estimate returns the most recently computed zone-size estimate, and
// whether one has been computed yet.
func (z *Zone) Estimate() (float64, bool) {
	z.mu.Lock()
	defer z.mu.Unlock()

	return z.size, z.hasEst
}

func (z *Zone) run(ctx context.Context) {
	var data []observation

	for {
		select {
		case s, ok := <-z.in:
			if !ok {
				return
			}

			data = append(data, s)
			data = drain(z.in, data)

			size := predictZoneSize(data)

			z.mu.Lock()
			z.size = size
			z.hasEst = true
			z.mu.Unlock()
		case <-ctx.Done():
			return
		}
	}
}

func drain(in <-chan observation, data []observation) []observation {
	for i := 0; i < repredictThreshold; i++ {
		select {
		case s, ok := <-in:
			if !ok {
				return data
			}

			data = append(data, s)
		default:
			return data
		}
	}

	return data
}

// sampleIndices mirrors predict.py's sample(): n indices spread evenly
// across [0, length).
func sampleIndices(length, n int) []int {
	idx := make([]int, n)

	for j := 0; j < n; j++ {
		idx[j] = int(math.Ceil(float64(j) * float64(length) / float64(n)))
	}

	return idx
}

// predictZoneSize mirrors PredictorProcess._predict_zone_size: subsample to
// at most 5 points, fit the coverage curve, and never predict fewer records
// than already observed.
func predictZoneSize(data []observation) float64 {
	npts := len(data)
	current := float64(data[npts-1].chain)

	if npts <= 1 {
		return current
	}

	sampleSz := 5
	if npts < sampleSz {
		sampleSz = npts
	}

	idx := sampleIndices(npts, sampleSz-1)
	pts := make([]point, 0, sampleSz)

	for _, i := range idx {
		pts = append(pts, point{x: data[i].coverage, y: float64(data[i].chain)})
	}

	pts = append(pts, point{x: data[npts-1].coverage, y: current})

	lastcov := pts[len(pts)-1].x
	if lastcov < 1e-8 {
		lastcov = 1e-8
	}

	binit := (1 / lastcov) * pts[len(pts)-1].y

	var b float64

	if binit > 0 {
		_, b = fitCurve(pts, 2*math.Log(binit), binit)
	}

	if b < current {
		return current
	}

	return b
}
