package predict

import "math"

// point is one (coverage_fraction, chain_size) sample fed to the curve fit.
type point struct {
	x, y float64
}

const (
	maxFitIterations  = 50
	fitConvergence    = 1e-9
	singularThreshold = 1e-12
)

// fitCurve fits b - sqrt(exp(a)*(1-x)) to pts by Gauss-Newton iteration,
// starting from (a0, b0). It returns (0, 0) — the same "no usable fit"
// sentinel the original scipy.optimize.leastsq call effectively produced
// whenever it hit a ValueError/OverflowError/ZeroDivisionError — if the
// normal equations go singular or a step walks off to a non-finite value.
func fitCurve(pts []point, a0, b0 float64) (a, b float64) {
	a, b = a0, b0

	for iter := 0; iter < maxFitIterations; iter++ {
		var j00, j01, j11, r0, r1 float64

		for _, p := range pts {
			base := math.Exp(a) * (1 - p.x)
			if base < 0 {
				base = 0
			}

			sq := math.Sqrt(base)
			res := (b - sq) - p.y
			dfda := -0.5 * sq

			j00 += dfda * dfda
			j01 += dfda
			j11++
			r0 += dfda * res
			r1 += res
		}

		det := j00*j11 - j01*j01
		if math.Abs(det) < singularThreshold || math.IsNaN(det) {
			return 0, 0
		}

		da := (r0*j11 - r1*j01) / det
		db := (j00*r1 - j01*r0) / det

		a -= da
		b -= db

		if math.IsNaN(a) || math.IsNaN(b) || math.IsInf(a, 0) || math.IsInf(b, 0) {
			return 0, 0
		}

		if math.Abs(da) < fitConvergence && math.Abs(db) < fitConvergence {
			break
		}
	}

	return a, b
}
