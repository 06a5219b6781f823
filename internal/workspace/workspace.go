// Package workspace estimates the reachable fingertip workspace by sampling
// joint configurations in parallel.
package workspace

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/fingerkin/internal/finger"
	"github.com/san-kum/fingerkin/internal/rigid"
)

// Limit is a closed joint range in radians.
type Limit struct {
	Min, Max float64
}

type Options struct {
	Samples int
	Workers int
	Seed    int64
	// Limits holds one range per joint. Empty means DefaultLimits.
	Limits []Limit
}

func DefaultOptions() Options {
	return Options{
		Samples: 2000,
		Workers: 4,
		Seed:    1,
	}
}

// DefaultLimits allows slight hyperextension at the first joint and flexion
// up to a right angle everywhere.
func DefaultLimits(joints int) []Limit {
	limits := make([]Limit, joints)
	for i := range limits {
		limits[i] = Limit{Min: 0, Max: math.Pi / 2}
	}
	limits[0].Min = -math.Pi / 12
	return limits
}

// Point is one sampled configuration and the fingertip it reaches.
type Point struct {
	JointAngles []float64
	Tip         rigid.Vec3
}

// Sample draws opts.Samples configurations uniformly within the joint
// limits. Each worker evaluates a contiguous chunk on its own clone of the
// model with its own random source seeded from opts.Seed, so results are
// reproducible for a given seed and worker count.
func Sample(ctx context.Context, model *finger.Model, opts Options) ([]Point, error) {
	if opts.Samples <= 0 {
		return nil, fmt.Errorf("samples must be positive, got %d", opts.Samples)
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	limits := opts.Limits
	if len(limits) == 0 {
		limits = DefaultLimits(model.NumJoints())
	}
	if len(limits) != model.NumJoints() {
		return nil, fmt.Errorf("%w: %d limits for %d joints", finger.ErrInvalidDimension, len(limits), model.NumJoints())
	}

	points := make([]Point, opts.Samples)
	chunk := (opts.Samples + opts.Workers - 1) / opts.Workers

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < opts.Workers; w++ {
		start := w * chunk
		end := min(start+chunk, opts.Samples)
		if start >= end {
			break
		}

		local := model.Clone()
		rng := rand.New(rand.NewSource(opts.Seed + int64(w)))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				angles := make([]float64, len(limits))
				for j, l := range limits {
					angles[j] = l.Min + rng.Float64()*(l.Max-l.Min)
				}
				if err := local.SetJointAngles(angles); err != nil {
					return err
				}
				tip, err := local.TipPosition()
				if err != nil {
					return err
				}
				points[i] = Point{JointAngles: angles, Tip: tip}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

// Bounds returns the axis-aligned box enclosing every fingertip.
func Bounds(points []Point) (lo, hi rigid.Vec3) {
	if len(points) == 0 {
		return lo, hi
	}
	lo, hi = points[0].Tip, points[0].Tip
	for _, p := range points[1:] {
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], p.Tip[k])
			hi[k] = math.Max(hi[k], p.Tip[k])
		}
	}
	return lo, hi
}
