// Package sac fits planes to point clouds with the pcgol sample consensus
// driver.
package sac

import (
	"math/rand"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/seqsense/pcdbuilding/pcd"
	pcsac "github.com/seqsense/pcgol/pc/sac"
)

// Options of a single RANSAC plane fit.
type Options struct {
	DistanceThreshold float64 `yaml:"distance_threshold"`
	SampleSize        int     `yaml:"sample_size"`
	Iterations        int     `yaml:"iterations"`
	Seed              int64   `yaml:"seed"`
}

func DefaultOptions() Options {
	return Options{
		DistanceThreshold: 0.1,
		SampleSize:        3,
		Iterations:        1000,
		Seed:              1,
	}
}

func (o Options) Validate() error {
	switch {
	case o.DistanceThreshold <= 0:
		return errors.Errorf("distance threshold must be positive, got %v", o.DistanceThreshold)
	case o.SampleSize < 3:
		return errors.Errorf("sample size must be at least 3, got %d", o.SampleSize)
	case o.Iterations <= 0:
		return errors.Errorf("iterations must be positive, got %d", o.Iterations)
	}
	return nil
}

// Result of a plane fit. Coefficients are a, b, c, d of ax+by+cz+d=0 in
// world coordinates with a unit normal. Inliers index the fitted cloud in
// ascending order.
type Result struct {
	Coefficients [4]float64
	Inliers      []int
}

func (r Result) Normal() r3.Vector {
	return r3.Vector{X: r.Coefficients[0], Y: r.Coefficients[1], Z: r.Coefficients[2]}
}

// RANSAC is the default plane fitter. Runs with the same Options and input
// give the same Result.
type RANSAC struct{}

// Fit finds the dominant plane of c. An empty Result is returned when c has
// fewer points than the sample size or no non-degenerate sample is found.
func (RANSAC) Fit(c *pcd.Cloud, o Options) (Result, error) {
	if err := o.Validate(); err != nil {
		return Result{}, err
	}
	n := c.Len()
	if n < o.SampleSize {
		return Result{}, nil
	}
	it, err := c.Vec3Iterator()
	if err != nil {
		return Result{}, err
	}

	rnd := rand.New(rand.NewSource(o.Seed))
	s := pcsac.New(
		NewRandomSampler(rnd, n),
		NewPlaneModel(it, o.SampleSize, float32(o.DistanceThreshold)),
	)
	if ok := s.Compute(o.Iterations); !ok {
		return Result{}, nil
	}
	coeff, ok := s.Coefficients().(*planeCoefficients)
	if !ok {
		return Result{}, errors.New("unexpected model coefficients")
	}

	// Stored points are relative to the origin.
	norm := r3.Vector{X: float64(coeff.norm[0]), Y: float64(coeff.norm[1]), Z: float64(coeff.norm[2])}
	d := float64(coeff.d) + norm.Dot(c.Origin)
	return Result{
		Coefficients: [4]float64{norm.X, norm.Y, norm.Z, -d},
		Inliers:      coeff.Inliers(float32(o.DistanceThreshold)),
	}, nil
}
