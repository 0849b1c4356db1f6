// Package outlier implements statistical outlier removal.
package outlier

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/seqsense/pcdbuilding/pcd"
	"github.com/seqsense/pcdbuilding/pcd/filter"
	"gonum.org/v1/gonum/spatial/kdtree"
)

type Options struct {
	Neighbors int     `yaml:"neighbors"`
	StdRatio  float64 `yaml:"std_ratio"`
}

func DefaultOptions() Options {
	return Options{Neighbors: 10, StdRatio: 3.0}
}

func (o Options) Validate() error {
	if o.Neighbors <= 0 {
		return errors.Errorf("neighbor count must be positive, got %d", o.Neighbors)
	}
	if o.StdRatio < 0 {
		return errors.Errorf("std ratio must not be negative, got %v", o.StdRatio)
	}
	return nil
}

type statistical struct {
	Options
}

func New(o Options) filter.Filter {
	return &statistical{Options: o}
}

// Filter removes points whose mean distance to their k nearest neighbours
// is larger than the global mean plus StdRatio standard deviations.
// Clouds with k points or less are returned unchanged.
func (f *statistical) Filter(c *pcd.Cloud) (*pcd.Cloud, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if c.Len() <= f.Neighbors {
		return c.Select(seq(c.Len())), nil
	}

	dists, err := MeanDistances(c, f.Neighbors)
	if err != nil {
		return nil, err
	}
	mean, err := stats.Mean(dists)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute mean distance")
	}
	std, err := stats.StandardDeviation(dists)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute distance deviation")
	}
	limit := mean + f.StdRatio*std

	keep := make([]int, 0, len(dists))
	for i, d := range dists {
		if d <= limit {
			keep = append(keep, i)
		}
	}
	return c.Select(keep), nil
}

// MeanDistances returns, for each point, the mean distance to its k nearest
// neighbours other than itself. c must have more than k points.
func MeanDistances(c *pcd.Cloud, k int) (stats.Float64Data, error) {
	n := c.Len()
	if n <= k {
		return nil, errors.Errorf("need more than %d points, got %d", k, n)
	}
	it, err := c.Vec3Iterator()
	if err != nil {
		return nil, err
	}
	query := make([]kdtree.Point, n)
	for i := range query {
		v := it.Vec3At(i)
		query[i] = kdtree.Point{float64(v[0]), float64(v[1]), float64(v[2])}
	}
	// kdtree.New reorders its input.
	pts := make(kdtree.Points, n)
	copy(pts, query)
	tree := kdtree.New(pts, false)

	out := make(stats.Float64Data, n)
	for i, q := range query {
		keeper := kdtree.NewNKeeper(k + 1)
		tree.NearestSet(keeper, q)
		var sum float64
		for _, cd := range keeper.Heap {
			if cd.Comparable == nil {
				continue
			}
			// The query itself is found at distance zero.
			sum += math.Sqrt(cd.Dist)
		}
		out[i] = sum / float64(k)
	}
	return out, nil
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
