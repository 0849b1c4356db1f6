// Package height keeps the points above a height threshold.
package height

import (
	"github.com/golang/geo/r3"
	"github.com/seqsense/pcdbuilding/pcd"
	"github.com/seqsense/pcdbuilding/pcd/filter"
)

type aboveFilter struct {
	threshold float64
}

// New returns a filter keeping points with world z strictly above
// threshold.
func New(threshold float64) filter.Filter {
	return &aboveFilter{threshold: threshold}
}

func (f *aboveFilter) Filter(c *pcd.Cloud) (*pcd.Cloud, error) {
	return c.PassThrough(func(_ int, p r3.Vector) bool {
		return p.Z > f.threshold
	})
}
