// Package plane extracts planar surfaces from a cloud and classifies them
// as walls or roofs.
package plane

import (
	"github.com/golang/geo/r3"
	"github.com/seqsense/pcdbuilding/pcd"
)

// Plane is a set of points fitted by a single plane. Normal is the unit
// normal of the first fit; merging more points does not update it.
type Plane struct {
	Cloud  *pcd.Cloud
	Normal r3.Vector
}

func (p *Plane) Len() int {
	if p == nil {
		return 0
	}
	return p.Cloud.Len()
}

// HeightRange returns the lowest and highest world z of the plane points.
func (p *Plane) HeightRange() (minZ, maxZ float64, ok bool) {
	if p == nil {
		return 0, 0, false
	}
	return p.Cloud.HeightRange()
}

func (p *Plane) Centroid() (r3.Vector, bool) {
	if p == nil {
		return r3.Vector{}, false
	}
	return p.Cloud.Centroid()
}

// Merge adds the points of o to p.
func (p *Plane) Merge(o *Plane) error {
	c, err := p.Cloud.Merge(o.Cloud)
	if err != nil {
		return err
	}
	p.Cloud = c
	return nil
}
