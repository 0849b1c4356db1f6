// Package polygon keeps the points whose horizontal position lies inside a
// closed polygon.
package polygon

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/kellydunn/golang-geo"
	"github.com/pkg/errors"
	"github.com/seqsense/pcdbuilding/pcd"
	"github.com/seqsense/pcdbuilding/pcd/filter"
)

// ErrTooFewVertices is returned for polygons with less than three vertices.
var ErrTooFewVertices = errors.New("polygon needs at least 3 vertices")

type polygonFilter struct {
	polygon *geo.Polygon
}

// New returns a filter for the polygon given by vertices in world x, y.
// The polygon is closed implicitly.
func New(vertices []r2.Point) (filter.Filter, error) {
	if len(vertices) < 3 {
		return nil, errors.Wrapf(ErrTooFewVertices, "got %d", len(vertices))
	}
	points := make([]*geo.Point, len(vertices))
	for i, v := range vertices {
		points[i] = toGeo(v.X, v.Y)
	}
	return &polygonFilter{polygon: geo.NewPolygon(points)}, nil
}

// x and y are used as planar coordinates of the ray cast.
func toGeo(x, y float64) *geo.Point {
	return geo.NewPoint(y, x)
}

func (f *polygonFilter) Filter(c *pcd.Cloud) (*pcd.Cloud, error) {
	return c.PassThrough(func(_ int, p r3.Vector) bool {
		return f.polygon.Contains(toGeo(p.X, p.Y))
	})
}
