package plane

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/seqsense/pcdbuilding/stage"
)

type Category int

const (
	Other Category = iota
	Wall
	Roof
)

func (c Category) String() string {
	switch c {
	case Wall:
		return "Wall"
	case Roof:
		return "Roof"
	default:
		return "Other"
	}
}

type ClassifyOptions struct {
	MinRoofHeight  float64 `yaml:"min_roof_height"`
	WallMaxNormalZ float64 `yaml:"wall_max_normal_z"`
	RoofMinNormalZ float64 `yaml:"roof_min_normal_z"`
}

func DefaultClassifyOptions() ClassifyOptions {
	return ClassifyOptions{
		MinRoofHeight:  5.0,
		WallMaxNormalZ: 0.3,
		RoofMinNormalZ: 0.7,
	}
}

func (o ClassifyOptions) Validate() error {
	if o.WallMaxNormalZ < 0 || o.RoofMinNormalZ > 1 || o.WallMaxNormalZ > o.RoofMinNormalZ {
		return errors.Errorf("need 0 <= wall max normal z (%v) <= roof min normal z (%v) <= 1",
			o.WallMaxNormalZ, o.RoofMinNormalZ)
	}
	return nil
}

// Classify returns the category of a plane with the given normal and
// highest point. A zero normal is Other.
func Classify(normal r3.Vector, maxZ float64, o ClassifyOptions) Category {
	if normal.Norm2() == 0 {
		return Other
	}
	nz := math.Abs(normal.Normalize().Z)
	switch {
	case nz < o.WallMaxNormalZ:
		return Wall
	case nz > o.RoofMinNormalZ && maxZ >= o.MinRoofHeight:
		return Roof
	default:
		return Other
	}
}

// Classification holds the planes of each kept category in input order.
type Classification struct {
	Walls []*Plane
	Roofs []*Plane
}

// ClassifyPlanes classifies planes[i] with normals[i]. Extra entries of the
// longer slice are ignored and empty planes are Other.
func ClassifyPlanes(planes []*Plane, normals []r3.Vector, o ClassifyOptions, ctx *stage.Context) Classification {
	n := len(planes)
	if len(normals) < n {
		n = len(normals)
	}

	var res Classification
	rows := make([][]interface{}, 0, n)
	for i := 0; i < n; i++ {
		p := planes[i]
		minZ, maxZ, ok := p.HeightRange()
		cat := Other
		if ok {
			cat = Classify(normals[i], maxZ, o)
		}
		switch cat {
		case Wall:
			res.Walls = append(res.Walls, p)
		case Roof:
			res.Roofs = append(res.Roofs, p)
		}
		rows = append(rows, []interface{}{
			i + 1, cat.String(), p.Len(), fmt.Sprintf("%.2f to %.2f", minZ, maxZ),
		})
	}

	ctx.Table("Classified Planes", []string{"Plane", "Type", "Points", "Height Range"}, rows)
	ctx.Set("classified_walls", len(res.Walls))
	ctx.Set("classified_roofs", len(res.Roofs))
	ctx.Track("Classified planes: %d walls, %d roofs.", len(res.Walls), len(res.Roofs))
	ctx.Infof("Classified %d walls and %d roofs.", len(res.Walls), len(res.Roofs))
	return res
}
