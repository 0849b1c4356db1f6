// Package voxelgrid replaces the points in each occupied voxel by their
// centroid.
package voxelgrid

import (
	"math"

	"github.com/pkg/errors"
	"github.com/seqsense/pcdbuilding/pcd"
	"github.com/seqsense/pcdbuilding/pcd/filter"
	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"
)

type Options struct {
	LeafSize float64
}

type voxelGrid struct {
	Options
}

type voxel struct {
	sum   mat.Vec3
	num   int
	index int
}

func New(leafSize float64) filter.Filter {
	return &voxelGrid{
		Options: Options{
			LeafSize: leafSize,
		},
	}
}

// Filter keeps the non-coordinate fields, such as rgb, of the first point
// of each voxel. Voxels are output in the order of their first point.
func (f *voxelGrid) Filter(c *pcd.Cloud) (*pcd.Cloud, error) {
	if f.LeafSize <= 0 {
		return nil, errors.Errorf("voxel size must be positive, got %v", f.LeafSize)
	}
	if c.Len() == 0 {
		return c.Select(nil), nil
	}
	it, err := c.Vec3Iterator()
	if err != nil {
		return nil, err
	}
	min, _, err := pc.MinMaxVec3(it)
	if err != nil {
		return nil, err
	}
	if it, err = c.Vec3Iterator(); err != nil {
		return nil, err
	}

	leaf := float32(f.LeafSize)
	addr := func(p mat.Vec3) [3]int {
		return [3]int{
			int(math.Floor(float64(p[0] / leaf))),
			int(math.Floor(float64(p[1] / leaf))),
			int(math.Floor(float64(p[2] / leaf))),
		}
	}

	voxels := make(map[[3]int]*voxel)
	var order []*voxel
	for i := 0; it.IsValid(); it.Incr() {
		p := it.Vec3().Sub(min)
		a := addr(p)
		v, ok := voxels[a]
		if !ok {
			v = &voxel{index: i}
			voxels[a] = v
			order = append(order, v)
		}
		v.num++
		v.sum = v.sum.Add(p)
		i++
	}

	n := len(order)
	out := &pc.PointCloud{
		PointCloudHeader: c.PointCloudHeader.Clone(),
		Points:           n,
		Data:             make([]byte, c.Stride()*n),
	}
	out.Width = n
	out.Height = 1
	jt, err := out.Vec3Iterator()
	if err != nil {
		return nil, err
	}
	for j, v := range order {
		pc.Copy(out, j, c.PointCloud, v.index, 1)
		if v.num > 1 {
			jt.SetVec3(v.sum.Mul(1.0 / float32(v.num)).Add(min))
		}
		jt.Incr()
	}
	return &pcd.Cloud{PointCloud: out, Origin: c.Origin}, nil
}
