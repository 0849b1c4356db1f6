package pcd

import (
	"github.com/golang/geo/r3"
	"github.com/seqsense/pcgol/pc"
)

// MinMax returns the world bounding box of the cloud.
func MinMax(c *Cloud) (r3.Vector, r3.Vector, error) {
	if err := Validate(c); err != nil {
		return r3.Vector{}, r3.Vector{}, err
	}
	it, err := c.Vec3Iterator()
	if err != nil {
		return r3.Vector{}, r3.Vector{}, err
	}
	min, max, err := pc.MinMaxVec3(it)
	if err != nil {
		return r3.Vector{}, r3.Vector{}, err
	}
	return c.world(min), c.world(max), nil
}

// HeightRange returns the lowest and highest world z. ok is false for an
// empty cloud.
func (c *Cloud) HeightRange() (minZ, maxZ float64, ok bool) {
	n := c.Len()
	if n == 0 {
		return 0, 0, false
	}
	it, err := c.Vec3Iterator()
	if err != nil {
		return 0, 0, false
	}
	lo, hi := it.Vec3At(0)[2], it.Vec3At(0)[2]
	for i := 1; i < n; i++ {
		z := it.Vec3At(i)[2]
		if z < lo {
			lo = z
		}
		if z > hi {
			hi = z
		}
	}
	return c.Origin.Z + float64(lo), c.Origin.Z + float64(hi), true
}

// Centroid returns the mean world position. ok is false for an empty cloud.
func (c *Cloud) Centroid() (r3.Vector, bool) {
	n := c.Len()
	if n == 0 {
		return r3.Vector{}, false
	}
	it, err := c.Vec3Iterator()
	if err != nil {
		return r3.Vector{}, false
	}
	var sum r3.Vector
	for i := 0; i < n; i++ {
		v := it.Vec3At(i)
		sum = sum.Add(r3.Vector{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])})
	}
	return c.Origin.Add(sum.Mul(1 / float64(n))), true
}
