// Package pcd provides the point cloud value passed between pipeline stages.
package pcd

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"
)

// ErrEmptyCloud is returned by stages given a nil or empty cloud.
var ErrEmptyCloud = errors.New("point cloud is not loaded or is empty")

const fieldRGB = "rgb"

// Cloud is a point cloud whose float32 points are stored relative to Origin.
// Projected LiDAR coordinates are too large for float32, so every world
// coordinate is Origin plus the stored local coordinate.
type Cloud struct {
	*pc.PointCloud
	Origin r3.Vector
}

// Validate returns ErrEmptyCloud if c is nil or has no points.
func Validate(c *Cloud) error {
	if c.Len() == 0 {
		return ErrEmptyCloud
	}
	return nil
}

func newPointCloud(n int, color bool) *pc.PointCloud {
	h := pc.PointCloudHeader{
		Version: 0.7,
		Fields:  []string{"x", "y", "z"},
		Size:    []int{4, 4, 4},
		Type:    []string{"F", "F", "F"},
		Count:   []int{1, 1, 1},
		Width:   n,
		Height:  1,
	}
	if color {
		h.Fields = append(h.Fields, fieldRGB)
		h.Size = append(h.Size, 4)
		h.Type = append(h.Type, "U")
		h.Count = append(h.Count, 1)
	}
	pp := &pc.PointCloud{
		PointCloudHeader: h,
		Points:           n,
	}
	pp.Data = make([]byte, n*pp.Stride())
	return pp
}

// New builds a cloud from world coordinates.
func New(origin r3.Vector, points []r3.Vector) *Cloud {
	c, _ := NewColored(origin, points, nil)
	return c
}

// NewColored builds a cloud from world coordinates and packed RGB colors.
// colors may be nil; otherwise it must have one entry per point.
func NewColored(origin r3.Vector, points []r3.Vector, colors []uint32) (*Cloud, error) {
	if colors != nil && len(colors) != len(points) {
		return nil, errors.Errorf("got %d colors for %d points", len(colors), len(points))
	}
	pp := newPointCloud(len(points), colors != nil)
	c := &Cloud{PointCloud: pp, Origin: origin}
	if len(points) == 0 {
		return c, nil
	}
	it, err := pp.Vec3Iterator()
	if err != nil {
		return nil, err
	}
	for _, p := range points {
		it.SetVec3(c.local(p))
		it.Incr()
	}
	if colors != nil {
		ct, err := pp.Uint32Iterator(fieldRGB)
		if err != nil {
			return nil, err
		}
		for _, rgb := range colors {
			ct.SetUint32(rgb)
			ct.Incr()
		}
	}
	return c, nil
}

// Len returns the number of points. It is safe on a nil cloud.
func (c *Cloud) Len() int {
	if c == nil || c.PointCloud == nil {
		return 0
	}
	return c.Points
}

func (c *Cloud) HasColor() bool {
	if c == nil || c.PointCloud == nil {
		return false
	}
	for _, f := range c.Fields {
		if f == fieldRGB {
			return true
		}
	}
	return false
}

func (c *Cloud) local(p r3.Vector) mat.Vec3 {
	d := p.Sub(c.Origin)
	return mat.Vec3{float32(d.X), float32(d.Y), float32(d.Z)}
}

func (c *Cloud) world(v mat.Vec3) r3.Vector {
	return c.Origin.Add(r3.Vector{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])})
}

// WorldPoints returns the world coordinates of every point.
func (c *Cloud) WorldPoints() []r3.Vector {
	n := c.Len()
	if n == 0 {
		return nil
	}
	it, err := c.Vec3Iterator()
	if err != nil {
		return nil
	}
	out := make([]r3.Vector, n)
	for i := range out {
		out[i] = c.world(it.Vec3At(i))
	}
	return out
}

// Colors returns the packed RGB of every point, or nil if the cloud has no
// color field.
func (c *Cloud) Colors() []uint32 {
	if !c.HasColor() {
		return nil
	}
	ct, err := c.Uint32Iterator(fieldRGB)
	if err != nil {
		return nil
	}
	out := make([]uint32, 0, c.Points)
	for i := 0; i < c.Points; i++ {
		out = append(out, ct.Uint32())
		ct.Incr()
	}
	return out
}

// Clone returns a deep copy.
func (c *Cloud) Clone() *Cloud {
	if c == nil || c.PointCloud == nil {
		return nil
	}
	pp := &pc.PointCloud{
		PointCloudHeader: c.PointCloudHeader.Clone(),
		Points:           c.Points,
		Data:             make([]byte, len(c.Data)),
	}
	copy(pp.Data, c.Data)
	return &Cloud{PointCloud: pp, Origin: c.Origin}
}

// Colorize returns a copy of c with every point set to rgb.
func (c *Cloud) Colorize(rgb uint32) (*Cloud, error) {
	colors := make([]uint32, c.Len())
	for i := range colors {
		colors[i] = rgb
	}
	return NewColored(c.Origin, c.WorldPoints(), colors)
}

// Merge returns the union of c and o, points of c first.
func (c *Cloud) Merge(o *Cloud) (*Cloud, error) {
	switch {
	case o.Len() == 0 && c.Len() == 0:
		return New(c.originOr(o), nil), nil
	case o.Len() == 0:
		return c.Clone(), nil
	case c.Len() == 0:
		return o.Clone(), nil
	}
	if c.Origin == o.Origin && sameLayout(c.PointCloud, o.PointCloud) {
		n := c.Points + o.Points
		pp := &pc.PointCloud{
			PointCloudHeader: c.PointCloudHeader.Clone(),
			Points:           n,
			Data:             make([]byte, 0, n*c.Stride()),
		}
		pp.Data = append(pp.Data, c.Data[:c.Stride()*c.Points]...)
		pp.Data = append(pp.Data, o.Data[:o.Stride()*o.Points]...)
		pp.Width = n
		pp.Height = 1
		return &Cloud{PointCloud: pp, Origin: c.Origin}, nil
	}

	points := append(c.WorldPoints(), o.WorldPoints()...)
	var colors []uint32
	if c.HasColor() && o.HasColor() {
		colors = append(c.Colors(), o.Colors()...)
	}
	return NewColored(c.Origin, points, colors)
}

func (c *Cloud) originOr(o *Cloud) r3.Vector {
	if c != nil {
		return c.Origin
	}
	if o != nil {
		return o.Origin
	}
	return r3.Vector{}
}

func sameLayout(a, b *pc.PointCloud) bool {
	if len(a.Fields) != len(b.Fields) {
		return false
	}
	for i := range a.Fields {
		if a.Fields[i] != b.Fields[i] || a.Size[i] != b.Size[i] ||
			a.Type[i] != b.Type[i] || a.Count[i] != b.Count[i] {
			return false
		}
	}
	return true
}

// PackRGB packs 8 bit channels as 0x00RRGGBB.
func PackRGB(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

func UnpackRGB(rgb uint32) (r, g, b uint8) {
	return uint8(rgb >> 16), uint8(rgb >> 8), uint8(rgb)
}
