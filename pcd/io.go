package pcd

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/edaniels/golog"
	"github.com/edaniels/lidario"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/seqsense/pcgol/pc"
	"go.uber.org/multierr"
)

// ErrUnsupportedFormat is returned for file extensions that can not be read
// or written.
var ErrUnsupportedFormat = errors.New("unsupported point cloud format")

// ReadFile reads a .las or .pcd file.
func ReadFile(path string, logger golog.Logger) (*Cloud, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".las":
		return ReadLAS(path, logger)
	case ".pcd":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		c, err := ReadPCD(f)
		return c, multierr.Combine(err, f.Close())
	case ".laz":
		return nil, errors.Wrap(ErrUnsupportedFormat, "compressed LAZ must be decompressed to LAS first")
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "do not know how to read file %q", path)
	}
}

// WriteFile writes c as .las or .pcd according to the extension of path.
func WriteFile(path string, c *Cloud) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".las":
		return WriteLAS(path, c)
	case ".pcd":
		return writePCDFile(path, c)
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "do not know how to write file %q", path)
	}
}

func writePCDFile(path string, c *Cloud) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return WritePCD(f, c)
}

// ReadPCD parses a PCD stream into the x, y, z (and rgb if present) layout.
// The translation of the VIEWPOINT header is taken as the origin of the
// stored float32 coordinates.
func ReadPCD(r io.Reader) (*Cloud, error) {
	pp, err := pc.Unmarshal(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse pcd")
	}
	var origin r3.Vector
	if len(pp.Viewpoint) >= 3 {
		origin = r3.Vector{X: float64(pp.Viewpoint[0]), Y: float64(pp.Viewpoint[1]), Z: float64(pp.Viewpoint[2])}
	}
	if pp.Points == 0 {
		return New(origin, nil), nil
	}
	it, err := pp.Vec3Iterator()
	if err != nil {
		return nil, errors.Wrap(err, "pcd has no x, y, z fields")
	}
	points := make([]r3.Vector, pp.Points)
	for i := range points {
		v := it.Vec3At(i)
		points[i] = origin.Add(r3.Vector{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])})
	}
	var colors []uint32
	if ct, err := pp.Uint32Iterator(fieldRGB); err == nil {
		colors = make([]uint32, pp.Points)
		for i := range colors {
			colors[i] = ct.Uint32() & 0xFFFFFF
			ct.Incr()
		}
	}
	return NewColored(origin, points, colors)
}

// WritePCD writes the stored coordinates of c with the origin as the
// VIEWPOINT translation. The origin is moved to whole metres first so that
// the header, which holds float32 with four decimals, stores it exactly.
func WritePCD(w io.Writer, c *Cloud) error {
	if c.Len() == 0 {
		pp := newPointCloud(0, false)
		if c != nil {
			pp.Viewpoint = viewpoint(pcdOrigin(c.Origin))
		}
		return pc.Marshal(pp, w)
	}
	if o := pcdOrigin(c.Origin); o != c.Origin {
		moved, err := NewColored(o, c.WorldPoints(), c.Colors())
		if err != nil {
			return err
		}
		c = moved
	}
	pp := &pc.PointCloud{
		PointCloudHeader: c.PointCloudHeader.Clone(),
		Points:           c.Points,
		Data:             c.Data,
	}
	pp.Viewpoint = viewpoint(c.Origin)
	return pc.Marshal(pp, w)
}

func pcdOrigin(o r3.Vector) r3.Vector {
	return r3.Vector{X: math.Floor(o.X), Y: math.Floor(o.Y), Z: math.Floor(o.Z)}
}

// viewpoint is the translation o with the identity rotation.
func viewpoint(o r3.Vector) []float32 {
	return []float32{float32(o.X), float32(o.Y), float32(o.Z), 1, 0, 0, 0}
}

// ReadLAS reads a LAS file. The origin is the floor of the first point's x
// and y so that local coordinates stay small.
func ReadLAS(path string, logger golog.Logger) (_ *Cloud, err error) {
	lf, err := lidario.NewLasFile(path, "r")
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Combine(err, lf.Close())
	}()

	n := lf.Header.NumberPoints
	points := make([]r3.Vector, 0, n)
	// Point formats 0 and 1 return an empty RgbData, not nil.
	colored := lf.Header.PointFormatID == 2 || lf.Header.PointFormatID == 3
	var colors []uint32
	if colored {
		colors = make([]uint32, 0, n)
	}
	for i := 0; i < n; i++ {
		p, err := lf.LasPoint(i)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read point %d", i)
		}
		data := p.PointData()
		points = append(points, r3.Vector{X: data.X, Y: data.Y, Z: data.Z})

		if !colored {
			continue
		}
		var rgb uint32
		if d := p.RgbData(); d != nil {
			rgb = PackRGB(uint8(d.Red/256), uint8(d.Green/256), uint8(d.Blue/256))
		}
		colors = append(colors, rgb)
	}

	var origin r3.Vector
	if len(points) > 0 {
		origin = r3.Vector{X: math.Floor(points[0].X), Y: math.Floor(points[0].Y)}
	}
	if logger != nil {
		logger.Debugw("read las file", "path", path, "points", len(points), "colored", colors != nil)
	}
	return NewColored(origin, points, colors)
}

// WriteLAS writes c to a LAS file in world coordinates.
func WriteLAS(path string, c *Cloud) (err error) {
	lf, err := lidario.NewLasFile(path, "w")
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, lf.Close())
	}()

	colored := c.HasColor()
	pointFormatID := 0
	if colored {
		pointFormatID = 2
	}
	if err := lf.AddHeader(lidario.LasHeader{
		PointFormatID: byte(pointFormatID),
	}); err != nil {
		return err
	}

	colors := c.Colors()
	for i, p := range c.WorldPoints() {
		pr0 := &lidario.PointRecord0{
			X: p.X,
			Y: p.Y,
			Z: p.Z,
			BitField: lidario.PointBitField{
				Value: (1) | (1 << 3),
			},
			PointSourceID: 1,
		}
		var lp lidario.LasPointer = pr0
		if colored {
			r, g, b := UnpackRGB(colors[i])
			lp = &lidario.PointRecord2{
				PointRecord0: pr0,
				RGB: &lidario.RgbData{
					Red:   uint16(r) * 256,
					Green: uint16(g) * 256,
					Blue:  uint16(b) * 256,
				},
			}
		}
		if err := lf.AddLasPoint(lp); err != nil {
			return err
		}
	}
	return nil
}
