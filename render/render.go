// Package render draws clouds as top-down scatter plots and colours the
// classified planes.
package render

import (
	"fmt"
	"image/color"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/seqsense/pcdbuilding/pcd"
	"github.com/seqsense/pcdbuilding/plane"
	"github.com/seqsense/pcdbuilding/preprocess"
	"github.com/seqsense/pcdbuilding/stage"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	WallColor = pcd.PackRGB(0, 0, 255)
	RoofColor = pcd.PackRGB(255, 0, 0)

	// uncolored is used for clouds without rgb.
	uncolored = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

type Options struct {
	Width     float64 `yaml:"width"`
	Height    float64 `yaml:"height"`
	PointSize float64 `yaml:"point_size"`
}

// DefaultOptions returns a 10x10 inch plot with 0.5pt points.
func DefaultOptions() Options {
	return Options{Width: 10, Height: 10, PointSize: 0.5}
}

// PrepareClassified returns the points of all walls coloured blue followed
// by the points of all roofs coloured red.
func PrepareClassified(walls, roofs []*plane.Plane, ctx *stage.Context) (*pcd.Cloud, error) {
	w, err := combine(walls, WallColor)
	if err != nil {
		return nil, err
	}
	r, err := combine(roofs, RoofColor)
	if err != nil {
		return nil, err
	}
	c, err := w.Merge(r)
	if err != nil {
		return nil, err
	}
	if err := pcd.Validate(c); err != nil {
		return nil, errors.Wrap(err, "no classified points")
	}
	ctx.Set("combined_cloud_points", c.Len())
	ctx.Track("Prepared classified clouds: %d total points.", c.Len())
	ctx.Table("Classified Clouds Summary", []string{"Category", "Points"}, [][]interface{}{
		{"Walls", w.Len()},
		{"Roofs", r.Len()},
	})
	return c, nil
}

func combine(planes []*plane.Plane, rgb uint32) (*pcd.Cloud, error) {
	var out *pcd.Cloud
	for _, p := range planes {
		if p.Len() == 0 {
			continue
		}
		colored, err := p.Cloud.Colorize(rgb)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = colored
			continue
		}
		if out, err = out.Merge(colored); err != nil {
			return nil, err
		}
	}
	if out == nil {
		return pcd.New(originOf(planes), nil), nil
	}
	return out, nil
}

func originOf(planes []*plane.Plane) r3.Vector {
	for _, p := range planes {
		if p != nil && p.Cloud != nil {
			return p.Cloud.Origin
		}
	}
	return r3.Vector{}
}

// Renderer writes top-down plots of clouds.
type Renderer struct {
	Options
}

func New(o Options) *Renderer {
	return &Renderer{Options: o}
}

// Render saves a scatter plot of the world x, y of c to path. The format is
// chosen by the extension: .png, .svg or .pdf.
func (r *Renderer) Render(c *pcd.Cloud, path string, ctx *stage.Context) error {
	if err := pcd.Validate(c); err != nil {
		return err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png", ".svg", ".pdf":
	default:
		return errors.Errorf("unsupported image format %q", ext)
	}

	p, err := r.plot(c, filepath.Base(path))
	if err != nil {
		return err
	}
	if err := p.Save(vg.Length(r.Width)*vg.Inch, vg.Length(r.Height)*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "failed to save plot %s", path)
	}
	ctx.Track("Visualized point cloud with %d points.", c.Len())
	ctx.Infof("Visualizing point cloud with %d points.", c.Len())
	return nil
}

func (r *Renderer) plot(c *pcd.Cloud, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%d points)", title, c.Len())
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"

	groups := make(map[uint32]plotter.XYs)
	colors := c.Colors()
	for i, pt := range c.WorldPoints() {
		var key uint32
		if colors != nil {
			key = colors[i]
		}
		groups[key] = append(groups[key], plotter.XY{X: pt.X, Y: pt.Y})
	}
	keys := make([]uint32, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, k := range keys {
		s, err := plotter.NewScatter(groups[k])
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(r.PointSize)
		s.GlyphStyle.Color = uncolored
		if colors != nil {
			red, green, blue := pcd.UnpackRGB(k)
			s.GlyphStyle.Color = color.RGBA{R: red, G: green, B: blue, A: 255}
		}
		p.Add(s)
	}
	return p, nil
}

// PreprocessAndRender preprocesses c and renders the result.
func (r *Renderer) PreprocessAndRender(c *pcd.Cloud, o preprocess.Options, path string, ctx *stage.Context) error {
	c, err := preprocess.Process(c, o, ctx)
	if err != nil {
		return err
	}
	ctx.Track("Preprocessed point cloud for visualization.")
	return r.Render(c, path, ctx)
}
