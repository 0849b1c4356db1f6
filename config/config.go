// Package config loads the YAML configuration of every pipeline stage.
package config

import (
	"io"
	"os"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/seqsense/pcdbuilding/plane"
	"github.com/seqsense/pcdbuilding/preprocess"
	"github.com/seqsense/pcdbuilding/render"
	"github.com/seqsense/pcdbuilding/segment"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

type Segment struct {
	// Polygon vertices as [x, y] pairs in world coordinates.
	Polygon [][2]float64          `yaml:"polygon"`
	Ground  segment.GroundOptions `yaml:"ground"`
}

type Config struct {
	Preprocess preprocess.Options    `yaml:"preprocess"`
	Segment    Segment               `yaml:"segment"`
	Planes     plane.DetectOptions   `yaml:"planes"`
	Classify   plane.ClassifyOptions `yaml:"classify"`
	Render     render.Options        `yaml:"render"`
}

func Default() Config {
	so := segment.DefaultOptions()
	poly := make([][2]float64, len(so.Polygon))
	for i, p := range so.Polygon {
		poly[i] = [2]float64{p.X, p.Y}
	}
	pc := plane.DefaultConfig()
	return Config{
		Preprocess: preprocess.DefaultOptions(),
		Segment: Segment{
			Polygon: poly,
			Ground:  so.Ground,
		},
		Planes:   pc.Detect,
		Classify: pc.Classify,
		Render:   render.DefaultOptions(),
	}
}

// Load reads path over Default. An empty path returns Default.
func Load(path string) (_ Config, err error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	c, err := Decode(f)
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to load config %q", path)
	}
	return c, nil
}

// Decode reads YAML over Default. Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "invalid yaml")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if err := c.Preprocess.Validate(); err != nil {
		return errors.Wrap(err, "preprocess")
	}
	if len(c.Segment.Polygon) < 3 {
		return errors.Errorf("segment: polygon needs at least 3 vertices, got %d", len(c.Segment.Polygon))
	}
	switch c.Segment.Ground.Strategy {
	case segment.GroundHeight, segment.GroundRANSAC:
	default:
		return errors.Errorf("segment: unknown ground strategy %q", c.Segment.Ground.Strategy)
	}
	if c.Segment.Ground.Strategy == segment.GroundRANSAC {
		if err := c.Segment.Ground.RANSAC.Validate(); err != nil {
			return errors.Wrap(err, "segment")
		}
	}
	if err := c.Planes.Validate(); err != nil {
		return errors.Wrap(err, "planes")
	}
	if err := c.Classify.Validate(); err != nil {
		return errors.Wrap(err, "classify")
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 || c.Render.PointSize <= 0 {
		return errors.Errorf("render: size must be positive, got %vx%v point %v",
			c.Render.Width, c.Render.Height, c.Render.PointSize)
	}
	return nil
}

func (c Config) SegmentOptions() segment.Options {
	poly := make([]r2.Point, len(c.Segment.Polygon))
	for i, p := range c.Segment.Polygon {
		poly[i] = r2.Point{X: p[0], Y: p[1]}
	}
	return segment.Options{
		Preprocess: c.Preprocess,
		Polygon:    poly,
		Ground:     c.Segment.Ground,
	}
}

func (c Config) PlaneConfig() plane.Config {
	return plane.Config{
		Preprocess: c.Preprocess,
		Detect:     c.Planes,
		Classify:   c.Classify,
	}
}
