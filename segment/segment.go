// Package segment isolates the survey area and drops ground points.
package segment

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/seqsense/pcdbuilding/pcd"
	"github.com/seqsense/pcdbuilding/pcd/filter/height"
	"github.com/seqsense/pcdbuilding/pcd/filter/polygon"
	"github.com/seqsense/pcdbuilding/pcd/sac"
	"github.com/seqsense/pcdbuilding/preprocess"
	"github.com/seqsense/pcdbuilding/stage"
)

const (
	DefaultZThreshold         = 2.0
	DefaultPipelineZThreshold = 0.5
)

// GroundStrategy selects how ground points are removed.
type GroundStrategy string

const (
	GroundHeight GroundStrategy = "height"
	GroundRANSAC GroundStrategy = "ransac"
)

// DefaultPolygon is the survey area of the Plaza Roma dataset.
func DefaultPolygon() []r2.Point {
	return []r2.Point{
		{X: 281580.799, Y: 1614183.657},
		{X: 281535.686, Y: 1614142.893},
		{X: 281585.177, Y: 1614088.225},
		{X: 281630.142, Y: 1614128.812},
	}
}

// Fitter finds the dominant plane of a cloud.
type Fitter interface {
	Fit(*pcd.Cloud, sac.Options) (sac.Result, error)
}

type GroundOptions struct {
	Strategy   GroundStrategy `yaml:"strategy"`
	ZThreshold float64        `yaml:"z_threshold"`
	RANSAC     sac.Options    `yaml:"ransac"`
}

type Options struct {
	Preprocess preprocess.Options `yaml:"preprocess"`
	Polygon    []r2.Point         `yaml:"-"`
	Ground     GroundOptions      `yaml:"ground"`
}

func DefaultOptions() Options {
	ro := sac.DefaultOptions()
	ro.DistanceThreshold = 0.2
	return Options{
		Preprocess: preprocess.DefaultOptions(),
		Polygon:    DefaultPolygon(),
		Ground: GroundOptions{
			Strategy:   GroundHeight,
			ZThreshold: DefaultPipelineZThreshold,
			RANSAC:     ro,
		},
	}
}

// PolygonFilter keeps the points whose world x, y lies inside the polygon.
func PolygonFilter(c *pcd.Cloud, vertices []r2.Point, ctx *stage.Context) (*pcd.Cloud, error) {
	if err := pcd.Validate(c); err != nil {
		return nil, err
	}
	f, err := polygon.New(vertices)
	if err != nil {
		return nil, err
	}
	out, err := f.Filter(c)
	if err != nil {
		return nil, errors.Wrap(err, "polygon filter failed")
	}
	ctx.Set("polygon_filter", out.Len())
	ctx.Track("Applied polygon filter: %d points remain.", out.Len())
	ctx.StepSummary("Polygon Filter Summary", "Polygon Filter", c.Len(), out.Len())
	return out, nil
}

// GroundRemoval keeps the points strictly above zThreshold.
func GroundRemoval(c *pcd.Cloud, zThreshold float64, ctx *stage.Context) (*pcd.Cloud, error) {
	if err := pcd.Validate(c); err != nil {
		return nil, err
	}
	out, err := height.New(zThreshold).Filter(c)
	if err != nil {
		return nil, errors.Wrap(err, "ground removal failed")
	}
	ctx.Set("ground_removal", out.Len())
	ctx.Track("Ground removal applied: %d points remain.", out.Len())
	ctx.StepSummary("Ground Removal Summary", "Ground Removal", c.Len(), out.Len())
	return out, nil
}

// GroundRemovalRANSAC drops the inliers of the dominant plane. Use it for
// sloped terrain where a fixed height does not separate the ground.
func GroundRemovalRANSAC(c *pcd.Cloud, o sac.Options, fitter Fitter, ctx *stage.Context) (*pcd.Cloud, error) {
	if err := pcd.Validate(c); err != nil {
		return nil, err
	}
	res, err := fitter.Fit(c, o)
	if err != nil {
		return nil, errors.Wrap(err, "ground plane fit failed")
	}
	out := c.SelectInverse(res.Inliers)
	ctx.Set("ground_removal", out.Len())
	ctx.Track("RANSAC ground removal applied: %d points remain.", out.Len())
	ctx.StepSummary("Ground Removal Summary", "RANSAC Ground Removal", c.Len(), out.Len())
	return out, nil
}

// Process applies the polygon filter then ground removal.
func Process(c *pcd.Cloud, o Options, fitter Fitter, ctx *stage.Context) (*pcd.Cloud, error) {
	c, err := PolygonFilter(c, o.Polygon, ctx)
	if err != nil {
		return nil, err
	}
	switch o.Ground.Strategy {
	case GroundHeight, "":
		c, err = GroundRemoval(c, o.Ground.ZThreshold, ctx)
	case GroundRANSAC:
		c, err = GroundRemovalRANSAC(c, o.Ground.RANSAC, fitter, ctx)
	default:
		err = errors.Errorf("unknown ground removal strategy %q", o.Ground.Strategy)
	}
	if err != nil {
		return nil, err
	}
	ctx.Track("Completed segmentation pipeline.")
	return c, nil
}

// PreprocessAndSegment preprocesses c then segments it.
func PreprocessAndSegment(c *pcd.Cloud, o Options, fitter Fitter, ctx *stage.Context) (*pcd.Cloud, error) {
	c, err := preprocess.Process(c, o.Preprocess, ctx)
	if err != nil {
		return nil, err
	}
	ctx.Track("Preprocessed point cloud for segmentation.")
	return Process(c, o, fitter, ctx)
}
