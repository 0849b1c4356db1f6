// Package preprocess removes noise from a cloud and reduces its density.
package preprocess

import (
	"github.com/pkg/errors"
	"github.com/seqsense/pcdbuilding/pcd"
	"github.com/seqsense/pcdbuilding/pcd/filter/outlier"
	"github.com/seqsense/pcdbuilding/pcd/filter/voxelgrid"
	"github.com/seqsense/pcdbuilding/stage"
)

const (
	DefaultVoxelSize        = 0.3
	DefaultProcessVoxelSize = 0.2
)

type Options struct {
	Outlier   outlier.Options `yaml:"outlier"`
	VoxelSize float64         `yaml:"voxel_size"`
}

// DefaultOptions returns the options of the preprocessing pipeline.
func DefaultOptions() Options {
	return Options{
		Outlier:   outlier.DefaultOptions(),
		VoxelSize: DefaultProcessVoxelSize,
	}
}

func (o Options) Validate() error {
	if err := o.Outlier.Validate(); err != nil {
		return err
	}
	if o.VoxelSize <= 0 {
		return errors.Errorf("voxel size must be positive, got %v", o.VoxelSize)
	}
	return nil
}

// RemoveOutliers drops statistical outliers.
func RemoveOutliers(c *pcd.Cloud, o outlier.Options, ctx *stage.Context) (*pcd.Cloud, error) {
	if err := pcd.Validate(c); err != nil {
		return nil, err
	}
	out, err := outlier.New(o).Filter(c)
	if err != nil {
		return nil, errors.Wrap(err, "outlier removal failed")
	}
	ctx.Set("outlier_removal", out.Len())
	ctx.Track("Removed outliers: %d points remain.", out.Len())
	ctx.StepSummary("Outlier Removal Summary", "Outlier Removal", c.Len(), out.Len())
	return out, nil
}

// Downsample replaces the points of each voxel by their centroid.
func Downsample(c *pcd.Cloud, voxelSize float64, ctx *stage.Context) (*pcd.Cloud, error) {
	if err := pcd.Validate(c); err != nil {
		return nil, err
	}
	out, err := voxelgrid.New(voxelSize).Filter(c)
	if err != nil {
		return nil, errors.Wrap(err, "downsampling failed")
	}
	ctx.Set("downsample", out.Len())
	ctx.Track("Downsampled point cloud: %d points remain.", out.Len())
	ctx.StepSummary("Downsampling Summary", "Downsampling", c.Len(), out.Len())
	return out, nil
}

// Process removes outliers then downsamples.
func Process(c *pcd.Cloud, o Options, ctx *stage.Context) (*pcd.Cloud, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	c, err := RemoveOutliers(c, o.Outlier, ctx)
	if err != nil {
		return nil, err
	}
	if c, err = Downsample(c, o.VoxelSize, ctx); err != nil {
		return nil, err
	}
	ctx.Track("Completed preprocessing pipeline.")
	return c, nil
}
