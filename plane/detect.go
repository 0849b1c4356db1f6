package plane

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/seqsense/pcdbuilding/pcd"
	"github.com/seqsense/pcdbuilding/pcd/sac"
	"github.com/seqsense/pcdbuilding/stage"
)

// Fitter finds the dominant plane of a cloud. sac.RANSAC is the default.
type Fitter interface {
	Fit(*pcd.Cloud, sac.Options) (sac.Result, error)
}

type DetectOptions struct {
	DistanceThreshold float64 `yaml:"distance_threshold"`
	SampleSize        int     `yaml:"sample_size"`
	MaxIterations     int     `yaml:"max_iterations"`
	MinPlanePoints    int     `yaml:"min_plane_points"`
	MaxPlanes         int     `yaml:"max_planes"`
	NormalSimilarity  float64 `yaml:"normal_similarity"`
	MergeDistance     float64 `yaml:"merge_distance"`
	Seed              int64   `yaml:"seed"`
}

func DefaultDetectOptions() DetectOptions {
	return DetectOptions{
		DistanceThreshold: 0.1,
		SampleSize:        3,
		MaxIterations:     1000,
		MinPlanePoints:    500,
		MaxPlanes:         20,
		NormalSimilarity:  0.95,
		MergeDistance:     5.0,
		Seed:              1,
	}
}

func (o DetectOptions) fitOptions() sac.Options {
	return sac.Options{
		DistanceThreshold: o.DistanceThreshold,
		SampleSize:        o.SampleSize,
		Iterations:        o.MaxIterations,
		Seed:              o.Seed,
	}
}

func (o DetectOptions) Validate() error {
	if err := o.fitOptions().Validate(); err != nil {
		return err
	}
	if o.MaxPlanes < 0 {
		return errors.Errorf("max planes must not be negative, got %d", o.MaxPlanes)
	}
	return nil
}

// Similar reports whether a candidate with the given normal and centroid
// belongs to p. Both comparisons are strict.
func Similar(p *Plane, normal, centroid r3.Vector, o DetectOptions) bool {
	c, ok := p.Centroid()
	if !ok {
		return false
	}
	return p.Normal.Dot(normal) > o.NormalSimilarity &&
		c.Sub(centroid).Norm() < o.MergeDistance
}

// Detect repeatedly fits the dominant plane of the points not yet assigned
// and removes its inliers. A candidate is merged into the first accepted
// plane it is Similar to, otherwise it is accepted as a new plane.
// Detection stops when a fit has less than MinPlanePoints inliers or
// MaxPlanes planes are accepted. The returned normals are parallel to the
// returned planes.
func Detect(c *pcd.Cloud, o DetectOptions, fitter Fitter, ctx *stage.Context) ([]*Plane, []r3.Vector, error) {
	if err := pcd.Validate(c); err != nil {
		return nil, nil, err
	}
	if err := o.Validate(); err != nil {
		return nil, nil, err
	}

	var planes []*Plane
	var normals []r3.Vector
	remaining := c
	fo := o.fitOptions()

	for len(planes) < o.MaxPlanes {
		res, err := fitter.Fit(remaining, fo)
		if err != nil {
			return nil, nil, errors.Wrap(err, "plane fit failed")
		}
		candidate := &Plane{
			Cloud:  remaining.Select(res.Inliers),
			Normal: res.Normal().Normalize(),
		}
		if candidate.Len() == 0 || candidate.Len() < o.MinPlanePoints {
			ctx.Infof("No more large planes found.")
			break
		}
		remaining = remaining.SelectInverse(res.Inliers)

		if err := accept(&planes, &normals, candidate, o); err != nil {
			return nil, nil, err
		}
		ctx.Track("Detected a plane with %d points.", candidate.Len())
	}

	rows := make([][]interface{}, 0, len(planes))
	for i, p := range planes {
		n := normals[i]
		rows = append(rows, []interface{}{
			i + 1, p.Len(), fmt.Sprintf("[%.4f, %.4f, %.4f]", n.X, n.Y, n.Z),
		})
	}
	ctx.Table("Detected Planes", []string{"Plane", "Points", "Normal Vector"}, rows)
	ctx.Set("detected_planes", len(planes))
	ctx.Infof("Detected %d planes.", len(planes))
	return planes, normals, nil
}

func accept(planes *[]*Plane, normals *[]r3.Vector, candidate *Plane, o DetectOptions) error {
	centroid, ok := candidate.Centroid()
	if !ok {
		return nil
	}
	for _, p := range *planes {
		if Similar(p, candidate.Normal, centroid, o) {
			return p.Merge(candidate)
		}
	}
	*planes = append(*planes, candidate)
	*normals = append(*normals, candidate.Normal)
	return nil
}
