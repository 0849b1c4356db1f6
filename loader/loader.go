// Package loader reads a raw point cloud file.
package loader

import (
	"github.com/pkg/errors"
	"github.com/seqsense/pcdbuilding/pcd"
	"github.com/seqsense/pcdbuilding/stage"
)

// Load reads a .las or .pcd file.
func Load(path string, ctx *stage.Context) (*pcd.Cloud, error) {
	c, err := load(path, ctx)
	if err != nil {
		ctx.Track("Loading failed: %v", err)
		return nil, err
	}
	ctx.Track("Completed loading pipeline.")
	return c, nil
}

func load(path string, ctx *stage.Context) (*pcd.Cloud, error) {
	c, err := pcd.ReadFile(path, ctx.LoggerOrNop())
	if err != nil {
		return nil, errors.Wrap(err, "failed to load point cloud")
	}
	ctx.Set("loaded_points", c.Len())
	ctx.Track("Loaded point cloud from %s with %d points.", path, c.Len())
	ctx.Infof("Loaded point cloud with %d points from %s", c.Len(), path)
	return c, nil
}
