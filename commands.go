package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/seqsense/pcdbuilding/loader"
	"github.com/seqsense/pcdbuilding/pcd"
	"github.com/seqsense/pcdbuilding/plane"
	"github.com/seqsense/pcdbuilding/render"
	"github.com/seqsense/pcdbuilding/segment"
	"github.com/seqsense/pcdbuilding/stage"
)

var errInput = errors.New("exactly one INPUT file is required")

func input(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", errInput
	}
	return c.Args().First(), nil
}

func (r *runner) runAction(c *cli.Context) error {
	path, err := input(c)
	if err != nil {
		return err
	}
	dir := c.String(flagOutDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	ctx := r.newContext()
	renderer := render.New(r.conf.Render)
	draw := func(cloud *pcd.Cloud, name string) error {
		if c.Bool(flagNoRender) {
			return nil
		}
		return renderer.Render(cloud, filepath.Join(dir, name), ctx)
	}

	raw, err := loader.Load(path, ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, "Point cloud loaded successfully.")
	if err := draw(raw, "raw.png"); err != nil {
		return err
	}

	segmented, err := segment.PreprocessAndSegment(raw, r.conf.SegmentOptions(), r.fitter, ctx)
	if err != nil {
		return err
	}
	if err := draw(segmented, "segmented.png"); err != nil {
		return err
	}

	res, err := plane.Process(segmented, r.conf.PlaneConfig(), r.fitter, ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, "Planes classified successfully.")

	if len(res.Walls)+len(res.Roofs) == 0 {
		ctx.Warnf("No walls or roofs found in %s.", path)
	} else {
		classified, err := render.PrepareClassified(res.Walls, res.Roofs, ctx)
		if err != nil {
			return err
		}
		if err := draw(classified, "classified.png"); err != nil {
			return err
		}
		if err := pcd.WriteFile(filepath.Join(dir, "classified.pcd"), classified); err != nil {
			return errors.Wrap(err, "failed to export classified cloud")
		}
	}

	r.printHistory(ctx)
	fmt.Fprintln(r.out, "All steps completed successfully.")
	return nil
}

func (r *runner) segmentAction(c *cli.Context) error {
	path, err := input(c)
	if err != nil {
		return err
	}
	ctx := r.newContext()
	raw, err := loader.Load(path, ctx)
	if err != nil {
		return err
	}
	segmented, err := segment.PreprocessAndSegment(raw, r.conf.SegmentOptions(), r.fitter, ctx)
	if err != nil {
		return err
	}
	if err := pcd.WriteFile(c.String(flagOutput), segmented); err != nil {
		return err
	}
	r.printHistory(ctx)
	return nil
}

func (r *runner) planesAction(c *cli.Context) error {
	path, err := input(c)
	if err != nil {
		return err
	}
	ctx := r.newContext()
	raw, err := loader.Load(path, ctx)
	if err != nil {
		return err
	}
	if _, err := plane.Process(raw, r.conf.PlaneConfig(), r.fitter, ctx); err != nil {
		return err
	}
	r.printHistory(ctx)
	return nil
}

func (r *runner) printHistory(ctx *stage.Context) {
	history := ctx.Metadata.History()
	rows := make([][]interface{}, len(history))
	for i, h := range history {
		rows[i] = []interface{}{i + 1, h}
	}
	stage.NewTableReporter(r.out).Table("History", []string{"#", "Description"}, rows)
}
