package plane

import (
	"github.com/seqsense/pcdbuilding/pcd"
	"github.com/seqsense/pcdbuilding/preprocess"
	"github.com/seqsense/pcdbuilding/stage"
)

// DefaultPipelineMinRoofHeight is the roof height used by Process.
const DefaultPipelineMinRoofHeight = 4.0

type Config struct {
	Preprocess preprocess.Options `yaml:"preprocess"`
	Detect     DetectOptions      `yaml:"detect"`
	Classify   ClassifyOptions    `yaml:"classify"`
}

func DefaultConfig() Config {
	co := DefaultClassifyOptions()
	co.MinRoofHeight = DefaultPipelineMinRoofHeight
	return Config{
		Preprocess: preprocess.DefaultOptions(),
		Detect:     DefaultDetectOptions(),
		Classify:   co,
	}
}

// Process preprocesses c, detects its planes and classifies them.
func Process(c *pcd.Cloud, conf Config, fitter Fitter, ctx *stage.Context) (Classification, error) {
	res, err := process(c, conf, fitter, ctx)
	if err != nil {
		ctx.Track("Classification failed: %v", err)
		return Classification{}, err
	}
	return res, nil
}

func process(c *pcd.Cloud, conf Config, fitter Fitter, ctx *stage.Context) (Classification, error) {
	if err := conf.Classify.Validate(); err != nil {
		return Classification{}, err
	}
	c, err := preprocess.Process(c, conf.Preprocess, ctx)
	if err != nil {
		return Classification{}, err
	}
	ctx.Track("Preprocessed point cloud before classification.")

	planes, normals, err := Detect(c, conf.Detect, fitter, ctx)
	if err != nil {
		return Classification{}, err
	}
	res := ClassifyPlanes(planes, normals, conf.Classify, ctx)
	ctx.Track("Completed classification pipeline.")
	return res, nil
}
