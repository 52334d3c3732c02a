package pipeline

import (
	"github.com/matzehuels/zoomtree/pkg/render/treemap/scene"
	"github.com/matzehuels/zoomtree/pkg/render/treemap/zoom"
	"github.com/matzehuels/zoomtree/pkg/source"
)

func sourceDefaults() source.Options { return source.Options{} }

func withImmediate() zoom.Option { return zoom.WithAnimator(scene.Immediate{}) }
