package pipelayer

import (
	"fmt"

	glzcms "github.com/go-go-golems/glazed/pkg/cmds"
	glzlayers "github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"
)

const PipelineLayerSlug = "pipeline"

type PipelineSettings struct {
	Config string `glazed.parameter:"config"`
	Output string `glazed.parameter:"output"`
}

// NewPipelineLayer defines a reusable parameter layer for the schema and
// output locations shared by the pipeline commands.
func NewPipelineLayer() (glzlayers.ParameterLayer, error) {
	return glzlayers.NewParameterLayer(
		PipelineLayerSlug,
		"Pipeline generation settings",
		glzlayers.WithParameterDefinitions(
			parameters.NewParameterDefinition(
				"config",
				parameters.ParameterTypeString,
				parameters.WithHelp("Path to the pipeline schema file"),
				parameters.WithDefault("pipecraft.yaml"),
			),
			parameters.NewParameterDefinition(
				"output",
				parameters.ParameterTypeString,
				parameters.WithHelp("Path of the generated workflow file (- for stdout)"),
				parameters.WithDefault(".github/workflows/pipeline.yaml"),
			),
		),
	)
}

// AddPipelineLayerToCommand attaches the layer to a Glazed command description.
func AddPipelineLayerToCommand(c glzcms.Command) (glzcms.Command, error) {
	l, err := NewPipelineLayer()
	if err != nil {
		return nil, err
	}
	c.Description().Layers.Set(PipelineLayerSlug, l)
	return c, nil
}

// GetPipelineSettings returns parsed pipeline settings from the ParsedLayers.
func GetPipelineSettings(parsed *glzlayers.ParsedLayers) (*PipelineSettings, error) {
	var s PipelineSettings
	if err := parsed.InitializeStruct(PipelineLayerSlug, &s); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline settings: %w", err)
	}
	return &s, nil
}
