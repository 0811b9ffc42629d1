package cmds

import (
	"context"
	"fmt"
	"os"

	glzcli "github.com/go-go-golems/glazed/pkg/cli"
	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	glayers "github.com/go-go-golems/glazed/pkg/cmds/layers"

	"github.com/go-go-golems/pipecraft/pkg/pipelayer"
)

type InitCommand struct{ *gcmds.CommandDescription }

const starterSchema = `branch_flow:
  - develop
  - staging
  - main
initial_branch: develop
final_branch: main

domains:
  api:
    test: true
    deploy: true
`

func NewInitCommand() (*InitCommand, error) {
	layer, err := glzcli.NewCommandSettingsLayer()
	if err != nil {
		return nil, err
	}
	cd := gcmds.NewCommandDescription(
		"init",
		gcmds.WithShort("Write a starter schema file"),
		gcmds.WithLayersList(layer),
	)
	_, err = pipelayer.AddPipelineLayerToCommand(cd)
	if err != nil {
		return nil, err
	}
	return &InitCommand{cd}, nil
}

func (c *InitCommand) Run(ctx context.Context, parsed *glayers.ParsedLayers) error {
	ps, err := pipelayer.GetPipelineSettings(parsed)
	if err != nil {
		return err
	}
	if _, err := os.Stat(ps.Config); err == nil {
		return fmt.Errorf("%s already exists, not overwriting", ps.Config)
	}
	if err := os.WriteFile(ps.Config, []byte(starterSchema), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", ps.Config, err)
	}
	fmt.Printf("✓ wrote %s\n", ps.Config)
	return nil
}

var _ gcmds.BareCommand = &InitCommand{}
