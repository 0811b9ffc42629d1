package cmds

import (
	"context"

	glzcli "github.com/go-go-golems/glazed/pkg/cli"
	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	glayers "github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/middlewares"
	"github.com/go-go-golems/glazed/pkg/settings"
	"github.com/go-go-golems/glazed/pkg/types"

	"github.com/go-go-golems/pipecraft/pkg/pipelayer"
	"github.com/go-go-golems/pipecraft/pkg/schema"
)

type ValidateCommand struct{ *gcmds.CommandDescription }

func NewValidateCommand() (*ValidateCommand, error) {
	glazedLayers, err := settings.NewGlazedParameterLayers()
	if err != nil {
		return nil, err
	}
	commandLayer, err := glzcli.NewCommandSettingsLayer()
	if err != nil {
		return nil, err
	}
	cd := gcmds.NewCommandDescription(
		"validate",
		gcmds.WithShort("Validate the schema and list the jobs it owns"),
		gcmds.WithLayersList(glazedLayers, commandLayer),
	)
	_, err = pipelayer.AddPipelineLayerToCommand(cd)
	if err != nil {
		return nil, err
	}
	return &ValidateCommand{cd}, nil
}

func (c *ValidateCommand) RunIntoGlazeProcessor(ctx context.Context, parsed *glayers.ParsedLayers, gp middlewares.Processor) error {
	ps, err := pipelayer.GetPipelineSettings(parsed)
	if err != nil {
		return err
	}
	sch, err := schema.Load(ps.Config)
	if err != nil {
		return err
	}

	for i, b := range sch.BranchFlow {
		role := ""
		if b == sch.InitialBranch {
			role = "initial"
		}
		if b == sch.FinalBranch {
			role = "final"
		}
		row := types.NewRow(
			types.MRP("type", "branch"),
			types.MRP("position", i),
			types.MRP("name", b),
			types.MRP("role", role),
		)
		if err := gp.AddRow(ctx, row); err != nil {
			return err
		}
	}

	addJob := func(name, kind, domain string) error {
		return gp.AddRow(ctx, types.NewRow(
			types.MRP("type", "job"),
			types.MRP("name", name),
			types.MRP("kind", kind),
			types.MRP("domain", domain),
		))
	}

	if err := addJob("changes", "changes", ""); err != nil {
		return err
	}
	for _, d := range sch.Domains {
		if d.Test {
			if err := addJob("test-"+d.Name, "test", d.Name); err != nil {
				return err
			}
		}
	}
	if err := addJob("version", "version", ""); err != nil {
		return err
	}
	for _, d := range sch.Domains {
		if d.Deploy {
			if err := addJob("deploy-"+d.Name, "deploy", d.Name); err != nil {
				return err
			}
		}
		if d.RemoteTest {
			if err := addJob("remote-test-"+d.Name, "remote-test", d.Name); err != nil {
				return err
			}
		}
	}
	for _, name := range []string{"tag", "promote", "release"} {
		if err := addJob(name, name, ""); err != nil {
			return err
		}
	}
	return nil
}

var _ gcmds.GlazeCommand = &ValidateCommand{}
