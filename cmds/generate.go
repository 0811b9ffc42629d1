package cmds

import (
	"context"
	"errors"
	"fmt"
	"os"

	glzcli "github.com/go-go-golems/glazed/pkg/cli"
	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	glayers "github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"

	"github.com/go-go-golems/pipecraft/pkg/compose"
	"github.com/go-go-golems/pipecraft/pkg/output"
	"github.com/go-go-golems/pipecraft/pkg/pipelayer"
	"github.com/go-go-golems/pipecraft/pkg/schema"
	"github.com/go-go-golems/pipecraft/pkg/yamldoc"
)

type GenerateCommand struct{ *gcmds.CommandDescription }

type GenerateSettings struct {
	Force  bool `glazed.parameter:"force"`
	DryRun bool `glazed.parameter:"dry-run"`
}

func NewGenerateCommand() (*GenerateCommand, error) {
	layer, err := glzcli.NewCommandSettingsLayer()
	if err != nil {
		return nil, err
	}
	cd := gcmds.NewCommandDescription(
		"generate",
		gcmds.WithShort("Generate the pipeline workflow from the schema, merging with the existing file"),
		gcmds.WithFlags(
			parameters.NewParameterDefinition("force", parameters.ParameterTypeBool, parameters.WithDefault(false), parameters.WithHelp("Rebuild from scratch; only the custom section is carried over")),
			parameters.NewParameterDefinition("dry-run", parameters.ParameterTypeBool, parameters.WithDefault(false), parameters.WithHelp("Print the result instead of writing the file")),
		),
		gcmds.WithLayersList(layer),
	)
	_, err = pipelayer.AddPipelineLayerToCommand(cd)
	if err != nil {
		return nil, err
	}
	return &GenerateCommand{cd}, nil
}

func (c *GenerateCommand) Run(ctx context.Context, parsed *glayers.ParsedLayers) error {
	s := &GenerateSettings{}
	if err := parsed.InitializeStruct(glayers.DefaultSlug, s); err != nil {
		return err
	}
	ps, err := pipelayer.GetPipelineSettings(parsed)
	if err != nil {
		return err
	}

	sch, err := schema.Load(ps.Config)
	if err != nil {
		return err
	}

	composer := compose.NewComposer()
	if s.DryRun {
		prior, rerr := os.ReadFile(ps.Output)
		if rerr != nil && !os.IsNotExist(rerr) {
			return fmt.Errorf("failed to read prior document %s: %w", ps.Output, rerr)
		}
		res, cerr := composer.Compose(sch, prior, s.Force)
		if cerr != nil {
			return remedy(ps.Output, cerr)
		}
		fmt.Print(res.Text)
		return nil
	}

	if s.Force {
		if _, statErr := os.Stat(ps.Output); statErr == nil {
			bak, berr := output.Backup(ps.Output)
			if berr != nil {
				return berr
			}
			fmt.Println(output.Notef("backed up prior file to %s", bak))
		}
	}

	res, err := composer.GenerateFile(ps.Output, sch, s.Force)
	if err != nil {
		return remedy(ps.Output, err)
	}
	fmt.Println(output.StatusLine(string(res.Status), ps.Output))
	return nil
}

// remedy adds the back-up-and-rebuild suggestion when the prior document did
// not parse; everything else passes through untouched.
func remedy(path string, err error) error {
	var malformed *yamldoc.MalformedDocumentError
	if errors.As(err, &malformed) {
		return fmt.Errorf("%s is not valid YAML (%w); back it up and re-run with --force to rebuild", path, err)
	}
	return err
}

var _ gcmds.BareCommand = &GenerateCommand{}
