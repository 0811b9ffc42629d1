package compose

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/pipecraft/pkg/merge"
	"github.com/go-go-golems/pipecraft/pkg/output"
	"github.com/go-go-golems/pipecraft/pkg/schema"
	"github.com/go-go-golems/pipecraft/pkg/workflow"
	"github.com/go-go-golems/pipecraft/pkg/yamldoc"
)

// Status reports what a generation run did to the document.
type Status string

const (
	StatusCreated Status = "created"
	StatusUpdated Status = "updated"
	StatusMerged  Status = "merged"
	StatusRebuilt Status = "rebuilt"
)

// Result is one finished generation run.
type Result struct {
	Text   string
	Status Status
}

// Composer orchestrates one generation run: recover the custom section from
// the prior text, apply the schema's operations to the (possibly empty) tree,
// prune jobs of removed domains, serialize, and splice the custom section
// back in. Each run owns its own tree; runs for different files need no
// coordination.
type Composer struct{}

func NewComposer() *Composer {
	return &Composer{}
}

// Compose builds the new document text from the schema and the prior
// document's bytes (nil for a first run). force discards the prior structure
// but still recovers its custom section first.
func (c *Composer) Compose(s *schema.Schema, prior []byte, force bool) (*Result, error) {
	custom := ""
	customFound := false
	if len(prior) > 0 {
		custom, customFound = merge.ExtractCustomSection(string(prior))
	}

	root := yamldoc.NewMapping()
	if len(prior) > 0 && !force {
		// the custom section is re-spliced from its extracted string form, so
		// it must not also round-trip through the tree
		parsed, err := yamldoc.Parse([]byte(merge.StripCustomSection(string(prior))))
		if err != nil {
			return nil, err
		}
		root = parsed
	}

	owned := workflow.OwnedJobs(s)
	applicator := merge.NewApplicator(workflow.DeprecatedJobs(s), workflow.BannerSignature)
	if err := applicator.Apply(root, workflow.PipelineOperations(s)); err != nil {
		return nil, err
	}
	pruneStaleJobs(root, owned)

	section := custom
	if !customFound {
		section = defaultCustomSection
	}
	text, err := spliceCustomSection(string(yamldoc.Serialize(root)), section)
	if err != nil {
		return nil, err
	}

	var status Status
	switch {
	case len(prior) == 0:
		status = StatusCreated
	case force:
		status = StatusRebuilt
	case customFound && strings.TrimSpace(custom) != strings.TrimSpace(defaultCustomSection):
		status = StatusMerged
	default:
		status = StatusUpdated
	}
	log.Debug().Str("status", string(status)).Bool("custom_section", customFound).Msg("composed document")
	return &Result{Text: text, Status: status}, nil
}

// GenerateFile is the file-system boundary around Compose: read the prior
// document at path (absence is fine), compose, and write the result only
// after composition fully succeeded.
func (c *Composer) GenerateFile(path string, s *schema.Schema, force bool) (*Result, error) {
	prior, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read prior document %s: %w", path, err)
		}
		prior = nil
	}
	res, err := c.Compose(s, prior, force)
	if err != nil {
		return nil, err
	}
	if err := output.Write(path, []byte(res.Text)); err != nil {
		return nil, err
	}
	return res, nil
}

// pruneStaleJobs drops jobs keys that look generated but belong to no current
// domain. Foreign keys never look generated and are never touched.
func pruneStaleJobs(root *yamldoc.Mapping, owned map[string]bool) {
	jobs, ok := root.Get("jobs").(*yamldoc.Mapping)
	if !ok {
		return
	}
	for _, key := range jobs.Keys() {
		if workflow.LooksOwned(key) && !owned[key] {
			jobs.Delete(key)
			log.Debug().Str("job", key).Msg("pruned job of removed domain")
		}
	}
}

// anchorRe matches the last line of the version job's outputs block, which is
// emitted last inside that job precisely so this line is a stable, unique
// splice point.
var anchorRe = regexp.MustCompile(`(?m)^[ \t]*tag: \$\{\{ steps\.semver\.outputs\.next \}\}[ \t]*$`)

const defaultCustomSection = `  # Add your own jobs between these markers. They are carried over verbatim
  # every time the pipeline is regenerated.
  #
  # my-job:
  #   needs: version
  #   runs-on: ubuntu-latest
  #   steps:
  #     - run: echo hello`

// spliceCustomSection inserts the custom section, wrapped in fresh sentinel
// lines, right after the version job in the serialized text.
func spliceCustomSection(text, section string) (string, error) {
	loc := anchorRe.FindStringIndex(text)
	if loc == nil {
		return "", fmt.Errorf("generated document has no version job outputs to anchor the custom section")
	}
	end := loc[1]
	if end < len(text) && text[end] == '\n' {
		end++
	}
	var b strings.Builder
	b.WriteString(text[:end])
	b.WriteString("\n  # ")
	b.WriteString(merge.StartSentinel)
	b.WriteByte('\n')
	if section != "" {
		b.WriteString(section)
		b.WriteByte('\n')
	}
	b.WriteString("  # ")
	b.WriteString(merge.EndSentinel)
	b.WriteByte('\n')
	b.WriteString(text[end:])
	return b.String(), nil
}
