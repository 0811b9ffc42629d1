package schema

import (
	"fmt"
	"os"

	gyaml "github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

// Domain is one deployable unit of the project. Every domain gets a test job
// unless switched off; deploy and remote-test jobs are opt-in.
type Domain struct {
	Name       string
	Test       bool
	Deploy     bool
	RemoteTest bool
}

// Schema is the declarative pipeline description read from pipecraft.yaml.
// Domain order is the order their jobs appear in the generated workflow.
type Schema struct {
	BranchFlow    []string
	InitialBranch string
	FinalBranch   string
	Domains       []Domain
}

// Load reads and parses a schema file.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read schema %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("could not parse schema %s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("domains", len(s.Domains)).Msg("loaded schema")
	return s, nil
}

// Parse decodes a schema document. Decoding goes through an ordered map so
// the document's domain order survives into Domains.
func Parse(data []byte) (*Schema, error) {
	var raw gyaml.MapSlice
	if err := gyaml.UnmarshalWithOptions(data, &raw, gyaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	s := &Schema{}
	for _, item := range raw {
		switch fmt.Sprintf("%v", item.Key) {
		case "branch_flow":
			items, ok := item.Value.([]interface{})
			if !ok {
				return nil, fmt.Errorf("branch_flow must be a list of branch names")
			}
			for _, b := range items {
				s.BranchFlow = append(s.BranchFlow, fmt.Sprintf("%v", b))
			}
		case "initial_branch":
			s.InitialBranch = fmt.Sprintf("%v", item.Value)
		case "final_branch":
			s.FinalBranch = fmt.Sprintf("%v", item.Value)
		case "domains":
			if item.Value == nil {
				continue
			}
			ds, ok := item.Value.(gyaml.MapSlice)
			if !ok {
				return nil, fmt.Errorf("domains must be a mapping of domain name to flags")
			}
			for _, d := range ds {
				dom := Domain{Name: fmt.Sprintf("%v", d.Key), Test: true}
				if flags, ok := d.Value.(gyaml.MapSlice); ok {
					for _, f := range flags {
						switch fmt.Sprintf("%v", f.Key) {
						case "test":
							dom.Test = asBool(f.Value, true)
						case "deploy":
							dom.Deploy = asBool(f.Value, false)
						case "remote_test":
							dom.RemoteTest = asBool(f.Value, false)
						}
					}
				}
				s.Domains = append(s.Domains, dom)
			}
		}
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Schema) validate() error {
	if len(s.BranchFlow) < 2 {
		return fmt.Errorf("branch_flow needs at least two branches, got %d", len(s.BranchFlow))
	}
	seen := map[string]bool{}
	for _, b := range s.BranchFlow {
		if seen[b] {
			return fmt.Errorf("branch_flow repeats branch %q", b)
		}
		seen[b] = true
	}
	if s.InitialBranch == "" {
		s.InitialBranch = s.BranchFlow[0]
	}
	if s.FinalBranch == "" {
		s.FinalBranch = s.BranchFlow[len(s.BranchFlow)-1]
	}
	if !seen[s.InitialBranch] {
		return fmt.Errorf("initial_branch %q is not in branch_flow", s.InitialBranch)
	}
	if !seen[s.FinalBranch] {
		return fmt.Errorf("final_branch %q is not in branch_flow", s.FinalBranch)
	}
	for _, d := range s.Domains {
		if d.Name == "" {
			return fmt.Errorf("domains contains an empty name")
		}
	}
	return nil
}

func asBool(v interface{}, def bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return def
}
