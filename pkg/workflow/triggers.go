package workflow

import (
	"github.com/go-go-golems/pipecraft/pkg/merge"
	"github.com/go-go-golems/pipecraft/pkg/schema"
	"github.com/go-go-golems/pipecraft/pkg/yamldoc"
)

// headerOperations builds the document header: workflow name, triggers, the
// user-extendable env scaffold and the jobs mapping itself. The branch lists
// merge instead of overwrite so branches a user added by hand survive.
func headerOperations(s *schema.Schema) []merge.Operation {
	return []merge.Operation{
		{
			Path:     "name",
			Verb:     merge.VerbOverwrite,
			Payload:  yamldoc.NewScalar("Pipeline", yamldoc.StylePlain),
			Required: true,
		},
		{
			Path:    "run-name",
			Verb:    merge.VerbOverwrite,
			Payload: yamldoc.NewScalar("Pipeline for ${{ github.ref_name }} by @${{ github.actor }}", yamldoc.StylePlain),
		},
		{
			Path:     "on",
			Verb:     merge.VerbSet,
			Payload:  yamldoc.NewMapping(),
			Required: true,
		},
		{
			Path:    "on.push.branches",
			Verb:    merge.VerbMerge,
			Payload: branchList(s.BranchFlow),
		},
		{
			Path:    "on.pull_request.branches",
			Verb:    merge.VerbMerge,
			Payload: branchList([]string{s.FinalBranch}),
		},
		{
			Path:    "on.workflow_dispatch",
			Verb:    merge.VerbSet,
			Payload: &yamldoc.Scalar{Tag: "!!null"},
		},
		{
			Path:          "env",
			Verb:          merge.VerbPreserve,
			Payload:       yamldoc.MustFromYAML("LOG_LEVEL: info\n"),
			CommentBefore: "Shared variables for every job. pipecraft writes this block once and never touches it again.",
			SpaceBefore:   true,
		},
		{
			Path:        "jobs",
			Verb:        merge.VerbSet,
			Payload:     yamldoc.NewMapping(),
			SpaceBefore: true,
			Required:    true,
		},
	}
}

func branchList(branches []string) *yamldoc.Sequence {
	seq := &yamldoc.Sequence{}
	for _, b := range branches {
		seq.Items = append(seq.Items, yamldoc.NewScalar(b, yamldoc.StylePlain))
	}
	return seq
}
