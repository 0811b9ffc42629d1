package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/pipecraft/pkg/yamldoc"
)

func applyOne(t *testing.T, doc string, op Operation) *yamldoc.Mapping {
	t.Helper()
	root, err := yamldoc.Parse([]byte(doc))
	require.NoError(t, err)
	a := NewApplicator(nil, "pipecraft")
	require.NoError(t, a.Apply(root, []Operation{op}))
	return root
}

func TestVerbSemantics(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		verb Verb
		want string
	}{
		{"set inserts when absent", "", VerbSet, "new"},
		{"set keeps existing value", "k: old\n", VerbSet, "old"},
		{"overwrite inserts when absent", "", VerbOverwrite, "new"},
		{"overwrite replaces existing value", "k: old\n", VerbOverwrite, "new"},
		{"preserve inserts when absent", "", VerbPreserve, "new"},
		{"preserve keeps existing value", "k: old\n", VerbPreserve, "old"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			op := Operation{Path: "k", Verb: tc.verb, Payload: yamldoc.NewScalar("new", yamldoc.StylePlain)}
			root := applyOne(t, tc.doc, op)
			s, ok := root.Get("k").(*yamldoc.Scalar)
			require.True(t, ok)
			assert.Equal(t, tc.want, s.Value)
		})
	}
}

func TestMergeSequenceUnion(t *testing.T) {
	op := Operation{
		Path: "branches",
		Verb: VerbMerge,
		Payload: &yamldoc.Sequence{Items: []yamldoc.Node{
			yamldoc.NewScalar("b", yamldoc.StylePlain),
			yamldoc.NewScalar("c", yamldoc.StylePlain),
		}},
	}
	root := applyOne(t, "branches:\n  - a\n  - b\n", op)
	seq, ok := root.Get("branches").(*yamldoc.Sequence)
	require.True(t, ok)
	var values []string
	for _, item := range seq.Items {
		values = append(values, item.(*yamldoc.Scalar).Value)
	}
	assert.Equal(t, []string{"a", "b", "c"}, values)
}

func TestMergeMappingRecursive(t *testing.T) {
	op := Operation{Path: "m", Verb: VerbMerge, Payload: yamldoc.MustFromYAML("y: 3\nz: 4\n")}
	root := applyOne(t, "m:\n  x: 1\n  y: 2\n", op)
	m, ok := root.Get("m").(*yamldoc.Mapping)
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y", "z"}, m.Keys())
	assert.Equal(t, "1", m.Get("x").(*yamldoc.Scalar).Value)
	assert.Equal(t, "3", m.Get("y").(*yamldoc.Scalar).Value)
	assert.Equal(t, "4", m.Get("z").(*yamldoc.Scalar).Value)
}

func TestMergeKindMismatchTakesPayload(t *testing.T) {
	op := Operation{Path: "k", Verb: VerbMerge, Payload: yamldoc.NewScalar("flat", yamldoc.StylePlain)}
	root := applyOne(t, "k:\n  - a\n", op)
	s, ok := root.Get("k").(*yamldoc.Scalar)
	require.True(t, ok)
	assert.Equal(t, "flat", s.Value)
}

func TestUserCommentWins(t *testing.T) {
	op := Operation{
		Path:          "k",
		Verb:          VerbOverwrite,
		Payload:       yamldoc.NewScalar("new", yamldoc.StylePlain),
		CommentBefore: "managed by pipecraft",
	}
	root := applyOne(t, "# my own reminder\nk: old\n", op)
	assert.Equal(t, "my own reminder", root.Pair("k").CommentBefore)
}

func TestBannerCommentIsReplaced(t *testing.T) {
	op := Operation{
		Path:          "k",
		Verb:          VerbOverwrite,
		Payload:       yamldoc.NewScalar("new", yamldoc.StylePlain),
		CommentBefore: "managed by pipecraft v2",
	}
	root := applyOne(t, "# managed by pipecraft v1\nk: old\n", op)
	assert.Equal(t, "managed by pipecraft v2", root.Pair("k").CommentBefore)
}

func TestPreserveLeavesMetadataAlone(t *testing.T) {
	op := Operation{
		Path:          "k",
		Verb:          VerbPreserve,
		Payload:       yamldoc.NewScalar("new", yamldoc.StylePlain),
		CommentBefore: "managed by pipecraft",
		SpaceBefore:   true,
	}
	root := applyOne(t, "a: 1\n# mine\nk: old\n", op)
	p := root.Pair("k")
	assert.Equal(t, "mine", p.CommentBefore)
	assert.False(t, p.SpaceBefore)
}

func TestForeignKeysKeepRelativePosition(t *testing.T) {
	doc := "changes: {}\ntest-api: {}\nlint-all: {}\nversion: {}\n"
	root, err := yamldoc.Parse([]byte(doc))
	require.NoError(t, err)

	payload := func() yamldoc.Node { return yamldoc.MustFromYAML("x: 1\n") }
	ops := []Operation{
		{Path: "changes", Verb: VerbOverwrite, Payload: payload()},
		{Path: "test-api", Verb: VerbOverwrite, Payload: payload()},
		{Path: "version", Verb: VerbOverwrite, Payload: payload()},
		{Path: "deploy-api", Verb: VerbOverwrite, Payload: payload()},
	}
	a := NewApplicator(nil, "pipecraft")
	require.NoError(t, a.Apply(root, ops))
	assert.Equal(t, []string{"changes", "test-api", "lint-all", "version", "deploy-api"}, root.Keys())
}

func TestFreshKeysFollowOperationOrder(t *testing.T) {
	root := yamldoc.NewMapping()
	payload := func() yamldoc.Node { return yamldoc.NewScalar("v", yamldoc.StylePlain) }
	ops := []Operation{
		{Path: "b", Verb: VerbOverwrite, Payload: payload()},
		{Path: "a", Verb: VerbOverwrite, Payload: payload()},
		{Path: "c", Verb: VerbOverwrite, Payload: payload()},
	}
	a := NewApplicator(nil, "pipecraft")
	require.NoError(t, a.Apply(root, ops))
	assert.Equal(t, []string{"b", "a", "c"}, root.Keys())
}

func TestDeprecatedKeysRemoved(t *testing.T) {
	doc := "promote-to-main: {}\nkeep: {}\n"
	root, err := yamldoc.Parse([]byte(doc))
	require.NoError(t, err)
	a := NewApplicator([]string{"promote-to-main"}, "pipecraft")
	ops := []Operation{{Path: "keep", Verb: VerbSet, Payload: yamldoc.NewMapping()}}
	require.NoError(t, a.Apply(root, ops))
	assert.False(t, root.Has("promote-to-main"))
	assert.True(t, root.Has("keep"))
}

func TestRequiredPathFailure(t *testing.T) {
	root, err := yamldoc.Parse([]byte("a: 1\n"))
	require.NoError(t, err)
	a := NewApplicator(nil, "pipecraft")
	err = a.Apply(root, []Operation{{
		Path:     "a.b",
		Verb:     VerbSet,
		Payload:  yamldoc.NewScalar("v", yamldoc.StylePlain),
		Required: true,
	}})
	var mr *MissingRequiredPathError
	require.ErrorAs(t, err, &mr)
	assert.Equal(t, "a.b", mr.Path)
	assert.ErrorIs(t, err, ErrInvalidPath)
}
