package yamldoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripPreservesText(t *testing.T) {
	doc := `name: Pipeline
on:
  push:
    branches:
      - develop
      - main

jobs:
  # build everything
  build:
    runs-on: ubuntu-latest # the usual
    steps:
      - name: Checkout
        uses: actions/checkout@v4
`
	m, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, doc, string(Serialize(m)))
}

func TestRoundTripLiteralBlock(t *testing.T) {
	doc := `jobs:
  tag:
    steps:
      - name: Push tag
        run: |
          git tag v1
          git push origin v1
`
	m, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, doc, string(Serialize(m)))
}

func TestBlankLinesAndCommentsRecovered(t *testing.T) {
	doc := "a: 1\n\n# note\nb: 2\n"
	m, err := Parse([]byte(doc))
	require.NoError(t, err)
	p := m.Pair("b")
	require.NotNil(t, p)
	assert.True(t, p.SpaceBefore)
	assert.Equal(t, "note", p.CommentBefore)
	assert.Equal(t, doc, string(Serialize(m)))
}

func TestSerializeNeverWrapsLongScalars(t *testing.T) {
	long := "${{ always() && contains(needs.changes.outputs.domains, 'api') && github.event_name == 'push' && github.ref_name == 'main' }}"
	m := NewMapping()
	m.Set("if", NewScalar(long, StylePlain))
	assert.Equal(t, "if: "+long+"\n", string(Serialize(m)))
}

func TestScalarQuoting(t *testing.T) {
	cases := []struct{ in, want string }{
		{"hello", "hello"},
		{"true", "'true'"},
		{"no", "'no'"},
		{"8080", "'8080'"},
		{"1.5", "'1.5'"},
		{"", "''"},
		{"a: b", "'a: b'"},
		{"trailing:", "'trailing:'"},
		{"#hash", "'#hash'"},
		{"it's", "it's"},
		{"${{ github.ref_name }}", "${{ github.ref_name }}"},
		{"-", "'-'"},
		{"- item", "'- item'"},
	}
	for _, tc := range cases {
		m := NewMapping()
		m.Set("k", NewScalar(tc.in, StylePlain))
		assert.Equal(t, "k: "+tc.want+"\n", string(Serialize(m)), "value %q", tc.in)
	}
}

func TestScalarStyles(t *testing.T) {
	m := NewMapping()
	m.Set("single", NewScalar("plain word", StyleSingle))
	m.Set("double", NewScalar(`say "hi"`, StyleDouble))
	m.Set("typed", &Scalar{Value: "true", Tag: "!!bool"})
	want := "single: 'plain word'\ndouble: \"say \\\"hi\\\"\"\ntyped: true\n"
	assert.Equal(t, want, string(Serialize(m)))
}

func TestEmptyContainers(t *testing.T) {
	m := NewMapping()
	m.Set("empty-map", NewMapping())
	m.Set("empty-list", &Sequence{})
	m.Set("null-value", &Scalar{Tag: "!!null"})
	want := "empty-map: {}\nempty-list: []\nnull-value:\n"
	assert.Equal(t, want, string(Serialize(m)))

	back, err := Parse(Serialize(m))
	require.NoError(t, err)
	assert.Equal(t, want, string(Serialize(back)))
}

func TestParseEmptyInput(t *testing.T) {
	m, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, "", string(Serialize(m)))
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte("jobs: [unclosed\n"))
	require.Error(t, err)
	var m *MalformedDocumentError
	require.ErrorAs(t, err, &m)
	assert.NotEmpty(t, m.Source)

	_, err = Parse([]byte("- a\n- b\n"))
	require.ErrorAs(t, err, &m)
}

func TestFromYAML(t *testing.T) {
	n, err := FromYAML("needs: changes\nruns-on: ubuntu-latest\n")
	require.NoError(t, err)
	m, ok := n.(*Mapping)
	require.True(t, ok)
	assert.Equal(t, []string{"needs", "runs-on"}, m.Keys())

	require.Panics(t, func() { MustFromYAML("a: [\n") })
}

func TestMappingOperations(t *testing.T) {
	m := NewMapping()
	m.Set("a", NewScalar("1", StylePlain))
	m.Set("b", NewScalar("2", StylePlain))
	m.Set("c", NewScalar("3", StylePlain))

	m.Set("b", NewScalar("two", StylePlain))
	assert.Equal(t, []string{"a", "b", "c"}, m.Keys(), "replacing keeps position")

	assert.True(t, m.Delete("a"))
	assert.False(t, m.Delete("a"))
	assert.Equal(t, []string{"b", "c"}, m.Keys())

	m.Set("d", NewScalar("4", StylePlain))
	m.Reorder([]string{"d", "b"})
	assert.Equal(t, []string{"d", "b", "c"}, m.Keys(), "unnamed keys trail in original order")
}

func TestEqualIgnoresMetadata(t *testing.T) {
	a := MustFromYAML("x: 1\ny:\n  - a\n")
	b := MustFromYAML("x: 1\ny:\n  - a\n")
	assert.True(t, Equal(a, b))

	b.(*Mapping).Pair("x").CommentBefore = "different metadata"
	assert.True(t, Equal(a, b))

	b.(*Mapping).Set("x", NewScalar("2", StylePlain))
	assert.False(t, Equal(a, b))
}
