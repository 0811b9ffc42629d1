package yamldoc

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MalformedDocumentError reports a document that could not be parsed. It
// carries the original text so the caller can offer a backup-and-rebuild
// remedy; Line is a best-effort locator (0 when unknown).
type MalformedDocumentError struct {
	Source []byte
	Line   int
	Err    error
}

func (e *MalformedDocumentError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed document at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("malformed document: %v", e.Err)
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}

var errLineRe = regexp.MustCompile(`line (\d+)`)

func malformed(source []byte, err error) *MalformedDocumentError {
	line := 0
	if m := errLineRe.FindStringSubmatch(err.Error()); m != nil {
		line, _ = strconv.Atoi(m[1])
	}
	return &MalformedDocumentError{Source: source, Line: line, Err: err}
}

// Parse reads a block-style YAML document into a mapping tree, retaining
// comments, blank-line spacing and scalar quoting styles as pair/scalar
// metadata. Empty input yields an empty mapping.
func Parse(data []byte) (*Mapping, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return NewMapping(), nil
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, malformed(data, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return NewMapping(), nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, malformed(data, errors.New("top-level document is not a mapping"))
	}
	lines := strings.Split(string(data), "\n")
	node, err := convertNode(root, lines)
	if err != nil {
		return nil, malformed(data, err)
	}
	return node.(*Mapping), nil
}

// FromYAML builds a node tree from an indented YAML fragment. Used by
// operation builders to assemble payload subtrees without hand-constructing
// node graphs.
func FromYAML(fragment string) (Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(fragment), &doc); err != nil {
		return nil, malformed([]byte(fragment), err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return NewMapping(), nil
	}
	return convertNode(doc.Content[0], strings.Split(fragment, "\n"))
}

// MustFromYAML is FromYAML for fragments known valid at compile time; it
// panics on parse errors, which indicate a broken builder template.
func MustFromYAML(fragment string) Node {
	n, err := FromYAML(fragment)
	if err != nil {
		panic(fmt.Sprintf("yamldoc: invalid fragment: %v", err))
	}
	return n
}

func convertNode(n *yaml.Node, lines []string) (Node, error) {
	switch n.Kind {
	case yaml.MappingNode:
		return convertMapping(n, lines)
	case yaml.SequenceNode:
		seq := &Sequence{}
		for _, item := range n.Content {
			converted, err := convertNode(item, lines)
			if err != nil {
				return nil, err
			}
			seq.Items = append(seq.Items, converted)
		}
		return seq, nil
	case yaml.ScalarNode:
		return &Scalar{Value: n.Value, Tag: n.Tag, Style: styleOf(n)}, nil
	case yaml.AliasNode:
		// anchors are expanded; the generated documents never rely on them
		return convertNode(n.Alias, lines)
	}
	return nil, fmt.Errorf("unsupported node kind %d", n.Kind)
}

func convertMapping(n *yaml.Node, lines []string) (*Mapping, error) {
	m := NewMapping()
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		v := n.Content[i+1]
		value, err := convertNode(v, lines)
		if err != nil {
			return nil, err
		}
		head := k.HeadComment
		if head == "" && i == 0 && n.HeadComment != "" {
			// yaml.v3 sometimes hangs the first entry's comment block on the
			// mapping node instead of the key
			head = n.HeadComment
		}
		lineComment := k.LineComment
		if lineComment == "" {
			lineComment = v.LineComment
		}
		p := &Pair{
			Key:           k.Value,
			Value:         value,
			CommentBefore: cleanComment(head),
			LineComment:   cleanComment(lineComment),
			SpaceBefore:   blankLineBefore(lines, k.Line, head),
		}
		m.pairs = append(m.pairs, p)
	}
	return m, nil
}

// blankLineBefore reports whether a blank line separates this entry (including
// its leading comment block) from whatever precedes it in the source text.
// yaml.v3 drops blank lines, so they are recovered from the raw source.
func blankLineBefore(lines []string, keyLine int, headComment string) bool {
	first := keyLine
	if headComment != "" {
		first -= strings.Count(headComment, "\n") + 1
	}
	idx := first - 2 // line above the entry, 0-based
	if idx < 0 || idx >= len(lines) {
		return false
	}
	return strings.TrimSpace(lines[idx]) == ""
}

func cleanComment(c string) string {
	if c == "" {
		return ""
	}
	ls := strings.Split(c, "\n")
	for i, l := range ls {
		l = strings.TrimSpace(l)
		l = strings.TrimPrefix(l, "#")
		ls[i] = strings.TrimPrefix(l, " ")
	}
	return strings.Join(ls, "\n")
}

func styleOf(n *yaml.Node) Style {
	switch {
	case n.Style&yaml.SingleQuotedStyle != 0:
		return StyleSingle
	case n.Style&yaml.DoubleQuotedStyle != 0:
		return StyleDouble
	case n.Style&yaml.LiteralStyle != 0, n.Style&yaml.FoldedStyle != 0:
		return StyleLiteral
	}
	if strings.Contains(n.Value, "\n") {
		return StyleLiteral
	}
	return StylePlain
}
