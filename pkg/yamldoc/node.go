package yamldoc

// Node is one node in an editable YAML document tree. The concrete types are
// *Mapping, *Sequence and *Scalar. Comments and blank-line spacing live on the
// *Pair that owns a key inside a mapping, never on the value itself, so a value
// can be swapped out while the pair keeps its position and commentary.
type Node interface {
	node()
}

// Style records how a scalar was (or should be) quoted on serialization.
type Style int

const (
	StylePlain Style = iota
	StyleSingle
	StyleDouble
	StyleLiteral
)

// Scalar is a string/bool/number leaf. Value always holds the textual form;
// Tag carries the resolved YAML tag (e.g. "!!bool") so that already-typed
// values are re-emitted without quoting.
type Scalar struct {
	Value string
	Tag   string
	Style Style
}

func (*Scalar) node() {}

// NewScalar returns a plain string scalar with the given quoting style.
func NewScalar(value string, style Style) *Scalar {
	return &Scalar{Value: value, Tag: "!!str", Style: style}
}

// Sequence is an ordered list of nodes.
type Sequence struct {
	Items []Node
}

func (*Sequence) node() {}

// Contains reports whether the sequence holds a node structurally equal to n.
func (s *Sequence) Contains(n Node) bool {
	for _, item := range s.Items {
		if Equal(item, n) {
			return true
		}
	}
	return false
}

// Pair is one key/value entry of a mapping together with the metadata that
// belongs to the entry rather than the value.
type Pair struct {
	Key           string
	Value         Node
	CommentBefore string // comment block above the key, without '#' markers
	LineComment   string // trailing same-line comment, without '#' marker
	SpaceBefore   bool   // blank line between this entry and the previous one
}

// Mapping is an ordered set of key/value pairs. Keys are unique and insertion
// order is preserved on serialization.
type Mapping struct {
	pairs []*Pair
}

func (*Mapping) node() {}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{}
}

func (m *Mapping) Len() int {
	return len(m.pairs)
}

// Pairs returns the mapping's entries in order. The slice must not be
// reordered by callers; use Reorder for that.
func (m *Mapping) Pairs() []*Pair {
	return m.pairs
}

// Pair returns the entry for key, or nil.
func (m *Mapping) Pair(key string) *Pair {
	for _, p := range m.pairs {
		if p.Key == key {
			return p
		}
	}
	return nil
}

// Get returns the value stored under key, or nil.
func (m *Mapping) Get(key string) Node {
	if p := m.Pair(key); p != nil {
		return p.Value
	}
	return nil
}

func (m *Mapping) Has(key string) bool {
	return m.Pair(key) != nil
}

// Set replaces the value under key, or appends a new pair when the key is
// absent. It returns the pair that owns the key.
func (m *Mapping) Set(key string, value Node) *Pair {
	if p := m.Pair(key); p != nil {
		p.Value = value
		return p
	}
	p := &Pair{Key: key, Value: value}
	m.pairs = append(m.pairs, p)
	return p
}

// Delete removes the entry for key and reports whether it was present.
func (m *Mapping) Delete(key string) bool {
	for i, p := range m.pairs {
		if p.Key == key {
			m.pairs = append(m.pairs[:i], m.pairs[i+1:]...)
			return true
		}
	}
	return false
}

// Keys returns the mapping's keys in order.
func (m *Mapping) Keys() []string {
	keys := make([]string, len(m.pairs))
	for i, p := range m.pairs {
		keys[i] = p.Key
	}
	return keys
}

// Reorder rearranges the mapping's entries to follow keys. Every existing key
// must appear in keys exactly once; keys naming absent entries are ignored.
func (m *Mapping) Reorder(keys []string) {
	byKey := make(map[string]*Pair, len(m.pairs))
	for _, p := range m.pairs {
		byKey[p.Key] = p
	}
	reordered := make([]*Pair, 0, len(m.pairs))
	for _, k := range keys {
		if p, ok := byKey[k]; ok {
			reordered = append(reordered, p)
			delete(byKey, k)
		}
	}
	// keep anything the caller forgot to name, in original order
	if len(byKey) > 0 {
		for _, p := range m.pairs {
			if _, ok := byKey[p.Key]; ok {
				reordered = append(reordered, p)
			}
		}
	}
	m.pairs = reordered
}

// Equal reports structural equality of two nodes, ignoring comments, spacing
// and quoting styles.
func Equal(a, b Node) bool {
	switch av := a.(type) {
	case *Scalar:
		bv, ok := b.(*Scalar)
		return ok && av.Value == bv.Value
	case *Sequence:
		bv, ok := b.(*Sequence)
		if !ok || len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case *Mapping:
		bv, ok := b.(*Mapping)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, p := range av.pairs {
			q := bv.Pair(p.Key)
			if q == nil || !Equal(p.Value, q.Value) {
				return false
			}
		}
		return true
	case nil:
		return b == nil
	}
	return false
}
