package merge

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/pipecraft/pkg/yamldoc"
)

// Applicator applies ordered operation lists to a document tree and then
// reconciles key order in every mapping the operations touched: keys present
// before the run keep their original relative positions (foreign keys
// included), brand-new keys land where the operation order puts them, and
// deprecated keys are removed outright.
type Applicator struct {
	// Deprecated keys are deleted from any mapping an operation touches,
	// regardless of original position.
	Deprecated []string
	// BannerSignature classifies leading comments: a comment containing it is
	// system-authored and may be replaced on regeneration, anything else
	// belongs to the user and wins.
	BannerSignature string
}

func NewApplicator(deprecated []string, bannerSignature string) *Applicator {
	return &Applicator{Deprecated: deprecated, BannerSignature: bannerSignature}
}

// Apply runs every operation in order against root. Operation order is
// authoritative: it is the order new keys appear in, and it is never
// reshuffled here.
func (a *Applicator) Apply(root *yamldoc.Mapping, ops []Operation) error {
	originalOrder := map[*yamldoc.Mapping][]string{}
	opOrder := map[*yamldoc.Mapping][]string{}
	var touched []*yamldoc.Mapping

	for _, op := range ops {
		parentPath, key := splitPath(op.Path)
		res, err := Resolve(root, parentPath, true)
		if err != nil {
			if op.Required {
				return &MissingRequiredPathError{Path: op.Path, Err: err}
			}
			return err
		}
		parent := res.Mapping
		if _, seen := originalOrder[parent]; !seen {
			originalOrder[parent] = parent.Keys()
			touched = append(touched, parent)
		}
		opOrder[parent] = append(opOrder[parent], key)
		a.applyVerb(parent, key, op)
		log.Debug().Str("path", op.Path).Str("verb", op.Verb.String()).Msg("applied operation")
	}

	for _, parent := range touched {
		for _, dep := range a.Deprecated {
			if parent.Delete(dep) {
				log.Debug().Str("key", dep).Msg("removed deprecated key")
			}
		}
		parent.Reorder(rebuildOrder(originalOrder[parent], opOrder[parent], parent.Keys()))
	}
	return nil
}

func (a *Applicator) applyVerb(parent *yamldoc.Mapping, key string, op Operation) {
	existing := parent.Pair(key)
	switch op.Verb {
	case VerbPreserve:
		if existing != nil {
			// comments and spacing stay untouched too
			return
		}
		a.decorate(parent.Set(key, op.Payload), op)
	case VerbSet:
		if existing == nil {
			existing = parent.Set(key, op.Payload)
		}
		a.decorate(existing, op)
	case VerbOverwrite:
		a.decorate(parent.Set(key, op.Payload), op)
	case VerbMerge:
		if existing == nil {
			a.decorate(parent.Set(key, op.Payload), op)
			return
		}
		existing.Value = mergeNodes(existing.Value, op.Payload)
		a.decorate(existing, op)
	}
}

// decorate attaches the operation's comment and spacing directives to the
// pair that owns the target key. A user-authored leading comment is never
// replaced; the system's own banner is, so reruns do not stack banners.
func (a *Applicator) decorate(p *yamldoc.Pair, op Operation) {
	if op.CommentBefore != "" {
		if p.CommentBefore == "" || a.systemComment(p.CommentBefore) {
			p.CommentBefore = op.CommentBefore
		}
	}
	if op.SpaceBefore {
		p.SpaceBefore = true
	}
}

func (a *Applicator) systemComment(c string) bool {
	if a.BannerSignature == "" {
		return false
	}
	return strings.Contains(strings.ToLower(c), strings.ToLower(a.BannerSignature))
}

// mergeNodes combines an existing value with a payload: sequences union with
// existing order first and unseen payload items appended, mappings merge
// recursively with the payload winning on leaves and existing-only keys kept,
// and any kind mismatch resolves to the payload.
func mergeNodes(existing, payload yamldoc.Node) yamldoc.Node {
	switch ev := existing.(type) {
	case *yamldoc.Sequence:
		pv, ok := payload.(*yamldoc.Sequence)
		if !ok {
			return payload
		}
		for _, item := range pv.Items {
			if !ev.Contains(item) {
				ev.Items = append(ev.Items, item)
			}
		}
		return ev
	case *yamldoc.Mapping:
		pv, ok := payload.(*yamldoc.Mapping)
		if !ok {
			return payload
		}
		for _, pp := range pv.Pairs() {
			if ep := ev.Pair(pp.Key); ep != nil {
				ep.Value = mergeNodes(ep.Value, pp.Value)
			} else {
				ev.Set(pp.Key, pp.Value)
			}
		}
		return ev
	}
	return payload
}

// rebuildOrder computes the final key order for a touched mapping: originally
// present keys keep their original relative order, keys introduced by this
// run's operations slot in after their nearest already-placed predecessor in
// the operation list, and anything left over trails in its current order.
func rebuildOrder(original, opKeys, current []string) []string {
	present := make(map[string]bool, len(current))
	for _, k := range current {
		present[k] = true
	}
	order := make([]string, 0, len(current))
	placed := make(map[string]bool, len(current))
	for _, k := range original {
		if present[k] && !placed[k] {
			order = append(order, k)
			placed[k] = true
		}
	}
	for i, k := range opKeys {
		if !present[k] || placed[k] {
			continue
		}
		at := len(order)
		for j := i - 1; j >= 0; j-- {
			if idx := indexOf(order, opKeys[j]); idx >= 0 {
				at = idx + 1
				break
			}
		}
		order = append(order, "")
		copy(order[at+1:], order[at:])
		order[at] = k
		placed[k] = true
	}
	for _, k := range current {
		if !placed[k] {
			order = append(order, k)
			placed[k] = true
		}
	}
	return order
}

func indexOf(keys []string, key string) int {
	for i, k := range keys {
		if k == key {
			return i
		}
	}
	return -1
}
