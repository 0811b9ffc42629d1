package merge

import (
	"strings"

	"github.com/go-go-golems/pipecraft/pkg/yamldoc"
)

// Resolution is the outcome of walking a dotted path.
type Resolution struct {
	// Mapping is the mapping the path names; nil when the path is missing and
	// createMissing was false.
	Mapping *yamldoc.Mapping
	// Existed is false when any segment had to be created.
	Existed bool
}

// Resolve walks a dotted mapping path from root, optionally creating missing
// intermediate mappings (appended at the end of their parent, no metadata).
// The empty path resolves to root itself. Descending into a non-mapping value
// is an *InvalidPathError regardless of createMissing. Resolving the same
// path twice without intervening mutation yields the same node.
func Resolve(root *yamldoc.Mapping, path string, createMissing bool) (*Resolution, error) {
	cur := root
	existed := true
	if path != "" {
		for _, seg := range strings.Split(path, ".") {
			child := cur.Get(seg)
			if child == nil {
				if !createMissing {
					return &Resolution{Existed: false}, nil
				}
				next := yamldoc.NewMapping()
				cur.Set(seg, next)
				cur = next
				existed = false
				continue
			}
			m, ok := child.(*yamldoc.Mapping)
			if !ok {
				return nil, &InvalidPathError{Path: path, Segment: seg}
			}
			cur = m
		}
	}
	return &Resolution{Mapping: cur, Existed: existed}, nil
}

func splitPath(path string) (parent, key string) {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[:i], path[i+1:]
	}
	return "", path
}
