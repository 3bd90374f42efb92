package normalize

import (
	"strings"

	"github.com/jonathan/resume-builder/internal/schemas"
)

// IsEmpty reports whether v is null, an empty string, an empty sequence or
// an empty mapping. Numbers and booleans are never empty.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

// Prune removes empty values recursively. Children are pruned first, so a
// container whose children all vanish is itself dropped from its parent.
// Strings are trimmed. Prune is idempotent.
func Prune(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			pruned := Prune(child)
			if IsEmpty(pruned) {
				continue
			}
			out[k] = pruned
		}
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, child := range t {
			pruned := Prune(child)
			if IsEmpty(pruned) {
				continue
			}
			out = append(out, pruned)
		}
		return out
	case string:
		return strings.TrimSpace(t)
	default:
		return v
	}
}

// HasSubstance reports whether a pruned object carries anything beyond the
// defaults declared by its schema, such as a lone resumeType of "Classic".
func HasSubstance(node *schemas.Node, pruned map[string]any) bool {
	defaults, _ := Prune(node.Default()).(map[string]any)
	for k, v := range pruned {
		d, ok := defaults[k]
		if !ok || !equalPrimitive(d, v) {
			return true
		}
	}
	return false
}

func equalPrimitive(a, b any) bool {
	switch a.(type) {
	case string, bool, float64, nil:
		switch b.(type) {
		case string, bool, float64, nil:
			return a == b
		}
	}
	return false
}
