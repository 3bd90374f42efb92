package normalize

import (
	"github.com/jonathan/resume-builder/internal/schemas"
)

// Coerce returns a value with exactly the shape of node, built from data.
//
// The schema is authoritative: missing fields take their defaults, values of
// the wrong type are replaced by the default, and keys the schema does not
// declare are dropped. Array lengths follow data. Coerce never panics and
// never returns an error.
func Coerce(node *schemas.Node, data any) any {
	return coerce(node, "", data)
}

// coerce carries the name of the enclosing field so primitive positions can
// look up their sanitizer. Containers never consult the sanitizer table.
func coerce(node *schemas.Node, field string, data any) any {
	switch node.Kind() {
	case schemas.KindObject:
		return coerceObject(node, data)
	case schemas.KindArray:
		return coerceArray(node, data)
	default:
		return coercePrimitive(node, field, data)
	}
}

func coerceObject(node *schemas.Node, data any) map[string]any {
	in, ok := data.(map[string]any)
	if !ok {
		in = map[string]any{}
	}

	out := make(map[string]any, len(node.Fields()))
	for _, f := range node.Fields() {
		v, present := in[f.Name]
		if !present {
			out[f.Name] = f.Schema.Default()
			continue
		}
		out[f.Name] = coerce(f.Schema, f.Name, v)
	}
	return out
}

func coerceArray(node *schemas.Node, data any) []any {
	in, ok := data.([]any)
	if !ok {
		return []any{}
	}

	out := make([]any, 0, len(in))
	item := node.Item()
	if item == nil {
		for _, v := range in {
			switch v.(type) {
			case map[string]any, string:
				out = append(out, v)
			}
		}
		return out
	}

	for _, v := range in {
		if _, isMap := v.(map[string]any); isMap {
			out = append(out, coerce(item, "", v))
		}
	}
	return out
}

func coercePrimitive(node *schemas.Node, field string, data any) any {
	cleaned := Sanitize(field, data)
	if !node.Accepts(cleaned) {
		return node.Default()
	}
	return cleaned
}
