package schemas

import (
	"encoding/json"
	"fmt"
)

// draft is the JSON Schema dialect emitted by JSONSchema.
const draft = "http://json-schema.org/draft-07/schema#"

// JSONSchema converts a reference node into a JSON Schema document describing
// the pruned output: every field optional, no additional properties.
func JSONSchema(n *Node) map[string]any {
	doc := jsonSchemaFor(n)
	doc["$schema"] = draft
	return doc
}

// JSONSchemaString returns JSONSchema rendered as indented JSON.
func JSONSchemaString(n *Node) (string, error) {
	b, err := json.MarshalIndent(JSONSchema(n), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON schema: %w", err)
	}
	return string(b), nil
}

func jsonSchemaFor(n *Node) map[string]any {
	switch n.Kind() {
	case KindObject:
		props := make(map[string]any, len(n.Fields()))
		for _, f := range n.Fields() {
			props[f.Name] = jsonSchemaFor(f.Schema)
		}
		return map[string]any{
			"type":                 "object",
			"properties":           props,
			"additionalProperties": false,
		}
	case KindArray:
		doc := map[string]any{"type": "array"}
		if n.Item() != nil {
			doc["items"] = jsonSchemaFor(n.Item())
		} else {
			doc["items"] = map[string]any{"type": []string{"object", "string"}}
		}
		return doc
	default:
		// null-default leaves keep whatever the model sent
		if n.Type() == TypeAny {
			return map[string]any{}
		}
		return map[string]any{"type": n.Type().String()}
	}
}
