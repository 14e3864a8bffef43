// Package schema reflects Go result types into the strict JSON
// schemas the chat-completions structured-output mode requires.
package schema

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invopop/jsonschema"
)

// Generate reflects T into a strict JSON schema: no $ref indirection,
// no additional properties, every declared property required. The
// strict shape is what the json_schema response format validates
// against server-side.
func Generate[T any]() (json.RawMessage, error) {
	reflector := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		DoNotReference:             true,
	}
	reflected := reflector.Reflect(new(T))

	encoded, err := json.Marshal(reflected)
	if err != nil {
		return nil, fmt.Errorf("marshal reflected schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(encoded, &schemaMap); err != nil {
		return nil, fmt.Errorf("decode reflected schema: %w", err)
	}
	delete(schemaMap, "$schema")
	delete(schemaMap, "$id")
	enforceStrict(schemaMap)

	strict, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal strict schema: %w", err)
	}
	return strict, nil
}

// enforceStrict walks every object node, closes it to additional
// properties and requires all of its declared properties.
func enforceStrict(node map[string]any) {
	if typeValue, ok := node["type"].(string); ok && typeValue == "object" {
		node["additionalProperties"] = false
		if properties, ok := node["properties"].(map[string]any); ok {
			required := make([]string, 0, len(properties))
			for name := range properties {
				required = append(required, name)
			}
			sort.Strings(required)
			node["required"] = required
		}
	}
	for _, value := range node {
		switch child := value.(type) {
		case map[string]any:
			enforceStrict(child)
		case []any:
			for _, item := range child {
				if childMap, ok := item.(map[string]any); ok {
					enforceStrict(childMap)
				}
			}
		}
	}
}
