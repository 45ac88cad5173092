package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// GenerateJSONSchema generates a minimal JSON schema describing the shape of
// an example Go value. It is meant for tools that derive a working input
// schema from their argument struct rather than hand-writing one.
func GenerateJSONSchema(v interface{}) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal example: %w", err)
	}

	schema := fmt.Sprintf(`{"type": "object", "example": %s}`, string(data))
	return json.RawMessage(schema), nil
}

// ValidateAgainstSchema validates data against a JSON schema, returning an
// error that lists every violation.
func ValidateAgainstSchema(data json.RawMessage, schema json.RawMessage) error {
	schemaLoader := gojsonschema.NewBytesLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate against schema: %w", err)
	}

	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			messages = append(messages, e.String())
		}
		return fmt.Errorf("schema validation failed: %s", strings.Join(messages, "; "))
	}

	return nil
}

// MergeJSONObjects merges multiple JSON objects, with later objects taking precedence
func MergeJSONObjects(objects ...json.RawMessage) (json.RawMessage, error) {
	if len(objects) == 0 {
		return json.RawMessage("{}"), nil
	}

	if len(objects) == 1 {
		return objects[0], nil
	}

	var result map[string]interface{}
	for _, obj := range objects {
		var current map[string]interface{}
		if err := json.Unmarshal(obj, &current); err != nil {
			return nil, fmt.Errorf("failed to unmarshal object: %w", err)
		}

		if result == nil {
			result = make(map[string]interface{})
		}

		for k, v := range current {
			result[k] = v
		}
	}

	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal merged object: %w", err)
	}

	return data, nil
}

// JSONToStruct unmarshals JSON into a struct with better error messages
func JSONToStruct(data json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w (data: %s)", err, string(data))
	}

	return nil
}
