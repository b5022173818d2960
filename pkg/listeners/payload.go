package listeners

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidPayload indicates a callback body does not match the listener's expected payload schema.
var ErrInvalidPayload = errors.New("invalid webhook payload")

// CompileSchema checks that schema is a usable JSON Schema document.
func CompileSchema(schema map[string]any) error {
	if len(schema) == 0 {
		return nil
	}

	if _, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema)); err != nil {
		return fmt.Errorf("invalid expected payload schema: %w", err)
	}

	return nil
}

// ValidatePayload validates payload against schema. An empty schema accepts anything.
func ValidatePayload(schema map[string]any, payload map[string]any) error {
	if len(schema) == 0 {
		return nil
	}

	if payload == nil {
		payload = map[string]any{}
	}

	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}

		return fmt.Errorf("%w: %s", ErrInvalidPayload, strings.Join(problems, "; "))
	}

	return nil
}
