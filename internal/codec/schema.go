package codec

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	perrors "esg-node-parser/internal/errors"
)

const valueSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["timestamp", "value"],
  "properties": {
    "timestamp": {"type": "string", "minLength": 1},
    "value": {"type": ["number", "string"]},
    "unit": {"type": "string"}
  }
}`

const arraySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["timestamp", "value"],
    "properties": {
      "timestamp": {"type": "string", "minLength": 1},
      "value": {"type": ["number", "string"]}
    }
  }
}`

// Validator checks payloads against the wire schemas before decoding.
// Compiled schemas are read-only, so a Validator may be shared.
type Validator struct {
	single *gojsonschema.Schema
	array  *gojsonschema.Schema
}

// NewValidator compiles the embedded wire schemas
func NewValidator() (*Validator, error) {
	single, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(valueSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile value schema: %w", err)
	}
	array, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(arraySchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile forecast schema: %w", err)
	}
	return &Validator{single: single, array: array}, nil
}

// Validate checks data against the single-value schema, or the array schema when forecast is set
func (v *Validator) Validate(data []byte, forecast bool) error {
	schema := v.single
	if forecast {
		schema = v.array
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return perrors.New("validate", perrors.ErrMalformedPayload, err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return perrors.Newf("validate", perrors.ErrMalformedPayload, "%s", strings.Join(problems, "; "))
}
