package toolwire

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/google/jsonschema-go/jsonschema"
)

// Validate reports whether v has the shape described by s. Primitive kinds must
// match exactly (no coercion). Objects must be map[string]any; every declared
// property must be present and valid, every required key must exist, and
// undeclared keys are allowed. Arrays accept any slice without looking at
// Items. A nil schema or an unknown Type never validates.
func Validate(v any, s *Schema) bool {
	if s == nil {
		return false
	}
	switch s.Type {
	case TypeString:
		_, ok := v.(string)
		return ok
	case TypeNumber:
		return isNumber(v)
	case TypeBoolean:
		_, ok := v.(bool)
		return ok
	case TypeNull:
		return v == nil
	case TypeObject:
		m, ok := v.(map[string]any)
		if !ok {
			return false
		}
		for name, sub := range s.Properties {
			// An absent key never matches any kind, so a declared property must exist.
			val, present := m[name]
			if !present || !Validate(val, sub) {
				return false
			}
		}
		for _, name := range s.Required {
			if _, present := m[name]; !present {
				return false
			}
		}
		return true
	case TypeArray:
		return isSlice(v)
	}
	return false
}

func isNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, json.Number:
		return true
	}
	return false
}

func isSlice(v any) bool {
	if _, ok := v.([]any); ok {
		return true
	}
	if v == nil {
		return false
	}
	return reflect.TypeOf(v).Kind() == reflect.Slice
}

// SchemaChecker is a Schema compiled into a full JSON Schema validator. Unlike
// Validate it checks array items, enums and, in strict mode, rejects undeclared keys.
type SchemaChecker struct {
	schema   *Schema
	strict   bool
	resolved *jsonschema.Resolved
}

// NewSchemaChecker compiles s. When strict is true every object gets
// additionalProperties: false and all of its properties become required.
func NewSchemaChecker(s *Schema, strict bool) (*SchemaChecker, error) {
	if s == nil {
		return nil, fmt.Errorf("schema must not be nil")
	}
	resolved, err := s.compile(strict)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return &SchemaChecker{schema: s, strict: strict, resolved: resolved}, nil
}

// Check validates v and returns a ClientError wrapping ErrValidation on mismatch.
func (c *SchemaChecker) Check(v any) error {
	if err := c.resolved.Validate(v); err != nil {
		return &ClientError{Reason: err.Error(), Err: ErrValidation}
	}
	return nil
}

// Schema returns the JSON Schema the checker enforces, strict keywords included.
func (c *SchemaChecker) Schema() map[string]any {
	return c.schema.export(c.strict)
}
