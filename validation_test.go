package toolwire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Primitives(t *testing.T) {
	tests := []struct {
		name  string
		value any
		typ   SchemaType
		want  bool
	}{
		{"string ok", "x", TypeString, true},
		{"string from number", 1.0, TypeString, false},
		{"number float", 1.5, TypeNumber, true},
		{"number int", 3, TypeNumber, true},
		{"number json.Number", json.Number("3"), TypeNumber, true},
		{"number from string", "3", TypeNumber, false},
		{"boolean ok", false, TypeBoolean, true},
		{"boolean from string", "true", TypeBoolean, false},
		{"null ok", nil, TypeNull, true},
		{"null from empty string", "", TypeNull, false},
		{"string from nil", nil, TypeString, false},
		{"unknown type", "x", SchemaType("integer"), false},
		{"empty type", "x", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.value, &Schema{Type: tt.typ}))
		})
	}
}

func TestValidate_NilSchema(t *testing.T) {
	assert.False(t, Validate("x", nil))
}

func TestValidate_Object(t *testing.T) {
	schema := &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"path":  {Type: TypeString},
			"lines": {Type: TypeNumber},
		},
	}
	assert.True(t, Validate(map[string]any{"path": "a", "lines": 3.0}, schema))
	assert.True(t, Validate(map[string]any{"path": "a", "lines": 3.0, "extra": true}, schema), "undeclared keys allowed")
	assert.False(t, Validate(map[string]any{"path": "a"}, schema), "absent declared property fails")
	assert.False(t, Validate(map[string]any{"path": 1.0, "lines": 3.0}, schema))
	assert.False(t, Validate([]any{}, schema))
	assert.False(t, Validate("{}", schema))
	assert.False(t, Validate(nil, schema))
}

func TestValidate_EmptyObjectSchema(t *testing.T) {
	schema := &Schema{Type: TypeObject, Properties: map[string]*Schema{}}
	assert.True(t, Validate(map[string]any{}, schema))
	assert.True(t, Validate(map[string]any{"anything": []any{1.0}}, schema))
	assert.False(t, Validate([]any{map[string]any{}}, schema))
}

func TestValidate_AbsentNullProperty(t *testing.T) {
	schema := &Schema{Type: TypeObject, Properties: map[string]*Schema{"x": {Type: TypeNull}}}
	assert.True(t, Validate(map[string]any{"x": nil}, schema))
	assert.False(t, Validate(map[string]any{}, schema), "absent is not null")
}

func TestValidate_Required(t *testing.T) {
	schema := &Schema{Type: TypeObject, Required: []string{"id"}}
	assert.True(t, Validate(map[string]any{"id": nil}, schema), "existence only, any type")
	assert.False(t, Validate(map[string]any{"other": 1.0}, schema))
}

func TestValidate_Nested(t *testing.T) {
	schema := &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"opts": {Type: TypeObject, Properties: map[string]*Schema{"force": {Type: TypeBoolean}}},
		},
	}
	assert.True(t, Validate(map[string]any{"opts": map[string]any{"force": true}}, schema))
	assert.False(t, Validate(map[string]any{"opts": map[string]any{"force": "yes"}}, schema))
}

func TestValidate_ArrayIgnoresItems(t *testing.T) {
	schema := &Schema{Type: TypeArray, Items: &Schema{Type: TypeNumber}}
	assert.True(t, Validate([]any{1.0, 2.0}, schema))
	assert.True(t, Validate([]any{"not", "numbers"}, schema))
	assert.True(t, Validate([]string{"a"}, schema))
	assert.True(t, Validate([]any{}, schema))
	assert.False(t, Validate(map[string]any{}, schema))
	assert.False(t, Validate(nil, schema))
}

func TestSchemaChecker(t *testing.T) {
	schema := &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			"unit":  {Type: TypeString, Enum: []any{"celsius", "fahrenheit"}},
			"temps": {Type: TypeArray, Items: &Schema{Type: TypeNumber}},
		},
		Required: []string{"unit"},
	}
	checker, err := NewSchemaChecker(schema, false)
	require.NoError(t, err)

	require.NoError(t, checker.Check(map[string]any{"unit": "celsius", "temps": []any{1.0, 2.5}}))
	require.NoError(t, checker.Check(map[string]any{"unit": "celsius", "extra": true}))

	err = checker.Check(map[string]any{"unit": "kelvin"})
	require.Error(t, err)
	assert.True(t, IsClientError(err))
	assert.ErrorIs(t, err, ErrValidation)

	err = checker.Check(map[string]any{"unit": "celsius", "temps": []any{"hot"}})
	require.ErrorIs(t, err, ErrValidation, "items are checked, unlike Validate")
	assert.True(t, Validate(map[string]any{"unit": "celsius", "temps": []any{"hot"}}, schema))
}

func TestSchemaChecker_Strict(t *testing.T) {
	schema := &Schema{
		Type:       TypeObject,
		Properties: map[string]*Schema{"path": {Type: TypeString}},
	}
	checker, err := NewSchemaChecker(schema, true)
	require.NoError(t, err)
	require.NoError(t, checker.Check(map[string]any{"path": "a"}))
	require.ErrorIs(t, checker.Check(map[string]any{"path": "a", "extra": 1.0}), ErrValidation)
	require.ErrorIs(t, checker.Check(map[string]any{}), ErrValidation)
	assert.Equal(t, false, checker.Schema()["additionalProperties"])
}

func TestNewSchemaChecker_Nil(t *testing.T) {
	_, err := NewSchemaChecker(nil, false)
	require.Error(t, err)
}
