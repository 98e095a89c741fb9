package toolwire

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/skosovsky/toolwire/xmltag"
)

// SchemaType is the kind tag of a Schema node.
type SchemaType string

const (
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeBoolean SchemaType = "boolean"
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeNull    SchemaType = "null"
)

// Schema is a minimal structural descriptor: a kind plus nested field shapes.
// It drives XML field extraction and is checked by Validate. Enum, Format,
// Description and Example are documentation for the LLM; Validate ignores them.
type Schema struct {
	Type        SchemaType         `json:"type,omitempty" yaml:"type,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty" yaml:"items,omitempty"`
	Required    []string           `json:"required,omitempty" yaml:"required,omitempty"`
	Enum        []any              `json:"enum,omitempty" yaml:"enum,omitempty"`
	Format      string             `json:"format,omitempty" yaml:"format,omitempty"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Example     any                `json:"example,omitempty" yaml:"example,omitempty"`
}

// Kind, Fields, Field and Elem let a Schema drive xmltag extraction.
func (s *Schema) Kind() string {
	if s == nil {
		return ""
	}
	return string(s.Type)
}

func (s *Schema) Fields() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (s *Schema) Field(name string) (xmltag.Shape, bool) {
	if s == nil {
		return nil, false
	}
	sub, ok := s.Properties[name]
	if !ok || sub == nil {
		return nil, false
	}
	return sub, true
}

func (s *Schema) Elem() (xmltag.Shape, bool) {
	if s == nil || s.Items == nil {
		return nil, false
	}
	return s.Items, true
}

var _ xmltag.Shape = (*Schema)(nil)

// JSONSchema renders s as a JSON Schema map, e.g. for a tool list sent to the LLM.
// Example becomes a one-element "examples" array.
func (s *Schema) JSONSchema() map[string]any {
	return s.export(false)
}

// export builds the JSON Schema map. In strict mode every object with declared
// properties also gets additionalProperties: false and requires all of them.
func (s *Schema) export(strict bool) map[string]any {
	if s == nil {
		return nil
	}
	m := make(map[string]any)
	if s.Type != "" {
		m["type"] = string(s.Type)
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, sub := range s.Properties {
			if sub == nil {
				props[name] = map[string]any{}
				continue
			}
			props[name] = sub.export(strict)
		}
		m["properties"] = props
	}
	if s.Items != nil {
		m["items"] = s.Items.export(strict)
	}
	if required := s.requiredNames(strict); len(required) > 0 {
		list := make([]any, len(required))
		for i, r := range required {
			list[i] = r
		}
		m["required"] = list
	}
	if strict && len(s.Properties) > 0 {
		m["additionalProperties"] = false
	}
	if len(s.Enum) > 0 {
		m["enum"] = slices.Clone(s.Enum)
	}
	if s.Format != "" {
		m["format"] = s.Format
	}
	if s.Description != "" {
		m["description"] = s.Description
	}
	if s.Example != nil {
		m["examples"] = []any{s.Example}
	}
	return m
}

// requiredNames is Required, or every property name (sorted) in strict mode.
func (s *Schema) requiredNames(strict bool) []string {
	if !strict || len(s.Properties) == 0 {
		return s.Required
	}
	return s.Fields()
}

// compile turns s into a jsonschema-go validator.
func (s *Schema) compile(strict bool) (*jsonschema.Resolved, error) {
	return s.toJSONSchema(strict).Resolve(nil)
}

func (s *Schema) toJSONSchema(strict bool) *jsonschema.Schema {
	if s == nil {
		return &jsonschema.Schema{}
	}
	js := &jsonschema.Schema{
		Type:        string(s.Type),
		Required:    slices.Clone(s.requiredNames(strict)),
		Enum:        slices.Clone(s.Enum),
		Format:      s.Format,
		Description: s.Description,
	}
	if len(s.Properties) > 0 {
		js.Properties = make(map[string]*jsonschema.Schema, len(s.Properties))
		for name, sub := range s.Properties {
			js.Properties[name] = sub.toJSONSchema(strict)
		}
		if strict {
			js.AdditionalProperties = &jsonschema.Schema{Not: &jsonschema.Schema{}}
		}
	}
	if s.Items != nil {
		js.Items = s.Items.toJSONSchema(strict)
	}
	return js
}

// fromJSONSchema converts an inferred jsonschema-go schema. "integer" becomes
// number, and a type list keeps its first non-null entry.
func fromJSONSchema(js *jsonschema.Schema) *Schema {
	if js == nil {
		return nil
	}
	s := &Schema{
		Type:        kindOf(js),
		Required:    slices.Clone(js.Required),
		Enum:        slices.Clone(js.Enum),
		Format:      js.Format,
		Description: js.Description,
	}
	if len(js.Properties) > 0 {
		s.Properties = make(map[string]*Schema, len(js.Properties))
		for name, sub := range js.Properties {
			s.Properties[name] = fromJSONSchema(sub)
		}
	}
	if js.Items != nil {
		s.Items = fromJSONSchema(js.Items)
	}
	if len(js.Examples) > 0 {
		s.Example = js.Examples[0]
	}
	return s
}

func kindOf(js *jsonschema.Schema) SchemaType {
	names := js.Types
	if js.Type != "" {
		names = append([]string{js.Type}, names...)
	}
	for _, name := range names {
		switch name {
		case "null":
			continue
		case "integer":
			return TypeNumber
		}
		return SchemaType(name)
	}
	if len(names) > 0 {
		return TypeNull
	}
	return ""
}

var (
	typeOverridesMu sync.RWMutex
	typeOverrides   = make(map[reflect.Type]*jsonschema.Schema)
)

// RegisterType makes generated schemas describe values of emptyInstance's type
// as jsonType with the given format (e.g. uuid.UUID{} as "string"/"uuid").
// It panics on a nil instance or an empty jsonType. Register before the first
// NewBinder or DefinitionFor call that involves the type.
func RegisterType(emptyInstance any, jsonType, format string) {
	if emptyInstance == nil {
		panic("toolwire: RegisterType emptyInstance must not be nil")
	}
	if jsonType == "" {
		panic("toolwire: RegisterType jsonType must not be empty")
	}
	typeOverridesMu.Lock()
	defer typeOverridesMu.Unlock()
	typeOverrides[reflect.TypeOf(emptyInstance)] = &jsonschema.Schema{Type: jsonType, Format: format}
}

// schemaFor infers the parameter Schema of T. Struct fields may add a
// `description:"..."` and a comma-separated `enum:"a,b"` tag, nested structs included.
func schemaFor[T any]() (*Schema, error) {
	typeOverridesMu.RLock()
	overrides := make(map[reflect.Type]*jsonschema.Schema, len(typeOverrides))
	for t, js := range typeOverrides {
		overrides[t] = js.CloneSchemas()
	}
	typeOverridesMu.RUnlock()

	js, err := jsonschema.For[T](&jsonschema.ForOptions{TypeSchemas: overrides})
	if err != nil {
		return nil, fmt.Errorf("infer schema for %s: %w", reflect.TypeFor[T](), err)
	}
	s := fromJSONSchema(js)
	if s == nil {
		return nil, fmt.Errorf("infer schema for %s: empty schema", reflect.TypeFor[T]())
	}
	applyFieldTags(s, reflect.TypeFor[T]())
	return s, nil
}

func applyFieldTags(s *Schema, typ reflect.Type) {
	for typ.Kind() == reflect.Pointer || typ.Kind() == reflect.Slice || typ.Kind() == reflect.Array {
		if typ.Kind() != reflect.Pointer {
			if s.Items == nil {
				return
			}
			s = s.Items
		}
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct || len(s.Properties) == 0 {
		return
	}
	for _, field := range reflect.VisibleFields(typ) {
		if !field.IsExported() || field.Anonymous {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}
		prop := s.Properties[name]
		if prop == nil {
			continue
		}
		if desc := field.Tag.Get("description"); desc != "" {
			prop.Description = desc
		}
		if enum := field.Tag.Get("enum"); enum != "" {
			prop.Enum = nil
			for _, v := range strings.Split(enum, ",") {
				prop.Enum = append(prop.Enum, strings.TrimSpace(v))
			}
		}
		applyFieldTags(prop, field.Type)
	}
}
