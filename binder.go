package toolwire

import "encoding/json"

// Validatable is implemented by argument types that need business checks
// beyond the schema. Bind calls it after unmarshaling.
type Validatable interface {
	Validate() error
}

// Binder derives a tool Schema from a Go argument type T and converts decoded
// ToolCall parameters into T: schema check, unmarshal, then Validatable.
type Binder[T any] struct {
	schema  *Schema
	checker *SchemaChecker
}

// NewBinder creates a Binder for type T. When strict is true, undeclared keys
// are rejected and every property is required.
func NewBinder[T any](strict bool) (*Binder[T], error) {
	schema, err := schemaFor[T]()
	if err != nil {
		return nil, err
	}
	checker, err := NewSchemaChecker(schema, strict)
	if err != nil {
		return nil, err
	}
	return &Binder[T]{schema: schema, checker: checker}, nil
}

// DefinitionFor is shorthand for NewBinder[T](false) followed by Definition.
func DefinitionFor[T any](name string, format Format) (ToolDefinition, error) {
	b, err := NewBinder[T](false)
	if err != nil {
		return ToolDefinition{}, err
	}
	return b.Definition(name, format), nil
}

// Definition returns a ToolDefinition for T. Backtick tools carry no schema.
func (b *Binder[T]) Definition(name string, format Format) ToolDefinition {
	def := ToolDefinition{Name: name, Format: format}
	if format != FormatBacktick {
		def.Parameters = b.schema
	}
	return def
}

// Checker returns the validator Bind runs before unmarshaling.
func (b *Binder[T]) Checker() *SchemaChecker {
	return b.checker
}

// Bind converts call.Parameters into T. Parameters that fail the schema or T's
// Validatable hook yield a ClientError, so the message can go back to the LLM.
func (b *Binder[T]) Bind(call ToolCall) (T, error) {
	var zero T
	params := call.Parameters
	if params == nil {
		params = map[string]any{}
	}
	data, err := json.Marshal(params)
	if err != nil {
		return zero, &ClientError{Reason: "parameters are not JSON: " + err.Error()}
	}
	// Round-trip through JSON so the checker sees float64/map[string]any only.
	var normalized any
	if err := json.Unmarshal(data, &normalized); err != nil {
		return zero, jsonParseError(err)
	}
	if err := b.checker.Check(normalized); err != nil {
		return zero, err
	}
	var args T
	if err := json.Unmarshal(data, &args); err != nil {
		return zero, jsonParseError(err)
	}
	if err := validateArgs(&args); err != nil {
		if IsClientError(err) {
			return zero, err
		}
		return zero, &ClientError{Reason: err.Error(), Err: ErrValidation}
	}
	return args, nil
}

// validateArgs runs Validatable on *T (which covers value receivers) or, for
// pointer T, on the value itself.
func validateArgs[T any](args *T) error {
	if v, ok := any(args).(Validatable); ok {
		return v.Validate()
	}
	if v, ok := any(*args).(Validatable); ok {
		return v.Validate()
	}
	return nil
}

func jsonParseError(err error) error {
	return &ClientError{Reason: "json parse error: " + err.Error(), Err: ErrValidation}
}
