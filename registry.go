package toolwire

import (
	"fmt"
	"sync"
)

// Registry holds tool definitions in registration order and decodes responses
// against them. Safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	defs    []ToolDefinition
	index   map[string]int
	decoder *Decoder
}

// NewRegistry creates a Registry whose Decoder is built with opts.
func NewRegistry(opts ...DecoderOption) *Registry {
	return &Registry{
		index:   make(map[string]int),
		decoder: NewDecoder(opts...),
	}
}

// Register adds definitions. A definition whose name is already registered
// replaces the old one in place, keeping its position. Formats are stored in
// canonical form, so Format("XML") registers as FormatXML.
func (r *Registry) Register(defs ...ToolDefinition) error {
	canonical := make([]ToolDefinition, len(defs))
	for i, def := range defs {
		if def.Name == "" {
			return fmt.Errorf("tool definition name must not be empty")
		}
		f, err := ParseFormat(string(def.Format))
		if err != nil {
			return fmt.Errorf("tool %q: %w", def.Name, err)
		}
		def.Format = f
		canonical[i] = def
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, def := range canonical {
		if i, ok := r.index[def.Name]; ok {
			r.defs[i] = def
			continue
		}
		r.index[def.Name] = len(r.defs)
		r.defs = append(r.defs, def)
	}
	return nil
}

// Get returns the definition with the given name, or (zero, false) if not found.
func (r *Registry) Get(name string) (ToolDefinition, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[name]
	if !ok {
		return ToolDefinition{}, false
	}
	return r.defs[i], true
}

// Definitions returns a copy of all definitions in registration order.
func (r *Registry) Definitions() []ToolDefinition {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ToolDefinition(nil), r.defs...)
}

// Decoder returns the Decoder used by Decode (e.g. to call Use).
func (r *Registry) Decoder() *Decoder {
	return r.decoder
}

// Decode extracts tool calls from text against the registered definitions.
func (r *Registry) Decode(text string) ([]ToolCall, error) {
	return r.decoder.Decode(text, r.Definitions())
}

// Check validates call against its definition. Unknown tools yield a ClientError
// wrapping ErrToolNotFound; parameters that do not match the schema yield one
// wrapping ErrValidation. Backtick calls must carry string path and content.
func (r *Registry) Check(call ToolCall) error {
	def, ok := r.Get(call.Name)
	if !ok {
		return &ClientError{Reason: fmt.Sprintf("unknown tool %q", call.Name), Err: ErrToolNotFound}
	}
	schema := def.Parameters
	if def.Format == FormatBacktick {
		schema = backtickSchema
	}
	if schema == nil {
		return nil
	}
	if !Validate(call.Parameters, schema) {
		return &ClientError{Reason: fmt.Sprintf("parameters for %q do not match its schema", call.Name), Err: ErrValidation}
	}
	return nil
}
