package toolwire

import (
	"fmt"
	"strings"
)

// Format selects the decoding strategy a tool participates in.
type Format string

const (
	FormatJSON     Format = "json"
	FormatXML      Format = "xml"
	FormatBacktick Format = "backtick"
)

// Formats lists every Format in decode order.
var Formats = []Format{FormatJSON, FormatXML, FormatBacktick}

// ParseFormat returns the Format named by s (case-insensitive) or ErrUnknownFormat.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatJSON, FormatXML, FormatBacktick:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f), nil
}

// UnmarshalText implements encoding.TextUnmarshaler; used by both JSON and YAML decoding.
func (f *Format) UnmarshalText(b []byte) error {
	parsed, err := ParseFormat(string(b))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ToolDefinition declares a tool name, the Format it is called in, and for json/xml
// tools the shape its parameters take. Backtick tools carry no schema.
type ToolDefinition struct {
	Name       string  `json:"name" yaml:"name"`
	Format     Format  `json:"type" yaml:"type"`
	Parameters *Schema `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// ToolCall is a single invocation decoded from response text. Parameters and
// Response hold JSON-like values (see MapStrings). Format is empty for calls
// decoded from a JSON array. ID is set only when the Decoder uses WithCallIDs.
//
// ToolCall is treated as immutable: Redact and Restore return new values.
type ToolCall struct {
	ID         string `json:"id,omitempty"`
	Format     Format `json:"type,omitempty"`
	Name       string `json:"name"`
	Parameters any    `json:"parameters,omitempty"`
	Response   any    `json:"response,omitempty"`
}

// WithResponse returns a copy of c carrying the given response value.
func (c ToolCall) WithResponse(resp any) ToolCall {
	c.Response = resp
	return c
}

// Redact returns a copy of c with pairs applied to every string in Parameters and Response.
// Nil fields stay nil.
func (c ToolCall) Redact(pairs []PrivacyPair) ToolCall {
	return c.transform(func(s string) string { return RedactString(s, pairs) })
}

// Restore undoes Redact for the same pairs.
func (c ToolCall) Restore(pairs []PrivacyPair) ToolCall {
	return c.transform(func(s string) string { return RestoreString(s, pairs) })
}

func (c ToolCall) transform(fn func(string) string) ToolCall {
	if c.Parameters != nil {
		c.Parameters = MapStrings(c.Parameters, fn)
	}
	if c.Response != nil {
		c.Response = MapStrings(c.Response, fn)
	}
	return c
}
