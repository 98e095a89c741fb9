package toolwire

import "github.com/skosovsky/toolwire/xmltag"

// TagExtractor finds schema-shaped XML tags in text. schema is always an object
// whose properties map a tool name to that tool's parameter schema; each match
// is a JSON-like value keyed by tool name.
type TagExtractor interface {
	ExtractTags(text string, schema *Schema) ([]any, error)
}

// TagExtractorFunc adapts a function to TagExtractor.
type TagExtractorFunc func(text string, schema *Schema) ([]any, error)

func (f TagExtractorFunc) ExtractTags(text string, schema *Schema) ([]any, error) {
	return f(text, schema)
}

// DefaultTagExtractor is the xmltag scanner.
var DefaultTagExtractor TagExtractor = TagExtractorFunc(func(text string, schema *Schema) ([]any, error) {
	return xmltag.Extract(text, schema)
})

// xmlDecoder runs the tag extractor once per definition that declares parameters.
// Extractor errors are returned as *ExtractError; nothing is decoded in that case.
type xmlDecoder struct {
	extractor TagExtractor
}

func (xmlDecoder) Format() Format { return FormatXML }

func (d xmlDecoder) Decode(text string, defs []ToolDefinition) ([]ToolCall, error) {
	calls := []ToolCall{}
	for _, def := range defs {
		if def.Parameters == nil {
			continue
		}
		wrapper := &Schema{
			Type:       TypeObject,
			Properties: map[string]*Schema{def.Name: def.Parameters},
		}
		matches, err := d.extractor.ExtractTags(text, wrapper)
		if err != nil {
			return nil, &ExtractError{Format: FormatXML, Tool: def.Name, Err: err}
		}
		for _, match := range matches {
			obj, ok := match.(map[string]any)
			if !ok {
				continue
			}
			params, ok := obj[def.Name].(map[string]any)
			if !ok {
				continue
			}
			calls = append(calls, ToolCall{Format: FormatXML, Name: def.Name, Parameters: params})
		}
	}
	return calls, nil
}
