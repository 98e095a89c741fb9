// Package toolwire decodes tool calls out of free-form LLM response text and
// masks sensitive strings in tool payloads before they leave the process.
//
// # Overview
//
// LLMs encode tool invocations in several ways. This package recognises three:
// a JSON array of {name, parameters} objects, schema-shaped XML tags, and fenced
// code blocks that name a file path. A Decoder takes the response text and the
// declared ToolDefinitions and returns ToolCalls in a fixed format order
// (JSON, then XML, then backtick), regardless of where the calls appear in text.
//
// Pipeline: response text + []ToolDefinition → Decoder (one FormatDecoder per
// Format) → []ToolCall → Redact before sending out → Restore after the reply.
//
// # Key concepts
//
//   - Schema is a minimal structural descriptor. Validate checks shape only;
//     NewSchemaChecker compiles the same Schema into a full JSON Schema validator.
//   - PrivacyPair lists are ordered. Redact applies them front to back, Restore
//     back to front, and the caller keeps pairs disjoint for a clean round trip.
//   - XML extraction failures are returned to the caller; the JSON and backtick
//     paths degrade to an empty result instead.
//
// # Example
//
//	defs := []toolwire.ToolDefinition{{
//	    Name:   "readFile",
//	    Format: toolwire.FormatXML,
//	    Parameters: &toolwire.Schema{Type: toolwire.TypeObject, Properties: map[string]*toolwire.Schema{
//	        "path": {Type: toolwire.TypeString},
//	    }},
//	}}
//	calls, err := toolwire.Decode(`<readFile><path>a.txt</path></readFile>`, defs)
//	if err != nil { ... }
//	masked := calls[0].Redact([]toolwire.PrivacyPair{{Search: "a.txt", Replace: "FILE_1"}})
package toolwire
