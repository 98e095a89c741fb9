package toolwire

import "encoding/json"

// jsonDecoder reads the whole response as one JSON array of {name, parameters}
// objects. Anything else yields no calls. Definitions are not consulted.
type jsonDecoder struct{}

func (jsonDecoder) Format() Format { return FormatJSON }

func (jsonDecoder) Decode(text string, _ []ToolDefinition) ([]ToolCall, error) {
	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return []ToolCall{}, nil
	}
	items, ok := doc.([]any)
	if !ok {
		return []ToolCall{}, nil
	}
	calls := make([]ToolCall, 0, len(items))
	for _, item := range items {
		obj, _ := item.(map[string]any)
		name, _ := obj["name"].(string)
		params := obj["parameters"]
		if params == nil {
			params = map[string]any{}
		}
		calls = append(calls, ToolCall{Name: name, Parameters: params})
	}
	return calls, nil
}
