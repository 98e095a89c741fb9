package toolwire

import (
	"log/slog"

	"github.com/skosovsky/toolwire/fenced"
)

// DefaultExcludedBlockTypes are fence language tags treated as commit messages
// and never turned into file writes.
var DefaultExcludedBlockTypes = []string{"commit", "commit-message", "commit_message", "commitmsg", "git-commit"}

// BlockExtractor pulls (path, content) pairs out of fenced code blocks.
type BlockExtractor interface {
	ExtractBlocks(text string, opts fenced.Options) ([]fenced.File, error)
}

// BlockExtractorFunc adapts a function to BlockExtractor.
type BlockExtractorFunc func(text string, opts fenced.Options) ([]fenced.File, error)

func (f BlockExtractorFunc) ExtractBlocks(text string, opts fenced.Options) ([]fenced.File, error) {
	return f(text, opts)
}

// DefaultBlockExtractor is the fenced scanner.
var DefaultBlockExtractor BlockExtractor = BlockExtractorFunc(fenced.Extract)

// backtickDecoder attributes every extracted file to the first backtick definition.
type backtickDecoder struct {
	extractor BlockExtractor
	opts      fenced.Options
	logger    *slog.Logger
}

func (backtickDecoder) Format() Format { return FormatBacktick }

func (d backtickDecoder) Decode(text string, defs []ToolDefinition) ([]ToolCall, error) {
	if len(defs) == 0 {
		return []ToolCall{}, nil
	}
	files, err := d.extractor.ExtractBlocks(text, d.opts)
	if err != nil {
		d.logger.Warn("fenced block extraction failed", "format", FormatBacktick, "error", err)
		return []ToolCall{}, nil
	}
	name := defs[0].Name
	calls := make([]ToolCall, 0, len(files))
	for _, f := range files {
		calls = append(calls, ToolCall{
			Format: FormatBacktick,
			Name:   name,
			Parameters: map[string]any{
				"path":    f.Path,
				"content": f.Content,
			},
		})
	}
	return calls, nil
}

// backtickSchema is the parameter shape of every backtick call; Registry.Check uses it.
var backtickSchema = &Schema{
	Type: TypeObject,
	Properties: map[string]*Schema{
		"path":    {Type: TypeString},
		"content": {Type: TypeString},
	},
	Required: []string{"path", "content"},
}
