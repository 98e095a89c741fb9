package toolwire

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/skosovsky/toolwire/fenced"
)

// FormatDecoder is the decoding strategy for one Format. Decode receives only
// the definitions declared with that Format, in the order they were supplied.
type FormatDecoder interface {
	Format() Format
	Decode(text string, defs []ToolDefinition) ([]ToolCall, error)
}

// Decoder partitions tool definitions by Format and runs one FormatDecoder per
// Format. Results are concatenated in Formats order (JSON, XML, backtick).
// A Decoder is safe for concurrent use.
type Decoder struct {
	mu          sync.Mutex
	raw         map[Format]FormatDecoder // unwrapped, used by Use() to re-apply middlewares
	strategies  map[Format]FormatDecoder // wrapped with middlewares, used by Decode
	middlewares []Middleware
	opts        decoderOptions
}

// NewDecoder creates a Decoder with the given options.
func NewDecoder(opts ...DecoderOption) *Decoder {
	o := decoderOptions{
		tagExtractor:   DefaultTagExtractor,
		blockExtractor: DefaultBlockExtractor,
		excludedTypes:  DefaultExcludedBlockTypes,
		recoverPanics:  true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if err := fenced.ValidatePatterns(o.pathPatterns...); err != nil {
		o.logger.Warn("backtick calls disabled", "error", err)
	}
	raw := map[Format]FormatDecoder{
		FormatJSON: jsonDecoder{},
		FormatXML:  xmlDecoder{extractor: o.tagExtractor},
		FormatBacktick: backtickDecoder{
			extractor: o.blockExtractor,
			opts: fenced.Options{
				Patterns: o.pathPatterns,
				Exclude:  excludeSet(o.excludedTypes),
			},
			logger: o.logger,
		},
	}
	strategies := make(map[Format]FormatDecoder, len(raw))
	for f, s := range raw {
		strategies[f] = s
	}
	return &Decoder{raw: raw, strategies: strategies, opts: o}
}

var defaultDecoder = NewDecoder()

// Decode runs the default Decoder.
func Decode(text string, defs []ToolDefinition) ([]ToolCall, error) {
	return defaultDecoder.Decode(text, defs)
}

// Decode extracts tool calls from text. The JSON strategy always runs; XML and
// backtick strategies act on their definitions only. An XML extraction failure
// is returned as *ExtractError and no calls are returned with it.
func (d *Decoder) Decode(text string, defs []ToolDefinition) ([]ToolCall, error) {
	groups := make(map[Format][]ToolDefinition, len(Formats))
	for _, def := range defs {
		switch def.Format {
		case FormatJSON, FormatXML, FormatBacktick:
			groups[def.Format] = append(groups[def.Format], def)
		default:
			d.opts.logger.Debug("skipping tool definition", "tool", def.Name, "format", def.Format)
		}
	}
	d.mu.Lock()
	strategies := make([]FormatDecoder, 0, len(Formats))
	for _, f := range Formats {
		strategies = append(strategies, d.strategies[f])
	}
	d.mu.Unlock()

	calls := []ToolCall{}
	for _, s := range strategies {
		out, err := d.run(s, text, groups[s.Format()])
		if err != nil {
			return nil, err
		}
		calls = append(calls, out...)
	}
	if d.opts.callIDs {
		for i := range calls {
			calls[i].ID = uuid.NewString()
		}
	}
	return calls, nil
}

func (d *Decoder) run(s FormatDecoder, text string, defs []ToolDefinition) (calls []ToolCall, err error) {
	if d.opts.recoverPanics {
		defer func() {
			if p := recover(); p != nil {
				calls = nil
				err = &SystemError{Err: &panicError{p: p}}
			}
		}()
	}
	return s.Decode(text, defs)
}
