package toolwire

import (
	"log/slog"
	"strings"
)

// DecoderOption configures a Decoder.
type DecoderOption func(*decoderOptions)

type decoderOptions struct {
	tagExtractor   TagExtractor
	blockExtractor BlockExtractor
	logger         *slog.Logger
	callIDs        bool
	pathPatterns   []string
	excludedTypes  []string
	recoverPanics  bool
}

// WithTagExtractor replaces the XML tag extractor (default DefaultTagExtractor).
func WithTagExtractor(e TagExtractor) DecoderOption {
	return func(o *decoderOptions) {
		o.tagExtractor = e
	}
}

// WithBlockExtractor replaces the fenced block extractor (default DefaultBlockExtractor).
func WithBlockExtractor(e BlockExtractor) DecoderOption {
	return func(o *decoderOptions) {
		o.blockExtractor = e
	}
}

// WithLogger sets the logger for decoder diagnostics. Nil means slog.Default().
func WithLogger(logger *slog.Logger) DecoderOption {
	return func(o *decoderOptions) {
		o.logger = logger
	}
}

// WithCallIDs assigns a random UUID to every decoded ToolCall.
func WithCallIDs() DecoderOption {
	return func(o *decoderOptions) {
		o.callIDs = true
	}
}

// WithPathPatterns restricts backtick calls to paths matching one of the doublestar
// patterns (e.g. "src/**/*.go"). No patterns means every path is accepted.
func WithPathPatterns(patterns ...string) DecoderOption {
	return func(o *decoderOptions) {
		o.pathPatterns = patterns
	}
}

// WithExcludedBlockTypes replaces DefaultExcludedBlockTypes.
func WithExcludedBlockTypes(types ...string) DecoderOption {
	return func(o *decoderOptions) {
		o.excludedTypes = types
	}
}

// WithRecoverPanics enables panic recovery around each format strategy (returns SystemError).
func WithRecoverPanics(enable bool) DecoderOption {
	return func(o *decoderOptions) {
		o.recoverPanics = enable
	}
}

func excludeSet(types []string) map[string]bool {
	set := make(map[string]bool, len(types))
	for _, t := range types {
		set[strings.ToLower(strings.TrimSpace(t))] = true
	}
	return set
}
