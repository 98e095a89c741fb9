// Package testutil provides test helpers for toolwire (stub extractors, test registry).
package testutil

import (
	"github.com/skosovsky/toolwire"
	"github.com/skosovsky/toolwire/fenced"
)

// StubTagExtractor is a configurable TagExtractor. It records the last schema it received.
type StubTagExtractor struct {
	Matches    []any
	Err        error
	LastSchema *toolwire.Schema
	Calls      int
}

// ExtractTags returns Matches and Err.
func (s *StubTagExtractor) ExtractTags(_ string, schema *toolwire.Schema) ([]any, error) {
	s.Calls++
	s.LastSchema = schema
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Matches, nil
}

// StubBlockExtractor is a configurable BlockExtractor. It records the options it received.
type StubBlockExtractor struct {
	Files    []fenced.File
	Err      error
	LastOpts fenced.Options
	Calls    int
}

// ExtractBlocks returns Files and Err.
func (s *StubBlockExtractor) ExtractBlocks(_ string, opts fenced.Options) ([]fenced.File, error) {
	s.Calls++
	s.LastOpts = opts
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Files, nil
}

var (
	_ toolwire.TagExtractor   = (*StubTagExtractor)(nil)
	_ toolwire.BlockExtractor = (*StubBlockExtractor)(nil)
)
