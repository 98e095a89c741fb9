// Package xmltag extracts schema-shaped XML-like tags from LLM output.
//
// LLM output is rarely well-formed XML: file contents carry raw '<' and '&',
// and prose surrounds the tags. The scanner therefore matches literal
// <name>...</name> pairs (nesting of the same name is balanced) and lets a
// Shape decide how each element's inner text is interpreted.
package xmltag

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ErrMalformed is wrapped by every SyntaxError.
var ErrMalformed = errors.New("malformed tag value")

// Shape describes how an element's content is read. Kind is one of "object",
// "array", "string", "number", "boolean", "null"; any other kind yields raw text.
type Shape interface {
	Kind() string
	// Fields lists object property names.
	Fields() []string
	Field(name string) (Shape, bool)
	// Elem is the array item shape, if declared.
	Elem() (Shape, bool)
}

// SyntaxError reports element content that cannot be read as its declared kind.
type SyntaxError struct {
	Tag   string
	Kind  string
	Value string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("xmltag: <%s> value %q is not a valid %s", e.Tag, e.Value, e.Kind)
}

func (e *SyntaxError) Unwrap() error { return ErrMalformed }

// Extract scans text for top-level elements named after each field of wrapper
// (which must be an object shape) and returns one match per element, in text
// order. Each match is a map with a single key, the element name, holding the
// value read according to that field's shape. Unterminated elements are skipped.
func Extract(text string, wrapper Shape) ([]any, error) {
	if wrapper == nil || wrapper.Kind() != "object" {
		return nil, fmt.Errorf("xmltag: wrapper shape must be an object")
	}
	type found struct {
		pos   int
		match map[string]any
	}
	var all []found
	for _, name := range wrapper.Fields() {
		shape, ok := wrapper.Field(name)
		if !ok {
			continue
		}
		from := 0
		for {
			el, ok := findElement(text, name, from)
			if !ok {
				break
			}
			v, err := readValue(name, text[el.innerStart:el.innerEnd], shape)
			if err != nil {
				return nil, err
			}
			all = append(all, found{pos: el.start, match: map[string]any{name: v}})
			from = el.end
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].pos < all[j].pos })
	matches := make([]any, len(all))
	for i, f := range all {
		matches[i] = f.match
	}
	return matches, nil
}

type element struct {
	start, innerStart, innerEnd, end int
}

// findElement locates the first balanced <name>...</name> at or after from.
func findElement(s, name string, from int) (element, bool) {
	open, closing := "<"+name+">", "</"+name+">"
	i := strings.Index(s[from:], open)
	if i < 0 {
		return element{}, false
	}
	el := element{start: from + i, innerStart: from + i + len(open)}
	depth, pos := 1, el.innerStart
	for {
		nextClose := strings.Index(s[pos:], closing)
		if nextClose < 0 {
			return element{}, false
		}
		nextOpen := strings.Index(s[pos:], open)
		if nextOpen >= 0 && nextOpen < nextClose {
			depth++
			pos += nextOpen + len(open)
			continue
		}
		depth--
		if depth == 0 {
			el.innerEnd = pos + nextClose
			el.end = el.innerEnd + len(closing)
			return el, true
		}
		pos += nextClose + len(closing)
	}
}

func readValue(tag, inner string, shape Shape) (any, error) {
	trimmed := strings.TrimSpace(inner)
	switch shape.Kind() {
	case "object":
		return readObject(tag, inner, shape)
	case "array":
		return readArray(tag, inner, shape)
	case "number":
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || strings.ContainsAny(trimmed, "xX_") {
			return nil, &SyntaxError{Tag: tag, Kind: "number", Value: trimmed}
		}
		return f, nil
	case "boolean":
		switch strings.ToLower(trimmed) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, &SyntaxError{Tag: tag, Kind: "boolean", Value: trimmed}
	case "null":
		if trimmed == "" || trimmed == "null" {
			return nil, nil
		}
		return nil, &SyntaxError{Tag: tag, Kind: "null", Value: trimmed}
	default:
		return trimNewlines(inner), nil
	}
}

// readObject reads each declared field from the first direct child element of
// that name. Each child is skipped as a whole, so a same-named tag nested in
// another child (or in its text) never binds. Missing fields are left out. An
// object without declared fields accepts a JSON object literal.
func readObject(tag, inner string, shape Shape) (map[string]any, error) {
	out := make(map[string]any)
	fields := shape.Fields()
	if len(fields) == 0 {
		t := strings.TrimSpace(inner)
		if !strings.HasPrefix(t, "{") {
			return out, nil
		}
		if err := json.Unmarshal([]byte(t), &out); err != nil {
			return nil, &SyntaxError{Tag: tag, Kind: "object", Value: t}
		}
		return out, nil
	}
	pos := 0
	for len(out) < len(fields) {
		name, at, ok := nextTagName(inner, pos)
		if !ok {
			break
		}
		el, ok := findElement(inner, name, at)
		if !ok {
			pos = at + 1
			continue
		}
		pos = el.end
		if _, done := out[name]; done {
			continue
		}
		sub, ok := shape.Field(name)
		if !ok {
			continue
		}
		v, err := readValue(name, inner[el.innerStart:el.innerEnd], sub)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

// readArray accepts either a JSON array literal or a sequence of child elements,
// each read with the item shape (raw text when no item shape is declared).
func readArray(tag, inner string, shape Shape) ([]any, error) {
	if t := strings.TrimSpace(inner); strings.HasPrefix(t, "[") {
		var arr []any
		if err := json.Unmarshal([]byte(t), &arr); err == nil {
			return arr, nil
		}
	}
	item, hasItem := shape.Elem()
	out := []any{}
	pos := 0
	for {
		name, at, ok := nextTagName(inner, pos)
		if !ok {
			return out, nil
		}
		el, ok := findElement(inner, name, at)
		if !ok {
			pos = at + 1
			continue
		}
		body := inner[el.innerStart:el.innerEnd]
		if hasItem {
			v, err := readValue(name, body, item)
			if err != nil {
				return nil, fmt.Errorf("<%s> item: %w", tag, err)
			}
			out = append(out, v)
		} else {
			out = append(out, trimNewlines(body))
		}
		pos = el.end
	}
}

// nextTagName finds the next opening tag <name> at or after pos.
func nextTagName(s string, pos int) (string, int, bool) {
	for pos < len(s) {
		i := strings.IndexByte(s[pos:], '<')
		if i < 0 {
			return "", 0, false
		}
		at := pos + i
		j := at + 1
		for j < len(s) && isNameByte(s[j], j == at+1) {
			j++
		}
		if j > at+1 && j < len(s) && s[j] == '>' {
			return s[at+1 : j], at, true
		}
		pos = at + 1
	}
	return "", 0, false
}

func isNameByte(c byte, first bool) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		return true
	case c >= '0' && c <= '9', c == '-', c == '.', c == ':':
		return !first
	}
	return false
}

// trimNewlines drops one leading and one trailing line break, keeping other whitespace.
func trimNewlines(s string) string {
	if strings.HasPrefix(s, "\r\n") {
		s = s[2:]
	} else {
		s = strings.TrimPrefix(s, "\n")
	}
	if strings.HasSuffix(s, "\r\n") {
		return s[:len(s)-2]
	}
	return strings.TrimSuffix(s, "\n")
}
