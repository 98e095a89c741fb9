// Package fenced extracts file writes from Markdown code fences.
//
// A fence names its target path in the info string (```go main.go, ```go:main.go,
// ```main.go) or on the line just above it (`main.go`, **main.go**, File: main.go,
// ### main.go). Fences without a path are ignored.
package fenced

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrBadPattern is wrapped when an Options pattern is not valid doublestar syntax.
var ErrBadPattern = errors.New("invalid path pattern")

// File is one fenced block resolved to a path.
type File struct {
	Path    string
	Content string
	Lang    string
}

// Options controls which blocks Extract keeps.
type Options struct {
	// Patterns is a doublestar allow-list for paths; empty accepts every path.
	Patterns []string
	// Exclude holds lower-case language tags whose blocks are dropped.
	Exclude map[string]bool
}

// Extract returns the files named by fenced blocks in text, in order of first
// appearance. A later block for the same path replaces the earlier content.
// Unterminated fences are dropped.
func Extract(text string, opts Options) ([]File, error) {
	if err := ValidatePatterns(opts.Patterns...); err != nil {
		return nil, err
	}
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	var files []File
	index := make(map[string]int)
	prev := ""
	for i := 0; i < len(lines); i++ {
		marker, ok := openingFence(lines[i])
		if !ok {
			if t := strings.TrimSpace(lines[i]); t != "" {
				prev = t
			}
			continue
		}
		end := closingFence(lines, i+1, marker)
		if end < 0 {
			break
		}
		info := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(lines[i]), marker[:1]))
		lang, path := parseInfo(info)
		if path == "" {
			path = pathFromLabel(prev)
		}
		content := strings.Join(lines[i+1:end], "\n")
		i, prev = end, ""
		if path == "" || opts.Exclude[strings.ToLower(lang)] {
			continue
		}
		if !allowed(path, opts.Patterns) {
			continue
		}
		if at, seen := index[path]; seen {
			files[at].Content = content
			files[at].Lang = lang
			continue
		}
		index[path] = len(files)
		files = append(files, File{Path: path, Content: content, Lang: lang})
	}
	return files, nil
}

// openingFence returns the fence marker (``` or ~~~, possibly longer) that opens line.
func openingFence(line string) (string, bool) {
	t := strings.TrimLeft(line, " \t")
	if len(line)-len(t) > 3 || len(t) < 3 {
		return "", false
	}
	c := t[0]
	if c != '`' && c != '~' {
		return "", false
	}
	n := 0
	for n < len(t) && t[n] == c {
		n++
	}
	if n < 3 {
		return "", false
	}
	if c == '`' && strings.ContainsRune(t[n:], '`') {
		return "", false
	}
	return t[:n], true
}

// closingFence returns the index of the line closing marker, or -1.
func closingFence(lines []string, from int, marker string) int {
	c := marker[0]
	for i := from; i < len(lines); i++ {
		t := strings.TrimSpace(lines[i])
		if len(t) < len(marker) || strings.Trim(t, string(c)) != "" {
			continue
		}
		return i
	}
	return -1
}

// parseInfo splits a fence info string into language and path.
func parseInfo(info string) (lang, path string) {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return "", ""
	}
	first := fields[0]
	if l, p, ok := strings.Cut(first, ":"); ok && !strings.Contains(p, "//") && len(l) > 1 {
		return l, cleanPath(p)
	}
	if len(fields) >= 2 {
		p := fields[1]
		for _, prefix := range []string{"path=", "file=", "filename=", "title="} {
			p = strings.TrimPrefix(p, prefix)
		}
		if p = cleanPath(p); looksLikePath(p) {
			return first, p
		}
		return first, ""
	}
	if looksLikePath(first) {
		return "", cleanPath(first)
	}
	return first, ""
}

// pathFromLabel reads a path from the line above a fence. A label decorated as
// a heading, bold, code span or "File:" line may name any path; a bare line
// needs a directory or a name not starting with a capital, so prose such as "Node.js"
// is not taken for a file.
func pathFromLabel(line string) string {
	t := strings.TrimSpace(line)
	decorated := strings.HasPrefix(t, "#")
	t = strings.TrimSpace(strings.TrimLeft(t, "#"))
	if trimmed := strings.Trim(t, "*` "); trimmed != t {
		decorated = true
		t = trimmed
	}
	lower := strings.ToLower(t)
	for _, prefix := range []string{"file:", "path:", "filename:"} {
		if strings.HasPrefix(lower, prefix) {
			t = strings.TrimSpace(t[len(prefix):])
			decorated = true
			break
		}
	}
	t = strings.Trim(strings.TrimSuffix(t, ":"), "*` ")
	t = strings.TrimSuffix(t, ":")
	if !looksLikePath(t) {
		return ""
	}
	if !decorated && !strings.ContainsAny(t, `/\`) && isUpperASCII(t[0]) {
		return ""
	}
	return cleanPath(t)
}

func cleanPath(p string) string {
	return strings.Trim(p, `"'`+"`")
}

// looksLikePath accepts tokens with a directory separator, or a file name whose
// extension starts with a letter and is at most ten letters or digits.
func looksLikePath(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t") {
		return false
	}
	if strings.ContainsAny(s, `/\`) {
		return true
	}
	dot := strings.LastIndexByte(s, '.')
	if dot < 0 {
		return false
	}
	ext := s[dot+1:]
	if ext == "" || len(ext) > 10 || !isLetterASCII(ext[0]) {
		return false
	}
	for i := 1; i < len(ext); i++ {
		if !isLetterASCII(ext[i]) && (ext[i] < '0' || ext[i] > '9') {
			return false
		}
	}
	return true
}

func isUpperASCII(c byte) bool { return c >= 'A' && c <= 'Z' }

func isLetterASCII(c byte) bool { return isUpperASCII(c) || (c >= 'a' && c <= 'z') }

// ValidatePatterns reports the first pattern that is not valid doublestar syntax.
func ValidatePatterns(patterns ...string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w: %q", ErrBadPattern, p)
		}
	}
	return nil
}

func allowed(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}
