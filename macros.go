package mdkatex

import (
	"fmt"
	"os"
	"strings"
)

// MacroTable maps macro names (including the leading backslash) to their
// expansion templates. Built once per run, read-only afterwards.
type MacroTable map[string]string

// ParseError describes a rejected macro file, naming the offending line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("macro file line %d: %s", e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrMacroParse }

// LoadMacros reads and parses the macro file at path. An empty path means
// no macro file is configured and yields an empty table.
func LoadMacros(path string) (MacroTable, error) {
	if path == "" {
		return MacroTable{}, nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from user config
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMacroFile, err)
	}
	return ParseMacros(string(data))
}

// ParseMacros parses macro definitions of the form `\name:{template}`.
// A template may span multiple physical lines until its braces balance.
// Blank lines are ignored; every other line must begin an entry.
// Names missing the leading backslash control character, duplicate
// names, and unbalanced braces are errors naming the offending line.
func ParseMacros(content string) (MacroTable, error) {
	table := MacroTable{}
	lines := strings.Split(content, "\n")

	for ln := 0; ln < len(lines); ln++ {
		line := strings.TrimSpace(lines[ln])
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "\\") {
			return nil, &ParseError{Line: ln + 1, Msg: "macro name must start with '\\'"}
		}

		startLine := ln + 1
		name, rest, ok := strings.Cut(line, ":")
		if !ok {
			return nil, &ParseError{Line: startLine, Msg: "missing ':' separator"}
		}
		name = strings.TrimSpace(name)
		if len(name) < 2 {
			return nil, &ParseError{Line: startLine, Msg: "macro name must follow the backslash"}
		}
		if _, dup := table[name]; dup {
			return nil, &ParseError{Line: startLine, Msg: fmt.Sprintf("duplicate macro %q", name)}
		}

		// Accumulate the template until braces balance.
		var tmpl strings.Builder
		tmpl.WriteString(rest)
		depth, errLine := braceDepth(rest, startLine)
		for depth > 0 && ln+1 < len(lines) {
			ln++
			tmpl.WriteByte('\n')
			tmpl.WriteString(lines[ln])
			var d int
			d, errLine = braceDepth(lines[ln], ln+1)
			depth += d
		}
		if depth != 0 {
			if depth < 0 {
				return nil, &ParseError{Line: errLine, Msg: "unbalanced braces: unmatched '}'"}
			}
			return nil, &ParseError{Line: startLine, Msg: "unbalanced braces: unclosed '{'"}
		}

		table[name] = unwrapTemplate(strings.TrimSpace(tmpl.String()))
	}
	return table, nil
}

// braceDepth returns the net brace depth of line, ignoring escaped
// braces, and the line number for error reporting.
func braceDepth(line string, lineNo int) (int, int) {
	depth := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++ // skip escaped character
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	return depth, lineNo
}

// unwrapTemplate strips one enclosing brace pair when it wraps the whole
// template, so `{\nabla}` stores as `\nabla`.
func unwrapTemplate(tmpl string) string {
	if len(tmpl) < 2 || tmpl[0] != '{' || tmpl[len(tmpl)-1] != '}' {
		return tmpl
	}
	depth := 0
	for i := 0; i < len(tmpl); i++ {
		switch tmpl[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 && i != len(tmpl)-1 {
				return tmpl // first brace closes early, not a full wrap
			}
		}
	}
	return tmpl[1 : len(tmpl)-1]
}
