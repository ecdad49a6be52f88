package mdkatex

import "strings"

// escapeMathSpan returns a math span escaped for client-side rendering:
// delimiters restored, with `_`, `*`, and `\` backslash-escaped so the
// downstream Markdown engine passes the formula through untouched for
// katex.js to render in the browser. Used when pre-render is disabled.
func escapeMathSpan(source string, delim Delimiter) string {
	var out strings.Builder
	out.Grow(len(delim.Left) + len(source) + len(delim.Right))
	escapeMath(delim.Left, &out)
	escapeMath(source, &out)
	escapeMath(delim.Right, &out)
	return out.String()
}

// escapeMath writes s with Markdown-significant characters escaped.
// Without this, the Markdown engine would eat parts of a formula like
// `$[x^n](f + g)$` as emphasis or links before katex.js ever sees it.
func escapeMath(s string, out *strings.Builder) {
	for _, c := range s {
		switch c {
		case '_':
			out.WriteString(`\_`)
		case '*':
			out.WriteString(`\*`)
		case '\\':
			out.WriteString(`\\`)
		default:
			out.WriteRune(c)
		}
	}
}
