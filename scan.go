package mdkatex

import (
	"fmt"
	"strings"
)

// SegmentKind discriminates scanner output segments.
type SegmentKind int

// Segment kinds.
const (
	SegmentText SegmentKind = iota
	SegmentInline
	SegmentBlock
)

// Segment is one run of a scanned chapter: either literal text or a math
// span. Start and End are byte offsets into the original text; for math
// segments they include the delimiters.
type Segment struct {
	Kind  SegmentKind
	Start int
	End   int

	// Text is the literal content for SegmentText. It equals the original
	// bytes except that escaped delimiter characters are unescaped
	// (`\$` becomes `$`).
	Text string

	// Source is the raw math source for SegmentInline/SegmentBlock,
	// delimiters stripped.
	Source string
}

// IsMath reports whether the segment is a math span.
func (s Segment) IsMath() bool {
	return s.Kind == SegmentInline || s.Kind == SegmentBlock
}

// ScanResult is the ordered segmentation of one chapter. Segments cover
// the chapter's full byte range in order with no gaps or overlaps.
// Diagnostics carries recovered problems (unterminated math spans); they
// never fail the scan.
type ScanResult struct {
	Segments    []Segment
	Diagnostics []string
}

// MathCount returns the number of math segments.
func (r ScanResult) MathCount() int {
	n := 0
	for _, seg := range r.Segments {
		if seg.IsMath() {
			n++
		}
	}
	return n
}

// Scan segments text into literal runs and math spans using the given
// delimiters. Math syntax inside inline code and fenced code blocks is
// left untouched. When both delimiters match at a position, the one with
// the longer left marker wins; on equal lengths the block delimiter wins.
func Scan(text string, block, inline Delimiter) ScanResult {
	s := &scanner{
		text:          text,
		block:         block,
		inline:        inline,
		tryBlockFirst: len(block.Left) >= len(inline.Left),
	}
	s.run()
	return ScanResult{Segments: s.segs, Diagnostics: s.diags}
}

// scanner is the single-pass state machine behind Scan. The current
// literal run accumulates in lit (escapes resolved) while litStart tracks
// its starting byte offset.
type scanner struct {
	text          string
	block, inline Delimiter
	tryBlockFirst bool

	i        int
	litStart int
	lit      strings.Builder

	segs  []Segment
	diags []string
}

func (s *scanner) run() {
	for s.i < len(s.text) {
		if s.tryBlockFirst {
			if s.block.matchLeft(s.text, s.i) {
				s.math(s.block, SegmentBlock)
				continue
			}
			if s.inline.matchLeft(s.text, s.i) {
				s.math(s.inline, SegmentInline)
				continue
			}
		} else {
			if s.inline.matchLeft(s.text, s.i) {
				s.math(s.inline, SegmentInline)
				continue
			}
			if s.block.matchLeft(s.text, s.i) {
				s.math(s.block, SegmentBlock)
				continue
			}
		}

		switch c := s.text[s.i]; {
		case c == '\\':
			s.escape()
		case (c == '`' || c == '~') && s.atLineStart():
			switch {
			case s.fence():
			case c == '`':
				s.inlineCode()
			default:
				s.lit.WriteByte(c)
				s.i++
			}
		case c == '`':
			s.inlineCode()
		default:
			s.lit.WriteByte(c)
			s.i++
		}
	}
	s.flushText(len(s.text))
}

// atLineStart reports whether the cursor sits at the start of a line.
func (s *scanner) atLineStart() bool {
	return s.i == 0 || s.text[s.i-1] == '\n'
}

// escape handles a backslash in literal text. A backslash before a
// delimiter's first character emits that character unescaped; any other
// backslash pair passes through verbatim.
func (s *scanner) escape() {
	if s.i+1 >= len(s.text) {
		s.lit.WriteByte('\\')
		s.i++
		return
	}
	next := s.text[s.i+1]
	if next == s.block.Left[0] || next == s.inline.Left[0] {
		s.lit.WriteByte(next)
	} else {
		s.lit.WriteByte('\\')
		s.lit.WriteByte(next)
	}
	s.i += 2
}

// runLen counts the repetition of c starting at i.
func (s *scanner) runLen(i int, c byte) int {
	n := 0
	for i+n < len(s.text) && s.text[i+n] == c {
		n++
	}
	return n
}

// fence consumes a fenced code block (3+ backticks or tildes at line
// start) verbatim, through its closing marker line or end of input.
// Returns false if the run is too short to open a fence.
func (s *scanner) fence() bool {
	c := s.text[s.i]
	n := s.runLen(s.i, c)
	if n < 3 {
		return false
	}

	// Skip the rest of the opening line (info string).
	pos := s.i + n
	if nl := strings.IndexByte(s.text[pos:], '\n'); nl >= 0 {
		pos += nl + 1
	} else {
		pos = len(s.text)
	}

	// Find a line starting with a closing run of at least n.
	end := len(s.text)
	for pos < len(s.text) {
		lineEnd := len(s.text)
		if nl := strings.IndexByte(s.text[pos:], '\n'); nl >= 0 {
			lineEnd = pos + nl + 1
		}
		if s.runLen(pos, c) >= n {
			end = lineEnd
			break
		}
		pos = lineEnd
	}

	s.lit.WriteString(s.text[s.i:end])
	s.i = end
	return true
}

// inlineCode consumes a backtick code span verbatim. The closing run must
// have exactly the same length as the opening run; longer runs are
// skipped. An unclosed span consumes the rest of the input as literal
// text.
func (s *scanner) inlineCode() {
	n := s.runLen(s.i, '`')
	start := s.i
	search := start + n
	closer := strings.Repeat("`", n)

	for {
		j := strings.Index(s.text[search:], closer)
		if j < 0 {
			s.lit.WriteString(s.text[start:])
			s.i = len(s.text)
			return
		}
		end := search + j + n
		if end < len(s.text) && s.text[end] == '`' {
			// Run longer than the opener; skip it entirely.
			for end < len(s.text) && s.text[end] == '`' {
				end++
			}
			search = end
			continue
		}
		s.lit.WriteString(s.text[start:end])
		s.i = end
		return
	}
}

// math consumes one math span opened by delim at the cursor. A right
// delimiter preceded by an odd number of backslashes does not close the
// span. An unterminated span is recovered: the tail passes through as
// literal text and a diagnostic is recorded.
func (s *scanner) math(delim Delimiter, kind SegmentKind) {
	open := s.i
	search := open + len(delim.Left)

	for {
		j := strings.Index(s.text[search:], delim.Right)
		if j < 0 {
			s.diags = append(s.diags,
				fmt.Sprintf("unterminated math span opened at byte %d", open))
			s.lit.WriteString(s.text[open:])
			s.i = len(s.text)
			return
		}
		at := search + j
		if escapedAt(s.text, at) {
			search = at + len(delim.Right)
			continue
		}

		s.flushText(open)
		end := at + len(delim.Right)
		s.segs = append(s.segs, Segment{
			Kind:   kind,
			Start:  open,
			End:    end,
			Source: s.text[open+len(delim.Left) : at],
		})
		s.litStart = end
		s.i = end
		return
	}
}

// flushText emits the pending literal run ending at the given offset.
func (s *scanner) flushText(end int) {
	if end > s.litStart {
		s.segs = append(s.segs, Segment{
			Kind:  SegmentText,
			Start: s.litStart,
			End:   end,
			Text:  s.lit.String(),
		})
	}
	s.lit.Reset()
}

// escapedAt reports whether the byte at i is escaped, i.e. preceded by an
// odd number of consecutive backslashes.
func escapedAt(text string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && text[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}
