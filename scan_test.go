package mdkatex

import (
	"strings"
	"testing"
)

var (
	defaultBlock  = SameDelimiter("$$")
	defaultInline = SameDelimiter("$")
)

// checkCoverage verifies the scanner invariant: segments cover every byte
// of the input exactly once, in order, with no gaps or overlaps.
func checkCoverage(t *testing.T, text string, res ScanResult) {
	t.Helper()
	pos := 0
	for i, seg := range res.Segments {
		if seg.Start != pos {
			t.Fatalf("segment %d starts at %d, want %d", i, seg.Start, pos)
		}
		if seg.End < seg.Start || seg.End > len(text) {
			t.Fatalf("segment %d has range [%d,%d) in text of %d bytes", i, seg.Start, seg.End, len(text))
		}
		pos = seg.End
	}
	if pos != len(text) {
		t.Fatalf("segments cover %d of %d bytes", pos, len(text))
	}
}

func TestScanSegmentationCoverage(t *testing.T) {
	inputs := []string{
		"",
		"plain text only",
		"inline $x$ math",
		"$$block$$",
		"$a$ then $$b$$ then $c$",
		"escaped \\$ dollar",
		"code `$x$` span",
		"```\n$x$\n```\ntail",
		"unterminated $x",
		"mixed `code` and $math$ and \\$escapes\n\n$$\\sum_i i$$\n",
	}
	for _, input := range inputs {
		res := Scan(input, defaultBlock, defaultInline)
		checkCoverage(t, input, res)
	}
}

func TestScanInlineMath(t *testing.T) {
	res := Scan("a $x+y$ b", defaultBlock, defaultInline)
	checkCoverage(t, "a $x+y$ b", res)

	if got := res.MathCount(); got != 1 {
		t.Fatalf("MathCount() = %d, want 1", got)
	}
	seg := res.Segments[1]
	if seg.Kind != SegmentInline {
		t.Errorf("Kind = %v, want SegmentInline", seg.Kind)
	}
	if seg.Source != "x+y" {
		t.Errorf("Source = %q, want %q", seg.Source, "x+y")
	}
	if seg.Start != 2 || seg.End != 7 {
		t.Errorf("range = [%d,%d), want [2,7)", seg.Start, seg.End)
	}
}

func TestScanDelimiterPrecedence(t *testing.T) {
	// $$x$$ must parse as one block span, not two inline spans.
	res := Scan("$$x$$", defaultBlock, defaultInline)
	checkCoverage(t, "$$x$$", res)

	if len(res.Segments) != 1 {
		t.Fatalf("got %d segments, want 1: %+v", len(res.Segments), res.Segments)
	}
	seg := res.Segments[0]
	if seg.Kind != SegmentBlock {
		t.Errorf("Kind = %v, want SegmentBlock", seg.Kind)
	}
	if seg.Source != "x" {
		t.Errorf("Source = %q, want %q", seg.Source, "x")
	}
}

func TestScanCustomDelimiterTieBreak(t *testing.T) {
	// The delimiter with the longer left marker wins regardless of which
	// role it plays; with block configured shorter than inline, $$x$$ is
	// an inline span.
	block := SameDelimiter("$")
	inline := SameDelimiter("$$")

	res := Scan("$$x$$", block, inline)
	checkCoverage(t, "$$x$$", res)

	if len(res.Segments) != 1 {
		t.Fatalf("got %d segments, want 1: %+v", len(res.Segments), res.Segments)
	}
	if res.Segments[0].Kind != SegmentInline {
		t.Errorf("Kind = %v, want SegmentInline", res.Segments[0].Kind)
	}
	if res.Segments[0].Source != "x" {
		t.Errorf("Source = %q, want %q", res.Segments[0].Source, "x")
	}
}

func TestScanBracketDelimiters(t *testing.T) {
	block := Delimiter{Left: `\[`, Right: `\]`}
	inline := Delimiter{Left: `\(`, Right: `\)`}
	input := `see \(a\) and \[b\] here`

	res := Scan(input, block, inline)
	checkCoverage(t, input, res)

	if got := res.MathCount(); got != 2 {
		t.Fatalf("MathCount() = %d, want 2", got)
	}
	var spans []Segment
	for _, seg := range res.Segments {
		if seg.IsMath() {
			spans = append(spans, seg)
		}
	}
	if spans[0].Kind != SegmentInline || spans[0].Source != "a" {
		t.Errorf("first span = %+v, want inline %q", spans[0], "a")
	}
	if spans[1].Kind != SegmentBlock || spans[1].Source != "b" {
		t.Errorf("second span = %+v, want block %q", spans[1], "b")
	}
}

func TestScanEscapedDelimiter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantText string
	}{
		{
			name:     "escaped dollar unescapes",
			input:    `a \$ b`,
			wantText: "a $ b",
		},
		{
			name:     "escaped dollar before digits",
			input:    `price \$5 or \$10`,
			wantText: "price $5 or $10",
		},
		{
			name:     "other escapes pass through",
			input:    `a \* b \_ c`,
			wantText: `a \* b \_ c`,
		},
		{
			name:     "trailing backslash",
			input:    `tail\`,
			wantText: `tail\`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Scan(tt.input, defaultBlock, defaultInline)
			checkCoverage(t, tt.input, res)
			if got := res.MathCount(); got != 0 {
				t.Fatalf("MathCount() = %d, want 0", got)
			}
			var text strings.Builder
			for _, seg := range res.Segments {
				text.WriteString(seg.Text)
			}
			if text.String() != tt.wantText {
				t.Errorf("literal text = %q, want %q", text.String(), tt.wantText)
			}
		})
	}
}

func TestScanEscapedBackslashBeforeMath(t *testing.T) {
	// \\ is an escaped backslash; the following $ still opens math.
	input := `a \\$x$`
	res := Scan(input, defaultBlock, defaultInline)
	checkCoverage(t, input, res)

	if got := res.MathCount(); got != 1 {
		t.Fatalf("MathCount() = %d, want 1", got)
	}
	if res.Segments[0].Text != `a \\` {
		t.Errorf("literal = %q, want %q", res.Segments[0].Text, `a \\`)
	}
}

func TestScanEscapedRightDelimiterInsideMath(t *testing.T) {
	input := `$a \$ b$`
	res := Scan(input, defaultBlock, defaultInline)
	checkCoverage(t, input, res)

	if len(res.Segments) != 1 {
		t.Fatalf("got %d segments, want 1: %+v", len(res.Segments), res.Segments)
	}
	if got := res.Segments[0].Source; got != `a \$ b` {
		t.Errorf("Source = %q, want %q", got, `a \$ b`)
	}
}

func TestScanCodeSuppression(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"inline code", "before `$x$` after"},
		{"double backtick code", "a ``$x$ and ` tick`` b"},
		{"fenced backticks", "```\n$x$\n```\n"},
		{"fenced with info string", "```latex\n$x$\n```\n"},
		{"fenced tildes", "~~~\n$x$\n~~~\n"},
		{"longer closing fence", "````\n$x$\n`````\n"},
		{"unclosed fence", "```\n$x$\nno closing"},
		{"unclosed inline code", "a `$x$ no closing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Scan(tt.input, defaultBlock, defaultInline)
			checkCoverage(t, tt.input, res)
			if got := res.MathCount(); got != 0 {
				t.Fatalf("MathCount() = %d, want 0 (math inside code must be untouched)", got)
			}
			var text strings.Builder
			for _, seg := range res.Segments {
				text.WriteString(seg.Text)
			}
			if text.String() != tt.input {
				t.Errorf("code content altered:\ngot  %q\nwant %q", text.String(), tt.input)
			}
		})
	}
}

func TestScanMathAfterCode(t *testing.T) {
	input := "`code` then $x$"
	res := Scan(input, defaultBlock, defaultInline)
	checkCoverage(t, input, res)

	if got := res.MathCount(); got != 1 {
		t.Fatalf("MathCount() = %d, want 1", got)
	}
}

func TestScanTildesInProse(t *testing.T) {
	// A short tilde run at line start is not a fence.
	input := "~~strike~~ and $x$"
	res := Scan(input, defaultBlock, defaultInline)
	checkCoverage(t, input, res)

	if got := res.MathCount(); got != 1 {
		t.Fatalf("MathCount() = %d, want 1", got)
	}
}

func TestScanUnterminatedMath(t *testing.T) {
	input := "before $x never closes"
	res := Scan(input, defaultBlock, defaultInline)
	checkCoverage(t, input, res)

	if got := res.MathCount(); got != 0 {
		t.Fatalf("MathCount() = %d, want 0", got)
	}
	if len(res.Diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(res.Diagnostics), res.Diagnostics)
	}
	if !strings.Contains(res.Diagnostics[0], "unterminated") {
		t.Errorf("diagnostic = %q, want mention of unterminated span", res.Diagnostics[0])
	}
	// The tail passes through unchanged.
	var text strings.Builder
	for _, seg := range res.Segments {
		text.WriteString(seg.Text)
	}
	if text.String() != input {
		t.Errorf("literal text = %q, want %q", text.String(), input)
	}
}

func TestScanUnterminatedAfterValidSpan(t *testing.T) {
	input := "$a$ then $b"
	res := Scan(input, defaultBlock, defaultInline)
	checkCoverage(t, input, res)

	if got := res.MathCount(); got != 1 {
		t.Fatalf("MathCount() = %d, want 1", got)
	}
	if len(res.Diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(res.Diagnostics))
	}
}

func TestScanMultipleSpans(t *testing.T) {
	input := "a $x$ b $$y$$ c $z$ d"
	res := Scan(input, defaultBlock, defaultInline)
	checkCoverage(t, input, res)

	var kinds []SegmentKind
	var sources []string
	for _, seg := range res.Segments {
		if seg.IsMath() {
			kinds = append(kinds, seg.Kind)
			sources = append(sources, seg.Source)
		}
	}
	wantKinds := []SegmentKind{SegmentInline, SegmentBlock, SegmentInline}
	wantSources := []string{"x", "y", "z"}
	for i := range wantKinds {
		if kinds[i] != wantKinds[i] || sources[i] != wantSources[i] {
			t.Errorf("span %d = (%v, %q), want (%v, %q)", i, kinds[i], sources[i], wantKinds[i], wantSources[i])
		}
	}
}

func TestScanBlockSpanWithNewlines(t *testing.T) {
	input := "$$\n\\sum_{i=1}^n i\n$$"
	res := Scan(input, defaultBlock, defaultInline)
	checkCoverage(t, input, res)

	if len(res.Segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(res.Segments))
	}
	if got := res.Segments[0].Source; got != "\n\\sum_{i=1}^n i\n" {
		t.Errorf("Source = %q", got)
	}
}

func TestScanNoMathRoundTrip(t *testing.T) {
	input := "# Title\n\nJust prose, *emphasis*, [a link](https://example.com).\n"
	res := Scan(input, defaultBlock, defaultInline)
	checkCoverage(t, input, res)

	if len(res.Segments) != 1 || res.Segments[0].Kind != SegmentText {
		t.Fatalf("got %+v, want one text segment", res.Segments)
	}
	if res.Segments[0].Text != input {
		t.Errorf("text altered:\ngot  %q\nwant %q", res.Segments[0].Text, input)
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %v", res.Diagnostics)
	}
}
