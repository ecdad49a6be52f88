package mdkatex

import (
	"fmt"
	"html"
	"strings"
)

// reassemble splices rendered outcomes back into one chapter. Literal
// runs are emitted as scanned; each math span is replaced by its
// outcome's markup or, on failure, by a visible error marker with the
// original delimiters restored. The output is built by streaming into a
// fresh buffer; the original text is only ever read.
//
// Any segment outside the chapter's byte range or an outcome/span count
// mismatch is an internal-consistency defect and fails the run.
func reassemble(text string, segments []Segment, outcomes []RenderOutcome, opts *RenderOptions) (string, error) {
	mathCount := 0
	prevEnd := 0
	for _, seg := range segments {
		if seg.Start != prevEnd || seg.End < seg.Start || seg.End > len(text) {
			return "", fmt.Errorf("%w: segment [%d,%d) out of place in chapter of %d bytes",
				ErrInternal, seg.Start, seg.End, len(text))
		}
		prevEnd = seg.End
		if seg.IsMath() {
			mathCount++
		}
	}
	if prevEnd != len(text) {
		return "", fmt.Errorf("%w: segments cover %d of %d bytes", ErrInternal, prevEnd, len(text))
	}
	if mathCount != len(outcomes) {
		return "", fmt.Errorf("%w: %d math spans but %d outcomes", ErrInternal, mathCount, len(outcomes))
	}

	var out strings.Builder
	out.Grow(len(text))
	next := 0
	for _, seg := range segments {
		if !seg.IsMath() {
			out.WriteString(seg.Text)
			continue
		}
		outcome := outcomes[next]
		next++
		if outcome.OK() {
			writeMarkup(&out, seg, outcome.Markup, opts)
		} else {
			writeErrorMarker(&out, seg, outcome.Err, opts)
		}
	}
	return out.String(), nil
}

// writeMarkup emits rendered markup, optionally wrapped in a
// source-preserving <data> container.
func writeMarkup(out *strings.Builder, seg Segment, markup string, opts *RenderOptions) {
	// Newlines inside rendered markup would re-trigger Markdown parsing.
	markup = strings.ReplaceAll(markup, "\n", " ")
	if !opts.IncludeSrc {
		out.WriteString(markup)
		return
	}
	out.WriteString(`<data class="katex-src" value="`)
	out.WriteString(escapeSrcAttr(seg.Source))
	out.WriteString(`">`)
	out.WriteString(markup)
	out.WriteString(`</data>`)
}

// escapeSrcAttr entity-escapes quotes and newlines so the source
// survives inside the double-quoted value attribute.
func escapeSrcAttr(src string) string {
	src = strings.ReplaceAll(src, `"`, "&quot;")
	return strings.ReplaceAll(src, "\n", "&#10;")
}

// writeErrorMarker emits a failed span as marker text: the original
// source with its delimiters restored, colorized so the fault is
// discoverable by a reader of the published document.
func writeErrorMarker(out *strings.Builder, seg Segment, re *RenderError, opts *RenderOptions) {
	delim := opts.Inline
	if seg.Kind == SegmentBlock {
		delim = opts.Block
	}
	out.WriteString(`<span class="katex-error"`)
	if opts.ErrorColor != "" {
		fmt.Fprintf(out, ` style="color:%s"`, opts.ErrorColor)
	}
	fmt.Fprintf(out, ` title="%s">`, html.EscapeString(re.Message))
	out.WriteString(html.EscapeString(delim.Left + seg.Source + delim.Right))
	out.WriteString(`</span>`)
}
