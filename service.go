package mdkatex

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// KatexHeader points at the CDN stylesheet matching the pinned runtime.
const KatexHeader = "<link rel=\"stylesheet\" href=\"https://cdn.jsdelivr.net/npm/katex@0.16.4/dist/katex.min.css\">\n\n"

// diagFunc receives recoverable diagnostics (scan problems, lenient
// render failures). Diagnostics never change the run's success status.
type diagFunc func(format string, args ...any)

// Service runs the scan → render → reassemble pipeline over a book.
// One Service holds one immutable RenderOptions snapshot; engine
// instances live only for the duration of a Process call, one per
// worker.
type Service struct {
	opts    *RenderOptions
	factory EngineFactory
	diagW   io.Writer
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithEngineFactory replaces the production Chrome engine, e.g. by tests.
func WithEngineFactory(f EngineFactory) ServiceOption {
	return func(s *Service) { s.factory = f }
}

// WithDiagnostics redirects diagnostic output (default os.Stderr).
func WithDiagnostics(w io.Writer) ServiceOption {
	return func(s *Service) { s.diagW = w }
}

// NewService resolves cfg into a Service. Configuration errors (bad macro
// file, out-of-domain option) surface here, before any rendering begins.
func NewService(cfg KatexConfig, options ...ServiceOption) (*Service, error) {
	opts, err := ResolveOptions(cfg)
	if err != nil {
		return nil, err
	}
	s := &Service{
		opts:    opts,
		factory: NewChromeEngine,
		diagW:   os.Stderr,
	}
	for _, o := range options {
		o(s)
	}
	return s, nil
}

// Options returns the run's resolved configuration snapshot.
func (s *Service) Options() *RenderOptions { return s.opts }

// Process transforms every chapter of book in place. All chapters are
// scanned first, the resulting spans pooled into one workload, rendered
// under the worker-affinity policy, then reassembled chapter by chapter.
// A fatal error (strict-mode render failure, engine startup failure,
// internal inconsistency) leaves the book partially untransformed and
// must fail the whole run.
func (s *Service) Process(ctx context.Context, book *Book) error {
	header := ""
	if !s.opts.NoCSS {
		header = KatexHeader
	}

	// Scan phase: every chapter, before any rendering.
	results := make([]ScanResult, len(book.Chapters))
	var tasks []renderTask
	for i, ch := range book.Chapters {
		results[i] = Scan(ch.Content, s.opts.Block, s.opts.Inline)
		for _, d := range results[i].Diagnostics {
			s.diag("katex: %s: %s", ch.Name, d)
		}
		if s.opts.PreRender {
			for _, seg := range results[i].Segments {
				if seg.IsMath() {
					tasks = append(tasks, renderTask{
						Source:  seg.Source,
						Display: seg.Kind == SegmentBlock,
					})
				}
			}
		}
	}

	if !s.opts.PreRender {
		for i, ch := range book.Chapters {
			ch.Content = header + escapeChapter(results[i].Segments, s.opts)
		}
		return nil
	}

	// Render phase: one pooled workload across all chapters.
	outcomes, err := renderAll(ctx, tasks, s.opts, s.factory, s.diag)
	if err != nil {
		return err
	}

	// Reassembly phase: per chapter, strictly index-ordered.
	next := 0
	for i, ch := range book.Chapters {
		n := results[i].MathCount()
		if next+n > len(outcomes) {
			return fmt.Errorf("%w: outcome pool exhausted at chapter %q", ErrInternal, ch.Name)
		}
		content, err := reassemble(ch.Content, results[i].Segments, outcomes[next:next+n], s.opts)
		if err != nil {
			return fmt.Errorf("chapter %q: %w", ch.Name, err)
		}
		next += n
		ch.Content = header + content
	}
	return nil
}

// ProcessChapter transforms a single chapter's text. Convenience wrapper
// used by the preview command.
func (s *Service) ProcessChapter(ctx context.Context, name, content string) (string, error) {
	book := &Book{Chapters: []*Chapter{{Name: name, Content: content}}}
	if err := s.Process(ctx, book); err != nil {
		return "", err
	}
	return book.Chapters[0].Content, nil
}

// escapeChapter emits the escape-only transformation: literal runs as
// scanned, math spans escaped for client-side katex.js.
func escapeChapter(segments []Segment, opts *RenderOptions) string {
	var out strings.Builder
	for _, seg := range segments {
		switch seg.Kind {
		case SegmentText:
			out.WriteString(seg.Text)
		case SegmentBlock:
			out.WriteString(escapeMathSpan(seg.Source, opts.Block))
		case SegmentInline:
			out.WriteString(escapeMathSpan(seg.Source, opts.Inline))
		}
	}
	return out.String()
}

func (s *Service) diag(format string, args ...any) {
	fmt.Fprintf(s.diagW, format+"\n", args...)
}
