// Package mdkatex pre-renders KaTeX math in Markdown books.
//
// The library scans each chapter for delimited math spans (default $ and
// $$), renders every span to HTML through a pool of worker-owned KaTeX
// engine instances, and splices the rendered fragments back into the
// chapter text without touching anything outside the spans.
//
// Basic usage:
//
//	svc, err := mdkatex.NewService(mdkatex.DefaultConfig())
//	if err != nil { ... }
//	err = svc.Process(ctx, book)
//
// The cmd/mdkatex binary wraps the library as an mdBook preprocessor,
// speaking the [context, book] JSON protocol on stdin/stdout.
package mdkatex
