package main

import (
	"bytes"
	"context"
	"fmt"
	stdhtml "html"
	"os"
	"path/filepath"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	mdkatex "github.com/mdkatex/mdkatex"
)

// previewTemplate wraps Goldmark's fragment output in a complete HTML5
// document. The KaTeX stylesheet header is already part of the
// transformed chapter unless no-css is set.
const previewTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s
</body>
</html>`

// runPreview pre-renders one chapter file and converts the result to a
// standalone HTML page for local inspection.
func runPreview(args []string) error {
	flags, rest, err := parsePreviewFlags(args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("%w: preview takes exactly one chapter file", errUsage)
	}
	inputPath := rest[0]

	content, err := os.ReadFile(inputPath) // #nosec G304 -- chapter path is user-provided
	if err != nil {
		return fmt.Errorf("reading chapter: %w", err)
	}

	cfg := mdkatex.DefaultConfig()
	if flags.common.config != "" {
		if err := applyConfigFile(&cfg, flags.common.config); err != nil {
			return err
		}
	}
	if flags.common.workers > 0 {
		cfg.Workers = flags.common.workers
	}
	resolveMacroPath(&cfg, filepath.Dir(inputPath))

	svc, err := newService(cfg, &flags.common)
	if err != nil {
		return err
	}

	name := filepath.Base(inputPath)
	transformed, err := svc.ProcessChapter(context.Background(), name, string(content))
	if err != nil {
		return err
	}

	page, err := chapterToHTML(name, transformed)
	if err != nil {
		return err
	}

	if flags.output == "" {
		_, err = os.Stdout.WriteString(page)
		return err
	}
	return os.WriteFile(flags.output, []byte(page), 0o600)
}

// chapterToHTML converts transformed Markdown to a standalone HTML page
// using goldmark with GFM extensions and syntax highlighting.
func chapterToHTML(title, content string) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(false), // inline styles, page must stand alone
				),
			),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			// Pre-rendered KaTeX markup must pass through as-is.
			html.WithUnsafe(),
		),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("converting to HTML: %w", err)
	}
	return fmt.Sprintf(previewTemplate, stdhtml.EscapeString(title), buf.String()), nil
}
