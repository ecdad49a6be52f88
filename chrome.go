package mdkatex

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/mdkatex/mdkatex/internal/fileutil"
)

// chromeBootstrapHTML is the page each engine instance evaluates KaTeX
// in. The runtime comes from the CDN; pin the version to keep output
// stable across runs.
const chromeBootstrapHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<script defer src="https://cdn.jsdelivr.net/npm/katex@0.16.4/dist/katex.min.js"></script>
</head>
<body></body>
</html>`

// chromeRenderJS renders one source string. KaTeX always throws here so
// failures come back as typed messages; the strict/lenient policy is
// enforced by the orchestrator, not the engine.
const chromeRenderJS = `(source, opts) => {
	try {
		return { html: katex.renderToString(source, opts) };
	} catch (err) {
		return { error: String(err.message || err) };
	}
}`

// defaultEngineTimeout bounds engine startup and page load.
const defaultEngineTimeout = 30 * time.Second

// ChromeEngine renders KaTeX in a headless Chromium page via go-rod.
// Startup is expensive (browser launch plus runtime load) and a live
// instance must only be used from one goroutine, so the orchestrator
// gives each worker its own. Rod downloads Chromium on first run if no
// browser is found.
type ChromeEngine struct {
	opts    *RenderOptions
	timeout time.Duration
	browser *rod.Browser
	page    *rod.Page
}

// Compile-time interface checks.
var (
	_ Engine        = (*ChromeEngine)(nil)
	_ EngineFactory = NewChromeEngine
)

// NewChromeEngine creates a ChromeEngine. The browser launches lazily on
// the first Render call.
func NewChromeEngine(opts *RenderOptions) (Engine, error) {
	return &ChromeEngine{opts: opts, timeout: defaultEngineTimeout}, nil
}

// ensurePage lazily launches the browser and loads the KaTeX runtime.
func (e *ChromeEngine) ensurePage() error {
	if e.page != nil {
		return nil
	}

	l := launcher.New()

	// Use a pre-installed browser if specified (Docker/containerized
	// environments).
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments.
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEngineConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("%w: %v", ErrEngineConnect, err)
	}
	e.browser = browser

	tmpPath, cleanup, err := fileutil.WriteTempFile(chromeBootstrapHTML, "html")
	if err != nil {
		_ = e.browser.Close()
		e.browser = nil
		return err
	}
	defer cleanup()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + tmpPath})
	if err != nil {
		_ = e.browser.Close()
		e.browser = nil
		return fmt.Errorf("%w: %v", ErrEngineLoad, err)
	}
	if err := page.Timeout(e.timeout).WaitLoad(); err != nil {
		_ = e.browser.Close()
		e.browser = nil
		return fmt.Errorf("%w: %v", ErrEngineLoad, err)
	}

	// The script tag is deferred; confirm the runtime actually arrived.
	res, err := page.Timeout(e.timeout).Eval(`() => typeof katex !== "undefined"`)
	if err != nil || !res.Value.Bool() {
		_ = e.browser.Close()
		e.browser = nil
		return fmt.Errorf("%w: katex global missing after page load", ErrEngineLoad)
	}

	e.page = page
	return nil
}

// Render renders source to markup in the engine's page.
func (e *ChromeEngine) Render(ctx context.Context, source string, displayMode bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := e.ensurePage(); err != nil {
		return "", err
	}

	res, err := e.page.Context(ctx).Eval(chromeRenderJS, source, e.engineOpts(displayMode))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEngineLoad, err)
	}
	if msg := res.Value.Get("error").Str(); msg != "" {
		return "", &RenderError{Source: source, Message: msg}
	}
	return res.Value.Get("html").Str(), nil
}

// engineOpts builds the KaTeX option object for one call.
func (e *ChromeEngine) engineOpts(displayMode bool) map[string]any {
	opts := map[string]any{
		"displayMode":  displayMode,
		"output":       e.opts.Output,
		"leqno":        e.opts.Leqno,
		"fleqn":        e.opts.Fleqn,
		"throwOnError": true,
		"errorColor":   e.opts.ErrorColor,
		"maxExpand":    e.opts.MaxExpand,
		"trust":        e.opts.Trust,
		"macros":       e.opts.Macros,
	}
	if e.opts.MinRuleThickness >= 0 {
		opts["minRuleThickness"] = e.opts.MinRuleThickness
	}
	if e.opts.MaxSize > 0 {
		opts["maxSize"] = e.opts.MaxSize
	}
	return opts
}

// Close releases browser resources.
func (e *ChromeEngine) Close() error {
	e.page = nil
	if e.browser != nil {
		err := e.browser.Close()
		e.browser = nil
		return err
	}
	return nil
}
