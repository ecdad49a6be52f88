package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

var errUsage = errors.New("usage: mdkatex [supports <renderer> | preview <chapter.md>]")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	workers int
	quiet   bool
	verbose bool
}

// previewFlags holds flags for the preview command.
type previewFlags struct {
	common commonFlags
	output string
}

// addCommonFlags adds shared flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "katex config file (YAML), overrides book options")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel render workers (0 = auto)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "suppress diagnostics")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show progress details")
}

// parsePreprocessFlags parses the default (preprocessor) invocation.
func parsePreprocessFlags(args []string) (*commonFlags, []string, error) {
	fs := flag.NewFlagSet("mdkatex", flag.ContinueOnError)
	f := &commonFlags{}
	addCommonFlags(fs, f)
	fs.Usage = func() { printUsage(fs.Output()) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parsePreviewFlags parses preview command flags and returns positional
// args.
func parsePreviewFlags(args []string) (*previewFlags, []string, error) {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	f := &previewFlags{}
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.output, "output", "o", "", "output HTML file (default stdout)")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `mdkatex - mdBook preprocessor that pre-renders KaTeX math

Usage:
  mdkatex [flags]                  read [context, book] JSON on stdin (mdBook protocol)
  mdkatex supports <renderer>      report renderer support (always supported)
  mdkatex preview [flags] <ch.md>  render one chapter to standalone HTML

Flags:
  -c, --config string   katex config file (YAML), overrides book options
  -w, --workers int     parallel render workers (0 = auto)
  -q, --quiet           suppress diagnostics
  -v, --verbose         show progress details
  -o, --output string   (preview) output HTML file, default stdout`)
}
