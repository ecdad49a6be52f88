package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	mdkatex "github.com/mdkatex/mdkatex"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is
	// invalid, in which case Go runtime defaults apply and the program
	// continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "supports":
			// Pre-rendered math is plain HTML; every renderer is
			// supported.
			os.Exit(ExitSuccess)
		case "preview":
			exit(runPreview(os.Args[2:]))
		case "version", "--version":
			fmt.Println("mdkatex", Version)
			os.Exit(ExitSuccess)
		case "help", "--help", "-h":
			printUsage(os.Stdout)
			os.Exit(ExitSuccess)
		}
	}

	flags, _, err := parsePreprocessFlags(os.Args[1:])
	if err != nil {
		exit(err)
	}
	exit(runPreprocess(os.Stdin, os.Stdout, flags))
}

func exit(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCodeFor(err))
}

// runPreprocess speaks the mdBook protocol: [context, book] JSON in,
// transformed book JSON out.
func runPreprocess(r io.Reader, w io.Writer, flags *commonFlags) error {
	in, err := decodeInput(r)
	if err != nil {
		return err
	}

	cfg, err := in.katexConfig()
	if err != nil {
		return err
	}
	if flags.config != "" {
		if err := applyConfigFile(&cfg, flags.config); err != nil {
			return err
		}
	}
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}
	resolveMacroPath(&cfg, in.root())

	svc, err := newService(cfg, flags)
	if err != nil {
		return err
	}

	refs := in.collectChapters()
	book := &mdkatex.Book{}
	for _, ref := range refs {
		book.Chapters = append(book.Chapters, ref.chapter)
	}

	if flags.verbose {
		fmt.Fprintf(os.Stderr, "mdkatex: processing %d chapters with %d workers\n",
			len(book.Chapters), mdkatex.ResolveWorkers(cfg.Workers))
	}

	if err := svc.Process(context.Background(), book); err != nil {
		return err
	}

	writeBack(refs)
	return in.encodeBook(w)
}

// newService builds the Service with diagnostics wired per flags.
func newService(cfg mdkatex.KatexConfig, flags *commonFlags) (*mdkatex.Service, error) {
	var opts []mdkatex.ServiceOption
	if flags.quiet {
		opts = append(opts, mdkatex.WithDiagnostics(io.Discard))
	}
	return mdkatex.NewService(cfg, opts...)
}
