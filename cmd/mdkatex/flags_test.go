package main

import "testing"

func TestParsePreprocessFlags(t *testing.T) {
	flags, rest, err := parsePreprocessFlags([]string{"-w", "4", "--quiet", "-c", "katex.yml"})
	if err != nil {
		t.Fatalf("parsePreprocessFlags() error: %v", err)
	}
	if flags.workers != 4 || !flags.quiet || flags.config != "katex.yml" {
		t.Errorf("flags = %+v", flags)
	}
	if len(rest) != 0 {
		t.Errorf("rest = %v, want none", rest)
	}
}

func TestParsePreprocessFlagsUnknown(t *testing.T) {
	if _, _, err := parsePreprocessFlags([]string{"--no-such-flag"}); err == nil {
		t.Error("parsePreprocessFlags() succeeded, want unknown-flag error")
	}
}

func TestParsePreviewFlags(t *testing.T) {
	flags, rest, err := parsePreviewFlags([]string{"-o", "out.html", "--workers", "2", "chapter.md"})
	if err != nil {
		t.Fatalf("parsePreviewFlags() error: %v", err)
	}
	if flags.output != "out.html" || flags.common.workers != 2 {
		t.Errorf("flags = %+v", flags)
	}
	if len(rest) != 1 || rest[0] != "chapter.md" {
		t.Errorf("rest = %v, want [chapter.md]", rest)
	}
}
