package main

import (
	"fmt"
	"os"
	"path/filepath"

	mdkatex "github.com/mdkatex/mdkatex"
	"github.com/mdkatex/mdkatex/internal/yamlutil"
)

// applyConfigFile overlays a standalone YAML config file on top of cfg.
// Keys absent from the file keep their current (book-level or default)
// values; unknown keys are rejected.
func applyConfigFile(cfg *mdkatex.KatexConfig, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return fmt.Errorf("%w: %s: %v", mdkatex.ErrInvalidOption, path, err)
	}
	return nil
}

// resolveMacroPath anchors a relative macros path at the book root, the
// way mdBook resolves preprocessor paths.
func resolveMacroPath(cfg *mdkatex.KatexConfig, root string) {
	if cfg.Macros == "" || root == "" || filepath.IsAbs(cfg.Macros) {
		return
	}
	cfg.Macros = filepath.Join(root, cfg.Macros)
}
