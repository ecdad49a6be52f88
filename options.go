package mdkatex

import "fmt"

// Output mode constants, matching KaTeX's `output` option.
const (
	OutputHTML          = "html"
	OutputMathML        = "mathml"
	OutputHTMLAndMathML = "htmlAndMathml"
)

// KatexConfig holds the book-level configuration keys. Decode YAML or
// JSON configuration into DefaultConfig() so absent keys keep their
// defaults.
type KatexConfig struct {
	// Engine options.
	Output           string  `yaml:"output" json:"output"`
	Leqno            bool    `yaml:"leqno" json:"leqno"`
	Fleqn            bool    `yaml:"fleqn" json:"fleqn"`
	ThrowOnError     bool    `yaml:"throw-on-error" json:"throw-on-error"`
	ErrorColor       string  `yaml:"error-color" json:"error-color"`
	MinRuleThickness float64 `yaml:"min-rule-thickness" json:"min-rule-thickness"`
	MaxSize          float64 `yaml:"max-size" json:"max-size"`
	MaxExpand        int     `yaml:"max-expand" json:"max-expand"`
	Trust            bool    `yaml:"trust" json:"trust"`

	// Preprocessor options.
	NoCSS           bool      `yaml:"no-css" json:"no-css"`
	IncludeSrc      bool      `yaml:"include-src" json:"include-src"`
	Macros          string    `yaml:"macros" json:"macros"`
	BlockDelimiter  Delimiter `yaml:"block-delimiter" json:"block-delimiter"`
	InlineDelimiter Delimiter `yaml:"inline-delimiter" json:"inline-delimiter"`
	PreRender       bool      `yaml:"pre-render" json:"pre-render"`
	Workers         int       `yaml:"workers" json:"workers"`
}

// DefaultConfig returns the documented defaults. MaxSize 0 means
// unlimited; MinRuleThickness -1 means the engine default.
func DefaultConfig() KatexConfig {
	return KatexConfig{
		Output:           OutputHTML,
		Leqno:            false,
		Fleqn:            false,
		ThrowOnError:     false,
		ErrorColor:       "#cc0000",
		MinRuleThickness: -1,
		MaxSize:          0,
		MaxExpand:        1000,
		Trust:            false,
		NoCSS:            false,
		IncludeSrc:       false,
		Macros:           "",
		BlockDelimiter:   SameDelimiter("$$"),
		InlineDelimiter:  SameDelimiter("$"),
		PreRender:        true,
		Workers:          0,
	}
}

// Validate checks that numeric options are in their documented domain.
// Out-of-domain values are reported, never clamped.
func (c KatexConfig) Validate() error {
	switch c.Output {
	case OutputHTML, OutputMathML, OutputHTMLAndMathML:
	default:
		return fmt.Errorf("%w: output %q (must be %s, %s, or %s)",
			ErrInvalidOption, c.Output, OutputHTML, OutputMathML, OutputHTMLAndMathML)
	}
	if c.MaxExpand < 0 {
		return fmt.Errorf("%w: max-expand %d (must be >= 0)", ErrInvalidOption, c.MaxExpand)
	}
	if c.MaxSize < 0 {
		return fmt.Errorf("%w: max-size %g (must be >= 0, 0 = unlimited)", ErrInvalidOption, c.MaxSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d (must be >= 0, 0 = auto)", ErrInvalidOption, c.Workers)
	}
	if err := c.BlockDelimiter.Validate(); err != nil {
		return fmt.Errorf("%w: block-delimiter", err)
	}
	if err := c.InlineDelimiter.Validate(); err != nil {
		return fmt.Errorf("%w: inline-delimiter", err)
	}
	return nil
}

// RenderOptions is the immutable per-run configuration snapshot shared by
// every concurrent render call. Built once by ResolveOptions, read-only
// afterwards.
type RenderOptions struct {
	Output           string
	Leqno            bool
	Fleqn            bool
	ThrowOnError     bool
	ErrorColor       string
	MinRuleThickness float64
	MaxSize          float64
	MaxExpand        int
	Trust            bool

	NoCSS      bool
	IncludeSrc bool
	PreRender  bool
	Block      Delimiter
	Inline     Delimiter
	Macros     MacroTable
	Workers    int
}

// ResolveOptions validates cfg, loads the macro table, and produces the
// run's RenderOptions. Precedence: built-in defaults < book configuration
// (applied when cfg was decoded over DefaultConfig) < macro table, which
// is always additive.
func ResolveOptions(cfg KatexConfig) (*RenderOptions, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	macros, err := LoadMacros(cfg.Macros)
	if err != nil {
		return nil, err
	}
	return &RenderOptions{
		Output:           cfg.Output,
		Leqno:            cfg.Leqno,
		Fleqn:            cfg.Fleqn,
		ThrowOnError:     cfg.ThrowOnError,
		ErrorColor:       cfg.ErrorColor,
		MinRuleThickness: cfg.MinRuleThickness,
		MaxSize:          cfg.MaxSize,
		MaxExpand:        cfg.MaxExpand,
		Trust:            cfg.Trust,
		NoCSS:            cfg.NoCSS,
		IncludeSrc:       cfg.IncludeSrc,
		PreRender:        cfg.PreRender,
		Block:            cfg.BlockDelimiter,
		Inline:           cfg.InlineDelimiter,
		Macros:           macros,
		Workers:          cfg.Workers,
	}, nil
}
