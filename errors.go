package mdkatex

import "errors"

// Sentinel errors for library operations.
var (
	// Configuration errors: fatal before any rendering begins.
	ErrMacroFile      = errors.New("failed to read macro file")
	ErrMacroParse     = errors.New("failed to parse macro file")
	ErrInvalidOption  = errors.New("invalid option value")
	ErrEmptyDelimiter = errors.New("delimiter cannot be empty")

	// Render errors: fatal only under the strict policy.
	ErrRenderFailed  = errors.New("math rendering failed")
	ErrEngineConnect = errors.New("failed to connect to browser")
	ErrEngineLoad    = errors.New("failed to load KaTeX runtime")

	// Internal-consistency errors: always fatal, indicate a defect.
	ErrInternal = errors.New("internal consistency violation")
)
