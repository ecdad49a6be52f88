package mdkatex

// Delimiter is a left/right marker pair enclosing a math span.
type Delimiter struct {
	Left  string `yaml:"left" json:"left"`
	Right string `yaml:"right" json:"right"`
}

// SameDelimiter returns a Delimiter using s on both sides.
func SameDelimiter(s string) Delimiter {
	return Delimiter{Left: s, Right: s}
}

// Validate checks that both markers are non-empty.
func (d Delimiter) Validate() error {
	if d.Left == "" || d.Right == "" {
		return ErrEmptyDelimiter
	}
	return nil
}

// matchLeft reports whether text starts with the left marker at i.
func (d Delimiter) matchLeft(text string, i int) bool {
	return i+len(d.Left) <= len(text) && text[i:i+len(d.Left)] == d.Left
}
