package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	mdkatex "github.com/mdkatex/mdkatex"
)

// The mdBook preprocessor protocol: mdBook writes a [context, book] JSON
// array to the preprocessor's stdin and reads the transformed book JSON
// from its stdout. All protocol marshaling lives here; the core library
// only ever sees in-memory Book values.

var errProtocol = errors.New("invalid preprocessor input")

// preprocessorInput is the decoded [context, book] pair. Both sides stay
// as generic maps so unknown fields survive the round trip.
type preprocessorInput struct {
	Context map[string]any
	Book    map[string]any
}

// decodeInput reads and splits the [context, book] array.
func decodeInput(r io.Reader) (*preprocessorInput, error) {
	var arr []json.RawMessage
	if err := json.NewDecoder(r).Decode(&arr); err != nil {
		return nil, fmt.Errorf("%w: %v", errProtocol, err)
	}
	if len(arr) != 2 {
		return nil, fmt.Errorf("%w: expected [context, book], got %d elements", errProtocol, len(arr))
	}

	in := &preprocessorInput{}
	if err := json.Unmarshal(arr[0], &in.Context); err != nil {
		return nil, fmt.Errorf("%w: context: %v", errProtocol, err)
	}
	if err := json.Unmarshal(arr[1], &in.Book); err != nil {
		return nil, fmt.Errorf("%w: book: %v", errProtocol, err)
	}
	return in, nil
}

// encodeBook writes the transformed book JSON.
func (in *preprocessorInput) encodeBook(w io.Writer) error {
	return json.NewEncoder(w).Encode(in.Book)
}

// root returns the book root directory from the context.
func (in *preprocessorInput) root() string {
	s, _ := in.Context["root"].(string)
	return s
}

// katexConfig extracts the [preprocessor.katex] table over the defaults.
// A missing table yields the defaults; a malformed one is a fatal
// configuration error.
func (in *preprocessorInput) katexConfig() (mdkatex.KatexConfig, error) {
	cfg := mdkatex.DefaultConfig()

	config, _ := in.Context["config"].(map[string]any)
	preprocessor, _ := config["preprocessor"].(map[string]any)
	table, ok := preprocessor["katex"].(map[string]any)
	if !ok {
		return cfg, nil
	}

	raw, err := json.Marshal(table)
	if err != nil {
		return cfg, fmt.Errorf("%w: preprocessor.katex: %v", errProtocol, err)
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: preprocessor.katex: %v", errProtocol, err)
	}
	return cfg, nil
}

// chapterRef pairs a core Chapter with the book-JSON map it came from so
// transformed content can be written back in place.
type chapterRef struct {
	chapter *mdkatex.Chapter
	raw     map[string]any
}

// collectChapters walks the book's sections (including nested sub_items)
// in order and returns a reference per chapter.
func (in *preprocessorInput) collectChapters() []chapterRef {
	sections, _ := in.Book["sections"].([]any)
	var refs []chapterRef
	walkSections(sections, &refs)
	return refs
}

func walkSections(items []any, refs *[]chapterRef) {
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue // Separator, PartTitle
		}
		raw, ok := m["Chapter"].(map[string]any)
		if !ok {
			continue
		}
		name, _ := raw["name"].(string)
		path, _ := raw["path"].(string)
		content, _ := raw["content"].(string)
		*refs = append(*refs, chapterRef{
			chapter: &mdkatex.Chapter{Name: name, Path: path, Content: content},
			raw:     raw,
		})
		if subs, ok := raw["sub_items"].([]any); ok {
			walkSections(subs, refs)
		}
	}
}

// writeBack stores each chapter's transformed content into the book JSON.
func writeBack(refs []chapterRef) {
	for _, ref := range refs {
		ref.raw["content"] = ref.chapter.Content
	}
}
