package mdkatex

// Chapter is one document of a book: an id, its raw Markdown text, and
// the scan/render state accumulated while processing it. The Content
// buffer is exclusively owned by the task processing the chapter.
type Chapter struct {
	Name    string
	Path    string
	Content string
}

// Book is an ordered collection of chapters. The host hands the core a
// Book, the core returns it with each chapter's Content replaced by its
// transformed text.
type Book struct {
	Chapters []*Chapter
}
