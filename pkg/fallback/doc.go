// Package fallback synthesizes an article offline when no provider
// produces a usable draft.
//
// Synthesize is pure and deterministic: it fills template fragments with
// the request's keyword, anchor, industry and audience, and returns a
// structured Document. A Renderer turns the Document into text;
// MarkdownRenderer is the default.
//
// Every Document has a title, an introduction, between four and six
// sections (one of which carries the target link exactly once) and a
// closing call to action. Paragraphs are added until the document reaches
// MinWords for the requested length.
package fallback
