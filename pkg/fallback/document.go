package fallback

import (
	"fmt"
	"strings"

	"mercator-hq/scribe/pkg/content"
)

// Link is the target link of a Document. Renderers decide its markup.
type Link struct {
	Anchor string
	URL    string

	// Sentence surrounds the link; %s marks where it goes.
	Sentence string
}

// Format returns the sentence with the link formatted by markup.
func (l Link) Format(markup func(anchor, url string) string) string {
	return fmt.Sprintf(l.Sentence, markup(l.Anchor, l.URL))
}

// Section is one titled part of a Document.
type Section struct {
	Heading    string
	Paragraphs []string
	Bullets    []string

	// Link is set only on the section that carries the target link. It
	// renders as the section's last paragraph.
	Link *Link
}

// Document is a synthesized article before rendering.
type Document struct {
	Title      string
	Intro      []string
	Sections   []Section
	Conclusion []string
}

// Words counts the words of every text field.
func (d Document) Words() int {
	n := content.CountWords(d.Title)
	for _, p := range d.Intro {
		n += content.CountWords(p)
	}
	for _, s := range d.Sections {
		n += content.CountWords(s.Heading)
		for _, p := range s.Paragraphs {
			n += content.CountWords(p)
		}
		for _, b := range s.Bullets {
			n += content.CountWords(b)
		}
		if s.Link != nil {
			n += content.CountWords(s.Link.Format(func(anchor, _ string) string { return anchor }))
		}
	}
	for _, p := range d.Conclusion {
		n += content.CountWords(p)
	}
	return n
}

// Renderer turns a Document into article text.
type Renderer interface {
	Render(d Document) string
}

// MarkdownRenderer renders a Document as Markdown.
type MarkdownRenderer struct{}

// Render implements Renderer.
func (MarkdownRenderer) Render(d Document) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(d.Title)
	b.WriteString("\n\n")
	writeParagraphs(&b, d.Intro)
	for _, s := range d.Sections {
		b.WriteString("## ")
		b.WriteString(s.Heading)
		b.WriteString("\n\n")
		writeParagraphs(&b, s.Paragraphs)
		if s.Link != nil {
			writeParagraphs(&b, []string{s.Link.Format(markdownLink)})
		}
		if len(s.Bullets) > 0 {
			for _, item := range s.Bullets {
				b.WriteString("- ")
				b.WriteString(item)
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}
	if len(d.Conclusion) > 0 {
		b.WriteString("## Conclusion\n\n")
		writeParagraphs(&b, d.Conclusion)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func markdownLink(anchor, url string) string {
	return "[" + anchor + "](" + url + ")"
}

func writeParagraphs(b *strings.Builder, paragraphs []string) {
	for _, p := range paragraphs {
		b.WriteString(p)
		b.WriteString("\n\n")
	}
}
