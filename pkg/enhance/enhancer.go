// Package enhance post-processes a winning provider draft.
//
// Enhance never removes words or links. It only normalizes spacing, adds
// a title when the draft has none and inserts the target link when the
// provider left out the URL or the anchor text.
package enhance

import (
	"fmt"
	"regexp"
	"strings"

	"mercator-hq/scribe/pkg/content"
)

// extraNewlines matches two or more blank lines, including blank lines
// holding only spaces or tabs.
var extraNewlines = regexp.MustCompile(`\n(?:[ \t]*\n){2,}`)

var linkSentences = map[content.Tone]string{
	content.ToneProfessional: "For a detailed overview, see %s.",
	content.ToneCasual:       "Want to dig deeper? Check out %s.",
	content.ToneTechnical:    "Full technical details are documented in %s.",
	content.ToneFriendly:     "If you'd like to learn more, %s is a great place to start.",
}

// LinkTemplate returns the tone-appropriate link sentence with a single
// %s where the link goes.
func LinkTemplate(tone content.Tone) string {
	if tmpl, ok := linkSentences[tone]; ok {
		return tmpl
	}
	return linkSentences[content.ToneProfessional]
}

// LinkSentence returns the tone-appropriate sentence carrying the
// markdown link to req.TargetURL.
func LinkSentence(req content.Request) string {
	return fmt.Sprintf(LinkTemplate(req.Tone), MarkdownLink(req))
}

// MarkdownLink returns [anchor](url) for req.
func MarkdownLink(req content.Request) string {
	return fmt.Sprintf("[%s](%s)", req.AnchorText, req.TargetURL)
}

// Enhance returns text with normalized spacing, a title and the target
// link guaranteed. It is pure.
func Enhance(text string, req content.Request) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = extraNewlines.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	if !content.HasHeading1(text) {
		title := "# " + content.TitleCase(req.Keyword)
		if text == "" {
			text = title
		} else {
			text = title + "\n\n" + text
		}
	}

	if !hasLink(text, req) {
		text = insertParagraph(text, LinkSentence(req))
	}

	return text + "\n"
}

// hasLink reports whether text already carries both the target URL and
// the anchor text. Anchor matching ignores case.
func hasLink(text string, req content.Request) bool {
	if !strings.Contains(text, req.TargetURL) {
		return false
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(req.AnchorText))
}

// insertParagraph places p as its own paragraph at the middle paragraph
// boundary of text.
func insertParagraph(text, p string) string {
	blocks := strings.Split(text, "\n\n")
	mid := (len(blocks) + 1) / 2
	out := make([]string, 0, len(blocks)+1)
	out = append(out, blocks[:mid]...)
	out = append(out, p)
	out = append(out, blocks[mid:]...)
	return strings.Join(out, "\n\n")
}
