package prompts

import (
	"fmt"
	"hash/fnv"
	"strings"

	"mercator-hq/scribe/pkg/content"
	"mercator-hq/scribe/pkg/providers"
)

// Style is the writing approach a prompt variant asks for.
type Style string

// Prompt styles in rotation order.
const (
	StyleDirect       Style = "direct"
	StyleAuthority    Style = "authority"
	StyleStorytelling Style = "storytelling"
	StyleTechnicalSEO Style = "technical-seo"
)

// Styles lists every style in rotation order.
var Styles = []Style{StyleDirect, StyleAuthority, StyleStorytelling, StyleTechnicalSEO}

var styleBriefs = map[Style]string{
	StyleDirect: "Get to the point quickly. Open with the answer the reader is looking for, " +
		"then support it with practical, concrete advice.",
	StyleAuthority: "Write as a recognized expert. Explain the reasoning behind each recommendation, " +
		"reference common industry practice and address typical misconceptions.",
	StyleStorytelling: "Open with a short, relatable scenario and carry it through the article. " +
		"Use the story to introduce each practical point.",
	StyleTechnicalSEO: "Optimize for search intent. Use descriptive sub-headings that contain natural " +
		"variations of the keyword, keep paragraphs short and include a scannable list.",
}

var toneVoices = map[content.Tone]string{
	content.ToneProfessional: "You are an experienced content writer producing clear, credible, professional articles.",
	content.ToneCasual:       "You are a relaxed, conversational blogger who explains things like a knowledgeable friend.",
	content.ToneTechnical:    "You are a technical writer who values precision, correct terminology and concrete detail.",
	content.ToneFriendly:     "You are a warm, encouraging writer who makes every topic feel approachable.",
}

var seoGuidance = map[content.SEOFocus]string{
	content.SEOFocusLow:    "Mention the keyword naturally where it fits; readability comes first.",
	content.SEOFocusMedium: "Use the keyword in the title, the introduction and at least one sub-heading.",
	content.SEOFocusHigh: "Use the keyword in the title, the first paragraph, two or more sub-headings " +
		"and the conclusion, plus close variations throughout.",
}

// StartIndex returns the rotation offset for keyword. The keyword is
// lower-cased and whitespace-collapsed before hashing.
func StartIndex(keyword string) int {
	h := fnv.New32a()
	h.Write([]byte(normalize(keyword)))
	return int(h.Sum32() % uint32(len(Styles)))
}

func normalize(keyword string) string {
	return strings.ToLower(strings.Join(strings.Fields(keyword), " "))
}

// Build returns max(n, 1) prompts for req. Prompt i uses style
// Styles[(StartIndex(req.Keyword)+i) % len(Styles)], so styles repeat
// once n exceeds the number of styles.
func Build(req content.Request, n int) []providers.Prompt {
	if n < 1 {
		n = 1
	}
	start := StartIndex(req.Keyword)
	out := make([]providers.Prompt, n)
	for i := range out {
		style := Styles[(start+i)%len(Styles)]
		out[i] = providers.Prompt{
			Style:  string(style),
			System: systemPrompt(req),
			User:   userPrompt(req, style),
		}
	}
	return out
}

func systemPrompt(req content.Request) string {
	voice, ok := toneVoices[req.Tone]
	if !ok {
		voice = toneVoices[content.ToneProfessional]
	}
	return voice + " Respond with the article only, formatted as Markdown."
}

func userPrompt(req content.Request, style Style) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write an original article of about %d words about %q.\n\n", req.WordCount, req.Keyword)
	fmt.Fprintf(&b, "Approach: %s\n\n", styleBriefs[style])

	b.WriteString("Requirements:\n")
	b.WriteString("- Start with a single H1 title (# Title) that contains the keyword.\n")
	b.WriteString("- Use at least three H2 sub-headings (## Heading).\n")
	b.WriteString("- Include at least one bulleted or numbered list.\n")
	b.WriteString("- Keep sentences under 25 words on average.\n")
	fmt.Fprintf(&b, "- Include exactly one Markdown link [%s](%s) inside a relevant paragraph.\n",
		req.AnchorText, req.TargetURL)
	b.WriteString("- End with a short conclusion that invites the reader to act.\n")

	focus, ok := seoGuidance[req.SEOFocus]
	if !ok {
		focus = seoGuidance[content.SEOFocusMedium]
	}
	fmt.Fprintf(&b, "\nSEO: %s\n", focus)

	if req.Industry != "" {
		fmt.Fprintf(&b, "Industry context: %s. Use examples from this industry.\n", req.Industry)
	}
	if req.Audience != "" {
		fmt.Fprintf(&b, "Audience: %s. Match their level of knowledge.\n", req.Audience)
	}

	return b.String()
}
