package content

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var (
	blankLines     = regexp.MustCompile(`\n\s*\n`)
	markdownH1     = regexp.MustCompile(`(?m)^#[ \t]+(.+?)[ \t#]*$`)
	htmlH1         = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)
	htmlTag        = regexp.MustCompile(`<[^>]+>`)
	markdownLink   = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	markdownSyntax = regexp.MustCompile("[*_`>#]+")
	sentenceEnd    = regexp.MustCompile(`[.!?]+(\s|$)`)
)

// CountWords returns the number of whitespace separated words in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// Paragraphs splits text on blank lines, dropping empty blocks.
func Paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := blankLines.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Sentences splits plain text into sentences on terminal punctuation.
// Text without terminal punctuation is treated as a single sentence.
func Sentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var out []string
	last := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[last:loc[1]]); s != "" {
			out = append(out, s)
		}
		last = loc[1]
	}
	if s := strings.TrimSpace(text[last:]); s != "" {
		out = append(out, s)
	}
	return out
}

// PlainText strips markdown and HTML markup, keeping link text.
func PlainText(text string) string {
	text = htmlTag.ReplaceAllString(text, " ")
	text = markdownLink.ReplaceAllString(text, "$1")
	text = markdownSyntax.ReplaceAllString(text, "")
	return text
}

// HasHeading1 reports whether text contains a top-level heading in
// markdown or HTML form.
func HasHeading1(text string) bool {
	return markdownH1.MatchString(text) || htmlH1.MatchString(text)
}

// ExtractTitle returns the text of the first top-level heading, or "".
func ExtractTitle(text string) string {
	if m := markdownH1.FindStringSubmatch(text); m != nil {
		return strings.Join(strings.Fields(PlainText(m[1])), " ")
	}
	if m := htmlH1.FindStringSubmatch(text); m != nil {
		return strings.Join(strings.Fields(PlainText(m[1])), " ")
	}
	return ""
}

// TitleCase upper-cases the first letter of every word.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// CountPhrase counts case-insensitive, non-overlapping occurrences of
// phrase in text.
func CountPhrase(text, phrase string) int {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	if phrase == "" {
		return 0
	}
	return strings.Count(strings.ToLower(text), phrase)
}

// ReadingMinutes estimates reading time at 200 words per minute,
// rounded up. Empty text reads in zero minutes.
func ReadingMinutes(words int) int {
	if words <= 0 {
		return 0
	}
	return (words + 199) / 200
}

// MetaDescriptionLength is the maximum length of a meta description.
const MetaDescriptionLength = 155

// MetaDescription returns the first prose paragraph of text, trimmed to
// MetaDescriptionLength characters at a word boundary.
func MetaDescription(text string) string {
	for _, p := range Paragraphs(text) {
		if strings.HasPrefix(p, "#") || strings.HasPrefix(p, "-") || strings.HasPrefix(p, "*") ||
			strings.HasPrefix(strings.ToLower(p), "<h") {
			continue
		}
		plain := strings.Join(strings.Fields(PlainText(p)), " ")
		if plain == "" {
			continue
		}
		return truncateWords(plain, MetaDescriptionLength)
	}
	return ""
}

func truncateWords(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := strings.LastIndex(s[:limit-3], " ")
	if cut <= 0 {
		cut = limit - 3
	}
	return strings.TrimRight(s[:cut], " ,;:") + "..."
}

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {}, "your": {},
	"are": {}, "you": {}, "from": {}, "can": {}, "have": {}, "will": {}, "into": {},
	"more": {}, "what": {}, "when": {}, "how": {}, "their": {}, "they": {}, "about": {},
	"also": {}, "not": {}, "but": {}, "its": {}, "our": {}, "was": {}, "were": {},
	"been": {}, "which": {}, "each": {}, "there": {}, "these": {}, "those": {},
	"than": {}, "then": {}, "them": {}, "make": {}, "most": {}, "some": {}, "any": {},
	"all": {}, "one": {}, "out": {}, "use": {}, "why": {}, "who": {}, "has": {},
}

// Keywords returns the primary keyword, the hint terms, then up to
// extra frequent content words of text. Ties are broken alphabetically
// so the list is stable for identical input.
func Keywords(text, primary string, hints []string, extra int) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(k string) {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			return
		}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	add(primary)
	for _, h := range hints {
		add(h)
	}

	freq := make(map[string]int)
	for _, w := range strings.FieldsFunc(strings.ToLower(PlainText(text)), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	}) {
		w = strings.Trim(w, "-")
		if len(w) < 4 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		freq[w]++
	}
	words := make([]string, 0, len(freq))
	for w := range freq {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})
	for i := 0; i < len(words) && extra > 0; i++ {
		if _, ok := seen[words[i]]; ok {
			continue
		}
		add(words[i])
		extra--
	}
	return out
}
