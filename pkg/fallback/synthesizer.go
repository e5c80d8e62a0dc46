package fallback

import (
	"hash/fnv"
	"strings"

	"mercator-hq/scribe/pkg/content"
	"mercator-hq/scribe/pkg/enhance"
)

const (
	// MinFallbackWords is the floor of MinWords.
	MinFallbackWords = 300

	// maxPadding bounds the paragraph padding loop.
	maxPadding = 500
)

// SectionCount returns the number of sections, including the link
// section, for a target length.
func SectionCount(words int) int {
	switch {
	case words <= 500:
		return 4
	case words <= 1200:
		return 5
	default:
		return 6
	}
}

// MinWords returns max(300, 0.9 x target), rounded up.
func MinWords(target int) int {
	n := (target*9 + 9) / 10
	if n < MinFallbackWords {
		return MinFallbackWords
	}
	return n
}

// Synthesize builds a Document for req. The same request always yields
// the same Document.
func Synthesize(req content.Request) Document {
	fill := replacer(req)
	offset := keywordOffset(req.Keyword)

	doc := Document{
		Title: fill.Replace(titleTemplates[offset%len(titleTemplates)]),
	}
	for _, t := range introTemplates {
		doc.Intro = append(doc.Intro, fill.Replace(t))
	}

	n := SectionCount(req.WordCount)
	body := make([]Section, 0, n-1)
	for i := 0; i < n-1; i++ {
		t := sectionTemplates[i%len(sectionTemplates)]
		s := Section{Heading: fill.Replace(t.heading)}
		for _, p := range t.paragraphs {
			s.Paragraphs = append(s.Paragraphs, fill.Replace(p))
		}
		for _, item := range t.bullets {
			s.Bullets = append(s.Bullets, fill.Replace(item))
		}
		body = append(body, s)
	}

	link := Section{
		Heading: linkSectionHeading,
		Link: &Link{
			Anchor:   req.AnchorText,
			URL:      req.TargetURL,
			Sentence: enhance.LinkTemplate(req.Tone),
		},
	}
	for _, p := range linkSectionLeads {
		link.Paragraphs = append(link.Paragraphs, fill.Replace(p))
	}

	mid := len(body) / 2
	doc.Sections = append(doc.Sections, body[:mid]...)
	doc.Sections = append(doc.Sections, link)
	doc.Sections = append(doc.Sections, body[mid:]...)

	for _, t := range conclusionTemplates {
		doc.Conclusion = append(doc.Conclusion, fill.Replace(t))
	}

	pad(&doc, fill, offset, MinWords(req.WordCount))
	return doc
}

// pad appends filler paragraphs to the non-link sections in turn until
// the document reaches minWords.
func pad(doc *Document, fill *strings.Replacer, offset, minWords int) {
	var targets []int
	for i, s := range doc.Sections {
		if s.Link == nil {
			targets = append(targets, i)
		}
	}
	words := doc.Words()
	for i := 0; words < minWords && i < maxPadding; i++ {
		p := fill.Replace(fillerTemplates[(offset+i)%len(fillerTemplates)])
		s := &doc.Sections[targets[i%len(targets)]]
		s.Paragraphs = append(s.Paragraphs, p)
		words += content.CountWords(p)
	}
}

func replacer(req content.Request) *strings.Replacer {
	industry := req.Industry
	if industry == "" {
		industry = "every industry"
	}
	audience := req.Audience
	if audience == "" {
		audience = "readers"
	}
	return strings.NewReplacer(
		"{keyword}", req.Keyword,
		"{Keyword}", content.TitleCase(req.Keyword),
		"{industry}", industry,
		"{Industry}", content.TitleCase(industry),
		"{audience}", audience,
		"{Audience}", content.TitleCase(audience),
	)
}

func keywordOffset(keyword string) int {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.Join(strings.Fields(keyword), " "))))
	return int(h.Sum32() % 1024)
}
