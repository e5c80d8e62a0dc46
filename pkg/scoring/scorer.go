package scoring

import (
	"math"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"mercator-hq/scribe/pkg/content"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

const (
	// MinCharacters is the shortest text that receives a non-zero score.
	MinCharacters = 100

	// KeywordCap is the keyword occurrence count that earns full marks.
	KeywordCap = 5

	// ReadableSentenceWords is the average sentence length above which
	// readability starts to drop.
	ReadableSentenceWords = 20

	// SubheadingTarget is the number of sub-headings that earns full
	// structure marks for headings.
	SubheadingTarget = 3
)

var (
	htmlH1Tag   = regexp.MustCompile(`(?i)<h1[\s>]`)
	htmlSubTag  = regexp.MustCompile(`(?i)<h[2-6][\s>]`)
	htmlListTag = regexp.MustCompile(`(?i)<(ul|ol)[\s>]`)
)

// Breakdown is a score with its components. Total is the sum of the
// components and lies in [0, 100].
type Breakdown struct {
	Length      float64 `json:"length"`
	Keyword     float64 `json:"keyword"`
	Structure   float64 `json:"structure"`
	Links       float64 `json:"links"`
	Readability float64 `json:"readability"`
	Total       float64 `json:"total"`
}

// Scorer rates article text against a request. It is safe for concurrent
// use; weights may be replaced while scoring is in progress.
type Scorer struct {
	mu      sync.RWMutex
	weights Weights
	md      goldmark.Markdown
}

// NewScorer creates a scorer with the given weights, normalized.
func NewScorer(w Weights) *Scorer {
	return &Scorer{
		weights: w.Normalized(),
		md:      goldmark.New(),
	}
}

// Weights returns the normalized weights in use.
func (s *Scorer) Weights() Weights {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weights
}

// SetWeights replaces the weights. Invalid weights are rejected and the
// current weights are kept.
func (s *Scorer) SetWeights(w Weights) error {
	if err := w.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.weights = w.Normalized()
	s.mu.Unlock()
	return nil
}

// Score rates text for req.
func (s *Scorer) Score(text string, req content.Request) Breakdown {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinCharacters {
		return Breakdown{}
	}
	w := s.Weights()
	plain := content.PlainText(text)

	b := Breakdown{
		Length:      w.Length * lengthFit(content.CountWords(plain), req.WordCount),
		Keyword:     w.Keyword * keywordPresence(text, plain, req.Keyword),
		Structure:   w.Structure * s.structure(text),
		Links:       w.Links * linkIntegration(text, req),
		Readability: w.Readability * readability(plain),
	}
	b.Total = b.Length + b.Keyword + b.Structure + b.Links + b.Readability
	b.Total = clamp(b.Total, 0, 100)
	return b
}

// Total is a shorthand for Score(text, req).Total.
func (s *Scorer) Total(text string, req content.Request) float64 {
	return s.Score(text, req).Total
}

// lengthFit is the symmetric ratio min(words/target, target/words): 1 at
// the target, falling the same way for short and long drafts.
func lengthFit(words, target int) float64 {
	if target <= 0 {
		target = content.DefaultWordCount
	}
	if words <= 0 {
		return 0
	}
	w, t := float64(words), float64(target)
	return clamp(math.Min(w/t, t/w), 0, 1)
}

// keywordPresence rewards up to KeywordCap occurrences, with a share
// reserved for the keyword appearing in the title.
func keywordPresence(text, plain, keyword string) float64 {
	count := content.CountPhrase(plain, keyword)
	if count == 0 {
		return 0
	}
	frac := 0.8 * math.Min(float64(count), KeywordCap) / KeywordCap
	if content.CountPhrase(content.ExtractTitle(text), keyword) > 0 {
		frac += 0.2
	}
	return clamp(frac, 0, 1)
}

type outline struct {
	h1          bool
	subheadings int
	lists       int
}

func (s *Scorer) outline(text string) outline {
	var o outline
	src := []byte(text)
	doc := s.md.Parser().Parse(gmtext.NewReader(src))
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 1 {
				o.h1 = true
			} else {
				o.subheadings++
			}
		case *ast.List:
			o.lists++
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	if htmlH1Tag.MatchString(text) {
		o.h1 = true
	}
	o.subheadings += len(htmlSubTag.FindAllStringIndex(text, -1))
	o.lists += len(htmlListTag.FindAllStringIndex(text, -1))
	return o
}

// structure gives 0.3 for a title, up to 0.4 for sub-headings and 0.3
// for at least one list.
func (s *Scorer) structure(text string) float64 {
	o := s.outline(text)
	frac := 0.0
	if o.h1 {
		frac += 0.3
	}
	frac += 0.4 * math.Min(float64(o.subheadings), SubheadingTarget) / SubheadingTarget
	if o.lists > 0 {
		frac += 0.3
	}
	return clamp(frac, 0, 1)
}

// linkIntegration gives 0.6 for the target URL and 0.4 for the anchor text.
func linkIntegration(text string, req content.Request) float64 {
	frac := 0.0
	if req.TargetURL != "" && strings.Contains(text, req.TargetURL) {
		frac += 0.6
	}
	if content.CountPhrase(text, req.AnchorText) > 0 {
		frac += 0.4
	}
	return frac
}

// readability is 1 up to ReadableSentenceWords words per sentence and
// falls to 0 at twice that.
func readability(plain string) float64 {
	sentences := content.Sentences(plain)
	if len(sentences) == 0 {
		return 0
	}
	avg := float64(content.CountWords(plain)) / float64(len(sentences))
	if avg <= ReadableSentenceWords {
		return 1
	}
	return clamp(1-(avg-ReadableSentenceWords)/ReadableSentenceWords, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
