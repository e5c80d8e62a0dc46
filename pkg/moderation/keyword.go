package moderation

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"mercator-hq/scribe/pkg/config"
)

// defaultTerms are the built-in terms per category. Config terms are
// added to these.
var defaultTerms = map[string][]string{
	"profanity":     {"fuck", "shit", "bitch", "bastard", "asshole"},
	"violence":      {"kill", "murder", "massacre", "behead", "bomb making"},
	"hate_speech":   {"racist", "white power", "ethnic cleansing", "subhuman"},
	"adult_content": {"porn", "nude", "xxx", "explicit sex"},
	"self_harm":     {"suicide", "self harm", "self-harm", "cutting myself"},
}

var injectionPatterns = []string{
	`ignore (all |any )?(previous|prior|above) instructions`,
	`disregard (all |the )?(previous|prior|above)`,
	`forget (everything|your instructions)`,
	`you are now`,
	`system prompt`,
	`act as (an? )?(unfiltered|jailbroken)`,
}

var piiPatterns = map[string]*regexp.Regexp{
	"email":       regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	"phone":       regexp.MustCompile(`\b(\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]\d{3}[-.\s]\d{4}\b`),
	"ssn":         regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
	"credit_card": regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`),
}

// KeywordGate matches request text against per-category term lists on
// word boundaries. Blocking categories reject the request; review
// categories flag it. Prompt injection blocks and PII flags for review.
type KeywordGate struct {
	block     []category
	review    []category
	injection *regexp.Regexp
	pii       bool
}

type category struct {
	name string
	re   *regexp.Regexp
}

// NewKeywordGate compiles the gate from cfg. Categories named in cfg but
// with no terms are ignored. A nil or disabled config yields a gate that
// allows everything.
func NewKeywordGate(cfg *config.ModerationConfig) *KeywordGate {
	g := &KeywordGate{}
	if cfg == nil || !cfg.Enabled {
		return g
	}

	terms := make(map[string][]string, len(defaultTerms)+len(cfg.Terms))
	for name, list := range defaultTerms {
		terms[name] = append([]string(nil), list...)
	}
	for name, list := range cfg.Terms {
		terms[name] = append(terms[name], list...)
	}

	g.block = compileCategories(cfg.BlockCategories, terms)
	g.review = compileCategories(cfg.ReviewCategories, terms)
	if cfg.InjectionDetection {
		g.injection = regexp.MustCompile(`(?i)` + strings.Join(injectionPatterns, "|"))
	}
	g.pii = cfg.PIIDetection
	return g
}

func compileCategories(names []string, terms map[string][]string) []category {
	var out []category
	for _, name := range names {
		list := terms[name]
		if len(list) == 0 {
			continue
		}
		quoted := make([]string, 0, len(list))
		for _, t := range list {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			quoted = append(quoted, regexp.QuoteMeta(t))
		}
		if len(quoted) == 0 {
			continue
		}
		re := regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
		out = append(out, category{name: name, re: re})
	}
	return out
}

// Moderate classifies text. It never returns an error; the signature
// leaves room for remote gates.
func (g *KeywordGate) Moderate(ctx context.Context, text string) (Verdict, error) {
	if err := ctx.Err(); err != nil {
		return Verdict{}, err
	}

	v := Verdict{Allowed: true}
	if strings.TrimSpace(text) == "" {
		return v, nil
	}

	for _, c := range g.block {
		if c.re.MatchString(text) {
			v.Allowed = false
			v.Categories = append(v.Categories, c.name)
		}
	}
	if g.injection != nil && g.injection.MatchString(text) {
		v.Allowed = false
		v.Categories = append(v.Categories, CategoryInjection)
	}
	for _, c := range g.review {
		if c.re.MatchString(text) {
			v.RequiresReview = true
			v.Categories = append(v.Categories, c.name)
		}
	}
	if g.pii && hasPII(text) {
		v.RequiresReview = true
		v.Categories = append(v.Categories, CategoryPII)
	}

	sort.Strings(v.Categories)
	return v, nil
}

func hasPII(text string) bool {
	for _, re := range piiPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// New returns the gate for cfg: a KeywordGate when enabled, AllowAll
// otherwise.
func New(cfg *config.ModerationConfig) Gate {
	if cfg == nil || !cfg.Enabled {
		return AllowAll{}
	}
	return NewKeywordGate(cfg)
}
