package content

import (
	"fmt"
	"net/url"
	"strings"
)

// Tone is the voice a generated article is written in.
type Tone string

// Supported tones.
const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneTechnical    Tone = "technical"
	ToneFriendly     Tone = "friendly"
)

// SEOFocus controls how aggressively prompts push keyword placement.
type SEOFocus string

// Supported SEO focus levels.
const (
	SEOFocusLow    SEOFocus = "low"
	SEOFocusMedium SEOFocus = "medium"
	SEOFocusHigh   SEOFocus = "high"
)

const (
	// DefaultWordCount is used when a request does not specify a length.
	DefaultWordCount = 800

	// MinWordCount is the smallest accepted target length.
	MinWordCount = 100

	// MaxWordCount is the largest accepted target length.
	MaxWordCount = 5000

	// MaxKeywordLength bounds the keyword so prompts stay small.
	MaxKeywordLength = 200
)

// Request is a single content generation request.
// Requests are values; build them with NewRequest so defaults and
// validation are applied before they reach the orchestrator.
type Request struct {
	// Keyword is the topic the article is written about.
	Keyword string `json:"keyword"`

	// TargetURL is the link that must appear in the final article.
	TargetURL string `json:"target_url"`

	// AnchorText is the visible text of the link. Defaults to Keyword.
	AnchorText string `json:"anchor_text"`

	// WordCount is the desired article length in words.
	WordCount int `json:"word_count"`

	// Tone is the voice of the article.
	Tone Tone `json:"tone"`

	// SEOFocus controls keyword density hints in prompts.
	SEOFocus SEOFocus `json:"seo_focus"`

	// Industry is an optional context hint.
	Industry string `json:"industry,omitempty"`

	// Audience is an optional context hint.
	Audience string `json:"audience,omitempty"`
}

// RequestError describes a rejected request field.
type RequestError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("invalid request field %q: %s", e.Field, e.Message)
}

// NewRequest applies defaults to r and validates it.
// The returned value is safe to pass to the orchestrator.
func NewRequest(r Request) (Request, error) {
	r.Keyword = strings.TrimSpace(r.Keyword)
	r.TargetURL = strings.TrimSpace(r.TargetURL)
	r.AnchorText = strings.TrimSpace(r.AnchorText)
	r.Industry = strings.TrimSpace(r.Industry)
	r.Audience = strings.TrimSpace(r.Audience)

	if r.AnchorText == "" {
		r.AnchorText = r.Keyword
	}
	if r.WordCount == 0 {
		r.WordCount = DefaultWordCount
	}
	if r.Tone == "" {
		r.Tone = ToneProfessional
	}
	if r.SEOFocus == "" {
		r.SEOFocus = SEOFocusMedium
	}

	if err := r.Validate(); err != nil {
		return Request{}, err
	}
	return r, nil
}

// Validate checks that every field holds an accepted value.
func (r Request) Validate() error {
	if r.Keyword == "" {
		return &RequestError{Field: "keyword", Message: "keyword is required"}
	}
	if len(r.Keyword) > MaxKeywordLength {
		return &RequestError{Field: "keyword", Message: fmt.Sprintf("must be at most %d characters", MaxKeywordLength)}
	}
	if r.TargetURL == "" {
		return &RequestError{Field: "target_url", Message: "target URL is required"}
	}
	u, err := url.Parse(r.TargetURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &RequestError{Field: "target_url", Message: "must be an absolute http(s) URL"}
	}
	if r.AnchorText == "" {
		return &RequestError{Field: "anchor_text", Message: "anchor text is required"}
	}
	if r.WordCount < MinWordCount || r.WordCount > MaxWordCount {
		return &RequestError{
			Field:   "word_count",
			Message: fmt.Sprintf("must be between %d and %d", MinWordCount, MaxWordCount),
		}
	}
	switch r.Tone {
	case ToneProfessional, ToneCasual, ToneTechnical, ToneFriendly:
	default:
		return &RequestError{Field: "tone", Message: fmt.Sprintf("unknown tone %q", r.Tone)}
	}
	switch r.SEOFocus {
	case SEOFocusLow, SEOFocusMedium, SEOFocusHigh:
	default:
		return &RequestError{Field: "seo_focus", Message: fmt.Sprintf("unknown seo focus %q", r.SEOFocus)}
	}
	return nil
}
