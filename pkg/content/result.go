package content

import "time"

// Source records where the final article text came from.
type Source string

const (
	// SourceProvider means a backend produced the winning draft.
	SourceProvider Source = "provider"

	// SourceFallback means the offline synthesizer produced the article.
	SourceFallback Source = "fallback"
)

// FallbackProviderName is reported as the provider of synthesized articles.
const FallbackProviderName = "fallback"

// Metadata is derived from the final article text.
type Metadata struct {
	WordCount       int      `json:"word_count"`
	ReadingMinutes  int      `json:"reading_minutes"`
	SEOScore        float64  `json:"seo_score"`
	Title           string   `json:"title"`
	MetaDescription string   `json:"meta_description"`
	Keywords        []string `json:"keywords"`
}

// ProviderReport summarizes one provider's attempt for a request.
// Reports are listed in ranking order; failed attempts follow ranked ones.
type ProviderReport struct {
	Provider     string        `json:"provider"`
	Success      bool          `json:"success"`
	ErrorClass   string        `json:"error_class,omitempty"`
	Error        string        `json:"error,omitempty"`
	Tokens       int           `json:"tokens"`
	Cost         float64       `json:"cost"`
	Latency      time.Duration `json:"latency"`
	Quality      float64       `json:"quality"`
	Composite    float64       `json:"composite"`
	Rank         int           `json:"rank,omitempty"`
	Winner       bool          `json:"winner,omitempty"`
	Disqualified bool          `json:"disqualified,omitempty"`
}

// Result is the single outcome of a generation request.
type Result struct {
	ID             string           `json:"id"`
	Content        string           `json:"content"`
	Provider       string           `json:"provider"`
	Source         Source           `json:"source"`
	Metadata       Metadata         `json:"metadata"`
	TotalCost      float64          `json:"total_cost"`
	ProcessingTime time.Duration    `json:"processing_time"`
	Providers      []ProviderReport `json:"providers"`
	RequiresReview bool             `json:"requires_review"`
	CreatedAt      time.Time        `json:"created_at"`
}
