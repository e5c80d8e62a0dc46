package scoring_test

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"mercator-hq/scribe/internal/providertest"
	"mercator-hq/scribe/pkg/content"
	"mercator-hq/scribe/pkg/scoring"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func testRequest() content.Request {
	return content.Request{
		Keyword:    "solar panels",
		TargetURL:  "https://example.com/solar",
		AnchorText: "solar installation guide",
		WordCount:  400,
		Tone:       content.ToneProfessional,
		SEOFocus:   content.SEOFocusMedium,
	}
}

func TestScore_ShortTextIsZero(t *testing.T) {
	s := scoring.NewScorer(scoring.DefaultWeights())
	short := []string{
		"",
		"   ",
		"# solar panels",
		strings.Repeat("x", scoring.MinCharacters-1),
		// 85 runes but over 100 bytes.
		"# 太阳能板\n\n" + strings.Repeat("太阳能电池板指南。", 5) + "[太阳能](https://example.com/solar)",
	}
	for _, text := range short {
		if got := s.Score(text, testRequest()); got != (scoring.Breakdown{}) {
			t.Errorf("Score(%q) = %+v, want zero", text, got)
		}
	}
}

func TestScore_GoodArticleBeatsWeakOne(t *testing.T) {
	s := scoring.NewScorer(scoring.DefaultWeights())
	req := testRequest()

	good := providertest.Article(req.Keyword, req.TargetURL, req.AnchorText, req.WordCount)
	weak := strings.Repeat("This paragraph rambles on about nothing in particular and never stops ", 8)

	g := s.Score(good, req)
	w := s.Score(weak, req)
	if g.Total <= w.Total {
		t.Fatalf("good article %.2f should outscore weak text %.2f", g.Total, w.Total)
	}
	if !approx(g.Links, s.Weights().Links) {
		t.Errorf("Links = %.2f, want full %.2f", g.Links, s.Weights().Links)
	}
	if w.Links != 0 || w.Keyword != 0 {
		t.Errorf("weak text got link/keyword credit: %+v", w)
	}
}

func TestScore_HTMLStructure(t *testing.T) {
	s := scoring.NewScorer(scoring.DefaultWeights())
	req := testRequest()
	body := strings.Repeat("<p>Solar panels lower bills. They last for decades.</p>", 10)
	html := "<h1>Solar Panels</h1><h2>Costs</h2><h2>Savings</h2><h2>Upkeep</h2><ul><li>one</li></ul>" + body
	plain := strings.Repeat("Solar panels lower bills. They last for decades. ", 10)

	h := s.Score(html, req)
	p := s.Score(plain, req)
	if !approx(h.Structure, s.Weights().Structure) {
		t.Errorf("HTML Structure = %.2f, want %.2f", h.Structure, s.Weights().Structure)
	}
	if p.Structure != 0 {
		t.Errorf("plain Structure = %.2f, want 0", p.Structure)
	}
}

func TestScore_KeywordCapped(t *testing.T) {
	s := scoring.NewScorer(scoring.DefaultWeights())
	req := testRequest()
	base := strings.Repeat("Filler words keep this paragraph long enough to score. ", 5)

	five := base + strings.Repeat("Solar panels help. ", 5)
	fifty := base + strings.Repeat("Solar panels help. ", 50)
	if a, b := s.Score(five, req).Keyword, s.Score(fifty, req).Keyword; a != b {
		t.Errorf("keyword score not capped: 5 occurrences = %.2f, 50 = %.2f", a, b)
	}
}

func TestScore_ReadabilityPenalizesLongSentences(t *testing.T) {
	s := scoring.NewScorer(scoring.DefaultWeights())
	req := testRequest()
	short := strings.Repeat("Short sentences read well. ", 20)
	long := strings.Repeat("word ", 200) + "."

	if a, b := s.Score(short, req).Readability, s.Score(long, req).Readability; a <= b {
		t.Errorf("short sentences %.2f should beat one long sentence %.2f", a, b)
	}
}

func TestScore_Bounded(t *testing.T) {
	s := scoring.NewScorer(scoring.DefaultWeights())
	rng := rand.New(rand.NewSource(42))
	vocab := []string{
		"solar", "panels", "#", "##", "-", "<h1>", "<ul>", "[x](y)", ".", "!", "\n\n",
		"https://example.com/solar", "solar installation guide", "word", "", "\t",
	}

	for i := 0; i < 500; i++ {
		var b strings.Builder
		n := rng.Intn(600)
		for j := 0; j < n; j++ {
			b.WriteString(vocab[rng.Intn(len(vocab))])
			b.WriteByte(' ')
		}
		req := testRequest()
		req.WordCount = content.MinWordCount + rng.Intn(content.MaxWordCount)

		got := s.Score(b.String(), req)
		if math.IsNaN(got.Total) || got.Total < 0 || got.Total > 100 {
			t.Fatalf("iteration %d: Total = %v out of bounds", i, got.Total)
		}
		sum := got.Length + got.Keyword + got.Structure + got.Links + got.Readability
		if math.Abs(sum-got.Total) > 1e-9 {
			t.Fatalf("iteration %d: components sum %.4f != Total %.4f", i, sum, got.Total)
		}
	}
}

func TestScore_Deterministic(t *testing.T) {
	s := scoring.NewScorer(scoring.DefaultWeights())
	req := testRequest()
	text := providertest.Article(req.Keyword, req.TargetURL, req.AnchorText, 300)
	first := s.Score(text, req)
	for i := 0; i < 10; i++ {
		if got := s.Score(text, req); got != first {
			t.Fatalf("Score changed between calls: %+v vs %+v", got, first)
		}
	}
}

func TestScore_PerfectArticleReaches100(t *testing.T) {
	s := scoring.NewScorer(scoring.DefaultWeights())
	req := testRequest()
	req.WordCount = 100

	var b strings.Builder
	b.WriteString("# Solar Panels Explained\n\n")
	b.WriteString("Solar panels cut bills. See the [solar installation guide](https://example.com/solar) first.\n\n")
	b.WriteString("## Costs\n\nSolar panels cost less each year.\n\n")
	b.WriteString("## Savings\n\nSolar panels pay back fast.\n\n")
	b.WriteString("## Upkeep\n\n- Clean them.\n- Check them.\n\n")
	for content.CountWords(content.PlainText(b.String())) < 100 {
		b.WriteString("Solar panels work well. ")
	}

	got := s.Score(b.String(), req)
	if !approx(got.Total, 100) {
		t.Errorf("Total = %.4f, want 100 (%+v)", got.Total, got)
	}
}

func TestScorer_SetWeights(t *testing.T) {
	s := scoring.NewScorer(scoring.DefaultWeights())
	req := testRequest()
	text := strings.Repeat("Nothing relevant here at all, just text. ", 10)

	if err := s.SetWeights(scoring.Weights{Readability: 1}); err != nil {
		t.Fatalf("SetWeights() error = %v", err)
	}
	if got := s.Score(text, req).Total; !approx(got, 100) {
		t.Errorf("readability-only Total = %.2f, want 100", got)
	}

	if err := s.SetWeights(scoring.Weights{Length: -1, Keyword: 2}); err == nil {
		t.Error("SetWeights() accepted negative weights")
	}
	if s.Weights().Readability != 100 {
		t.Error("rejected weights replaced the current ones")
	}
}
