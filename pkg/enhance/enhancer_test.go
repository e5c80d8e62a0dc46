package enhance

import (
	"regexp"
	"strings"
	"testing"

	"mercator-hq/scribe/pkg/content"
)

func testRequest() content.Request {
	return content.Request{
		Keyword:    "urban beekeeping",
		TargetURL:  "https://example.com/bees",
		AnchorText: "beekeeping starter kit",
		WordCount:  500,
		Tone:       content.ToneFriendly,
	}
}

func TestEnhance_CollapsesBlankLines(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"newlines", "# Bees\n\n\n\n\nFirst.\n\n\nSecond."},
		{"crlf", "# Bees\r\n\r\nFirst.\r\n\r\n\r\nSecond."},
		{"whitespace lines", "# Bees\n\n \n\t\nFirst.\n\n \n\nSecond."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := tt.text + " Get the beekeeping starter kit at https://example.com/bees"
			got := Enhance(text, testRequest())
			if regexp.MustCompile(`\n[ \t]*\n[ \t]*\n`).MatchString(got) {
				t.Errorf("Enhance() left more than one blank line: %q", got)
			}
			if !strings.Contains(got, "# Bees\n\nFirst.\n\nSecond.") {
				t.Errorf("paragraph breaks lost: %q", got)
			}
		})
	}
}

func TestEnhance_AddsTitle(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantTitle bool
	}{
		{"no heading", "Body text https://example.com/bees", true},
		{"markdown heading", "# Existing\n\nBody https://example.com/bees", false},
		{"html heading", "<h1>Existing</h1><p>Body https://example.com/bees</p>", false},
		{"only h2", "## Section\n\nBody https://example.com/bees", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Enhance(tt.text, testRequest())
			added := strings.HasPrefix(got, "# Urban Beekeeping\n\n")
			if added != tt.wantTitle {
				t.Errorf("title added = %v, want %v: %q", added, tt.wantTitle, got)
			}
		})
	}
}

func TestEnhance_InsertsLinkAtMiddle(t *testing.T) {
	req := testRequest()
	text := "# Title\n\nOne.\n\nTwo.\n\nThree."
	got := Enhance(text, req)

	want := "# Title\n\nOne.\n\n" + LinkSentence(req) + "\n\nTwo.\n\nThree.\n"
	if got != want {
		t.Errorf("Enhance() =\n%q\nwant\n%q", got, want)
	}
	if strings.Count(got, req.TargetURL) != 1 {
		t.Errorf("link inserted %d times", strings.Count(got, req.TargetURL))
	}
}

func TestEnhance_KeepsExistingLink(t *testing.T) {
	req := testRequest()
	text := "# Title\n\nRead about the [Beekeeping Starter Kit](https://example.com/bees) today."
	got := Enhance(text, req)
	if strings.Count(got, req.TargetURL) != 1 {
		t.Errorf("existing link duplicated: %q", got)
	}
}

func TestEnhance_AddsMissingAnchor(t *testing.T) {
	req := testRequest()
	text := "# Title\n\nOne.\n\nRead [our kit](https://example.com/bees) today."
	got := Enhance(text, req)
	if !strings.Contains(got, MarkdownLink(req)) {
		t.Errorf("anchor link not inserted: %q", got)
	}
	if !strings.Contains(got, "[our kit](https://example.com/bees)") {
		t.Errorf("existing link removed: %q", got)
	}
}

func TestEnhance_NeverRemovesWords(t *testing.T) {
	req := testRequest()
	inputs := []string{
		"",
		"single",
		"Alpha beta.\n\n\n\nGamma [x](https://other.example) delta.",
		"<h1>T</h1>\n\n\n<p>word word</p>",
	}
	for _, in := range inputs {
		got := Enhance(in, req)
		if content.CountWords(got) < content.CountWords(in) {
			t.Errorf("Enhance(%q) lost words: %q", in, got)
		}
		for _, w := range strings.Fields(in) {
			if !strings.Contains(got, w) {
				t.Errorf("Enhance(%q) dropped %q", in, w)
			}
		}
		if !strings.Contains(got, req.TargetURL) {
			t.Errorf("Enhance(%q) has no target link", in)
		}
	}
}

func TestLinkSentence_Tones(t *testing.T) {
	req := testRequest()
	seen := make(map[string]bool)
	for _, tone := range []content.Tone{content.ToneProfessional, content.ToneCasual, content.ToneTechnical, content.ToneFriendly} {
		req.Tone = tone
		s := LinkSentence(req)
		if !strings.Contains(s, "[beekeeping starter kit](https://example.com/bees)") {
			t.Errorf("%s sentence missing link: %q", tone, s)
		}
		seen[s] = true
	}
	if len(seen) != 4 {
		t.Error("each tone should have its own sentence")
	}
}
