package content

import (
	"reflect"
	"strings"
	"testing"
)

func TestParagraphs(t *testing.T) {
	got := Paragraphs("# Title\n\nfirst para\nstill first\n\n\n\nsecond\r\n\r\nthird\n")
	want := []string{"# Title", "first para\nstill first", "second", "third"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Paragraphs() = %q, want %q", got, want)
	}
}

func TestSentences(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"no punctuation here", 1},
		{"One. Two! Three?", 3},
		{"Version 1.5 is out. Upgrade now.", 2},
		{"Wait... what?", 2},
	}
	for _, tt := range tests {
		if got := len(Sentences(tt.in)); got != tt.want {
			t.Errorf("len(Sentences(%q)) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"markdown", "intro\n# The **Best** Guide\n\nbody", "The Best Guide"},
		{"html", "<h1 class=\"x\">Hello <em>World</em></h1><p>x</p>", "Hello World"},
		{"h2 only", "## Not a title", ""},
		{"none", "plain text", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractTitle(tt.in); got != tt.want {
				t.Errorf("ExtractTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCountPhrase(t *testing.T) {
	if got := CountPhrase("Cloud Backup and cloud backup tips", "cloud backup"); got != 2 {
		t.Errorf("CountPhrase() = %d, want 2", got)
	}
	if got := CountPhrase("anything", "  "); got != 0 {
		t.Errorf("CountPhrase(empty) = %d, want 0", got)
	}
}

func TestReadingMinutes(t *testing.T) {
	for words, want := range map[int]int{0: 0, 1: 1, 200: 1, 201: 2, 1000: 5} {
		if got := ReadingMinutes(words); got != want {
			t.Errorf("ReadingMinutes(%d) = %d, want %d", words, got, want)
		}
	}
}

func TestMetaDescription(t *testing.T) {
	long := strings.Repeat("word ", 60)
	text := "# Title\n\n- list item\n\n" + long + "\n\nlater"
	got := MetaDescription(text)
	if len(got) > MetaDescriptionLength {
		t.Errorf("len(MetaDescription) = %d, want <= %d", len(got), MetaDescriptionLength)
	}
	if !strings.HasPrefix(got, "word word") || !strings.HasSuffix(got, "...") {
		t.Errorf("MetaDescription() = %q", got)
	}
	if got := MetaDescription("Short [link](https://x.io) text."); got != "Short link text." {
		t.Errorf("MetaDescription(short) = %q", got)
	}
}

func TestKeywords_Deterministic(t *testing.T) {
	text := "Backups matter. Backups protect data. Storage costs fall while storage grows."
	first := Keywords(text, "Cloud Backup", []string{"finance"}, 3)
	second := Keywords(text, "Cloud Backup", []string{"finance"}, 3)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Keywords() not deterministic: %v vs %v", first, second)
	}
	want := []string{"cloud backup", "finance", "backups", "storage", "costs"}
	if !reflect.DeepEqual(first, want) {
		t.Errorf("Keywords() = %v, want %v", first, want)
	}
}
