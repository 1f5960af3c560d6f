//go:build !integration

package signals

import (
	"strings"
	"testing"

	"myShopFeed/domain"
)

func TestExtract_EmptyInput(t *testing.T) {
	terms := Extract(Input{})
	if len(terms) != 0 {
		t.Fatalf("expected no terms for empty input, got %v", terms)
	}
}

func TestStripHTML_RemovesScriptAndTags(t *testing.T) {
	markup := `<div><script>var x = "evil";</script><style>p{color:red}</style><p>Soft cotton t&amp;shirt</p></div>`

	text := StripHTML(markup)
	if strings.Contains(text, "evil") {
		t.Errorf("script content leaked into stripped text: %q", text)
	}
	if strings.Contains(text, "color") {
		t.Errorf("style content leaked into stripped text: %q", text)
	}
	if strings.Contains(text, "<") {
		t.Errorf("markup leaked into stripped text: %q", text)
	}
	if !strings.Contains(text, "cotton") {
		t.Errorf("expected plain text to survive, got %q", text)
	}
	if !strings.Contains(text, "t&shirt") {
		t.Errorf("expected entities to be unescaped, got %q", text)
	}
}

func TestStripHTML_BoundsLongInput(t *testing.T) {
	markup := strings.Repeat("a", 20000)
	if got := StripHTML(markup); len(got) > 6000 {
		t.Fatalf("stripped text not bounded, len=%d", len(got))
	}
}

func TestTokenize_Rules(t *testing.T) {
	tokens := Tokenize("New Slim-Fit Jeans for Men, 32x34 in Indigo!")

	want := []string{"slim", "fit", "jeans", "32x34", "indigo"}
	if len(tokens) != len(want) {
		t.Fatalf("tokens = %v, want %v", tokens, want)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("tokens[%d] = %q, want %q", i, tokens[i], want[i])
		}
	}
}

func TestTokenize_DropsNumericAndShort(t *testing.T) {
	tokens := Tokenize("a an 12 345 ok")
	if len(tokens) != 0 {
		t.Fatalf("expected all tokens dropped, got %v", tokens)
	}
}

func TestBigrams(t *testing.T) {
	got := Bigrams([]string{"blue", "denim", "jeans"})
	if len(got) != 2 || got[0] != "blue_denim" || got[1] != "denim_jeans" {
		t.Fatalf("bigrams = %v", got)
	}
}

func TestFilenameTokens(t *testing.T) {
	tokens := FilenameTokens("https://cdn.example.com/files/raw-denim_jacket.v2.jpg?width=800")

	joined := strings.Join(tokens, " ")
	if !strings.Contains(joined, "raw") || !strings.Contains(joined, "denim") || !strings.Contains(joined, "jacket") {
		t.Fatalf("filename tokens = %v", tokens)
	}
	for _, tok := range tokens {
		if tok == "jpg" || strings.Contains(tok, "width") {
			t.Errorf("extension or query leaked into tokens: %v", tokens)
		}
	}
}

func TestExtract_PriorityAndDedupe(t *testing.T) {
	in := Input{
		DescriptionHTML: `<p>Organic cotton tee</p><img src="cdn/organic-cotton-tee.png" alt="flat lay tee">`,
		Handle:          "organic-cotton-tee",
		Title:           "Organic Cotton Tee",
		Vendor:          "Acme Basics",
		ProductType:     "T-Shirts",
	}

	terms := Extract(in)
	if len(terms) == 0 {
		t.Fatal("expected terms")
	}

	// image alt tokens come first
	if terms[0] != "flat" {
		t.Errorf("expected alt-text tokens first, got %q", terms[0])
	}

	seen := map[string]int{}
	for _, term := range terms {
		seen[term]++
		if seen[term] > 1 {
			t.Errorf("duplicate term %q in output", term)
		}
	}
}

func TestExtract_CapsAt28(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 60; i++ {
		b.WriteString("token")
		b.WriteString(strings.Repeat("x", i+1))
		b.WriteString(" ")
	}

	terms := Extract(Input{Description: b.String()})
	if len(terms) != 28 {
		t.Fatalf("expected 28 terms, got %d", len(terms))
	}
}

func TestExtractFromCandidate_MissingFields(t *testing.T) {
	terms := ExtractFromCandidate(domain.ProductCandidate{})
	if len(terms) != 0 {
		t.Fatalf("expected empty result for empty candidate, got %v", terms)
	}
}
