package signals

import (
	"html"
	"regexp"
	"strings"

	"myShopFeed/domain"
)

const (
	maxRawHTMLChars  = 12000
	maxStrippedChars = 6000
	maxTerms         = 28
	minTokenLen      = 3
)

// stopwords are dropped from every token source; includes the
// gender-neutral merchandising words that carry no signal.
var stopwords = map[string]struct{}{
	"men": {}, "mens": {}, "women": {}, "womens": {}, "unisex": {},
	"new": {}, "product": {}, "products": {}, "item": {}, "items": {},
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {}, "this": {},
	"that": {}, "your": {}, "our": {}, "all": {}, "are": {}, "has": {},
	"have": {}, "was": {}, "will": {}, "can": {}, "one": {}, "size": {},
	"free": {}, "shop": {}, "sale": {}, "more": {}, "best": {}, "made": {},
	"you": {}, "its": {}, "each": {}, "every": {}, "also": {}, "per": {},
	"collection": {}, "available": {}, "buy": {}, "now": {}, "online": {},
}

var (
	scriptRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	tagRe    = regexp.MustCompile(`<[^>]*>`)
	imgRe    = regexp.MustCompile(`(?is)<img[^>]*>`)
	altRe    = regexp.MustCompile(`(?is)alt\s*=\s*["']([^"']*)["']`)
	srcRe    = regexp.MustCompile(`(?is)src\s*=\s*["']([^"']*)["']`)
	splitRe  = regexp.MustCompile(`[^a-z0-9]+`)
)

// StripHTML removes script/style blocks and all markup from an HTML
// fragment, returning bounded plain text.
func StripHTML(markup string) string {
	if markup == "" {
		return ""
	}
	if len(markup) > maxRawHTMLChars {
		markup = markup[:maxRawHTMLChars]
	}

	text := scriptRe.ReplaceAllString(markup, " ")
	text = styleRe.ReplaceAllString(text, " ")
	text = tagRe.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)

	if len(text) > maxStrippedChars {
		text = text[:maxStrippedChars]
	}

	return strings.TrimSpace(text)
}

// ImageAlts extracts the alt attribute values of <img> tags in markup.
func ImageAlts(markup string) []string {
	var alts []string
	for _, img := range imgRe.FindAllString(markup, -1) {
		if m := altRe.FindStringSubmatch(img); m != nil && strings.TrimSpace(m[1]) != "" {
			alts = append(alts, m[1])
		}
	}
	return alts
}

// ImageSources extracts the src attribute values of <img> tags in markup.
func ImageSources(markup string) []string {
	var srcs []string
	for _, img := range imgRe.FindAllString(markup, -1) {
		if m := srcRe.FindStringSubmatch(img); m != nil && strings.TrimSpace(m[1]) != "" {
			srcs = append(srcs, m[1])
		}
	}
	return srcs
}

// FilenameTokens tokenizes an image URL's filename: strips the path and
// extension, then splits on underscore, hyphen, and dot.
func FilenameTokens(src string) []string {
	if src == "" {
		return nil
	}

	name := src
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '?'); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}

	raw := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})

	var tokens []string
	for _, t := range raw {
		if keepToken(t) {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// Tokenize lowercases text and splits on non-alphanumeric runs, keeping
// tokens of length >= 3 that are not numeric and not stopwords.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	var tokens []string
	for _, t := range splitRe.Split(strings.ToLower(text), -1) {
		if keepToken(t) {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func keepToken(t string) bool {
	if len(t) < minTokenLen {
		return false
	}
	if isNumeric(t) {
		return false
	}
	if _, drop := stopwords[t]; drop {
		return false
	}
	return true
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// Bigrams joins consecutive tokens with an underscore.
func Bigrams(tokens []string) []string {
	if len(tokens) < 2 {
		return nil
	}
	out := make([]string, 0, len(tokens)-1)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+"_"+tokens[i+1])
	}
	return out
}

// termsFrom returns the tokens of one source followed by their bigrams.
func termsFrom(tokens []string) []string {
	return append(append([]string(nil), tokens...), Bigrams(tokens)...)
}

// Input is everything the extractor looks at for one product.
type Input struct {
	DescriptionHTML string
	Description     string
	Handle          string
	Title           string
	Vendor          string
	ProductType     string
	ImageSrcs       []string
	ExtraAltTexts   []string
}

// Extract turns raw product text and markup into a bounded, deduplicated,
// ordered list of normalized terms. Pure; never fails on empty input.
func Extract(in Input) []string {
	stripped := StripHTML(in.DescriptionHTML)
	htmlAlts := ImageAlts(in.DescriptionHTML)
	srcs := append(ImageSources(in.DescriptionHTML), in.ImageSrcs...)

	var srcTokens []string
	for _, s := range srcs {
		srcTokens = append(srcTokens, FilenameTokens(s)...)
	}

	// Priority order: earlier sources win the dedupe.
	var terms []string
	for _, alt := range htmlAlts {
		terms = append(terms, termsFrom(Tokenize(alt))...)
	}
	terms = append(terms, termsFrom(srcTokens)...)
	terms = append(terms, termsFrom(Tokenize(stripped))...)
	terms = append(terms, termsFrom(Tokenize(in.Description))...)
	terms = append(terms, termsFrom(Tokenize(in.Handle))...)
	terms = append(terms, termsFrom(Tokenize(in.Title))...)
	terms = append(terms, termsFrom(Tokenize(in.Vendor))...)
	terms = append(terms, termsFrom(Tokenize(in.ProductType))...)
	for _, alt := range in.ExtraAltTexts {
		terms = append(terms, termsFrom(Tokenize(alt))...)
	}

	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, maxTerms)
	for _, t := range terms {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) == maxTerms {
			break
		}
	}

	return out
}

// ExtractFromCandidate adapts a catalog record into an extractor Input.
func ExtractFromCandidate(p domain.ProductCandidate) []string {
	in := Input{
		DescriptionHTML: p.DescriptionHTML,
		Description:     p.Description,
		Handle:          p.Handle,
		Title:           p.Title,
		Vendor:          p.Vendor,
		ProductType:     p.ProductType,
	}
	for _, img := range p.Images {
		if img.URL != "" {
			in.ImageSrcs = append(in.ImageSrcs, img.URL)
		}
		if img.AltText != "" {
			in.ExtraAltTexts = append(in.ExtraAltTexts, img.AltText)
		}
	}
	return Extract(in)
}

// IsStopword reports whether the classifier should drop a term.
func IsStopword(t string) bool {
	_, ok := stopwords[t]
	return ok
}
