package gemini

import (
	"strings"
	"testing"

	"github.com/yourusername/amazon-listing-agent/internal/domain/entity"
)

func testProduct() entity.ProductRecord {
	return entity.ProductRecord{
		SKU: "X1",
		Attributes: map[string]string{
			"Marke":       "Acme",
			"Produktname": "Schneidebrett Bambus",
			"Material":    "Bambus",
		},
	}
}

const validResponse = `{
  "artikelname": "Acme Schneidebrett Bambus 40x30 cm",
  "bullet_points": [
    "ROBUST - aus massivem Bambus gefertigt",
    "PFLEGELEICHT - einfach mit warmem Wasser reinigen",
    "SCHONEND - schützt Messerklingen vor Abstumpfung",
    "VIELSEITIG - für Gemüse, Fleisch und Brot geeignet",
    "NACHHALTIG - aus schnell nachwachsendem Rohstoff"
  ],
  "suchbegriffe": "schneidebrett holz, küchenbrett, bambusbrett, brotzeitbrett, servierbrett"
}`

func TestParseCopyResponse(t *testing.T) {
	copy, err := ParseCopyResponse(validResponse)
	if err != nil {
		t.Fatalf("ParseCopyResponse failed: %v", err)
	}

	if copy.Title != "Acme Schneidebrett Bambus 40x30 cm" {
		t.Fatalf("unexpected title: %q", copy.Title)
	}
	if len(copy.Bullets) != 5 {
		t.Fatalf("expected 5 bullets, got %d", len(copy.Bullets))
	}
	if len(copy.SearchTerms) != 5 {
		t.Fatalf("expected 5 search terms, got %d", len(copy.SearchTerms))
	}
	if copy.SearchTerms[0] != "schneidebrett holz" {
		t.Fatalf("unexpected first search term: %q", copy.SearchTerms[0])
	}
}

func TestParseCopyResponseWithMarkdownFence(t *testing.T) {
	fenced := "```json\n" + validResponse + "\n```"

	copy, err := ParseCopyResponse(fenced)
	if err != nil {
		t.Fatalf("ParseCopyResponse failed on fenced input: %v", err)
	}
	if copy.Title == "" {
		t.Fatalf("expected title from fenced response")
	}
}

func TestParseCopyResponseWithSurroundingText(t *testing.T) {
	wrapped := "Hier ist das Ergebnis:\n" + validResponse + "\nViel Erfolg!"

	copy, err := ParseCopyResponse(wrapped)
	if err != nil {
		t.Fatalf("ParseCopyResponse failed on wrapped input: %v", err)
	}
	if len(copy.Bullets) != 5 {
		t.Fatalf("expected 5 bullets, got %d", len(copy.Bullets))
	}
}

func TestParseCopyResponseMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":      "das ist kein JSON",
		"empty title":   `{"artikelname": "", "bullet_points": ["a","b","c","d","e"], "suchbegriffe": "a, b, c, d, e"}`,
		"four bullets":  `{"artikelname": "T", "bullet_points": ["a","b","c","d"], "suchbegriffe": "a, b, c, d, e"}`,
		"three terms":   `{"artikelname": "T", "bullet_points": ["a","b","c","d","e"], "suchbegriffe": "a, b, c"}`,
		"empty bullets": `{"artikelname": "T", "bullet_points": ["", "", "", "", ""], "suchbegriffe": "a, b, c, d, e"}`,
	}

	for name, raw := range cases {
		if _, err := ParseCopyResponse(raw); err == nil {
			t.Fatalf("%s: expected parse error", name)
		}
	}
}

func TestCleanResponse(t *testing.T) {
	raw := "```json\n{\"a\": 1}\n```"
	if got := cleanResponse(raw); got != `{"a": 1}` {
		t.Fatalf("unexpected cleaned response: %q", got)
	}

	plain := `{"a": 1}`
	if got := cleanResponse(plain); got != plain {
		t.Fatalf("plain JSON should be untouched, got %q", got)
	}
}

func TestBuildPrompt(t *testing.T) {
	product := testProduct()
	prompt := buildPrompt(product)

	if !strings.Contains(prompt, "SKU: X1") {
		t.Fatalf("prompt missing SKU: %s", prompt)
	}
	if !strings.Contains(prompt, "Marke: Acme") {
		t.Fatalf("prompt missing brand: %s", prompt)
	}
	if !strings.Contains(prompt, "JSON") {
		t.Fatalf("prompt missing output instruction: %s", prompt)
	}
}
