package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/yourusername/amazon-listing-agent/internal/domain/entity"
	"github.com/yourusername/amazon-listing-agent/internal/domain/repository"
	"google.golang.org/api/option"
)

type geminiCopyGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
	sem    chan struct{}
	mu     sync.Mutex
	last   time.Time
	delay  time.Duration
}

// copyResponse AI javobining kutilgan JSON shakli
type copyResponse struct {
	Artikelname  string   `json:"artikelname"`
	BulletPoints []string `json:"bullet_points"`
	Suchbegriffe string   `json:"suchbegriffe"`
}

// NewCopyGenerator yangi Gemini copy generator yaratish.
// instruction bo'sh bo'lsa standart system prompt ishlatiladi.
func NewCopyGenerator(apiKey, instruction string) (repository.CopyGenerator, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-2.0-flash-exp")

	// Model konfiguratsiyasi - barqaror, JSON formatdagi javoblar uchun
	model.SetTemperature(0.3)
	model.SetTopK(20)
	model.SetTopP(0.9)
	model.SetMaxOutputTokens(2048)
	model.ResponseMIMEType = "application/json"

	if instruction == "" {
		instruction = systemPrompt
	}
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{
			genai.Text(instruction),
		},
	}

	return &geminiCopyGenerator{
		client: client,
		model:  model,
		sem:    make(chan struct{}, 3), // bir vaqtda 3 ta so'rovdan oshirma
		delay:  350 * time.Millisecond, // minimal interval
	}, nil
}

// GenerateCopy mahsulot uchun titel, bullet va suchbegriff yaratish
func (g *geminiCopyGenerator) GenerateCopy(ctx context.Context, product entity.ProductRecord) (*entity.GeneratedCopy, error) {
	release := g.acquire()
	defer release()

	prompt := buildPrompt(product)

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, &entity.GenerationError{SKU: product.SKU, Reason: "gemini request failed", Err: err}
	}

	if len(resp.Candidates) == 0 {
		return nil, &entity.GenerationError{SKU: product.SKU, Reason: "no response candidates"}
	}

	copy, err := ParseCopyResponse(extractText(resp))
	if err != nil {
		return nil, &entity.GenerationError{SKU: product.SKU, Reason: "malformed response", Err: err}
	}

	checkLengths(product.SKU, copy)

	return copy, nil
}

// ParseCopyResponse AI javobini GeneratedCopy ga parse qilish.
// Markdown code fence ichidagi JSON ham qabul qilinadi.
func ParseCopyResponse(raw string) (*entity.GeneratedCopy, error) {
	cleaned := cleanResponse(raw)

	var parsed copyResponse
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	title := strings.TrimSpace(parsed.Artikelname)
	if title == "" {
		return nil, fmt.Errorf("empty artikelname")
	}

	bullets := make([]string, 0, entity.BulletPointCount)
	for _, bp := range parsed.BulletPoints {
		if bp = strings.TrimSpace(bp); bp != "" {
			bullets = append(bullets, bp)
		}
	}
	if len(bullets) != entity.BulletPointCount {
		return nil, fmt.Errorf("expected %d bullet points, got %d", entity.BulletPointCount, len(bullets))
	}

	var terms []string
	for _, term := range strings.Split(parsed.Suchbegriffe, ",") {
		if term = strings.TrimSpace(term); term != "" {
			terms = append(terms, term)
		}
	}
	if len(terms) != entity.SearchTermCount {
		return nil, fmt.Errorf("expected %d search terms, got %d", entity.SearchTermCount, len(terms))
	}

	return &entity.GeneratedCopy{
		Title:       title,
		Bullets:     bullets,
		SearchTerms: terms,
	}, nil
}

// cleanResponse markdown fence va ortiqcha belgilarni olib tashlash
func cleanResponse(raw string) string {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```") {
		lines := strings.Split(text, "\n")
		if len(lines) > 1 {
			if strings.TrimSpace(lines[len(lines)-1]) == "```" {
				lines = lines[1 : len(lines)-1]
			} else {
				lines = lines[1:]
			}
			text = strings.TrimSpace(strings.Join(lines, "\n"))
		}
	}

	// JSON dan oldingi/keyingi matnni kesish
	if start := strings.Index(text, "{"); start > 0 {
		text = text[start:]
	}
	if end := strings.LastIndex(text, "}"); end >= 0 && end < len(text)-1 {
		text = text[:end+1]
	}

	return text
}

// checkLengths Amazon chegaralaridan oshgan maydonlar haqida ogohlantirish
func checkLengths(sku string, copy *entity.GeneratedCopy) {
	if n := len(copy.Title); n > entity.MaxTitleBytes {
		log.Printf("⚠️ %s: title is %d bytes (max %d)", sku, n, entity.MaxTitleBytes)
	}
	for i, bp := range copy.Bullets {
		if n := len(bp); n > entity.MaxBulletBytes {
			log.Printf("⚠️ %s: bullet %d is %d bytes (max %d)", sku, i+1, n, entity.MaxBulletBytes)
		}
	}
	if n := len(strings.Join(copy.SearchTerms, ", ")); n > entity.MaxSearchTermBytes {
		log.Printf("⚠️ %s: search terms are %d bytes (max %d)", sku, n, entity.MaxSearchTermBytes)
	}
}

// buildPrompt mahsulot atributlaridan prompt yaratish
func buildPrompt(product entity.ProductRecord) string {
	var sb strings.Builder
	sb.WriteString("PRODUKTDATEN:\n")
	sb.WriteString(fmt.Sprintf("- SKU: %s\n", product.SKU))

	keys := make([]string, 0, len(product.Attributes))
	for key := range product.Attributes {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", key, product.Attributes[key]))
	}

	sb.WriteString("\nErstelle jetzt den Listing-Content als JSON.")
	return sb.String()
}

// extractText javobdan textni ajratib olish
func extractText(resp *genai.GenerateContentResponse) string {
	var result strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				result.WriteString(fmt.Sprintf("%v", part))
			}
		}
	}
	return result.String()
}

func (g *geminiCopyGenerator) acquire() func() {
	g.sem <- struct{}{}
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	if g.last.IsZero() {
		g.last = now
	} else {
		if sleep := g.delay - now.Sub(g.last); sleep > 0 {
			time.Sleep(sleep)
			now = time.Now()
		}
		g.last = now
	}

	return func() {
		<-g.sem
	}
}

// Close client ni yopish
func (g *geminiCopyGenerator) Close() error {
	return g.client.Close()
}
