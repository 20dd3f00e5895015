package telegram

import (
	"strings"
	"sync"
	"testing"
)

func TestIsTemplateFilename(t *testing.T) {
	templates := []string{
		"vorlage_kueche.xlsx",
		"amazon_flat.file.de.xlsx",
		"flatfile_export.xlsx",
		"listing_template.xlsx",
	}
	for _, name := range templates {
		if !isTemplateFilename(name) {
			t.Fatalf("expected %q to be recognized as template", name)
		}
	}

	products := []string{
		"produkte.xlsx",
		"export_2026.xlsx",
		"artikel_liste.xlsx",
	}
	for _, name := range products {
		if isTemplateFilename(name) {
			t.Fatalf("expected %q to be treated as product file", name)
		}
	}
}

func TestOutputFilename(t *testing.T) {
	out := outputFilename("Vorlage_Kueche.xlsx")
	if !strings.HasPrefix(out, "Vorlage_Kueche_filled_") {
		t.Fatalf("unexpected output name: %q", out)
	}
	if !strings.HasSuffix(out, ".xlsx") {
		t.Fatalf("expected .xlsx suffix: %q", out)
	}

	out = outputFilename("vorlage.xlsm")
	if !strings.HasSuffix(out, ".xlsm") {
		t.Fatalf("macro extension should be preserved: %q", out)
	}
	if !strings.HasPrefix(out, "vorlage_filled_") {
		t.Fatalf("unexpected output name: %q", out)
	}
}

func TestSessionLifecycle(t *testing.T) {
	h := &BotHandler{sessions: make(map[int64]*uploadSession)}

	h.updateSession(42, func(s *uploadSession) {
		s.TemplateName = "vorlage.xlsx"
	})

	if got := h.sessionSnapshot(42); got.TemplateName != "vorlage.xlsx" {
		t.Fatalf("expected same session for chat, got %+v", got)
	}

	h.clearSession(42)
	if got := h.sessionSnapshot(42); got.TemplateName != "" {
		t.Fatalf("expected fresh session after clear, got %+v", got)
	}
}

func TestSessionConcurrentUpdates(t *testing.T) {
	h := &BotHandler{sessions: make(map[int64]*uploadSession)}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.updateSession(7, func(s *uploadSession) {
				s.TemplateData = []byte{1}
				s.TemplateName = "vorlage.xlsx"
			})
		}()
		go func() {
			defer wg.Done()
			_ = h.sessionSnapshot(7)
		}()
	}
	wg.Wait()

	got := h.sessionSnapshot(7)
	if got.TemplateName != "vorlage.xlsx" || got.TemplateData == nil {
		t.Fatalf("session lost updates: %+v", got)
	}
}
