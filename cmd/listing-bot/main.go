package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/yourusername/amazon-listing-agent/config"
	"github.com/yourusername/amazon-listing-agent/internal/delivery/telegram"
	"github.com/yourusername/amazon-listing-agent/internal/infrastructure/gemini"
	"github.com/yourusername/amazon-listing-agent/internal/infrastructure/parser"
	"github.com/yourusername/amazon-listing-agent/internal/infrastructure/storage"
	"github.com/yourusername/amazon-listing-agent/internal/infrastructure/template"
	"github.com/yourusername/amazon-listing-agent/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Konfiguratsiya xatosi: %v", err)
	}

	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN environment variable bo'sh")
	}

	generator, err := gemini.NewCopyGenerator(cfg.GeminiAPIKey, cfg.SystemPrompt)
	if err != nil {
		log.Fatalf("Gemini client yaratib bo'lmadi: %v", err)
	}

	runRepo, err := storage.NewSQLiteRunRepository(cfg.RunDBPath)
	if err != nil {
		log.Printf("⚠️ Run tarixi ishlamaydi: %v", err)
		runRepo = storage.NewMemoryRunRepository()
	}

	listingUseCase := usecase.NewListingUseCase(
		template.NewTemplateResolver(),
		parser.NewProductParser(),
		generator,
		template.NewTemplateWriter(),
		runRepo,
		cfg.MaxParallel,
	)

	handler, err := telegram.NewBotHandler(cfg.TelegramToken, listingUseCase)
	if err != nil {
		log.Fatalf("Bot yaratib bo'lmadi: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("To'xtatish signali qabul qilindi...")
		cancel()
	}()

	if err := handler.Start(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Bot xatosi: %v", err)
	}
}
