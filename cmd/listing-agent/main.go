package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yourusername/amazon-listing-agent/config"
	"github.com/yourusername/amazon-listing-agent/internal/infrastructure/gemini"
	"github.com/yourusername/amazon-listing-agent/internal/infrastructure/parser"
	"github.com/yourusername/amazon-listing-agent/internal/infrastructure/storage"
	"github.com/yourusername/amazon-listing-agent/internal/infrastructure/template"
	"github.com/yourusername/amazon-listing-agent/internal/usecase"
)

func main() {
	var (
		productFile  = flag.String("products", "", "mahsulot ma'lumotlari Excel fayli")
		templateFile = flag.String("template", "", "Amazon shablon fayli (Vorlage yoki Flat File)")
		outputFile   = flag.String("out", "", "natija fayl yo'li (bo'sh bo'lsa avtomatik)")
		productType  = flag.String("product-type", "", "product type (bo'sh bo'lsa avtomatik aniqlanadi)")
		limit        = flag.Int("limit", 0, "faqat birinchi N mahsulotni qayta ishlash (0 = hammasi)")
	)
	flag.Parse()

	if *productFile == "" || *templateFile == "" {
		fmt.Fprintln(os.Stderr, "Foydalanish: listing-agent -products <fayl> -template <fayl> [-out <fayl>] [-product-type <nomi>] [-limit N]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Konfiguratsiya xatosi: %v", err)
	}

	out := *outputFile
	if out == "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			log.Fatalf("Output papkasini yaratib bo'lmadi: %v", err)
		}
		// Kengaytma saqlanadi - xlsm shablonlardagi makrolar yo'qolmasligi kerak
		ext := filepath.Ext(*templateFile)
		if ext == "" {
			ext = ".xlsx"
		}
		base := strings.TrimSuffix(filepath.Base(*templateFile), ext)
		out = filepath.Join(cfg.OutputDir, fmt.Sprintf("%s_filled_%s%s", base, time.Now().Format("20060102_150405"), ext))
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

	report, err := listingUseCase.Run(context.Background(), usecase.RunInput{
		ProductFile:  *productFile,
		TemplateFile: *templateFile,
		OutputFile:   out,
		ProductType:  *productType,
		Limit:        *limit,
	})
	if err != nil {
		log.Fatalf("Run xatosi: %v", err)
	}

	log.Printf("✅ Tayyor: %s", report.OutputFile)
	log.Printf("📊 %d/%d mahsulot muvaffaqiyatli (product type: %s, format: %s)",
		report.Succeeded, report.Total, report.ProductType, report.Dialect)
	for _, f := range report.Failures {
		log.Printf("⚠️ O'tkazib yuborildi %s: %s", f.SKU, f.Reason)
	}
}
