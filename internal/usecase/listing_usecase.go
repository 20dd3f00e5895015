package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/amazon-listing-agent/internal/domain/entity"
	"github.com/yourusername/amazon-listing-agent/internal/domain/repository"
)

// RunInput bitta batch run uchun kirish parametrlari
type RunInput struct {
	ProductFile  string
	TemplateFile string
	OutputFile   string
	ProductType  string // bo'sh bo'lsa avtomatik aniqlanadi
	Limit        int    // 0 = barcha mahsulotlar
}

// ListingUseCase listing yaratish business logic
type ListingUseCase interface {
	// Run fayllardan o'qib, to'ldirilgan shablonni diskka yozish
	Run(ctx context.Context, input RunInput) (*entity.RunReport, error)

	// RunBytes xotiradagi fayllar bilan ishlash (bot upload uchun)
	RunBytes(ctx context.Context, templateData, productData []byte, templateName, productName, productType string) ([]byte, *entity.RunReport, error)

	// RecentRuns so'nggi run tarixini olish
	RecentRuns(ctx context.Context, limit int) ([]entity.RunReport, error)
}

type listingUseCase struct {
	resolver    repository.TemplateResolver
	parser      repository.ProductParser
	generator   repository.CopyGenerator
	writer      repository.TemplateWriter
	runs        repository.RunRepository
	maxParallel int
}

// NewListingUseCase yangi ListingUseCase yaratish
func NewListingUseCase(
	resolver repository.TemplateResolver,
	parser repository.ProductParser,
	generator repository.CopyGenerator,
	writer repository.TemplateWriter,
	runs repository.RunRepository,
	maxParallel int,
) ListingUseCase {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &listingUseCase{
		resolver:    resolver,
		parser:      parser,
		generator:   generator,
		writer:      writer,
		runs:        runs,
		maxParallel: maxParallel,
	}
}

// Run fayllardan o'qib, to'ldirilgan shablonni diskka yozish
func (u *listingUseCase) Run(ctx context.Context, input RunInput) (*entity.RunReport, error) {
	if input.OutputFile == "" {
		return nil, errors.New("output file ko'rsatilishi kerak")
	}

	started := time.Now()

	layout, err := u.resolver.Resolve(ctx, input.TemplateFile)
	if err != nil {
		return nil, err
	}

	products, err := u.parser.ParseProducts(ctx, input.ProductFile)
	if err != nil {
		return nil, err
	}
	products = limitProducts(products, input.Limit)

	rows, failures, productType, err := u.process(ctx, layout, products, input.ProductType)
	if err != nil {
		return nil, err
	}

	if err := u.writer.Fill(ctx, input.TemplateFile, layout, rows, input.OutputFile); err != nil {
		return nil, err
	}

	report := u.buildReport(input.ProductFile, input.TemplateFile, input.OutputFile,
		productType, layout.Dialect, len(products), rows, failures, started)

	u.saveReport(ctx, report)
	return report, nil
}

// RunBytes xotiradagi fayllar bilan ishlash (bot upload uchun)
func (u *listingUseCase) RunBytes(ctx context.Context, templateData, productData []byte, templateName, productName, productType string) ([]byte, *entity.RunReport, error) {
	started := time.Now()

	layout, err := u.resolver.ResolveFromBytes(ctx, templateData, templateName)
	if err != nil {
		return nil, nil, err
	}

	products, err := u.parser.ParseProductsFromBytes(ctx, productData, productName)
	if err != nil {
		return nil, nil, err
	}

	rows, failures, resolvedType, err := u.process(ctx, layout, products, productType)
	if err != nil {
		return nil, nil, err
	}

	output, err := u.writer.FillFromBytes(ctx, templateData, layout, rows)
	if err != nil {
		return nil, nil, err
	}

	report := u.buildReport(productName, templateName, "",
		resolvedType, layout.Dialect, len(products), rows, failures, started)

	u.saveReport(ctx, report)
	return output, report, nil
}

// RecentRuns so'nggi run tarixini olish
func (u *listingUseCase) RecentRuns(ctx context.Context, limit int) ([]entity.RunReport, error) {
	if u.runs == nil {
		return nil, nil
	}
	return u.runs.GetRecent(ctx, limit)
}

// process asosiy oqim: product type -> AI copy -> qatorlarni yig'ish.
// Bitta mahsulot xatosi butun batch ni to'xtatmaydi.
func (u *listingUseCase) process(ctx context.Context, layout *entity.TemplateLayout, products []entity.ProductRecord, explicitType string) ([]entity.OutputRow, []entity.ProductFailure, string, error) {
	if len(products) == 0 {
		return nil, nil, "", errors.New("mahsulotlar topilmadi")
	}

	productType := u.resolveProductType(layout, products, explicitType)
	log.Printf("📦 Product type: %q (dialect: %s)", productType, layout.Dialect)

	fields := layout.FieldsForProductType(productType)
	log.Printf("📊 Template fields for product type: %d", len(fields))

	copies := u.generateAll(ctx, products)

	var rows []entity.OutputRow
	var failures []entity.ProductFailure

	for i, product := range products {
		result := copies[i]
		if result.err != nil {
			reason := result.err.Error()
			var genErr *entity.GenerationError
			if errors.As(result.err, &genErr) {
				reason = genErr.Reason
				if genErr.Err != nil {
					reason = fmt.Sprintf("%s: %v", genErr.Reason, genErr.Err)
				}
			}
			log.Printf("⚠️ Skipping product %s: %s", product.SKU, reason)
			failures = append(failures, entity.ProductFailure{SKU: product.SKU, Reason: reason})
			continue
		}

		// Muvaffaqiyatli qatorlar ketma-ket joylashadi, bo'sh oraliq qolmaydi
		rowNum := layout.DataStartRow + len(rows)
		row := buildOutputRow(layout, fields, product, result.copy, productType, rowNum)
		rows = append(rows, row)
	}

	log.Printf("✅ Batch complete: %d/%d products succeeded", len(rows), len(products))
	return rows, failures, productType, nil
}

type copyResult struct {
	copy *entity.GeneratedCopy
	err  error
}

// generateAll barcha mahsulotlar uchun AI copy yaratish.
// maxParallel dan oshmaydigan parallel so'rovlar, natijalar kirish tartibida.
func (u *listingUseCase) generateAll(ctx context.Context, products []entity.ProductRecord) []copyResult {
	results := make([]copyResult, len(products))

	if u.maxParallel <= 1 {
		for i, product := range products {
			log.Printf("🔍 Generating copy %d/%d: %s", i+1, len(products), product.SKU)
			c, err := u.generator.GenerateCopy(ctx, product)
			results[i] = copyResult{copy: c, err: err}
		}
		return results
	}

	sem := make(chan struct{}, u.maxParallel)
	var wg sync.WaitGroup
	for i, product := range products {
		wg.Add(1)
		go func(i int, product entity.ProductRecord) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			c, err := u.generator.GenerateCopy(ctx, product)
			results[i] = copyResult{copy: c, err: err}
		}(i, product)
	}
	wg.Wait()
	return results
}

// resolveProductType product type ni aniqlash: aniq ko'rsatilgan ->
// example qator -> mahsulot atributi -> yagona defined name
func (u *listingUseCase) resolveProductType(layout *entity.TemplateLayout, products []entity.ProductRecord, explicit string) string {
	if explicit != "" {
		return explicit
	}

	if layout.ExampleProductType != "" {
		log.Printf("🗺️ Product type from template example row: %s", layout.ExampleProductType)
		return layout.ExampleProductType
	}

	for _, key := range []string{"feed_product_type", "produkttyp", "product_type", "produktart"} {
		if val := attributeByStem(products[0], key); val != "" {
			log.Printf("🗺️ Product type from product data: %s", val)
			return val
		}
	}

	if len(layout.ProductTypes) == 1 {
		log.Printf("🗺️ Product type from template defined names: %s", layout.ProductTypes[0])
		return layout.ProductTypes[0]
	}

	return ""
}

func (u *listingUseCase) buildReport(productFile, templateFile, outputFile, productType string, dialect entity.Dialect, total int, rows []entity.OutputRow, failures []entity.ProductFailure, started time.Time) *entity.RunReport {
	return &entity.RunReport{
		ID:           uuid.New().String(),
		ProductFile:  productFile,
		TemplateFile: templateFile,
		OutputFile:   outputFile,
		ProductType:  productType,
		Dialect:      dialect,
		Total:        total,
		Succeeded:    len(rows),
		Failures:     failures,
		StartedAt:    started,
		FinishedAt:   time.Now(),
	}
}

// saveReport run tarixini saqlash, xato run natijasini buzmaydi
func (u *listingUseCase) saveReport(ctx context.Context, report *entity.RunReport) {
	if u.runs == nil {
		return
	}
	if err := u.runs.SaveRun(ctx, *report); err != nil {
		log.Printf("⚠️ Failed to save run history: %v", err)
	}
}

func limitProducts(products []entity.ProductRecord, limit int) []entity.ProductRecord {
	if limit > 0 && len(products) > limit {
		log.Printf("📋 Limiting batch to first %d of %d products", limit, len(products))
		return products[:limit]
	}
	return products
}
