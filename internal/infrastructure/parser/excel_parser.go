package parser

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/amazon-listing-agent/internal/domain/entity"
	"github.com/yourusername/amazon-listing-agent/internal/domain/repository"
)

type productParser struct{}

// NewProductParser yangi mahsulot fayl parseri yaratish
func NewProductParser() repository.ProductParser {
	return &productParser{}
}

// ParseProducts Excel fayldan mahsulotlarni o'qish
func (p *productParser) ParseProducts(ctx context.Context, filePath string) ([]entity.ProductRecord, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	return p.parseExcelFile(f)
}

// ParseProductsFromBytes byte array dan parse qilish
func (p *productParser) ParseProductsFromBytes(ctx context.Context, data []byte, filename string) ([]entity.ProductRecord, error) {
	reader := bytes.NewReader(data)
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel from bytes: %w", err)
	}
	defer f.Close()

	return p.parseExcelFile(f)
}

// parseExcelFile Excel faylni parse qilish
func (p *productParser) parseExcelFile(f *excelize.File) ([]entity.ProductRecord, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	sheetName := sheets[0]
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("excel file is empty")
	}

	log.Printf("📋 Product sheet: %s, total rows: %d", sheetName, len(rows))

	headerRowIdx := p.detectHeaderRow(rows)
	header := rows[headerRowIdx]
	log.Printf("🗺️ Header row: %d (%d columns)", headerRowIdx+1, len(header))

	skuCol := p.detectSKUColumn(header)

	var products []entity.ProductRecord

	for i := headerRowIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		attributes := make(map[string]string)
		for colIdx, raw := range row {
			value := strings.TrimSpace(raw)
			if value == "" {
				continue
			}

			key := fmt.Sprintf("Spalte_%d", colIdx+1)
			if colIdx < len(header) && strings.TrimSpace(header[colIdx]) != "" {
				key = strings.TrimSpace(header[colIdx])
			}
			attributes[key] = value
		}

		if len(attributes) == 0 {
			continue
		}

		sku := ""
		if skuCol >= 0 && skuCol < len(row) {
			sku = strings.TrimSpace(row[skuCol])
		}
		if sku == "" {
			// SKU ustuni bo'lmasa vaqtinchalik identifikator
			sku = fmt.Sprintf("ROW-%d", i+1)
		}

		products = append(products, entity.ProductRecord{
			ID:         uuid.New().String(),
			SKU:        sku,
			Attributes: attributes,
			RowIndex:   i + 1,
		})

		log.Printf("✅ Found product: %s (%d attributes)", sku, len(attributes))
	}

	log.Printf("📦 Total products parsed: %d", len(products))

	if len(products) == 0 {
		return nil, fmt.Errorf("no valid products found in excel file (checked %d rows)", len(rows))
	}

	return products, nil
}

// detectHeaderRow eng ko'p matnli katakka ega qatorni header deb olish
// (birinchi 5 qator ichida)
func (p *productParser) detectHeaderRow(rows [][]string) int {
	bestRow := 0
	bestScore := 0

	limit := 5
	if limit > len(rows) {
		limit = len(rows)
	}

	for i := 0; i < limit; i++ {
		score := 0
		for _, raw := range rows[i] {
			val := strings.TrimSpace(raw)
			if len(val) > 2 && !isNumeric(val) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestRow = i
		}
	}

	return bestRow
}

// detectSKUColumn SKU/identifikator ustunini topish
func (p *productParser) detectSKUColumn(header []string) int {
	for i, raw := range header {
		h := strings.ToLower(strings.TrimSpace(raw))
		if contains(h, "sku", "asin", "artikel-nr", "artikelnummer", "artikelnr", "product_id") {
			log.Printf("✅ Mapped SKU to column %d ('%s')", i, strings.TrimSpace(raw))
			return i
		}
	}

	// EAN/GTIN zaxira identifikator sifatida
	for i, raw := range header {
		h := strings.ToLower(strings.TrimSpace(raw))
		if contains(h, "ean", "gtin", "barcode") {
			log.Printf("⚠️ No SKU column, using EAN column %d as identifier", i)
			return i
		}
	}

	return -1
}

// isEmptyRow qator bo'sh yoki yo'qligini tekshirish
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// isNumeric qiymat faqat raqamlardan iboratligini tekshirish
func isNumeric(val string) bool {
	cleaned := strings.ReplaceAll(val, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	if cleaned == "" {
		return false
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// contains tekshirish uchun helper
func contains(str string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(str, keyword) {
			return true
		}
	}
	return false
}
