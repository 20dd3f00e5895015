package template

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/xuri/excelize/v2"
	"github.com/yourusername/amazon-listing-agent/internal/domain/entity"
	"github.com/yourusername/amazon-listing-agent/internal/domain/repository"
)

type templateWriter struct{}

// NewTemplateWriter yangi template writer yaratish
func NewTemplateWriter() repository.TemplateWriter {
	return &templateWriter{}
}

// Fill shablonni to'ldirib yangi faylga saqlash
func (w *templateWriter) Fill(ctx context.Context, templatePath string, layout *entity.TemplateLayout, rows []entity.OutputRow, outPath string) error {
	f, err := excelize.OpenFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to open template file: %w", err)
	}
	defer f.Close()

	if err := w.fillWorkbook(f, layout, rows); err != nil {
		return err
	}

	if err := f.SaveAs(outPath); err != nil {
		return fmt.Errorf("failed to save output workbook: %w", err)
	}

	log.Printf("💾 Output workbook saved: %s (%d rows)", outPath, len(rows))
	return nil
}

// FillFromBytes shablon baytlarini to'ldirib natija baytlarini qaytarish
func (w *templateWriter) FillFromBytes(ctx context.Context, data []byte, layout *entity.TemplateLayout, rows []entity.OutputRow) ([]byte, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open template from bytes: %w", err)
	}
	defer f.Close()

	if err := w.fillWorkbook(f, layout, rows); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write output workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// fillWorkbook qatorlarni aniqlangan ustun pozitsiyalariga yozish.
// Faqat resolved kataklar o'zgaradi - formulalar va formatlash tegilmaydi.
func (w *templateWriter) fillWorkbook(f *excelize.File, layout *entity.TemplateLayout, rows []entity.OutputRow) error {
	filled := 0

	for _, row := range rows {
		for colIdx, value := range row.Cells {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, row.Row)
			if err != nil {
				return fmt.Errorf("invalid cell position col=%d row=%d: %w", colIdx, row.Row, err)
			}
			if err := f.SetCellValue(layout.SheetName, cell, value); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
			filled++
		}

		if len(row.MissingRequired) > 0 {
			log.Printf("⚠️ Row %d (%s): missing required fields: %v", row.Row, row.SKU, row.MissingRequired)
		}
	}

	log.Printf("✅ Filled %d cells across %d rows in sheet %s", filled, len(rows), layout.SheetName)
	return nil
}
