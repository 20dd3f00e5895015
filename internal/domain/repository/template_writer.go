package repository

import (
	"context"

	"github.com/yourusername/amazon-listing-agent/internal/domain/entity"
)

// TemplateWriter tayyor qatorlarni shablon nusxasiga yozish uchun interface
type TemplateWriter interface {
	// Fill shablonni to'ldirib yangi faylga saqlash
	Fill(ctx context.Context, templatePath string, layout *entity.TemplateLayout, rows []entity.OutputRow, outPath string) error

	// FillFromBytes shablon baytlarini to'ldirib natija baytlarini qaytarish
	FillFromBytes(ctx context.Context, data []byte, layout *entity.TemplateLayout, rows []entity.OutputRow) ([]byte, error)
}
