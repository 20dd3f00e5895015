package repository

import (
	"context"

	"github.com/yourusername/amazon-listing-agent/internal/domain/entity"
)

// TemplateResolver Amazon shablon tuzilishini aniqlash uchun interface
type TemplateResolver interface {
	// Resolve shablon faylini tahlil qilish
	Resolve(ctx context.Context, filePath string) (*entity.TemplateLayout, error)

	// ResolveFromBytes byte array dan tahlil qilish
	ResolveFromBytes(ctx context.Context, data []byte, filename string) (*entity.TemplateLayout, error)
}
