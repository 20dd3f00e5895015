package repository

import (
	"context"

	"github.com/yourusername/amazon-listing-agent/internal/domain/entity"
)

// CopyGenerator AI orqali listing kontenti yaratish uchun interface
type CopyGenerator interface {
	// GenerateCopy mahsulot uchun titel, bullet va suchbegriff yaratish
	GenerateCopy(ctx context.Context, product entity.ProductRecord) (*entity.GeneratedCopy, error)
}
