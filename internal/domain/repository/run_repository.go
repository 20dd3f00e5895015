package repository

import (
	"context"

	"github.com/yourusername/amazon-listing-agent/internal/domain/entity"
)

// RunRepository batch run tarixini saqlash uchun interface
type RunRepository interface {
	// SaveRun run natijasini saqlash
	SaveRun(ctx context.Context, report entity.RunReport) error

	// GetRecent so'nggi run larni olish
	GetRecent(ctx context.Context, limit int) ([]entity.RunReport, error)
}
