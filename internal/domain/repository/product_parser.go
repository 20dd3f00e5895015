package repository

import (
	"context"

	"github.com/yourusername/amazon-listing-agent/internal/domain/entity"
)

// ProductParser mahsulot fayllarini parse qilish uchun interface
type ProductParser interface {
	// ParseProducts Excel fayldan mahsulotlarni o'qish
	ParseProducts(ctx context.Context, filePath string) ([]entity.ProductRecord, error)

	// ParseProductsFromBytes byte array dan parse qilish
	ParseProductsFromBytes(ctx context.Context, data []byte, filename string) ([]entity.ProductRecord, error)
}
