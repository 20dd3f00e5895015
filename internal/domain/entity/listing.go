package entity

import "time"

// Amazon maydon chegaralari (bytes)
const (
	MaxTitleBytes      = 200
	MaxBulletBytes     = 250
	MaxSearchTermBytes = 249

	BulletPointCount = 5
	SearchTermCount  = 5
)

// GeneratedCopy AI yaratgan listing kontenti
type GeneratedCopy struct {
	Title       string
	Bullets     []string // Har doim 5 ta
	SearchTerms []string // Har doim 5 ta
}

// OutputRow shablonga yoziladigan bitta tayyor qator
type OutputRow struct {
	ProductID string
	SKU       string
	Row       int            // Shablondagi qator raqami (1-based)
	Cells     map[int]string // 0-based ustun indeksi -> qiymat

	// Default bilan ham to'lmagan majburiy maydonlar (hech qachon
	// indamasdan bo'sh qoldirilmaydi)
	MissingRequired []string
}

// ProductFailure bitta mahsulot uchun generation xatosi
type ProductFailure struct {
	SKU    string
	Reason string
}

// RunReport bitta batch run natijasi
type RunReport struct {
	ID           string
	ProductFile  string
	TemplateFile string
	OutputFile   string
	ProductType  string
	Dialect      Dialect
	Total        int
	Succeeded    int
	Failures     []ProductFailure
	StartedAt    time.Time
	FinishedAt   time.Time
}
