package entity

// ProductRecord bitta mahsulot qatori (ustun nomi -> qiymat)
type ProductRecord struct {
	ID         string
	SKU        string
	Attributes map[string]string
	RowIndex   int // Manba fayldagi qator raqami (1-based)
}
