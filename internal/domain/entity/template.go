package entity

import (
	"sort"
	"strings"
)

// Dialect shablonning qator joylashuvi formati
type Dialect string

const (
	// DialectXML XML format: header 4-qator, data 7-qatordan
	DialectXML Dialect = "XML"

	// DialectFlatFile Flat File format: header 2-qator, data 4-qatordan
	DialectFlatFile Dialect = "FLAT_FILE"
)

// ColumnRef ustun manzili
type ColumnRef struct {
	Column string // Ustun harfi ("D", "CC")
	Index  int    // 0-based indeks
	Row    int    // Header topilgan qator (1-based)
}

// TemplateFieldSpec bitta shablon maydoni tavsifi
type TemplateFieldSpec struct {
	Name         string // Ichki atribut nomi (internal row dan)
	DisplayName  string // Ko'rinadigan nomi (Lokale Bezeichnung)
	Column       ColumnRef
	Required     bool
	DefaultValue string
}

// TemplateLayout shablon tahlili natijasi
type TemplateLayout struct {
	File         string
	Dialect      Dialect
	SheetName    string
	HeaderRow    int
	InternalRow  int // 0 = yo'q
	ExampleRow   int // 0 = yo'q (faqat XML format)
	DataStartRow int
	TotalColumns int

	// Ko'rinadigan header bo'yicha topilgan asosiy ustunlar
	KeyColumns map[string]ColumnRef

	// Ichki atribut nomi -> ustun (internal row dan)
	InternalColumns map[string]ColumnRef

	// Datendefinitionen dan olingan maydonlar
	RequiredFields   []string // Ko'rinadigan nomlar
	OptionalFields   []string
	RequiredInternal map[string]bool   // Ichki atribut nomlari
	DisplayNames     map[string]string // Ichki nom -> ko'rinadigan nom

	// AttributePTDMAP: product type -> majburiy ichki atributlar
	ProductTypeRequired map[string][]string

	// Gültige Werte: product type -> browse node lar
	BrowseNodes map[string][]string

	ProductTypes []string

	// Example qatoridan olingan product type (faqat XML format, bo'sh bo'lishi mumkin)
	ExampleProductType string
}

// KeyColumn asosiy ustunni olish
func (t *TemplateLayout) KeyColumn(name string) (ColumnRef, bool) {
	ref, ok := t.KeyColumns[name]
	return ref, ok
}

// BulletColumns bullet point ustunlarini tartib bilan olish
func (t *TemplateLayout) BulletColumns() []ColumnRef {
	return t.numberedColumns("Bullet Point ")
}

// SearchTermColumns suchbegriff ustunlarini tartib bilan olish
func (t *TemplateLayout) SearchTermColumns() []ColumnRef {
	return t.numberedColumns("Search Term ")
}

func (t *TemplateLayout) numberedColumns(prefix string) []ColumnRef {
	type numbered struct {
		key string
		ref ColumnRef
	}
	var found []numbered
	for key, ref := range t.KeyColumns {
		if strings.HasPrefix(key, prefix) {
			found = append(found, numbered{key: key, ref: ref})
		}
	}
	sort.Slice(found, func(i, j int) bool {
		return found[i].key < found[j].key
	})
	refs := make([]ColumnRef, 0, len(found))
	for _, n := range found {
		refs = append(refs, n.ref)
	}
	return refs
}

// FieldsForProductType product type uchun majburiy va ixtiyoriy maydonlar
// (ustun pozitsiyalari bilan, shablon ustun tartibida)
func (t *TemplateLayout) FieldsForProductType(productType string) []TemplateFieldSpec {
	pt := strings.ToLower(strings.TrimSpace(productType))

	// Product type uchun maxsus majburiy atributlar (agar PTD map bo'lsa)
	required := make(map[string]bool, len(t.RequiredInternal))
	if attrs, ok := t.ProductTypeRequired[pt]; ok && len(attrs) > 0 {
		for _, attr := range attrs {
			required[attr] = true
		}
	} else {
		for attr := range t.RequiredInternal {
			required[attr] = true
		}
	}

	specs := make([]TemplateFieldSpec, 0, len(t.InternalColumns))
	for name, ref := range t.InternalColumns {
		display := t.DisplayNames[name]
		if display == "" {
			display = name
		}
		specs = append(specs, TemplateFieldSpec{
			Name:        name,
			DisplayName: display,
			Column:      ref,
			Required:    required[name],
		})
	}

	sort.Slice(specs, func(i, j int) bool {
		return specs[i].Column.Index < specs[j].Column.Index
	})
	return specs
}

// RequiredFieldsForProductType product type uchun majburiy maydonlar ro'yxati
func (t *TemplateLayout) RequiredFieldsForProductType(productType string) []TemplateFieldSpec {
	var required []TemplateFieldSpec
	for _, spec := range t.FieldsForProductType(productType) {
		if spec.Required {
			required = append(required, spec)
		}
	}
	return required
}
