package usecase

import (
	"sort"
	"strings"

	"github.com/yourusername/amazon-listing-agent/internal/domain/entity"
)

// buildOutputRow mahsulot ma'lumotlari, AI copy va aqlli default lardan
// bitta tayyor shablon qatorini yig'ish
func buildOutputRow(layout *entity.TemplateLayout, fields []entity.TemplateFieldSpec, product entity.ProductRecord, copy *entity.GeneratedCopy, productType string, rowNum int) entity.OutputRow {
	cells := make(map[int]string)

	setKey := func(name, value string) {
		if value == "" {
			return
		}
		if ref, ok := layout.KeyColumn(name); ok {
			cells[ref.Index] = value
		}
	}

	setKey("SKU", product.SKU)
	setKey("Product Type", productType)
	setKey("Title", copy.Title)
	setKey("Brand", attributeByStems(product, "marke", "brand"))
	setKey("EAN", attributeByStems(product, "ean", "gtin", "barcode"))
	setKey("Manufacturer", attributeByStems(product, "hersteller", "manufacturer", "marke", "brand"))
	setKey("Description", attributeByStems(product, "beschreibung", "description"))
	setKey("Material", attributeByStems(product, "material"))
	setKey("Color", attributeByStems(product, "farbe", "color", "colour"))

	for i, ref := range layout.BulletColumns() {
		if i < len(copy.Bullets) {
			cells[ref.Index] = copy.Bullets[i]
		}
	}

	// Bitta generic keyword ustuni bo'lsa barcha suchbegriff lar birga yoziladi
	termCols := layout.SearchTermColumns()
	switch {
	case len(termCols) == 1:
		cells[termCols[0].Index] = strings.Join(copy.SearchTerms, ", ")
	case len(termCols) > 1:
		for i, ref := range termCols {
			if i < len(copy.SearchTerms) {
				cells[ref.Index] = copy.SearchTerms[i]
			}
		}
	}

	var missing []string
	for _, spec := range fields {
		if _, exists := cells[spec.Column.Index]; exists {
			continue
		}

		value := matchAttribute(product, spec)
		if value == "" {
			value = defaultValue(spec)
		}
		if value != "" {
			cells[spec.Column.Index] = value
			continue
		}

		if spec.Required {
			missing = append(missing, spec.DisplayName)
		}
	}

	return entity.OutputRow{
		ProductID:       product.ID,
		SKU:             product.SKU,
		Row:             rowNum,
		Cells:           cells,
		MissingRequired: missing,
	}
}

// fieldSynonyms shablon maydon nomidagi stem -> mahsulot header stemlari
// (nemischa va inglizcha variantlar)
var fieldSynonyms = []struct {
	field string
	stems []string
}{
	{"external_product_id", []string{"ean", "gtin", "barcode"}},
	{"brand", []string{"marke", "brand"}},
	{"manufacturer", []string{"hersteller", "manufacturer"}},
	{"color", []string{"farbe", "color"}},
	{"material", []string{"material"}},
	{"description", []string{"beschreibung", "description"}},
	{"weight", []string{"gewicht", "weight"}},
	{"size", []string{"größe", "size"}},
}

// matchAttribute mahsulot atributini shablon maydoniga moslashtirish:
// ichki nom yoki ko'rinadigan nom bo'yicha (normalizatsiya bilan)
func matchAttribute(product entity.ProductRecord, spec entity.TemplateFieldSpec) string {
	name := normalizeHeader(spec.Name)
	display := normalizeHeader(spec.DisplayName)

	keys := sortedAttributeKeys(product)

	// Aniq mos kelish birinchi
	for _, key := range keys {
		norm := normalizeHeader(key)
		if norm == name || (display != "" && norm == display) {
			return product.Attributes[key]
		}
	}

	// Qisman mos kelish (qisqa nomlarda tasodifiy to'qnashuvni oldini olish)
	for _, key := range keys {
		norm := normalizeHeader(key)
		if len(norm) < 4 {
			continue
		}
		if strings.Contains(name, norm) || strings.Contains(display, norm) ||
			(len(display) >= 4 && strings.Contains(norm, display)) {
			return product.Attributes[key]
		}
	}

	// Ma'lum sinonimlar. Birlik ustunlariga qiymat yozib yubormaslik kerak.
	rawName := strings.ToLower(spec.Name)
	if !strings.Contains(rawName, "unit") && !strings.Contains(rawName, "einheit") {
		for _, fs := range fieldSynonyms {
			if !strings.Contains(rawName, fs.field) {
				continue
			}
			if val := attributeByStems(product, fs.stems...); val != "" {
				return val
			}
		}
	}

	return ""
}

// defaultValue maydon nomiga qarab aqlli default qiymat
func defaultValue(spec entity.TemplateFieldSpec) string {
	name := strings.ToLower(spec.Name + " " + spec.DisplayName)

	switch {
	case strings.Contains(name, "condition_type") ||
		(strings.Contains(name, "zustand") && !strings.Contains(name, "hinweis")):
		return "new_new"

	case strings.Contains(name, "fulfillment") || strings.Contains(name, "versandart"):
		return "DEFAULT"

	case strings.Contains(name, "batteries_required") || strings.Contains(name, "batterien erforderlich"):
		return "false"
	}

	if strings.Contains(name, "unit") || strings.Contains(name, "einheit") {
		return inferUnit(name)
	}

	return ""
}

// inferUnit o'lchov birligi maydonining nomidan birlikni aniqlash
func inferUnit(name string) string {
	switch {
	case containsAny(name, "gewicht", "weight"):
		return "kg"
	case containsAny(name, "volumen", "kapazität", "inhalt", "volume", "capacity"):
		return "ml"
	case containsAny(name, "größe", "länge", "breite", "höhe", "tiefe",
		"size", "length", "width", "height", "depth"):
		return "cm"
	}
	return ""
}

// attributeByStems berilgan stem lardan biriga mos atribut qiymatini topish
func attributeByStems(product entity.ProductRecord, stems ...string) string {
	for _, stem := range stems {
		if val := attributeByStem(product, stem); val != "" {
			return val
		}
	}
	return ""
}

// attributeByStem nomida stem uchraydigan atribut qiymatini topish
func attributeByStem(product entity.ProductRecord, stem string) string {
	for _, key := range sortedAttributeKeys(product) {
		if strings.Contains(normalizeHeader(key), normalizeHeader(stem)) {
			return product.Attributes[key]
		}
	}
	return ""
}

func sortedAttributeKeys(product entity.ProductRecord) []string {
	keys := make([]string, 0, len(product.Attributes))
	for key := range product.Attributes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// normalizeHeader header nomini solishtirish uchun normalizatsiya qilish
func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}

func containsAny(str string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(str, keyword) {
			return true
		}
	}
	return false
}
