package template

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/yourusername/amazon-listing-agent/internal/domain/entity"
	"github.com/yourusername/amazon-listing-agent/internal/domain/repository"
)

// Metadata sheet nomlari (Amazon DE shablonlari)
const (
	dataDefinitionsSheet = "Datendefinitionen"
	attributePTDSheet    = "AttributePTDMAP"
	validValuesSheet     = "Gültige Werte"
)

// Header qatorlarini shu tartibda tekshiramiz: Flat File (2), XML (4), keyin qolganlari
var headerProbeRows = []int{2, 4, 1, 3, 5}

var numberRe = regexp.MustCompile(`\d+`)

type templateResolver struct{}

// NewTemplateResolver yangi template resolver yaratish
func NewTemplateResolver() repository.TemplateResolver {
	return &templateResolver{}
}

// Resolve shablon faylini tahlil qilish
func (r *templateResolver) Resolve(ctx context.Context, filePath string) (*entity.TemplateLayout, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open template file: %w", err)
	}
	defer f.Close()

	return r.resolveWorkbook(f, filePath)
}

// ResolveFromBytes byte array dan tahlil qilish
func (r *templateResolver) ResolveFromBytes(ctx context.Context, data []byte, filename string) (*entity.TemplateLayout, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open template from bytes: %w", err)
	}
	defer f.Close()

	return r.resolveWorkbook(f, filename)
}

// resolveWorkbook to'liq tahlil: sheet topish, dialekt, metadata
func (r *templateResolver) resolveWorkbook(f *excelize.File, filename string) (*entity.TemplateLayout, error) {
	log.Printf("🔍 Analyzing template: %s", filename)

	sheetName, err := r.findDataSheet(f, filename)
	if err != nil {
		return nil, err
	}
	log.Printf("📋 Found data sheet: %s", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}

	layout, err := r.detectLayout(rows, sheetName, filename)
	if err != nil {
		return nil, err
	}

	layout.ProductTypes = r.findProductTypes(f)

	if err := r.parseDataDefinitions(f, layout); err != nil {
		return nil, err
	}

	layout.ProductTypeRequired = r.parseAttributePTDMap(f, layout.RequiredInternal)
	layout.BrowseNodes = r.parseBrowseNodes(f)
	layout.ExampleProductType = exampleProductType(f, layout)

	log.Printf("📊 Template format detected: %s", layout.Dialect)
	log.Printf("📊 Header row: %d, data starts: %d", layout.HeaderRow, layout.DataStartRow)
	log.Printf("📦 Product types: %d, required fields: %d, optional fields: %d",
		len(layout.ProductTypes), len(layout.RequiredFields), len(layout.OptionalFields))

	return layout, nil
}

// findDataSheet asosiy data sheet ni topish (Vorlage)
func (r *templateResolver) findDataSheet(f *excelize.File, filename string) (string, error) {
	sheets := f.GetSheetList()

	for _, name := range sheets {
		if name == "Vorlage" {
			return name, nil
		}
	}

	for _, name := range sheets {
		if strings.Contains(strings.ToLower(name), "vorlage") {
			return name, nil
		}
	}

	// Fallback: katta hajmdagi birinchi sheet
	for _, name := range sheets {
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}
		maxCols := 0
		for _, row := range rows {
			if len(row) > maxCols {
				maxCols = len(row)
			}
		}
		if len(rows) > 10 && maxCols > 10 {
			return name, nil
		}
	}

	return "", &entity.ConfigurationError{File: filename, Reason: "data entry sheet (Vorlage) not found"}
}

// detectLayout header qatorini qidirib dialektni aniqlash
func (r *templateResolver) detectLayout(rows [][]string, sheetName, filename string) (*entity.TemplateLayout, error) {
	for _, probeRow := range headerProbeRows {
		rowData := map[int]string{}
		for colIdx, raw := range rowAt(rows, probeRow) {
			if val := strings.TrimSpace(raw); val != "" {
				rowData[colIdx+1] = val
			}
		}

		// Ko'p ustunli qator - header bo'lishi mumkin
		if len(rowData) > 5 {
			return r.analyzeHeaderRow(rows, sheetName, filename, probeRow, rowData)
		}
	}

	return nil, &entity.RecognitionError{File: filename, Reason: "no clear header row found"}
}

// analyzeHeaderRow header qatoridan ustun mapping va dialektni olish
func (r *templateResolver) analyzeHeaderRow(rows [][]string, sheetName, filename string, headerRow int, rowData map[int]string) (*entity.TemplateLayout, error) {
	log.Printf("🗺️ Analyzing header row: %d (%d columns)", headerRow, len(rowData))

	var dialect entity.Dialect
	var skuCol, productTypeCol, brandCol, titleCol, offerActionCol, updateDeleteCol int

	for colIdx, header := range rowData {
		h := strings.ToLower(header)

		// SKU - aniq mos kelishlar va birinchi ustunlar ustun
		if strings.Contains(h, "sku") && !strings.Contains(h, "vendor") {
			if skuCol == 0 || h == "sku" || h == "seller-sku" || h == "verkäufer-sku" || colIdx <= 2 {
				skuCol = colIdx
			}
		}

		if strings.Contains(h, "produkttyp") || (strings.Contains(h, "product") && strings.Contains(h, "type")) {
			productTypeCol = colIdx
		}

		if strings.Contains(h, "marke") || strings.Contains(h, "brand") {
			brandCol = colIdx
		}

		if strings.Contains(h, "artikelname") || strings.Contains(h, "produktname") ||
			(strings.Contains(h, "item") && strings.Contains(h, "name")) {
			titleCol = colIdx
		}

		// Angebotsaktion - XML format belgisi
		if strings.Contains(h, "angebotsaktion") || (strings.Contains(h, "offer") && strings.Contains(h, "action")) {
			offerActionCol = colIdx
			dialect = entity.DialectXML
		}

		// update_delete - Flat File belgisi
		if (strings.Contains(h, "update") && strings.Contains(h, "delete")) || strings.Contains(h, "update_delete") {
			updateDeleteCol = colIdx
			dialect = entity.DialectFlatFile
		}
	}

	keyColumns := r.mapKeyColumns(rowData, headerRow)

	addKey := func(name string, col int) {
		if col > 0 {
			keyColumns[name] = columnRef(col, headerRow)
		}
	}
	addKey("SKU", skuCol)
	addKey("Product Type", productTypeCol)
	addKey("Brand", brandCol)
	addKey("Title", titleCol)
	addKey("Offer Action", offerActionCol)
	addKey("Update/Delete", updateDeleteCol)

	// Belgi ustunlari topilmasa - product type pozitsiyasiga qarab aniqlaymiz.
	// Flat File da produkttyp 1-ustunda (A), SKU esa B da turadi.
	if dialect == "" {
		if productTypeCol == 1 {
			dialect = entity.DialectFlatFile
		} else {
			dialect = entity.DialectXML
		}
	}

	// Qator tuzilishi: XML 4/5/6/7, Flat File 2/3/4
	var internalRow, exampleRow, dataStartRow int
	if dialect == entity.DialectXML {
		if headerRow == 4 {
			internalRow = headerRow + 1
			exampleRow = headerRow + 2
			dataStartRow = headerRow + 3
		} else {
			internalRow = headerRow + 1
			dataStartRow = headerRow + 1
		}
	} else {
		if headerRow == 2 {
			internalRow = headerRow + 1
			dataStartRow = headerRow + 2
		} else {
			internalRow = headerRow + 1
			dataStartRow = headerRow + 1
		}
	}

	// Ichki atribut nomlari header dan keyingi qatorda
	internalColumns := map[string]entity.ColumnRef{}
	for colIdx := range rowData {
		name := strings.TrimSpace(cellAt(rows, internalRow, colIdx))
		if name != "" {
			internalColumns[name] = columnRef(colIdx, internalRow)
		}
	}

	totalColumns := 0
	for _, row := range rows {
		if len(row) > totalColumns {
			totalColumns = len(row)
		}
	}

	return &entity.TemplateLayout{
		File:            filename,
		Dialect:         dialect,
		SheetName:       sheetName,
		HeaderRow:       headerRow,
		InternalRow:     internalRow,
		ExampleRow:      exampleRow,
		DataStartRow:    dataStartRow,
		TotalColumns:    totalColumns,
		KeyColumns:      keyColumns,
		InternalColumns: internalColumns,
	}, nil
}

// mapKeyColumns header matnlaridan atribut ustunlarini topish
// (nemischa va inglizcha variantlar)
func (r *templateResolver) mapKeyColumns(rowData map[int]string, headerRow int) map[string]entity.ColumnRef {
	keyColumns := map[string]entity.ColumnRef{}

	addOnce := func(name string, col int) {
		if _, exists := keyColumns[name]; !exists {
			keyColumns[name] = columnRef(col, headerRow)
		}
	}

	for colIdx, header := range rowData {
		h := strings.ToLower(header)

		switch {
		case contains(h, "ean", "gtin", "barcode"):
			addOnce("EAN", colIdx)
		case contains(h, "material"):
			addOnce("Material", colIdx)
		case contains(h, "farbe", "color", "colour"):
			addOnce("Color", colIdx)
		case contains(h, "größe", "size", "dimension"):
			addOnce("Size", colIdx)
		case contains(h, "gewicht", "weight"):
			addOnce("Weight", colIdx)
		case contains(h, "beschreibung", "description"):
			addOnce("Description", colIdx)
		case contains(h, "hersteller", "manufacturer"):
			addOnce("Manufacturer", colIdx)
		}

		// Bullet point ustunlari raqamlangan
		if contains(h, "aufzählungspunkt", "bullet") {
			if num := numberRe.FindString(header); num != "" {
				addOnce("Bullet Point "+num, colIdx)
			}
		}

		// Suchbegriff ustunlari raqamlangan
		if contains(h, "suchbegriff", "search term", "generic_keyword") {
			if num := numberRe.FindString(header); num != "" {
				addOnce("Search Term "+num, colIdx)
			}
		}
	}

	return keyColumns
}

// findProductTypes defined name lardan product type ro'yxatini olish
func (r *templateResolver) findProductTypes(f *excelize.File) []string {
	var productTypes []string

	for _, dn := range f.GetDefinedName() {
		nameLower := strings.ToLower(dn.Name)
		isProductTypeRange := (strings.Contains(nameLower, "product") &&
			strings.Contains(nameLower, "type") &&
			strings.Contains(nameLower, "value")) ||
			nameLower == "feed_product_type"
		if !isProductTypeRange {
			continue
		}

		sheetName, col, rowStart, ok := parseRangeRef(dn.RefersTo)
		if !ok {
			continue
		}

		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}

		emptyStreak := 0
		for rowIdx := rowStart; rowIdx < rowStart+200 && rowIdx <= len(rows); rowIdx++ {
			val := strings.TrimSpace(cellAt(rows, rowIdx, col))
			if val != "" {
				emptyStreak = 0
				if !containsString(productTypes, val) {
					productTypes = append(productTypes, val)
				}
				continue
			}
			// 3 tadan ortiq topilgandan keyin ketma-ket bo'sh kataklar - oxiri
			if len(productTypes) > 3 {
				emptyStreak++
				if emptyStreak >= 3 {
					break
				}
			}
		}

		if len(productTypes) > 0 {
			break
		}
	}

	return productTypes
}

// parseDataDefinitions Datendefinitionen dan majburiy/ixtiyoriy maydonlarni o'qish
func (r *templateResolver) parseDataDefinitions(f *excelize.File, layout *entity.TemplateLayout) error {
	if !containsString(f.GetSheetList(), dataDefinitionsSheet) {
		return &entity.ConfigurationError{File: layout.File, Reason: dataDefinitionsSheet + " sheet not found"}
	}

	rows, err := f.GetRows(dataDefinitionsSheet)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", dataDefinitionsSheet, err)
	}

	// Haqiqiy headerlar 2-qatorda
	const headerRow = 2
	findColumn := func(keyword string) int {
		for colIdx, raw := range rowAt(rows, headerRow) {
			if strings.Contains(strings.ToLower(raw), keyword) {
				return colIdx + 1
			}
		}
		return 0
	}

	pflichtCol := findColumn("pflichtfeld")
	localCol := findColumn("lokale")
	fieldnameCol := findColumn("feldname")

	if pflichtCol == 0 || localCol == 0 || fieldnameCol == 0 {
		return &entity.ConfigurationError{
			File:   layout.File,
			Reason: "Pflichtfeld/Lokale Bezeichnung/Feldname columns not found in " + dataDefinitionsSheet,
		}
	}

	layout.RequiredInternal = map[string]bool{}
	layout.DisplayNames = map[string]string{}

	for rowIdx := headerRow + 1; rowIdx <= len(rows); rowIdx++ {
		pfText := strings.ToLower(strings.TrimSpace(cellAt(rows, rowIdx, pflichtCol)))
		localText := strings.TrimSpace(cellAt(rows, rowIdx, localCol))
		fieldName := strings.TrimSpace(cellAt(rows, rowIdx, fieldnameCol))

		if pfText == "" && localText == "" {
			continue
		}

		if fieldName != "" && localText != "" {
			layout.DisplayNames[fieldName] = localText
		}

		if pfText == "" {
			continue
		}

		if strings.Contains(pfText, "pflicht") || strings.Contains(pfText, "erforder") {
			if localText != "" {
				layout.RequiredFields = append(layout.RequiredFields, localText)
			}
			if fieldName != "" {
				layout.RequiredInternal[fieldName] = true
			}
		} else if strings.Contains(pfText, "optional") {
			if localText != "" {
				layout.OptionalFields = append(layout.OptionalFields, localText)
			}
		}
	}

	log.Printf("✅ Parsed %d required, %d optional fields (%d required internal attributes)",
		len(layout.RequiredFields), len(layout.OptionalFields), len(layout.RequiredInternal))

	return nil
}

// parseAttributePTDMap product type bo'yicha majburiy atributlar (ixtiyoriy sheet)
func (r *templateResolver) parseAttributePTDMap(f *excelize.File, requiredInternal map[string]bool) map[string][]string {
	mapping := map[string][]string{}

	if !containsString(f.GetSheetList(), attributePTDSheet) {
		return mapping
	}

	rows, err := f.GetRows(attributePTDSheet)
	if err != nil {
		log.Printf("⚠️ Failed to read %s: %v", attributePTDSheet, err)
		return mapping
	}

	// 1-qator: product typelar (2-ustundan boshlab)
	type ptCol struct {
		col int
		pt  string
	}
	var productTypes []ptCol
	for colIdx, raw := range rowAt(rows, 1) {
		if colIdx == 0 {
			continue
		}
		if pt := strings.ToLower(strings.TrimSpace(raw)); pt != "" {
			productTypes = append(productTypes, ptCol{col: colIdx + 1, pt: pt})
		}
	}
	if len(productTypes) == 0 {
		return mapping
	}

	for rowIdx := 2; rowIdx <= len(rows); rowIdx++ {
		attribute := strings.TrimSpace(cellAt(rows, rowIdx, 1))
		if attribute == "" || !requiredInternal[attribute] {
			continue
		}

		for _, pc := range productTypes {
			val := strings.ToLower(strings.TrimSpace(cellAt(rows, rowIdx, pc.col)))
			switch val {
			case "", "0", "no", "false", "nein":
				continue
			}
			mapping[pc.pt] = append(mapping[pc.pt], attribute)
		}
	}

	return mapping
}

// parseBrowseNodes Gültige Werte dan product type -> browse node mapping
func (r *templateResolver) parseBrowseNodes(f *excelize.File) map[string][]string {
	browseNodes := map[string][]string{}

	if !containsString(f.GetSheetList(), validValuesSheet) {
		return browseNodes
	}

	rows, err := f.GetRows(validValuesSheet)
	if err != nil {
		log.Printf("⚠️ Failed to read %s: %v", validValuesSheet, err)
		return browseNodes
	}

	bracketRe := regexp.MustCompile(`\[([^\]]+)\]`)

	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		label := row[1]
		if !strings.Contains(strings.ToLower(label), "produktkategorisierung") {
			continue
		}

		match := bracketRe.FindStringSubmatch(label)
		if match == nil {
			continue
		}

		productType := strings.ToLower(strings.TrimSpace(match[1]))
		var values []string
		for _, raw := range row[2:] {
			if val := strings.TrimSpace(raw); val != "" {
				values = append(values, val)
			}
		}
		if len(values) > 0 {
			browseNodes[productType] = values
		}
	}

	return browseNodes
}

// exampleProductType example qatoridan product type ni olish (XML format)
func exampleProductType(f *excelize.File, layout *entity.TemplateLayout) string {
	if layout.ExampleRow == 0 {
		return ""
	}
	ptCol, ok := layout.KeyColumn("Product Type")
	if !ok {
		return ""
	}
	cell, err := excelize.CoordinatesToCellName(ptCol.Index+1, layout.ExampleRow)
	if err != nil {
		return ""
	}
	val, err := f.GetCellValue(layout.SheetName, cell)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(val)
}

// rowAt 1-based qatorni olish (mavjud bo'lmasa bo'sh)
func rowAt(rows [][]string, row int) []string {
	if row < 1 || row > len(rows) {
		return nil
	}
	return rows[row-1]
}

// cellAt 1-based qator/ustun bo'yicha katak qiymati
func cellAt(rows [][]string, row, col int) string {
	r := rowAt(rows, row)
	if col < 1 || col > len(r) {
		return ""
	}
	return r[col-1]
}

// columnRef 1-based ustundan ColumnRef yasash
func columnRef(col, row int) entity.ColumnRef {
	name, _ := excelize.ColumnNumberToName(col)
	return entity.ColumnRef{Column: name, Index: col - 1, Row: row}
}

// parseRangeRef "'Sheet'!$B$5:$B$200" ko'rinishidagi referensni parse qilish
func parseRangeRef(ref string) (sheet string, col int, rowStart int, ok bool) {
	if ref == "" || !strings.Contains(ref, "!") {
		return "", 0, 0, false
	}

	parts := strings.SplitN(ref, "!", 2)
	sheet = strings.Trim(parts[0], "'")
	rangePart := parts[1]

	if !strings.Contains(rangePart, "$") {
		return "", 0, 0, false
	}

	segments := strings.Split(rangePart, "$")
	if len(segments) < 3 {
		return "", 0, 0, false
	}

	colLetter := segments[1]
	rowText := strings.SplitN(segments[2], ":", 2)[0]

	colNum, err := excelize.ColumnNameToNumber(colLetter)
	if err != nil {
		return "", 0, 0, false
	}
	row, err := strconv.Atoi(rowText)
	if err != nil {
		return "", 0, 0, false
	}

	return sheet, colNum, row, true
}

// contains tekshirish uchun helper
func contains(str string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(str, keyword) {
			return true
		}
	}
	return false
}

func containsString(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}
