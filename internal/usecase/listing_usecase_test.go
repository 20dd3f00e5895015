package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/yourusername/amazon-listing-agent/internal/domain/entity"
)

type fakeResolver struct {
	layout *entity.TemplateLayout
}

func (f *fakeResolver) Resolve(ctx context.Context, filePath string) (*entity.TemplateLayout, error) {
	return f.layout, nil
}

func (f *fakeResolver) ResolveFromBytes(ctx context.Context, data []byte, filename string) (*entity.TemplateLayout, error) {
	return f.layout, nil
}

type fakeParser struct {
	products []entity.ProductRecord
}

func (f *fakeParser) ParseProducts(ctx context.Context, filePath string) ([]entity.ProductRecord, error) {
	return f.products, nil
}

func (f *fakeParser) ParseProductsFromBytes(ctx context.Context, data []byte, filename string) ([]entity.ProductRecord, error) {
	return f.products, nil
}

type fakeGenerator struct {
	failSKU string
}

func (f *fakeGenerator) GenerateCopy(ctx context.Context, product entity.ProductRecord) (*entity.GeneratedCopy, error) {
	if product.SKU == f.failSKU {
		return nil, &entity.GenerationError{SKU: product.SKU, Reason: "malformed response"}
	}

	bullets := make([]string, entity.BulletPointCount)
	terms := make([]string, entity.SearchTermCount)
	for i := range bullets {
		bullets[i] = fmt.Sprintf("PUNKT %d - Detail für %s", i+1, product.SKU)
	}
	for i := range terms {
		terms[i] = fmt.Sprintf("begriff%d", i+1)
	}

	return &entity.GeneratedCopy{
		Title:       "Titel für " + product.SKU,
		Bullets:     bullets,
		SearchTerms: terms,
	}, nil
}

type fakeWriter struct {
	rows []entity.OutputRow
}

func (f *fakeWriter) Fill(ctx context.Context, templatePath string, layout *entity.TemplateLayout, rows []entity.OutputRow, outPath string) error {
	f.rows = rows
	return nil
}

func (f *fakeWriter) FillFromBytes(ctx context.Context, data []byte, layout *entity.TemplateLayout, rows []entity.OutputRow) ([]byte, error) {
	f.rows = rows
	return []byte("filled"), nil
}

func testLayout() *entity.TemplateLayout {
	headerRow := 2
	internalRow := 3
	col := func(index, row int) entity.ColumnRef {
		return entity.ColumnRef{Index: index, Row: row}
	}

	return &entity.TemplateLayout{
		Dialect:      entity.DialectFlatFile,
		SheetName:    "Vorlage",
		HeaderRow:    headerRow,
		InternalRow:  internalRow,
		DataStartRow: 4,
		KeyColumns: map[string]entity.ColumnRef{
			"SKU":            col(0, headerRow),
			"Product Type":   col(1, headerRow),
			"Brand":          col(2, headerRow),
			"Title":          col(3, headerRow),
			"Bullet Point 1": col(5, headerRow),
			"Bullet Point 2": col(6, headerRow),
			"Search Term 1":  col(7, headerRow),
		},
		InternalColumns: map[string]entity.ColumnRef{
			"item_sku":                    col(0, internalRow),
			"feed_product_type":           col(1, internalRow),
			"brand_name":                  col(2, internalRow),
			"item_name":                   col(3, internalRow),
			"external_product_id":         col(4, internalRow),
			"bullet_point1":               col(5, internalRow),
			"bullet_point2":               col(6, internalRow),
			"generic_keywords":            col(7, internalRow),
			"condition_type":              col(8, internalRow),
			"fulfillment_center_id":       col(9, internalRow),
			"batteries_required":          col(10, internalRow),
			"item_weight_unit_of_measure": col(11, internalRow),
			"material_type":               col(12, internalRow),
		},
		RequiredInternal: map[string]bool{
			"item_sku":       true,
			"brand_name":     true,
			"item_name":      true,
			"condition_type": true,
			"material_type":  true,
		},
		DisplayNames: map[string]string{
			"item_sku":            "Verkäufer-SKU",
			"brand_name":          "Marke",
			"item_name":           "Artikelname",
			"external_product_id": "Hersteller-Barcode",
			"condition_type":      "Zustand",
			"material_type":       "Material",
		},
	}
}

func testProduct(sku string) entity.ProductRecord {
	return entity.ProductRecord{
		ID:  "id-" + sku,
		SKU: sku,
		Attributes: map[string]string{
			"Artikelnummer": sku,
			"Marke":         "Acme",
			"EAN":           "4001234567890",
		},
	}
}

func TestRunBytesPartialFailure(t *testing.T) {
	writer := &fakeWriter{}
	uc := NewListingUseCase(
		&fakeResolver{layout: testLayout()},
		&fakeParser{products: []entity.ProductRecord{
			testProduct("X1"), testProduct("X2"), testProduct("X3"),
		}},
		&fakeGenerator{failSKU: "X2"},
		writer,
		nil,
		1,
	)

	output, report, err := uc.RunBytes(context.Background(), []byte("tpl"), []byte("prod"), "vorlage.xlsx", "produkte.xlsx", "kitchen")
	if err != nil {
		t.Fatalf("RunBytes failed: %v", err)
	}
	if len(output) == 0 {
		t.Fatalf("expected output bytes")
	}

	if report.Total != 3 {
		t.Fatalf("expected 3 total products, got %d", report.Total)
	}
	if report.Succeeded != 2 {
		t.Fatalf("expected 2 succeeded, got %d", report.Succeeded)
	}
	if len(report.Failures) != 1 || report.Failures[0].SKU != "X2" {
		t.Fatalf("expected failure for X2, got %+v", report.Failures)
	}

	if len(writer.rows) != 2 {
		t.Fatalf("expected 2 written rows, got %d", len(writer.rows))
	}

	// Muvaffaqiyatli qatorlar ketma-ket, bo'sh oraliq yo'q
	if writer.rows[0].Row != 4 || writer.rows[1].Row != 5 {
		t.Fatalf("expected rows 4 and 5, got %d and %d", writer.rows[0].Row, writer.rows[1].Row)
	}
	if writer.rows[0].SKU != "X1" || writer.rows[1].SKU != "X3" {
		t.Fatalf("unexpected row order: %s, %s", writer.rows[0].SKU, writer.rows[1].SKU)
	}
}

func TestRunBytesRowContents(t *testing.T) {
	writer := &fakeWriter{}
	uc := NewListingUseCase(
		&fakeResolver{layout: testLayout()},
		&fakeParser{products: []entity.ProductRecord{testProduct("X1")}},
		&fakeGenerator{},
		writer,
		nil,
		1,
	)

	_, report, err := uc.RunBytes(context.Background(), []byte("tpl"), []byte("prod"), "vorlage.xlsx", "produkte.xlsx", "kitchen")
	if err != nil {
		t.Fatalf("RunBytes failed: %v", err)
	}
	if report.ProductType != "kitchen" {
		t.Fatalf("expected explicit product type, got %q", report.ProductType)
	}

	row := writer.rows[0]
	if row.Cells[0] != "X1" {
		t.Fatalf("expected SKU in column 0, got %q", row.Cells[0])
	}
	if row.Cells[1] != "kitchen" {
		t.Fatalf("expected product type in column 1, got %q", row.Cells[1])
	}
	if row.Cells[2] != "Acme" {
		t.Fatalf("expected brand in column 2, got %q", row.Cells[2])
	}
	if row.Cells[3] != "Titel für X1" {
		t.Fatalf("expected title in column 3, got %q", row.Cells[3])
	}
	if row.Cells[5] == "" || row.Cells[6] == "" {
		t.Fatalf("expected bullet points in columns 5 and 6: %+v", row.Cells)
	}

	// Bitta generic keyword ustuni - barcha suchbegriff lar birga
	if row.Cells[7] != "begriff1, begriff2, begriff3, begriff4, begriff5" {
		t.Fatalf("unexpected search terms: %q", row.Cells[7])
	}

	// Aqlli default lar
	if row.Cells[8] != "new_new" {
		t.Fatalf("expected condition default new_new, got %q", row.Cells[8])
	}
	if row.Cells[9] != "DEFAULT" {
		t.Fatalf("expected fulfillment default DEFAULT, got %q", row.Cells[9])
	}
	if row.Cells[10] != "false" {
		t.Fatalf("expected batteries default false, got %q", row.Cells[10])
	}
	if row.Cells[11] != "kg" {
		t.Fatalf("expected weight unit kg, got %q", row.Cells[11])
	}

	// EAN mahsulot atributidan mos kelishi kerak (Hersteller-Barcode)
	if row.Cells[4] != "4001234567890" {
		t.Fatalf("expected EAN matched to barcode column, got %q", row.Cells[4])
	}

	// Material hech qayerdan topilmadi - majburiy maydon sifatida belgilanadi
	if len(row.MissingRequired) != 1 || row.MissingRequired[0] != "Material" {
		t.Fatalf("expected Material flagged as missing, got %v", row.MissingRequired)
	}
}

func TestResolveProductTypePrecedence(t *testing.T) {
	uc := &listingUseCase{}

	layout := testLayout()
	layout.ExampleProductType = "furniture"
	products := []entity.ProductRecord{{
		SKU:        "X1",
		Attributes: map[string]string{"Produkttyp": "toys"},
	}}

	if got := uc.resolveProductType(layout, products, "kitchen"); got != "kitchen" {
		t.Fatalf("explicit type should win, got %q", got)
	}
	if got := uc.resolveProductType(layout, products, ""); got != "furniture" {
		t.Fatalf("example row type should win over attributes, got %q", got)
	}

	layout.ExampleProductType = ""
	if got := uc.resolveProductType(layout, products, ""); got != "toys" {
		t.Fatalf("expected product type from attributes, got %q", got)
	}

	products[0].Attributes = map[string]string{}
	layout.ProductTypes = []string{"kitchen"}
	if got := uc.resolveProductType(layout, products, ""); got != "kitchen" {
		t.Fatalf("expected single defined-name type, got %q", got)
	}
}

func TestRunRequiresOutputFile(t *testing.T) {
	uc := NewListingUseCase(&fakeResolver{}, &fakeParser{}, &fakeGenerator{}, &fakeWriter{}, nil, 1)

	if _, err := uc.Run(context.Background(), RunInput{ProductFile: "a", TemplateFile: "b"}); err == nil {
		t.Fatalf("expected error when output file is missing")
	}
}
