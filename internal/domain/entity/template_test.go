package entity

import "testing"

func sampleLayout() *TemplateLayout {
	return &TemplateLayout{
		KeyColumns: map[string]ColumnRef{
			"Bullet Point 2": {Index: 6},
			"Bullet Point 1": {Index: 5},
			"Search Term 1":  {Index: 7},
		},
		InternalColumns: map[string]ColumnRef{
			"item_sku":   {Index: 0},
			"brand_name": {Index: 2},
			"item_name":  {Index: 3},
			"color_name": {Index: 4},
		},
		RequiredInternal: map[string]bool{
			"item_sku":   true,
			"brand_name": true,
		},
		DisplayNames: map[string]string{
			"item_sku":   "Verkäufer-SKU",
			"brand_name": "Marke",
		},
		ProductTypeRequired: map[string][]string{
			"kitchen": {"item_sku", "brand_name", "item_name"},
		},
	}
}

func TestBulletColumnsOrdered(t *testing.T) {
	layout := sampleLayout()

	bullets := layout.BulletColumns()
	if len(bullets) != 2 {
		t.Fatalf("expected 2 bullet columns, got %d", len(bullets))
	}
	if bullets[0].Index != 5 || bullets[1].Index != 6 {
		t.Fatalf("bullet columns out of order: %+v", bullets)
	}
}

func TestFieldsForProductTypeUsesPTDMap(t *testing.T) {
	layout := sampleLayout()

	fields := layout.FieldsForProductType("Kitchen")
	if len(fields) != 4 {
		t.Fatalf("expected all 4 internal columns, got %d", len(fields))
	}

	// Ustun tartibida
	if fields[0].Name != "item_sku" || fields[3].Name != "color_name" {
		t.Fatalf("fields out of column order: %s ... %s", fields[0].Name, fields[3].Name)
	}

	required := layout.RequiredFieldsForProductType("kitchen")
	if len(required) != 3 {
		t.Fatalf("expected 3 required fields for kitchen, got %d", len(required))
	}

	// Noma'lum product type - global majburiy ro'yxat ishlaydi
	required = layout.RequiredFieldsForProductType("unknown")
	if len(required) != 2 {
		t.Fatalf("expected 2 globally required fields, got %d", len(required))
	}
}

func TestFieldDisplayNameFallback(t *testing.T) {
	layout := sampleLayout()

	for _, spec := range layout.FieldsForProductType("") {
		if spec.Name == "item_name" && spec.DisplayName != "item_name" {
			t.Fatalf("expected internal name as display fallback, got %q", spec.DisplayName)
		}
		if spec.Name == "brand_name" && spec.DisplayName != "Marke" {
			t.Fatalf("expected display name Marke, got %q", spec.DisplayName)
		}
	}
}
