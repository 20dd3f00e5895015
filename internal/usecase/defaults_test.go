package usecase

import (
	"testing"

	"github.com/yourusername/amazon-listing-agent/internal/domain/entity"
)

func TestDefaultValue(t *testing.T) {
	cases := []struct {
		name    string
		display string
		want    string
	}{
		{"condition_type", "Zustand", "new_new"},
		{"fulfillment_center_id", "Versandart", "DEFAULT"},
		{"batteries_required", "Batterien erforderlich", "false"},
		{"item_weight_unit_of_measure", "", "kg"},
		{"item_volume_unit_of_measure", "Volumen Einheit", "ml"},
		{"item_length_unit_of_measure", "Länge Einheit", "cm"},
		{"condition_note", "Zustand Hinweis", ""},
		{"item_name", "Artikelname", ""},
	}

	for _, tc := range cases {
		spec := entity.TemplateFieldSpec{Name: tc.name, DisplayName: tc.display}
		if got := defaultValue(spec); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestMatchAttributeExactAndPartial(t *testing.T) {
	product := entity.ProductRecord{
		Attributes: map[string]string{
			"Marke":       "Acme",
			"EAN":         "4001234567890",
			"Material":    "Bambus",
			"Gewicht":     "0.5",
			"Artikelname": "Schneidebrett",
		},
	}

	cases := []struct {
		field   string
		display string
		want    string
	}{
		{"brand_name", "Marke", "Acme"},
		{"external_product_id", "Hersteller-Barcode", "4001234567890"},
		{"material_type", "Material", "Bambus"},
		{"item_name", "Artikelname", "Schneidebrett"},
		{"item_weight", "Artikelgewicht", "0.5"},
		{"wattage", "Leistung", ""},
	}

	for _, tc := range cases {
		spec := entity.TemplateFieldSpec{Name: tc.field, DisplayName: tc.display}
		if got := matchAttribute(product, spec); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.field, tc.want, got)
		}
	}
}

func TestMatchAttributeDoesNotFillUnitColumns(t *testing.T) {
	product := entity.ProductRecord{
		Attributes: map[string]string{"Gewicht": "0.5"},
	}

	spec := entity.TemplateFieldSpec{Name: "item_weight_unit_of_measure", DisplayName: ""}
	if got := matchAttribute(product, spec); got != "" {
		t.Fatalf("unit column must not take the weight value, got %q", got)
	}
}
