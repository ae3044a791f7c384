package seed

import (
	"reflect"
	"testing"

	"centris-scraper-service/internal/core/domain"
)

func TestGeneratePropertiesShape(t *testing.T) {
	records := GenerateProperties(10)
	if len(records) != 10 {
		t.Fatalf("got %d records, want 10", len(records))
	}

	seenMLS := map[string]bool{}
	for i, rec := range records {
		if rec.MLSNumber == "" {
			t.Fatalf("record %d has empty mlsNumber", i)
		}
		if seenMLS[rec.MLSNumber] {
			t.Fatalf("duplicate mlsNumber %q", rec.MLSNumber)
		}
		seenMLS[rec.MLSNumber] = true

		wantCategory := domain.CategoryResidential
		if i%2 == 1 {
			wantCategory = domain.CategoryCommercial
		}
		if rec.ListingCategory != wantCategory {
			t.Errorf("record %d category = %q, want %q", i, rec.ListingCategory, wantCategory)
		}

		if rec.ListingCategory == domain.CategoryCommercial && rec.GoogleRating == "" {
			t.Errorf("commercial record %d has no rating", i)
		}
		if rec.ListingCategory == domain.CategoryResidential && rec.GoogleRating != "" {
			t.Errorf("residential record %d has rating %q", i, rec.GoogleRating)
		}

		if len(rec.Amenities) == 0 || len(rec.FinancialDetails) == 0 {
			t.Errorf("record %d has empty maps", i)
		}
	}
}

func TestGeneratePropertiesDeterministic(t *testing.T) {
	first := GenerateProperties(5)
	second := GenerateProperties(5)
	if !reflect.DeepEqual(first, second) {
		t.Error("two generations must produce identical records")
	}
}
