package domain

import "testing"

func TestClassifyListingCategory(t *testing.T) {
	tests := []struct {
		name         string
		hint         ListingCategory
		pageCategory string
		want         ListingCategory
	}{
		{"hint wins over page text", CategoryCommercial, "Apartment", CategoryCommercial},
		{"residential hint wins", CategoryResidential, "Commercial building", CategoryResidential},
		{"commercial substring", "", "Commercial building for sale", CategoryCommercial},
		{"business substring", "", "Business opportunity", CategoryCommercial},
		{"case insensitive", "", "COMMERCIAL unit", CategoryCommercial},
		{"empty category", "", "", CategoryOther},
		{"anything else is residential", "", "Two or more storey", CategoryResidential},
		{"unknown hint falls back to page", "warehouse", "Apartment", CategoryResidential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyListingCategory(tt.hint, tt.pageCategory); got != tt.want {
				t.Errorf("ClassifyListingCategory(%q, %q) = %q, want %q", tt.hint, tt.pageCategory, got, tt.want)
			}
		})
	}
}
