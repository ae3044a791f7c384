package centrisbrowser

import (
	"errors"
	"reflect"
	"testing"

	"centris-scraper-service/internal/core/domain"
)

const detailPageHTML = `<!DOCTYPE html>
<html><head>
<meta itemprop="name" content="Condo for sale in Ville-Marie">
<meta itemprop="priceCurrency" content="CAD">
<meta itemprop="price" content="450000">
</head><body>
<img itemprop="image" src="https://cdn.centris.ca/media/photo1.jpg">
<div id="MlsNumberNoStealth"><p> 12345678 </p></div>
<div itemprop="category"><div>Apartment</div></div>
<div class="address">
  <div>100, Rue Sainte-Catherine O.</div>
  <div>Ville-Marie (Montréal)</div>
  <div>Neighbourhood Centre-Ville</div>
</div>
<p class="organisation-name">Example Realty Inc.</p>
<span class="ll-match-score noAnimation" data-lat="45.508888" data-lng="-73.561668"></span>
<div itemprop="description">Bright corner unit with river views.</div>
<button class="photo-btn"><span>12</span></button>
<div itemtype="https://schema.org/RealEstateAgent">
  <div class="broker-info__broker-title">Jane Doe</div>
  <a itemprop="telephone" content="514-555-0001">514-555-0001</a>
</div>
<div itemtype="https://schema.org/RealEstateAgent">
  <div class="broker-info__broker-title">John Roe</div>
  <a itemprop="telephone" content="514-555-0001">514-555-0001</a>
  <a itemprop="telephone" content="514-555-0002">514-555-0002</a>
</div>
<div class="teaser">
  <div class="piece">8</div>
  <div class="cac">3</div>
  <div class="sdb">2</div>
  <div class="lifestyle"><span class="ll-score-color-default">78</span></div>
</div>
<div class="carac-container"><div class="carac-title">Year built</div><div class="carac-value">1998</div></div>
<div class="carac-container"><div class="carac-title">Parking (total)</div><div class="carac-value">Garage (1)</div></div>
<div class="walkscore"><span>85</span></div>
<div class="financial-details-tables">
  <div class="financial-details-table-yearly"><table class="table">
    <thead><tr><th class="financial-details-table-title">Municipal Taxes</th><th></th></tr></thead>
    <tbody>
      <tr><td>Municipal</td><td>$3,200</td></tr>
      <tr><td>School</td><td>$410</td></tr>
    </tbody>
    <tfoot><tr><td>Total</td><td>$3,610</td></tr></tfoot>
  </table></div>
  <div class="financial-details-table-monthly"><table class="table">
    <thead><tr><th class="financial-details-table-title">Condo Fees</th><th></th></tr></thead>
    <tbody><tr><td>Condominium fees</td><td>$340</td></tr></tbody>
  </table></div>
</div>
</body></html>`

func TestExtractPropertyRecordResidential(t *testing.T) {
	record, err := extractPropertyRecord(detailPageHTML, "https://www.centris.ca/en/property/12345678", "", nil)
	if err != nil {
		t.Fatalf("extractPropertyRecord returned error: %v", err)
	}

	if record.MetaName != "Condo for sale in Ville-Marie" {
		t.Errorf("MetaName = %q", record.MetaName)
	}
	if record.MLSNumber != "12345678" {
		t.Errorf("MLSNumber = %q, want trimmed 12345678", record.MLSNumber)
	}
	if record.PriceCurrency != "CAD" || record.Price != "450000" {
		t.Errorf("price = %q %q", record.PriceCurrency, record.Price)
	}
	if record.Category != "Apartment" {
		t.Errorf("Category = %q", record.Category)
	}
	if want := "100, Rue Sainte-Catherine O., Ville-Marie (Montréal)"; record.Address != want {
		t.Errorf("Address = %q, want first two lines only: %q", record.Address, want)
	}
	if record.Latitude != "45.508888" || record.Longitude != "-73.561668" {
		t.Errorf("coordinates = %q %q", record.Latitude, record.Longitude)
	}
	if record.PhotoCount != 12 {
		t.Errorf("PhotoCount = %d, want 12", record.PhotoCount)
	}
	wantAmenities := map[string]string{
		"Rooms":           "8",
		"Bedrooms":        "3",
		"Bathrooms":       "2",
		"LifestyleScore":  "78",
		"WalkScore":       "85",
		"Year built":      "1998",
		"Parking (total)": "Garage (1)",
	}
	if !reflect.DeepEqual(record.Amenities, wantAmenities) {
		t.Errorf("Amenities = %v, want %v", record.Amenities, wantAmenities)
	}
	if record.ListingCategory != domain.CategoryResidential {
		t.Errorf("ListingCategory = %q, want residential", record.ListingCategory)
	}
	if record.GoogleRating != "" {
		t.Errorf("GoogleRating = %q, want empty for residential", record.GoogleRating)
	}
	if len(record.AdditionalPhotoURLs) != 0 {
		t.Errorf("AdditionalPhotoURLs = %v, want empty", record.AdditionalPhotoURLs)
	}
}

func TestExtractPropertyRecordFinancialDetails(t *testing.T) {
	record, err := extractPropertyRecord(detailPageHTML, "https://example.com", "", nil)
	if err != nil {
		t.Fatalf("extractPropertyRecord returned error: %v", err)
	}

	want := map[string]string{
		"Municipal Taxes - Municipal (Yearly)":    "$3,200",
		"Municipal Taxes - School (Yearly)":       "$410",
		"Municipal Taxes - Total (Yearly)":        "$3,610",
		"Condo Fees - Condominium fees (Monthly)": "$340",
	}
	if !reflect.DeepEqual(record.FinancialDetails, want) {
		t.Errorf("FinancialDetails = %v, want %v", record.FinancialDetails, want)
	}
}

func TestExtractFinancialDetailsEdgeTables(t *testing.T) {
	html := `<html><body><div class="financial-details-tables">
<table class="table">
  <thead><tr><th class="financial-details-table-title">Standalone Fees</th><th></th></tr></thead>
  <tbody>
    <tr><td>Electricity</td><td>$90</td></tr>
    <tr><td>Heating</td><td></td></tr>
    <tr><td>Insurance</td><td>$50</td><td>extra</td></tr>
    <tr><th>Water</th><td>$20</td></tr>
  </tbody>
  <tfoot><tr><td>Total</td><td>$90</td></tr></tfoot>
</table>
<table class="table">
  <thead><tr><th></th><th></th></tr></thead>
  <tbody><tr><td>Orphan</td><td>$999</td></tr></tbody>
</table>
</div></body></html>`

	record, err := extractPropertyRecord(html, "https://example.com", "", nil)
	if err != nil {
		t.Fatalf("extractPropertyRecord returned error: %v", err)
	}

	want := map[string]string{
		"Standalone Fees - Electricity": "$90",
		"Standalone Fees - Total":       "$90",
	}
	if !reflect.DeepEqual(record.FinancialDetails, want) {
		t.Errorf("FinancialDetails = %v, want %v", record.FinancialDetails, want)
	}
}

func TestExtractAmenitiesSkipEmptyValues(t *testing.T) {
	html := `<html><body>
<div class="teaser"><div class="piece">5</div><div class="cac"></div></div>
<div class="carac-container"><div class="carac-title">Pool</div><div class="carac-value">  </div></div>
<div class="carac-container"><div class="carac-title">Year built</div><div class="carac-value">2005</div></div>
<div class="walkscore"><span></span></div>
</body></html>`

	record, err := extractPropertyRecord(html, "https://example.com", "", nil)
	if err != nil {
		t.Fatalf("extractPropertyRecord returned error: %v", err)
	}

	want := map[string]string{
		"Rooms":      "5",
		"Year built": "2005",
	}
	if !reflect.DeepEqual(record.Amenities, want) {
		t.Errorf("Amenities = %v, want blank values dropped: %v", record.Amenities, want)
	}
}

func TestExtractPropertyRecordPhoneDedup(t *testing.T) {
	record, err := extractPropertyRecord(detailPageHTML, "https://example.com", "", nil)
	if err != nil {
		t.Fatalf("extractPropertyRecord returned error: %v", err)
	}

	wantNames := []string{"Jane Doe", "John Roe"}
	if !reflect.DeepEqual(record.BrokerNames, wantNames) {
		t.Errorf("BrokerNames = %v, want %v", record.BrokerNames, wantNames)
	}
	wantPhones := []string{"514-555-0001", "514-555-0002"}
	if !reflect.DeepEqual(record.BrokerPhones, wantPhones) {
		t.Errorf("BrokerPhones = %v, want shared phone kept once: %v", record.BrokerPhones, wantPhones)
	}
}

func TestExtractPropertyRecordCommercialRating(t *testing.T) {
	html := `<html><body>
<div itemprop="category"><div>Commercial building for sale</div></div>
<p class="organisation-name">Example Realty Inc.</p>
<div class="address"><div>200, Boulevard Saint-Laurent</div></div>
</body></html>`

	tests := []struct {
		name   string
		lookup ratingLookupFunc
		want   string
	}{
		{
			name: "lookup success",
			lookup: func(name, address string) (string, error) {
				if name != "Example Realty Inc." {
					return "", errors.New("unexpected name")
				}
				return "4.2", nil
			},
			want: "4.2",
		},
		{
			name:   "lookup failure falls back",
			lookup: func(name, address string) (string, error) { return "", errors.New("blocked") },
			want:   "N/A",
		},
		{
			name:   "no lookup configured",
			lookup: nil,
			want:   "N/A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := extractPropertyRecord(html, "https://example.com", "", tt.lookup)
			if err != nil {
				t.Fatalf("extractPropertyRecord returned error: %v", err)
			}
			if record.ListingCategory != domain.CategoryCommercial {
				t.Fatalf("ListingCategory = %q, want commercial", record.ListingCategory)
			}
			if record.GoogleRating != tt.want {
				t.Errorf("GoogleRating = %q, want %q", record.GoogleRating, tt.want)
			}
		})
	}
}

func TestExtractPropertyRecordSparsePage(t *testing.T) {
	record, err := extractPropertyRecord("<html><body><p>nothing here</p></body></html>", "https://example.com/x", "", nil)
	if err != nil {
		t.Fatalf("extractPropertyRecord returned error: %v", err)
	}

	if record.URL != "https://example.com/x" {
		t.Errorf("URL = %q", record.URL)
	}
	if record.MLSNumber != "" {
		t.Errorf("MLSNumber = %q, want empty", record.MLSNumber)
	}
	if record.PhotoCount != 0 {
		t.Errorf("PhotoCount = %d, want 0 default", record.PhotoCount)
	}
	if record.Amenities == nil || len(record.Amenities) != 0 {
		t.Errorf("Amenities = %v, want empty non-nil map", record.Amenities)
	}
	if record.FinancialDetails == nil || len(record.FinancialDetails) != 0 {
		t.Errorf("FinancialDetails = %v, want empty non-nil map", record.FinancialDetails)
	}
	if record.ListingCategory != domain.CategoryOther {
		t.Errorf("ListingCategory = %q, want other for empty category", record.ListingCategory)
	}
}

func TestExtractPropertyRecordIdempotent(t *testing.T) {
	first, err := extractPropertyRecord(detailPageHTML, "https://example.com", "", nil)
	if err != nil {
		t.Fatalf("first extraction failed: %v", err)
	}
	second, err := extractPropertyRecord(detailPageHTML, "https://example.com", "", nil)
	if err != nil {
		t.Fatalf("second extraction failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two extractions of the same markup produced different records")
	}
}

func TestExtractPhotoCountBadLabels(t *testing.T) {
	tests := []struct {
		name  string
		label string
	}{
		{"non-numeric", "See photos"},
		{"negative", "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := `<html><body><button class="photo-btn"><span>` + tt.label + `</span></button></body></html>`
			record, err := extractPropertyRecord(html, "u", "", nil)
			if err != nil {
				t.Fatalf("extractPropertyRecord returned error: %v", err)
			}
			if record.PhotoCount != 0 {
				t.Errorf("PhotoCount = %d, want 0 for label %q", record.PhotoCount, tt.label)
			}
		})
	}
}

func TestExtractListingSummaries(t *testing.T) {
	html := `<html><body>
<div class="property-thumbnail-item">
  <a class="property-thumbnail-summary-link" href="/en/property/111"></a>
  <div class="property-thumbnail-summary"><div class="category">Condo for sale</div></div>
  <div class="price"><span>$450,000</span></div>
  <span class="address">100, Rue Sainte-Catherine O.</span>
  <img src="https://cdn.centris.ca/media/thumb1.jpg">
</div>
<div class="property-thumbnail-item">
  <a class="property-thumbnail-summary-link" href="https://www.centris.ca/en/property/222"></a>
  <div class="property-thumbnail-summary"><div class="category">Duplex for sale</div></div>
</div>
</body></html>`

	summaries, err := extractListingSummaries(html)
	if err != nil {
		t.Fatalf("extractListingSummaries returned error: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}

	first := summaries[0]
	if first.URL != "https://www.centris.ca/en/property/111" {
		t.Errorf("relative href not absolutized: %q", first.URL)
	}
	if first.Title != "Condo for sale" || first.Price != "$450,000" || first.Address != "100, Rue Sainte-Catherine O." {
		t.Errorf("summary fields = %+v", first)
	}
	if summaries[1].URL != "https://www.centris.ca/en/property/222" {
		t.Errorf("absolute href changed: %q", summaries[1].URL)
	}
}
