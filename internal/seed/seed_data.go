package seed

import (
	"fmt"

	"centris-scraper-service/internal/core/domain"
)

var streets = []string{
	"Rue Sainte-Catherine O.", "Boulevard Saint-Laurent", "Avenue du Parc",
	"Rue Sherbrooke E.", "Chemin de la Cote-des-Neiges", "Rue Notre-Dame O.",
}

var districts = []string{
	"Ville-Marie (Montréal)", "Le Plateau-Mont-Royal (Montréal)",
	"Rosemont/La Petite-Patrie (Montréal)", "Verdun/Île-des-Soeurs (Montréal)",
}

var categoryTitles = map[domain.ListingCategory]string{
	domain.CategoryCommercial:  "Commercial unit for sale",
	domain.CategoryResidential: "Condo for sale",
}

var pageCategories = map[domain.ListingCategory]string{
	domain.CategoryCommercial:  "Commercial",
	domain.CategoryResidential: "Apartment",
}

// GenerateProperties создает детерминированный набор тестовых объектов.
// Нечетные записи идут как коммерческие, у них заполнен рейтинг.
func GenerateProperties(n int) []domain.PropertyRecord {
	records := make([]domain.PropertyRecord, 0, n)
	for i := 0; i < n; i++ {
		category := domain.CategoryResidential
		if i%2 == 1 {
			category = domain.CategoryCommercial
		}

		mls := fmt.Sprintf("%08d", 10000000+i)
		street := streets[i%len(streets)]
		district := districts[i%len(districts)]

		rec := domain.PropertyRecord{
			MetaName:        fmt.Sprintf("%s - %s", categoryTitles[category], street),
			URL:             fmt.Sprintf("https://www.centris.ca/en/property/%s", mls),
			ImageURL:        fmt.Sprintf("https://example.com/photos/%s.jpg", mls),
			MLSNumber:       mls,
			PriceCurrency:   "CAD",
			Price:           fmt.Sprintf("%d", 250000+i*10000),
			Category:        pageCategories[category],
			Address:         fmt.Sprintf("%d, %s, %s", 100+i, street, district),
			Organization:    "Example Realty Inc.",
			Latitude:        fmt.Sprintf("%.6f", 45.50+float64(i)*0.001),
			Longitude:       fmt.Sprintf("%.6f", -73.56-float64(i)*0.001),
			Description:     fmt.Sprintf("Seeded listing #%d on %s.", i+1, street),
			BrokerNames:     []string{fmt.Sprintf("Broker %c. Example", 'A'+i%26)},
			BrokerPhones:    []string{fmt.Sprintf("514-555-%04d", 1000+i)},
			PhotoCount:      3 + i%7,
			ListingCategory: category,
			Amenities: map[string]string{
				"Rooms":           fmt.Sprintf("%d", 3+i%6),
				"Bedrooms":        fmt.Sprintf("%d", 1+i%4),
				"Bathrooms":       fmt.Sprintf("%d", 1+i%3),
				"LifestyleScore":  fmt.Sprintf("%d", 50+i%50),
				"WalkScore":       fmt.Sprintf("%d", 60+i%40),
				"Year built":      fmt.Sprintf("%d", 1980+i%40),
				"Parking (total)": fmt.Sprintf("%d", 1+i%3),
			},
			FinancialDetails: map[string]string{
				"Municipal Taxes - Total (Yearly)": fmt.Sprintf("$%d", 2500+i*50),
				"School Taxes - Total (Yearly)":    fmt.Sprintf("$%d", 300+i*10),
			},
		}
		if category == domain.CategoryCommercial {
			rec.GoogleRating = fmt.Sprintf("%.1f", 3.5+float64(i%15)*0.1)
		}

		records = append(records, rec)
	}
	return records
}
