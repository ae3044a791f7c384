package domain

import "strings"

// ListingCategory - классификация объявления. Определяется один раз при извлечении
// и дальше не пересчитывается.
type ListingCategory string

const (
	CategoryResidential ListingCategory = "residential"
	CategoryCommercial  ListingCategory = "commercial"
	CategoryOther       ListingCategory = "other"
)

// ClassifyListingCategory выбирает категорию объявления.
// Подсказка от источника (hint) имеет приоритет над текстом категории со страницы.
func ClassifyListingCategory(hint ListingCategory, pageCategory string) ListingCategory {
	if hint == CategoryResidential || hint == CategoryCommercial {
		return hint
	}
	lowered := strings.ToLower(pageCategory)
	switch {
	case strings.Contains(lowered, "commercial"), strings.Contains(lowered, "business"):
		return CategoryCommercial
	case lowered == "":
		return CategoryOther
	default:
		return CategoryResidential
	}
}

// PropertyRecord - это главная структура объекта недвижимости, извлеченная со страницы деталей.
// Все скалярные поля строковые: источник отдает их как текст, а отсутствующее
// значение представляется пустой строкой, а не ошибкой извлечения.
type PropertyRecord struct {
	MetaName      string `bson:"metaName" json:"metaName"`
	URL           string `bson:"url" json:"url"`
	ImageURL      string `bson:"imageUrl" json:"imageUrl"`
	MLSNumber     string `bson:"mlsNumber" json:"mlsNumber"`
	PriceCurrency string `bson:"priceCurrency" json:"priceCurrency"`
	Price         string `bson:"price" json:"price"`
	Category      string `bson:"category" json:"category"`
	Address       string `bson:"address" json:"address"`
	Organization  string `bson:"organizationName" json:"organizationName"`
	Latitude      string `bson:"latitude" json:"latitude"`
	Longitude     string `bson:"longitude" json:"longitude"`
	Description   string `bson:"description" json:"description"`

	// Счетчики тизера (Rooms, Bedrooms, Bathrooms, LifestyleScore, WalkScore)
	// лежат в карте удобств вместе со строками таблицы характеристик.
	Amenities        map[string]string `bson:"amenities" json:"amenities"`
	FinancialDetails map[string]string `bson:"financialDetails" json:"financialDetails"`

	BrokerNames  []string `bson:"brokerNames" json:"brokerNames"`
	BrokerPhones []string `bson:"brokerPhones" json:"brokerPhones"`

	PhotoCount int `bson:"photoCount" json:"photoCount"`
	// Галерея источника подгружается лениво, поэтому список пока всегда пустой.
	AdditionalPhotoURLs []string `bson:"additionalPhotoUrls" json:"additionalPhotoUrls"`

	ListingCategory ListingCategory `bson:"listingCategory" json:"listingCategory"`
	// Заполняется только для коммерческих объектов, иначе пустая строка.
	GoogleRating string `bson:"googleRating,omitempty" json:"googleRating,omitempty"`
}

// ListingSummary - облегченное представление карточки из списка выдачи.
// Используется в режиме обзора, когда страницы деталей не посещаются.
type ListingSummary struct {
	Title    string `json:"title"`
	Price    string `json:"price"`
	Address  string `json:"address"`
	URL      string `json:"url"`
	ImageURL string `json:"imageUrl"`
}
