package model

import (
	"regexp"
	"strings"
	"time"
)

// Tour package lifecycle states. A package is created as a draft while its
// images are still in flight and promoted to active once every image slot
// is persisted.
const (
	StatusDraft    = "Draft"
	StatusActive   = "Active"
	StatusArchived = "Archived"
)

// ImageRef is a durable reference to a stored image: the object storage key
// plus the retrievable address. An empty PublicID marks a placeholder slot
// and is only ever valid on a draft package.
type ImageRef struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// IsZero reports whether the reference is still an unfilled placeholder.
func (r ImageRef) IsZero() bool {
	return r.PublicID == "" && r.URL == ""
}

// Highlight is a named point of interest with an optional illustration.
// Its image is filled from the highlightImages file group, matched by
// request index.
type Highlight struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Image       ImageRef `json:"image"`
}

// Review is a guest review nested inside a stay.
type Review struct {
	UserID     string    `json:"user"`
	UserName   string    `json:"userName"`
	Rating     int       `json:"rating"`
	Text       string    `json:"text"`
	DatePosted time.Time `json:"datePosted"`
}

// Stay describes one hotel stay included in the package. Its image is filled
// from the stayImages file group, matched by request index.
type Stay struct {
	HotelName   string   `json:"hotelName"`
	Location    string   `json:"location"`
	RoomType    string   `json:"roomType"`
	ACType      string   `json:"acType,omitempty"`
	MealPlan    string   `json:"mealPlan,omitempty"`
	Amenities   []string `json:"amenities,omitempty"`
	Description string   `json:"description,omitempty"`
	Image       ImageRef `json:"image"`
	Reviews     []Review `json:"reviews,omitempty"`
}

// PriceVariation is an alternate price under a named condition.
type PriceVariation struct {
	Name      string  `json:"name"`
	Condition string  `json:"condition,omitempty"`
	Price     float64 `json:"price"`
}

// Price holds the base price and optional variations.
type Price struct {
	BasePrice       float64          `json:"basePrice"`
	IsVariable      bool             `json:"isVariable,omitempty"`
	PriceVariations []PriceVariation `json:"priceVariations,omitempty"`
}

// Duration is the trip length in days and nights.
type Duration struct {
	Days   int `json:"days"`
	Nights int `json:"nights"`
}

// DateRange is one bookable departure window.
type DateRange struct {
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	AvailableSpots int       `json:"availableSpots"`
	Price          float64   `json:"price,omitempty"`
}

// ItineraryDay lists the plan for a single day of the trip.
type ItineraryDay struct {
	Day    int      `json:"day"`
	Points []string `json:"points"`
}

// InclusionItem groups included services under a category.
type InclusionItem struct {
	Category string   `json:"category"`
	Points   []string `json:"points"`
}

// FAQ is one question/answer pair shown on the listing.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Ratings is the aggregated review score.
type Ratings struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Discount holds optional promotional pricing.
type Discount struct {
	HasDiscount        bool    `json:"hasDiscount"`
	DiscountPercentage float64 `json:"discountPercentage,omitempty"`
	DiscountedPrice    float64 `json:"discountedPrice,omitempty"`
}

// TourPackage is the aggregate root for a tour listing.
// This is a pure domain model with no database-specific dependencies or tags;
// it is persisted as a JSON document by the repository layer.
type TourPackage struct {
	ID                 string         `json:"id"`
	PackageName        string         `json:"packageName"`
	Slug               string         `json:"slug"`
	Price              Price          `json:"price"`
	Duration           Duration       `json:"duration"`
	DatesAvailable     []DateRange    `json:"datesAvailable,omitempty"`
	MaxGroupSize       int            `json:"maxGroupSize"`
	Destinations       []string       `json:"destinations,omitempty"`
	Overview           string         `json:"overview"`
	Itinerary          []ItineraryDay `json:"itinerary,omitempty"`
	Inclusions         []InclusionItem `json:"inclusions,omitempty"`
	Highlights         []Highlight    `json:"highlights,omitempty"`
	Stays              []Stay         `json:"stays,omitempty"`
	MainImage          ImageRef       `json:"mainImage"`
	GalleryImages      []ImageRef     `json:"galleryImages"`
	SellerID           string         `json:"seller"`
	Ratings            Ratings        `json:"ratings"`
	Categories         []string       `json:"categories,omitempty"`
	Difficulty         string         `json:"difficulty,omitempty"`
	Featured           bool           `json:"featured"`
	Discount           Discount       `json:"discount"`
	Status             string         `json:"status"`
	CancellationPolicy string         `json:"cancellationPolicy,omitempty"`
	FAQs               []FAQ          `json:"faqs,omitempty"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

// CurrentPrice returns the discounted price when a discount is in effect,
// otherwise the base price.
func (t *TourPackage) CurrentPrice() float64 {
	if t.Discount.HasDiscount && t.Discount.DiscountedPrice > 0 {
		return t.Discount.DiscountedPrice
	}
	return t.Price.BasePrice
}

var slugStrip = regexp.MustCompile(`[^\w ]+`)

// Slugify derives the URL slug from a package name.
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = slugStrip.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), "-")
}
