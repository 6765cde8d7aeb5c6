package models

import "time"

// Property is a single for-sale listing.
type Property struct {
	ID          int64     `json:"id" db:"id"`
	Address     string    `json:"address" db:"address"`
	Price       float64   `json:"price" db:"price"`
	Bedrooms    int       `json:"bedrooms" db:"bedrooms"`
	Bathrooms   int       `json:"bathrooms" db:"bathrooms"`
	Sqft        float64   `json:"sqft" db:"sqft"`
	ListingDate time.Time `json:"listing_date" db:"listing_date"`
	Source      string    `json:"source" db:"source"`
}
