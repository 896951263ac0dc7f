package domain

import "time"

// Country is the persisted record merged from the two upstream sources.
// Optional upstream fields are pointers so "unknown" survives as SQL NULL:
// a country with no resolvable currency keeps exchange_rate and estimated_gdp
// NULL rather than 0.
type Country struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Name            string     `gorm:"not null;uniqueIndex;size:255" json:"name"`
	Capital         *string    `gorm:"size:255" json:"capital"`
	Region          *string    `gorm:"size:255" json:"region"`
	Population      int64      `gorm:"not null;default:0" json:"population"`
	CurrencyCode    *string    `gorm:"column:currency_code;size:10" json:"currency_code"`
	ExchangeRate    *float64   `gorm:"column:exchange_rate" json:"exchange_rate"`
	EstimatedGDP    *float64   `gorm:"column:estimated_gdp" json:"estimated_gdp"`
	FlagURL         *string    `gorm:"column:flag_url;type:text" json:"flag_url"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at"`
	CreatedAt       time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null" json:"updated_at"`
}

func (Country) TableName() string {
	return "countries"
}
