package models

import "time"

// Item is a registry entry: a fundable gift, or a generic donation target.
// Amounts are stored in cents to avoid float drift, e.g. 12.34 EUR = 1234.
type Item struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"size:500;not null"`
	Description string    `gorm:"size:500"`
	ImageURL    string    `gorm:"size:500"`
	ProductURL  string    `gorm:"size:500"`
	PriceTotal  int64     `gorm:"not null"`      // target amount (cents)
	PriceRaised int64     `gorm:"default:0"`     // raised so far (cents)
	IsFunded    bool      `gorm:"default:false"` // derived: PriceRaised >= PriceTotal
	SortKey     int       `gorm:"default:0"`
	IsGeneric   bool      `gorm:"default:false"` // generic donation: no per-unit progress, always listed last
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Contributions []Contribution `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
}

// Contribution is a recorded pledge toward one item. It is owned by its
// item: deleting the item cascades, deleting a contribution does not.
type Contribution struct {
	ID        uint   `gorm:"primaryKey"`
	ItemID    uint   `gorm:"index;not null"`
	Name      string `gorm:"size:100;not null"`
	Identity  string `gorm:"size:64;index"` // caller correlation key (origin address), may be empty
	Amount    int64  `gorm:"not null"`      // applied amount (cents), already clipped
	Message   string `gorm:"size:300"`
	CreatedAt time.Time
}
