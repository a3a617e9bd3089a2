package models

import "time"

// RateLimit counts events per identity per UTC calendar day. The identity
// carries a namespace prefix ("admin:", "guest:", "chat:") so login throttling
// and chat caps share one table without colliding. Past days are simply never
// queried again.
type RateLimit struct {
	ID        uint   `gorm:"primaryKey"`
	Identity  string `gorm:"size:128;not null;uniqueIndex:idx_rate_identity_day"`
	Day       string `gorm:"size:10;not null;uniqueIndex:idx_rate_identity_day"` // YYYY-MM-DD (UTC)
	Count     int    `gorm:"default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
