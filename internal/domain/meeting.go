package domain

import "time"

type Meeting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null;index:idx_meetings_end_time" json:"end_time"`
	Link      *string   `gorm:"size:1024" json:"link,omitempty"`
	ClassID   uint      `gorm:"not null;index:idx_meetings_class_id" json:"class_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ExpiredAt reports whether the meeting ended strictly before now.
func (m *Meeting) ExpiredAt(now time.Time) bool {
	return m.EndTime.UTC().Before(now.UTC())
}
