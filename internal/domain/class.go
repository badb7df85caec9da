package domain

import "time"

type Class struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	TeacherID uint      `gorm:"not null;index:idx_classes_teacher_id" json:"teacher_id"`
	CreatedAt time.Time `json:"created_at"`
	Meetings  []Meeting `gorm:"constraint:OnDelete:CASCADE" json:"meetings,omitempty"`
}

type StudentClass struct {
	StudentID uint      `gorm:"primaryKey" json:"student_id"`
	ClassID   uint      `gorm:"primaryKey" json:"class_id"`
	CreatedAt time.Time `json:"created_at"`
}
