package models

import "time"

// Comment represents a reader's comment on a literary work, with an optional
// 1-5 rating. Comments are deleted with their work.
type Comment struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	Content        string        `gorm:"type:text;not null" json:"content"`
	Rating         *int          `json:"rating"`
	UserID         uint          `gorm:"not null;index" json:"user_id"`
	User           User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	LiteraryWorkID uint          `gorm:"not null;index" json:"literary_work_id"`
	LiteraryWork   *LiteraryWork `gorm:"foreignKey:LiteraryWorkID;constraint:OnDelete:CASCADE" json:"literary_work,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}
