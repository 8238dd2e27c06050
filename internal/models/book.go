package models

import "time"

// Book is a legacy catalog entity kept for compatibility: works may reference
// the book they were published in. The author field is free text, not a user.
type Book struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:100;not null" json:"title"`
	Author      string     `gorm:"size:100;not null" json:"author"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
}
