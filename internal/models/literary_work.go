package models

import "time"

// WorkStatus defines the publication state of a literary work. Status is a
// free-value field: any transition is accepted from the owning author.
type WorkStatus string

const (
	// WorkStatusDraft is the default state of a new work.
	WorkStatusDraft WorkStatus = "draft"
	// WorkStatusPublished marks a work visible to unauthenticated readers.
	WorkStatusPublished WorkStatus = "published"
	// WorkStatusArchived marks a work retired by its author.
	WorkStatusArchived WorkStatus = "archived"
)

// LiteraryWork represents a poem, novel, short story or essay authored by a
// user. A work may optionally be attached to one workshop, one group and one
// book, independently.
type LiteraryWork struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Title      string     `gorm:"size:100;not null" json:"title"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	Type       string     `gorm:"size:50" json:"type"`
	Status     WorkStatus `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	AuthorID   uint       `gorm:"not null;index" json:"author_id"`
	Author     User       `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	WorkshopID *uint      `gorm:"index" json:"workshop_id,omitempty"`
	Workshop   *Workshop  `gorm:"foreignKey:WorkshopID;constraint:OnDelete:CASCADE" json:"workshop,omitempty"`
	GroupID    *uint      `gorm:"index" json:"group_id,omitempty"`
	Group      *Group     `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"group,omitempty"`
	BookID     *uint      `gorm:"index" json:"book_id,omitempty"`
	Book       *Book      `gorm:"foreignKey:BookID" json:"book,omitempty"`
	Comments   []Comment  `gorm:"foreignKey:LiteraryWorkID" json:"comments,omitempty"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this work (computed)
	Liked bool `gorm:"->" json:"liked"`
	// Likers is populated on the detail endpoint only
	Likers    []UserSummary `gorm:"-" json:"likers,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkLike maps users to the works they liked. The composite primary key is
// what actually prevents duplicate likes under concurrent requests.
type WorkLike struct {
	UserID         uint          `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User           *User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	LiteraryWorkID uint          `gorm:"primaryKey;autoIncrement:false" json:"literary_work_id"`
	LiteraryWork   *LiteraryWork `gorm:"foreignKey:LiteraryWorkID;constraint:OnDelete:CASCADE" json:"literary_work,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (WorkLike) TableName() string {
	return "literary_work_likes"
}
