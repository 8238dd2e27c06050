package models

import "time"

// WorkshopStatus defines the lifecycle state of a workshop. Like work status
// this is free-value; transitions are not enforced.
type WorkshopStatus string

const (
	// WorkshopStatusPlanning is the default state of a new workshop.
	WorkshopStatusPlanning WorkshopStatus = "planning"
	// WorkshopStatusActive marks a workshop currently running.
	WorkshopStatusActive WorkshopStatus = "active"
	// WorkshopStatusCompleted marks a finished workshop.
	WorkshopStatusCompleted WorkshopStatus = "completed"
)

// Workshop is a themed, time-boxed collaborative space. The creator is
// auto-enrolled as a participant and cannot leave.
type Workshop struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:100;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Theme       string         `gorm:"size:100" json:"theme"`
	Status      WorkshopStatus `gorm:"type:varchar(20);not null;default:'planning'" json:"status"`
	StartDate   *time.Time     `json:"start_date"`
	EndDate     *time.Time     `json:"end_date"`
	CreatorID   uint           `gorm:"not null;index" json:"creator_id"`
	Creator     User           `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE" json:"creator"`
	// ParticipantsCount is not persisted; computed at query time
	ParticipantsCount int       `gorm:"->" json:"participants_count"`
	CreatedAt         time.Time `json:"created_at"`
}

// WorkshopParticipant maps users to the workshops they participate in.
type WorkshopParticipant struct {
	UserID     uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	WorkshopID uint      `gorm:"primaryKey;autoIncrement:false" json:"workshop_id"`
	Workshop   *Workshop `gorm:"foreignKey:WorkshopID;constraint:OnDelete:CASCADE" json:"workshop,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (WorkshopParticipant) TableName() string {
	return "workshop_participants"
}
