package models

import "time"

// Group is a persistent, optionally private community space. Private groups
// are only viewable by members and admins; joining one requires the creator
// to add the member directly.
type Group struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;unique;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	IsPrivate   bool      `gorm:"not null;default:false" json:"is_private"`
	CreatorID   uint      `gorm:"not null;index" json:"creator_id"`
	Creator     User      `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE" json:"creator"`
	// MembersCount is not persisted; computed at query time
	MembersCount int `gorm:"->" json:"members_count"`
	// WorksCount is not persisted; computed at query time
	WorksCount int       `gorm:"->" json:"works_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// GroupMember maps users to the groups they belong to.
type GroupMember struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	GroupID   uint      `gorm:"primaryKey;autoIncrement:false" json:"group_id"`
	Group     *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"group,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (GroupMember) TableName() string {
	return "group_members"
}
