package database

import (
	"plume/internal/models"

	"gorm.io/gorm"
)

// Models lists every persisted model in migration order: parents before
// children so foreign keys resolve.
func Models() []any {
	return []any{
		&models.User{},
		&models.Book{},
		&models.Workshop{},
		&models.Group{},
		&models.LiteraryWork{},
		&models.Comment{},
		&models.WorkLike{},
		&models.WorkshopParticipant{},
		&models.GroupMember{},
	}
}

// Migrate runs GORM auto-migration for all registered models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
