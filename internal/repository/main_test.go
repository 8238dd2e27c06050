package repository

import (
	"fmt"
	"testing"
	"time"

	"plume/internal/database"
	"plume/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory sqlite database. One connection only:
// every new sqlite :memory: connection is a separate database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@exemple.fr", username),
		Password: "hash",
		Role:     models.RoleAuthor,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestWork(t *testing.T, db *gorm.DB, author *models.User, overrides ...func(*models.LiteraryWork)) *models.LiteraryWork {
	t.Helper()
	work := &models.LiteraryWork{
		Title:    "Les ombres du matin",
		Content:  "Premier vers...",
		Type:     "poem",
		Status:   models.WorkStatusPublished,
		AuthorID: author.ID,
	}
	for _, override := range overrides {
		override(work)
	}
	require.NoError(t, db.Create(work).Error)
	return work
}

func createTestWorkshop(t *testing.T, db *gorm.DB, creator *models.User) *models.Workshop {
	t.Helper()
	start := time.Now().Add(24 * time.Hour)
	workshop := &models.Workshop{
		Title:       "Atelier haïku",
		Description: "Formes brèves",
		Theme:       "Haïku et formes brèves",
		Status:      models.WorkshopStatusPlanning,
		StartDate:   &start,
		CreatorID:   creator.ID,
	}
	require.NoError(t, db.Create(workshop).Error)
	require.NoError(t, db.Create(&models.WorkshopParticipant{
		UserID:     creator.ID,
		WorkshopID: workshop.ID,
	}).Error)
	return workshop
}

func createTestGroup(t *testing.T, db *gorm.DB, creator *models.User, name string) *models.Group {
	t.Helper()
	group := &models.Group{
		Name:        name,
		Description: "Cercle d'écriture",
		CreatorID:   creator.ID,
	}
	require.NoError(t, db.Create(group).Error)
	require.NoError(t, db.Create(&models.GroupMember{
		UserID:  creator.ID,
		GroupID: group.ID,
	}).Error)
	return group
}
