// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"plume/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	workTypes = []string{"poem", "novel", "short_story", "essay"}

	workTitles = []string{
		"Les ombres du matin", "Sous le ciel de Paris", "L'encre et la plume",
		"Fragments d'automne", "La mer intérieure", "Lettres à personne",
		"Le silence des pages", "Au bord du fleuve", "Nuits blanches",
		"Le jardin suspendu", "Derniers vers", "L'écho des mots",
	}

	workshopThemes = []string{
		"Poésie contemporaine", "Nouvelle noire", "Écriture autobiographique",
		"Littérature de voyage", "Haïku et formes brèves", "Roman épistolaire",
	}

	groupNames = []string{
		"Les Plumes Nocturnes", "Cercle des Poètes", "Atelier du Dimanche",
		"Encre Fraîche", "Les Mots Dits", "La Page Blanche",
	}

	commentTexts = []string{
		"Magnifique, j'ai été transporté.",
		"Le rythme de la deuxième strophe est remarquable.",
		"Une belle progression, mais la fin m'a laissé sur ma faim.",
		"Quelle maîtrise de la langue !",
		"J'aimerais lire la suite.",
		"Votre imagination est sans limites !",
	}
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db: db,
		r:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("motdepasse"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:       gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:          gofakeit.Email(),
		Password:       string(hashed),
		FirstName:      gofakeit.FirstName(),
		LastName:       gofakeit.LastName(),
		Bio:            gofakeit.Sentence(12),
		ProfilePicture: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Role:           models.RoleAuthor,
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateWork constructs and persists a literary work for the given author.
// The created_at spread stays outside the publication window so seeding never
// trips the weekly quota logic when the API is exercised afterwards.
func (f *Factory) CreateWork(author *models.User, overrides ...func(*models.LiteraryWork)) (*models.LiteraryWork, error) {
	work := &models.LiteraryWork{
		Title:    workTitles[f.r.Intn(len(workTitles))],
		Content:  gofakeit.Paragraph(3, 5, 12, "\n\n"),
		Type:     workTypes[f.r.Intn(len(workTypes))],
		Status:   models.WorkStatusPublished,
		AuthorID: author.ID,
	}
	daysBack := 8 + f.r.Intn(120)
	work.CreatedAt = time.Now().Add(-time.Duration(daysBack) * 24 * time.Hour)

	for _, override := range overrides {
		override(work)
	}

	if err := f.db.Create(work).Error; err != nil {
		return nil, err
	}
	return work, nil
}

// CreateWorkshop constructs and persists a workshop with its creator
// enrolled.
func (f *Factory) CreateWorkshop(creator *models.User, overrides ...func(*models.Workshop)) (*models.Workshop, error) {
	start := time.Now().Add(time.Duration(f.r.Intn(30)) * 24 * time.Hour)
	end := start.Add(time.Duration(7+f.r.Intn(21)) * 24 * time.Hour)

	workshop := &models.Workshop{
		Title:       fmt.Sprintf("Atelier %s", gofakeit.Word()),
		Description: gofakeit.Paragraph(1, 3, 10, "\n"),
		Theme:       workshopThemes[f.r.Intn(len(workshopThemes))],
		Status:      models.WorkshopStatusPlanning,
		StartDate:   &start,
		EndDate:     &end,
		CreatorID:   creator.ID,
	}
	for _, override := range overrides {
		override(workshop)
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(workshop).Error; err != nil {
			return err
		}
		return tx.Create(&models.WorkshopParticipant{
			UserID:     creator.ID,
			WorkshopID: workshop.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return workshop, nil
}

// CreateGroup constructs and persists a group with its creator as first
// member. Names are suffixed to stay unique across runs.
func (f *Factory) CreateGroup(creator *models.User, overrides ...func(*models.Group)) (*models.Group, error) {
	group := &models.Group{
		Name:        fmt.Sprintf("%s %d", groupNames[f.r.Intn(len(groupNames))], gofakeit.Number(10, 9999)),
		Description: gofakeit.Sentence(15),
		IsPrivate:   f.r.Intn(4) == 0,
		CreatorID:   creator.ID,
	}
	for _, override := range overrides {
		override(group)
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		return tx.Create(&models.GroupMember{
			UserID:  creator.ID,
			GroupID: group.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

// CreateComment persists a comment from the given user on the given work.
func (f *Factory) CreateComment(user *models.User, work *models.LiteraryWork) (*models.Comment, error) {
	comment := &models.Comment{
		Content:        commentTexts[f.r.Intn(len(commentTexts))],
		UserID:         user.ID,
		LiteraryWorkID: work.ID,
	}
	if f.r.Intn(2) == 0 {
		rating := 1 + f.r.Intn(5)
		comment.Rating = &rating
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike persists a like, skipping silently when it already exists.
func (f *Factory) CreateLike(user *models.User, work *models.LiteraryWork) error {
	var count int64
	if err := f.db.Model(&models.WorkLike{}).
		Where("user_id = ? AND literary_work_id = ?", user.ID, work.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return f.db.Create(&models.WorkLike{
		UserID:         user.ID,
		LiteraryWorkID: work.ID,
	}).Error
}
