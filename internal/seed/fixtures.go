package seed

import (
	"fmt"
	"os"
	"time"

	"plume/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Fixtures is the YAML overlay format: hand-written entities created before
// the generated ones, so demos can rely on stable accounts and content.
type Fixtures struct {
	Users []struct {
		Username  string `yaml:"username"`
		Email     string `yaml:"email"`
		Password  string `yaml:"password"`
		FirstName string `yaml:"first_name"`
		LastName  string `yaml:"last_name"`
		Bio       string `yaml:"bio"`
		Role      string `yaml:"role"`
	} `yaml:"users"`
	Works []struct {
		Title    string `yaml:"title"`
		Content  string `yaml:"content"`
		Type     string `yaml:"type"`
		Status   string `yaml:"status"`
		Author   string `yaml:"author"` // username reference
		DaysBack int    `yaml:"days_back"`
	} `yaml:"works"`
	Books []struct {
		Title       string `yaml:"title"`
		Author      string `yaml:"author"`
		PublishedAt string `yaml:"published_at"`
	} `yaml:"books"`
}

// LoadFixtures reads a YAML fixture file and inserts its entities.
func LoadFixtures(db *gorm.DB, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixtures: %w", err)
	}

	var fixtures Fixtures
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("parse fixtures: %w", err)
	}

	usersByName := make(map[string]*models.User, len(fixtures.Users))
	for _, fu := range fixtures.Users {
		password := fu.Password
		if password == "" {
			password = "motdepasse"
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		role := models.UserRole(fu.Role)
		if role == "" {
			role = models.RoleAuthor
		}
		user := &models.User{
			Username:  fu.Username,
			Email:     fu.Email,
			Password:  string(hashed),
			FirstName: fu.FirstName,
			LastName:  fu.LastName,
			Bio:       fu.Bio,
			Role:      role,
		}
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("fixture user %q: %w", fu.Username, err)
		}
		usersByName[fu.Username] = user
	}

	for _, fw := range fixtures.Works {
		author, ok := usersByName[fw.Author]
		if !ok {
			return fmt.Errorf("fixture work %q references unknown author %q", fw.Title, fw.Author)
		}
		status := models.WorkStatus(fw.Status)
		if status == "" {
			status = models.WorkStatusDraft
		}
		work := &models.LiteraryWork{
			Title:    fw.Title,
			Content:  fw.Content,
			Type:     fw.Type,
			Status:   status,
			AuthorID: author.ID,
		}
		if fw.DaysBack > 0 {
			work.CreatedAt = time.Now().Add(-time.Duration(fw.DaysBack) * 24 * time.Hour)
		}
		if err := db.Create(work).Error; err != nil {
			return fmt.Errorf("fixture work %q: %w", fw.Title, err)
		}
	}

	for _, fb := range fixtures.Books {
		book := &models.Book{
			Title:  fb.Title,
			Author: fb.Author,
		}
		if fb.PublishedAt != "" {
			t, err := time.Parse("2006-01-02", fb.PublishedAt)
			if err != nil {
				return fmt.Errorf("fixture book %q: invalid published_at: %w", fb.Title, err)
			}
			book.PublishedAt = &t
		}
		if err := db.Create(book).Error; err != nil {
			return fmt.Errorf("fixture book %q: %w", fb.Title, err)
		}
	}

	return nil
}
