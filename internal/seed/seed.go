package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"plume/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers     int
	NumWorks     int
	NumWorkshops int
	NumGroups    int
	ShouldClean  bool
	// FixturesPath optionally points to a YAML file whose entities are
	// created verbatim before the generated ones.
	FixturesPath string
}

// Run populates the database with a coherent demo community: users, works,
// workshops, groups, comments and likes. Generated likes never come from the
// work's own author even though the API permits that.
func Run(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 10
	}
	if opts.NumWorks <= 0 {
		opts.NumWorks = 30
	}
	if opts.NumWorkshops <= 0 {
		opts.NumWorkshops = 3
	}
	if opts.NumGroups <= 0 {
		opts.NumGroups = 3
	}

	if opts.ShouldClean {
		if err := clean(db); err != nil {
			return fmt.Errorf("clean failed: %w", err)
		}
	}

	if opts.FixturesPath != "" {
		if err := LoadFixtures(db, opts.FixturesPath); err != nil {
			return fmt.Errorf("fixtures failed: %w", err)
		}
	}

	factory := NewFactory(db)
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	admin, err := createAdmin(db)
	if err != nil {
		return err
	}
	log.Printf("seeded admin user %q", admin.Username)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}

	works := make([]*models.LiteraryWork, 0, opts.NumWorks)
	for i := 0; i < opts.NumWorks; i++ {
		author := users[r.Intn(len(users))]
		work, err := factory.CreateWork(author)
		if err != nil {
			return fmt.Errorf("create work: %w", err)
		}
		works = append(works, work)
	}

	for i := 0; i < opts.NumWorkshops; i++ {
		creator := users[r.Intn(len(users))]
		workshop, err := factory.CreateWorkshop(creator)
		if err != nil {
			return fmt.Errorf("create workshop: %w", err)
		}
		// Enroll a few extra participants
		for _, u := range pickUsers(r, users, 3) {
			if u.ID == creator.ID {
				continue
			}
			if err := db.Create(&models.WorkshopParticipant{
				UserID:     u.ID,
				WorkshopID: workshop.ID,
			}).Error; err != nil {
				return fmt.Errorf("enroll participant: %w", err)
			}
		}
	}

	for i := 0; i < opts.NumGroups; i++ {
		creator := users[r.Intn(len(users))]
		group, err := factory.CreateGroup(creator)
		if err != nil {
			return fmt.Errorf("create group: %w", err)
		}
		for _, u := range pickUsers(r, users, 4) {
			if u.ID == creator.ID {
				continue
			}
			if err := db.Create(&models.GroupMember{
				UserID:  u.ID,
				GroupID: group.ID,
			}).Error; err != nil {
				return fmt.Errorf("enroll member: %w", err)
			}
		}
	}

	for _, work := range works {
		for _, u := range pickUsers(r, users, 1+r.Intn(4)) {
			if u.ID == work.AuthorID {
				// no self-likes in generated data
				continue
			}
			if err := factory.CreateLike(u, work); err != nil {
				return fmt.Errorf("create like: %w", err)
			}
		}
		for _, u := range pickUsers(r, users, r.Intn(3)) {
			if _, err := factory.CreateComment(u, work); err != nil {
				return fmt.Errorf("create comment: %w", err)
			}
		}
	}

	log.Printf("seeded %d users, %d works, %d workshops, %d groups",
		len(users), len(works), opts.NumWorkshops, opts.NumGroups)
	return nil
}

// createAdmin inserts the well-known admin account if it does not exist.
func createAdmin(db *gorm.DB) (*models.User, error) {
	var existing models.User
	err := db.Where("username = ?", "admin").First(&existing).Error
	if err == nil {
		return &existing, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	admin := &models.User{
		Username: "admin",
		Email:    "admin@plume.fr",
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		return nil, err
	}
	return admin, nil
}

// pickUsers returns up to n distinct users chosen at random.
func pickUsers(r *rand.Rand, users []*models.User, n int) []*models.User {
	if n >= len(users) {
		n = len(users)
	}
	perm := r.Perm(len(users))
	picked := make([]*models.User, 0, n)
	for _, idx := range perm[:n] {
		picked = append(picked, users[idx])
	}
	return picked
}

// clean removes all seeded data, children first.
func clean(db *gorm.DB) error {
	tables := []any{
		&models.Comment{},
		&models.WorkLike{},
		&models.WorkshopParticipant{},
		&models.GroupMember{},
		&models.LiteraryWork{},
		&models.Workshop{},
		&models.Group{},
		&models.Book{},
		&models.User{},
	}
	for _, table := range tables {
		if err := db.Where("1 = 1").Delete(table).Error; err != nil {
			return err
		}
	}
	return nil
}
