package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"

	"famenet/internal/models"
	"famenet/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeder populates the database with demo users and posts. Posts go through
// the real submission pipeline so fame entries, demotions, and bans come out
// of genuine classifier verdicts, not hand-placed rows.
type Seeder struct {
	db    *gorm.DB
	posts *service.PostService
	rng   *rand.Rand
}

// NewSeeder creates a Seeder. A fixed RNG seed makes repeated runs
// reproducible.
func NewSeeder(db *gorm.DB, posts *service.PostService, rngSeed int64) *Seeder {
	gofakeit.Seed(rngSeed)
	return &Seeder{
		db:    db,
		posts: posts,
		rng:   rand.New(rand.NewSource(rngSeed)),
	}
}

// ClearAll removes mutable data. Reference catalogs (fame levels, areas,
// truth ratings) are kept.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	tables := []string{
		"user_ratings", "post_area_ratings", "posts",
		"fame_entries", "community_memberships", "user_follows", "users",
	}
	if s.db.Dialector.Name() == "postgres" {
		sql := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(tables, ", "))
		return s.db.Exec(sql).Error
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedUsers creates n users. All share the password "password123".
func (s *Seeder) SeedUsers(n int) ([]models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		user := models.User{
			Username:  strings.ToLower(fmt.Sprintf("%s_%s%d", first, last, s.rng.Intn(1000))),
			Email:     strings.ToLower(fmt.Sprintf("%s.%s%d@example.edu", first, last, i)),
			Password:  string(hashed),
			FirstName: first,
			LastName:  last,
			Active:    true,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("create seed user %s: %w", user.Username, err)
		}
		users = append(users, user)
	}
	return users, nil
}

// SeedFollows wires a random follow mesh with roughly followsPerUser edges
// per user.
func (s *Seeder) SeedFollows(users []models.User, followsPerUser int) error {
	if len(users) < 2 {
		return nil
	}
	for i := range users {
		seen := map[uint]bool{users[i].ID: true}
		for f := 0; f < followsPerUser; f++ {
			target := users[s.rng.Intn(len(users))]
			if seen[target.ID] {
				continue
			}
			seen[target.ID] = true
			if err := s.db.Exec(
				"INSERT INTO user_follows (follower_id, followee_id) VALUES (?, ?)",
				users[i].ID, target.ID,
			).Error; err != nil {
				return fmt.Errorf("create follow edge: %w", err)
			}
		}
	}
	return nil
}

// SeedPosts submits n posts through the submission pipeline, spread across
// the given users. Banned authors are skipped once the pipeline bans them.
func (s *Seeder) SeedPosts(ctx context.Context, users []models.User, n int) (int, error) {
	if len(users) == 0 {
		return 0, nil
	}
	banned := map[uint]bool{}
	created := 0
	for i := 0; i < n; i++ {
		author := users[s.rng.Intn(len(users))]
		if banned[author.ID] {
			continue
		}
		result, err := s.posts.SubmitPost(ctx, service.SubmitPostInput{
			UserID:  author.ID,
			Content: gofakeit.Paragraph(1, 3, 8, " "),
		})
		if err != nil {
			return created, fmt.Errorf("seed post for user %d: %w", author.ID, err)
		}
		if result.ForcedLogout {
			banned[author.ID] = true
		}
		created++
	}
	return created, nil
}
