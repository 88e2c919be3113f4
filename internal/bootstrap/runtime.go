// Package bootstrap wires shared runtime dependencies for the command
// binaries.
package bootstrap

import (
	"fmt"

	"famenet/internal/cache"
	"famenet/internal/config"
	"famenet/internal/database"
	"famenet/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedFixtures loads the reference catalogs (fame ladder, expertise
	// areas, truth ratings) after migration. The server cannot classify
	// posts without them.
	SeedFixtures bool
}

// InitRuntime connects to the database and Redis and optionally seeds the
// reference catalogs. The Redis client may be nil when the server is
// unreachable; callers degrade to uncached operation.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedFixtures {
		if err := seed.Fixtures(db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed reference catalogs: %w", err)
		}
	}

	return db, r, nil
}
