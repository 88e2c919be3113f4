// Command main runs the database seeder for famenet.
package main

import (
	"context"
	"flag"
	"log"

	"famenet/internal/bootstrap"
	"famenet/internal/classifier"
	"famenet/internal/config"
	"famenet/internal/repository"
	"famenet/internal/seed"
	"famenet/internal/service"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numPosts := flag.Int("posts", 200, "Number of posts to submit")
	followsPerUser := flag.Int("follows", 5, "Follow edges per user")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	rngSeed := flag.Int64("seed", 1, "RNG seed for reproducible runs")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{SeedFixtures: true})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	ctx := context.Background()
	fameRepo := repository.NewFameRepository(db)
	areas, err := fameRepo.ListAreas(ctx)
	if err != nil {
		log.Fatalf("Failed to load expertise areas: %v", err)
	}
	truthRatings, err := fameRepo.ListTruthRatings(ctx)
	if err != nil {
		log.Fatalf("Failed to load truth ratings: %v", err)
	}

	postService := service.NewPostService(
		repository.NewUnitOfWork(db),
		repository.NewPostRepository(db),
		repository.NewUserRepository(db),
		classifier.NewOracle(areas, truthRatings),
	)

	s := seed.NewSeeder(db, postService, *rngSeed)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	users, err := s.SeedUsers(*numUsers)
	if err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}
	log.Printf("Created %d users (password: password123)", len(users))

	if err := s.SeedFollows(users, *followsPerUser); err != nil {
		log.Fatalf("Follow seeding failed: %v", err)
	}

	created, err := s.SeedPosts(ctx, users, *numPosts)
	if err != nil {
		log.Fatalf("Post seeding failed: %v", err)
	}
	log.Printf("Submitted %d posts through the publication pipeline", created)
}
