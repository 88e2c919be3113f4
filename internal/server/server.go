// Package server contains the HTTP handlers for the application's API
// endpoints. It is a thin transport boundary over the service layer.
package server

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"famenet/internal/bootstrap"
	"famenet/internal/classifier"
	"famenet/internal/config"
	"famenet/internal/middleware"
	"famenet/internal/models"
	"famenet/internal/repository"
	"famenet/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config *config.Config
	db     *gorm.DB
	redis  *redis.Client

	userRepo      repository.UserRepository
	postRepo      repository.PostRepository
	fameRepo      repository.FameRepository
	communityRepo repository.CommunityRepository

	userService      *service.UserService
	postService      *service.PostService
	feedService      *service.FeedService
	socialService    *service.SocialService
	fameService      *service.FameService
	communityService *service.CommunityService
}

// NewServer creates a new server instance with all dependencies. The
// reference catalogs are seeded on startup so the classifier always has
// areas and truth ratings to work with.
func NewServer(cfg *config.Config) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(cfg, bootstrap.Options{SeedFixtures: true})
	if err != nil {
		return nil, err
	}
	return newServerWithDB(cfg, db, redisClient)
}

// newServerWithDB wires repositories and services over an existing DB handle.
func newServerWithDB(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	fameRepo := repository.NewFameRepository(db)
	communityRepo := repository.NewCommunityRepository(db)
	uow := repository.NewUnitOfWork(db)

	// The classifier oracle works over the immutable reference catalogs.
	ctx := context.Background()
	areas, err := fameRepo.ListAreas(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load expertise areas: %w", err)
	}
	truthRatings, err := fameRepo.ListTruthRatings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load truth ratings: %w", err)
	}
	oracle := classifier.NewOracle(areas, truthRatings)

	srv := &Server{
		config:        cfg,
		db:            db,
		redis:         redisClient,
		userRepo:      userRepo,
		postRepo:      postRepo,
		fameRepo:      fameRepo,
		communityRepo: communityRepo,
	}
	srv.userService = service.NewUserService(userRepo)
	srv.postService = service.NewPostService(uow, postRepo, userRepo, oracle)
	srv.feedService = service.NewFeedService(postRepo, communityRepo)
	srv.socialService = service.NewSocialService(userRepo)
	srv.fameService = service.NewFameService(fameRepo, userRepo)
	srv.communityService = service.NewCommunityService(communityRepo, fameRepo)

	middleware.InitMiddleware(cfg)

	return srv, nil
}

// SetupMiddleware attaches global middleware to the fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.Tracing())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.StructuredLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: s.config.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	prom := fiberprometheus.New("famenet-api")
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)
}

// SetupRoutes registers all API routes.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/signup", s.Signup)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, time.Minute, "login"), s.Login)

	protected := api.Group("", middleware.AuthRequired, middleware.ContextMiddleware())
	protected.Get("/me", s.Me)

	protected.Post("/posts", s.SubmitPost)
	protected.Get("/posts/:id", s.GetPost)
	protected.Post("/posts/:id/rate", s.RatePost)

	protected.Get("/timeline", s.Timeline)
	protected.Get("/search", s.Search)

	protected.Post("/users/:id/follow", s.Follow)
	protected.Delete("/users/:id/follow", s.Unfollow)
	protected.Get("/follows", s.Follows)
	protected.Get("/followers", s.Followers)

	protected.Get("/fame", s.OwnFame)
	protected.Get("/fame/:id", s.UserFame)
	protected.Get("/bullshitters", s.Bullshitters)
	protected.Get("/similar", s.SimilarUsers)

	protected.Get("/communities", s.Communities)
	protected.Post("/communities/:areaID/join", s.JoinCommunity)
	protected.Post("/communities/:areaID/leave", s.LeaveCommunity)
}

// Shutdown releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

// generateToken creates a signed JWT for the user.
func (s *Server) generateToken(userID uint, username string) (string, error) {
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"exp":      time.Now().Add(72 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// respondServiceError maps AppError codes onto HTTP statuses. A BANNED
// outcome additionally tells the client to drop its session.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	switch appErr.Code {
	case models.CodeNotFound:
		return models.RespondWithError(c, fiber.StatusNotFound, appErr)
	case models.CodeValidation:
		return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
	case models.CodeUnauthorized:
		return models.RespondWithError(c, fiber.StatusForbidden, appErr)
	case models.CodeBanned:
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":         appErr.Message,
			"code":          appErr.Code,
			"forced_logout": true,
		})
	default:
		return models.RespondWithError(c, fiber.StatusInternalServerError, appErr)
	}
}

// requireActiveUser resolves the authenticated handle to an active user.
func (s *Server) requireActiveUser(c *fiber.Ctx) (*models.User, error) {
	return s.userService.RequireActive(c.UserContext(), middleware.GetUserID(c))
}

// parseUintParam parses a positive integer route parameter.
func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		return 0, models.NewValidationError(fmt.Sprintf("Invalid %s parameter", name))
	}
	return uint(v), nil
}

// parseWindow reads optional start/end query parameters (end inclusive).
func parseWindow(c *fiber.Ctx) (int, *int, error) {
	start := c.QueryInt("start", 0)
	if start < 0 {
		return 0, nil, models.NewValidationError("start must not be negative")
	}
	var end *int
	if raw := c.Query("end"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, nil, models.NewValidationError("end must be an integer")
		}
		end = &v
	}
	return start, end, nil
}
