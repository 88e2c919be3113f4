package repository

import (
	"context"
	"errors"

	"famenet/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts, their classifier
// verdicts and reader ratings.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)

	// UnpublishByAuthor flips published to false on every post by the author
	// in one bulk update. Used by the ban path.
	UnpublishByAuthor(ctx context.Context, authorID uint) error

	CreateAreaRatings(ctx context.Context, ratings []models.PostAreaRating) error
	AreaRatingsForPost(ctx context.Context, postID uint) ([]models.PostAreaRating, error)

	Timeline(ctx context.Context, userID uint, published bool, offset, limit int) ([]models.Post, error)
	CommunityTimeline(ctx context.Context, userID uint, published bool, offset, limit int) ([]models.Post, error)
	Search(ctx context.Context, keyword string, published bool, offset, limit int) ([]models.Post, error)

	GetUserRating(ctx context.Context, userID, postID uint, ratingType string) (*models.UserRating, error)
	SaveUserRating(ctx context.Context, rating *models.UserRating) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("AreaRatings.ExpertiseArea").
		Preload("AreaRatings.TruthRating").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) UnpublishByAuthor(ctx context.Context, authorID uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id = ?", authorID).
		Update("published", false).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) CreateAreaRatings(ctx context.Context, ratings []models.PostAreaRating) error {
	if len(ratings) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&ratings).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) AreaRatingsForPost(ctx context.Context, postID uint) ([]models.PostAreaRating, error) {
	var ratings []models.PostAreaRating
	err := r.db.WithContext(ctx).
		Preload("ExpertiseArea").
		Preload("TruthRating").
		Where("post_id = ?", postID).
		Order("id").
		Find(&ratings).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ratings, nil
}

// Timeline returns the standard feed: published posts by followed users plus
// the user's own posts regardless of published flag, newest first.
func (r *postRepository) Timeline(ctx context.Context, userID uint, published bool, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	followed := r.db.Table("user_follows").
		Select("followee_id").
		Where("follower_id = ?", userID)

	q := r.db.WithContext(ctx).
		Preload("Author").
		Where("(author_id IN (?) AND published = ?) OR author_id = ?", followed, published, userID).
		Order("submitted_at DESC").
		Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// CommunityTimeline returns posts carrying at least one expertise area that is
// a community of both the requesting user and the post's author, de-duplicated,
// newest first. Callers must short-circuit users with no communities.
func (r *postRepository) CommunityTimeline(ctx context.Context, userID uint, published bool, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	q := r.db.WithContext(ctx).
		Preload("Author").
		Joins("JOIN post_area_ratings par ON par.post_id = posts.id").
		Joins("JOIN community_memberships cm_user ON cm_user.expertise_area_id = par.expertise_area_id AND cm_user.user_id = ?", userID).
		Joins("JOIN community_memberships cm_author ON cm_author.expertise_area_id = par.expertise_area_id AND cm_author.user_id = posts.author_id").
		Where("posts.published = ? OR posts.author_id = ?", published, userID).
		Distinct("posts.*").
		Order("posts.submitted_at DESC").
		Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Search matches the keyword against post content and author identity fields,
// case-insensitively.
func (r *postRepository) Search(ctx context.Context, keyword string, published bool, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	like := "%" + keyword + "%"
	q := r.db.WithContext(ctx).
		Preload("Author").
		Joins("JOIN users ON users.id = posts.author_id").
		Where("posts.published = ?", published).
		Where(
			r.db.Where("LOWER(posts.content) LIKE LOWER(?)", like).
				Or("LOWER(users.email) LIKE LOWER(?)", like).
				Or("LOWER(users.first_name) LIKE LOWER(?)", like).
				Or("LOWER(users.last_name) LIKE LOWER(?)", like),
		).
		Order("posts.submitted_at DESC").
		Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) GetUserRating(ctx context.Context, userID, postID uint, ratingType string) (*models.UserRating, error) {
	var rating models.UserRating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ? AND rating_type = ?", userID, postID, ratingType).
		First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &rating, nil
}

func (r *postRepository) SaveUserRating(ctx context.Context, rating *models.UserRating) error {
	if err := r.db.WithContext(ctx).Save(rating).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
