package service

import (
	"context"
	"strings"

	"famenet/internal/cache"
	"famenet/internal/models"
	"famenet/internal/repository"
)

// FeedService selects visible posts for timelines and search.
type FeedService struct {
	postRepo      repository.PostRepository
	communityRepo repository.CommunityRepository
}

// NewFeedService returns a new FeedService.
func NewFeedService(postRepo repository.PostRepository, communityRepo repository.CommunityRepository) *FeedService {
	return &FeedService{postRepo: postRepo, communityRepo: communityRepo}
}

// TimelineInput selects a timeline window. End is inclusive; nil means
// "to the end".
type TimelineInput struct {
	UserID        uint
	Start         int
	End           *int
	Published     bool
	CommunityMode bool
}

// Timeline returns the user's feed. In standard mode: published posts of
// followed users plus all own posts. In community mode: posts sharing at
// least one community between requester and author; an empty membership set
// yields an empty feed, never "all posts".
func (s *FeedService) Timeline(ctx context.Context, in TimelineInput) ([]models.Post, error) {
	offset, limit, err := window(in.Start, in.End)
	if err != nil {
		return nil, err
	}

	// Only the default unwindowed page gets cached; addressed windows go
	// straight to the store.
	if offset == 0 && limit == 0 {
		var posts []models.Post
		key := cache.TimelineKey(in.UserID, in.CommunityMode, in.Published)
		err := cache.Aside(ctx, key, &posts, cache.TimelineTTL, func() error {
			var ferr error
			posts, ferr = s.fetch(ctx, in, offset, limit)
			return ferr
		})
		return posts, err
	}
	return s.fetch(ctx, in, offset, limit)
}

func (s *FeedService) fetch(ctx context.Context, in TimelineInput, offset, limit int) ([]models.Post, error) {
	if in.CommunityMode {
		areas, err := s.communityRepo.AreasForUser(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
		if len(areas) == 0 {
			return []models.Post{}, nil
		}
		return s.postRepo.CommunityTimeline(ctx, in.UserID, in.Published, offset, limit)
	}
	return s.postRepo.Timeline(ctx, in.UserID, in.Published, offset, limit)
}

// Search returns published posts matching the keyword in content or author
// identity, newest first.
func (s *FeedService) Search(ctx context.Context, keyword string, start int, end *int) ([]models.Post, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, models.NewValidationError("Search keyword is required")
	}
	offset, limit, err := window(start, end)
	if err != nil {
		return nil, err
	}
	return s.postRepo.Search(ctx, keyword, true, offset, limit)
}

// window converts start/end-inclusive pagination into offset/limit.
// limit 0 means unbounded.
func window(start int, end *int) (offset, limit int, err error) {
	if start < 0 {
		return 0, 0, models.NewValidationError("start must not be negative")
	}
	if end == nil {
		return start, 0, nil
	}
	if *end < start {
		return 0, 0, models.NewValidationError("end must not precede start")
	}
	return start, *end - start + 1, nil
}
