package service

import (
	"context"

	"famenet/internal/models"
	"famenet/internal/repository"
)

// SocialService maintains the directed follow graph.
type SocialService struct {
	userRepo repository.UserRepository
}

// NewSocialService returns a new SocialService.
func NewSocialService(userRepo repository.UserRepository) *SocialService {
	return &SocialService{userRepo: userRepo}
}

// FollowResult signals whether the operation changed anything.
type FollowResult struct {
	Followed bool `json:"followed"`
}

// UnfollowResult signals whether the operation changed anything.
type UnfollowResult struct {
	Unfollowed bool `json:"unfollowed"`
}

// Follow makes the user follow the target. Following an already-followed
// user is signalled, not an error.
func (s *SocialService) Follow(ctx context.Context, userID, targetID uint) (*FollowResult, error) {
	if userID == targetID {
		return nil, models.NewValidationError("You cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return nil, err
	}

	already, err := s.userRepo.IsFollowing(ctx, userID, targetID)
	if err != nil {
		return nil, err
	}
	if already {
		return &FollowResult{Followed: false}, nil
	}
	if err := s.userRepo.Follow(ctx, userID, targetID); err != nil {
		return nil, err
	}
	return &FollowResult{Followed: true}, nil
}

// Unfollow removes the follow edge if present.
func (s *SocialService) Unfollow(ctx context.Context, userID, targetID uint) (*UnfollowResult, error) {
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return nil, err
	}

	following, err := s.userRepo.IsFollowing(ctx, userID, targetID)
	if err != nil {
		return nil, err
	}
	if !following {
		return &UnfollowResult{Unfollowed: false}, nil
	}
	if err := s.userRepo.Unfollow(ctx, userID, targetID); err != nil {
		return nil, err
	}
	return &UnfollowResult{Unfollowed: true}, nil
}

// Follows returns the users this user follows.
func (s *SocialService) Follows(ctx context.Context, userID uint, start int, end *int) ([]models.User, error) {
	offset, limit, err := window(start, end)
	if err != nil {
		return nil, err
	}
	return s.userRepo.Follows(ctx, userID, offset, limit)
}

// Followers returns the users following this user.
func (s *SocialService) Followers(ctx context.Context, userID uint, start int, end *int) ([]models.User, error) {
	offset, limit, err := window(start, end)
	if err != nil {
		return nil, err
	}
	return s.userRepo.Followers(ctx, userID, offset, limit)
}
