package service

import (
	"context"

	"famenet/internal/models"
	"famenet/internal/repository"
)

// CommunityService maintains user-to-community membership. The join and
// leave operations themselves enforce no eligibility rule; CanJoin is the
// boundary-side check (fame at or above the Super Pro threshold).
type CommunityService struct {
	communityRepo repository.CommunityRepository
	fameRepo      repository.FameRepository
}

// NewCommunityService returns a new CommunityService.
func NewCommunityService(communityRepo repository.CommunityRepository, fameRepo repository.FameRepository) *CommunityService {
	return &CommunityService{communityRepo: communityRepo, fameRepo: fameRepo}
}

// MembershipResult signals whether the operation changed anything.
type MembershipResult struct {
	Joined bool `json:"joined,omitempty"`
	Left   bool `json:"left,omitempty"`
}

// CanJoin reports whether the user's fame in the area meets the Super Pro
// threshold. Users without a fame entry in the area are not eligible.
func (s *CommunityService) CanJoin(ctx context.Context, userID, areaID uint) (bool, error) {
	entry, err := s.fameRepo.GetEntry(ctx, userID, areaID)
	if err != nil {
		return false, err
	}
	if entry == nil {
		return false, nil
	}
	return entry.FameLevel.NumericValue >= models.SuperProThreshold, nil
}

// Join adds the membership if absent.
func (s *CommunityService) Join(ctx context.Context, userID, areaID uint) (*MembershipResult, error) {
	if _, err := s.fameRepo.GetAreaByID(ctx, areaID); err != nil {
		return nil, err
	}
	member, err := s.communityRepo.IsMember(ctx, userID, areaID)
	if err != nil {
		return nil, err
	}
	if member {
		return &MembershipResult{Joined: false}, nil
	}
	if err := s.communityRepo.Join(ctx, userID, areaID); err != nil {
		return nil, err
	}
	return &MembershipResult{Joined: true}, nil
}

// Leave removes the membership if present.
func (s *CommunityService) Leave(ctx context.Context, userID, areaID uint) (*MembershipResult, error) {
	if _, err := s.fameRepo.GetAreaByID(ctx, areaID); err != nil {
		return nil, err
	}
	member, err := s.communityRepo.IsMember(ctx, userID, areaID)
	if err != nil {
		return nil, err
	}
	if !member {
		return &MembershipResult{Left: false}, nil
	}
	if err := s.communityRepo.Leave(ctx, userID, areaID); err != nil {
		return nil, err
	}
	return &MembershipResult{Left: true}, nil
}

// Communities lists the areas the user has joined.
func (s *CommunityService) Communities(ctx context.Context, userID uint) ([]models.ExpertiseArea, error) {
	return s.communityRepo.AreasForUser(ctx, userID)
}
