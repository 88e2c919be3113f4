package service

import (
	"context"
	"sort"

	"famenet/internal/cache"
	"famenet/internal/models"
	"famenet/internal/repository"
)

// FameService exposes read-only queries over the reputation store: fame
// profiles, the bullshitters leaderboard and user similarity.
type FameService struct {
	fameRepo repository.FameRepository
	userRepo repository.UserRepository
}

// NewFameService returns a new FameService.
func NewFameService(fameRepo repository.FameRepository, userRepo repository.UserRepository) *FameService {
	return &FameService{fameRepo: fameRepo, userRepo: userRepo}
}

// Fame returns the user and their full fame profile.
func (s *FameService) Fame(ctx context.Context, userID uint) (*models.User, []models.FameEntry, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	entries, err := s.fameRepo.EntriesForUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, entries, nil
}

// BullshitterEntry is one leaderboard row.
type BullshitterEntry struct {
	User             models.User `json:"user"`
	FameLevelNumeric int         `json:"fame_level_numeric"`
}

// AreaBullshitters is the leaderboard for one expertise area.
type AreaBullshitters struct {
	Area    models.ExpertiseArea `json:"expertise_area"`
	Entries []BullshitterEntry   `json:"entries"`
}

// Bullshitters returns, per expertise area holding at least one negative
// fame entry, the users with negative fame in that area: most negative
// first, ties broken by most recent join, residual ties by user id so the
// order is a deterministic total order. Areas without negative entries are
// omitted; an empty store yields an empty result, never an error.
func (s *FameService) Bullshitters(ctx context.Context) ([]AreaBullshitters, error) {
	var result []AreaBullshitters
	err := cache.Aside(ctx, cache.BullshittersKey(), &result, cache.LeaderboardTTL, func() error {
		entries, err := s.fameRepo.NegativeEntries(ctx)
		if err != nil {
			return err
		}

		byArea := make(map[uint]*AreaBullshitters)
		var areaOrder []uint
		for _, e := range entries {
			group, ok := byArea[e.ExpertiseAreaID]
			if !ok {
				group = &AreaBullshitters{Area: e.ExpertiseArea}
				byArea[e.ExpertiseAreaID] = group
				areaOrder = append(areaOrder, e.ExpertiseAreaID)
			}
			group.Entries = append(group.Entries, BullshitterEntry{
				User:             e.User,
				FameLevelNumeric: e.FameLevel.NumericValue,
			})
		}

		sort.Slice(areaOrder, func(i, j int) bool { return areaOrder[i] < areaOrder[j] })

		result = make([]AreaBullshitters, 0, len(areaOrder))
		for _, areaID := range areaOrder {
			group := byArea[areaID]
			sort.Slice(group.Entries, func(i, j int) bool {
				a, b := group.Entries[i], group.Entries[j]
				if a.FameLevelNumeric != b.FameLevelNumeric {
					return a.FameLevelNumeric < b.FameLevelNumeric
				}
				if !a.User.JoinedAt.Equal(b.User.JoinedAt) {
					return a.User.JoinedAt.After(b.User.JoinedAt)
				}
				return a.User.ID < b.User.ID
			})
			result = append(result, *group)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = []AreaBullshitters{}
	}
	return result, nil
}

// SimilarUser annotates a user with a similarity score in (0.0, 1.0].
type SimilarUser struct {
	User       models.User `json:"user"`
	Similarity float64     `json:"similarity"`
}

// SimilarUsers ranks other users by fame-profile similarity to the given
// user. Let Ei be the user's tracked areas; a shared area counts as an
// agreement when the numeric fame values differ by at most 100, and the
// score is agreements / |Ei|. Users without agreements are excluded; an
// empty profile yields an empty result, never an error.
func (s *FameService) SimilarUsers(ctx context.Context, userID uint) ([]SimilarUser, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	own, err := s.fameRepo.EntriesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(own) == 0 {
		return []SimilarUser{}, nil
	}

	ownValue := make(map[uint]int, len(own))
	areaIDs := make([]uint, 0, len(own))
	for _, e := range own {
		ownValue[e.ExpertiseAreaID] = e.FameLevel.NumericValue
		areaIDs = append(areaIDs, e.ExpertiseAreaID)
	}

	others, err := s.fameRepo.EntriesInAreas(ctx, areaIDs, userID)
	if err != nil {
		return nil, err
	}

	agreements := make(map[uint]int)
	users := make(map[uint]models.User)
	for _, e := range others {
		users[e.UserID] = e.User
		diff := ownValue[e.ExpertiseAreaID] - e.FameLevel.NumericValue
		if diff < 0 {
			diff = -diff
		}
		if diff <= 100 {
			agreements[e.UserID]++
		}
	}

	result := make([]SimilarUser, 0, len(agreements))
	for uid, count := range agreements {
		if count == 0 {
			continue
		}
		result = append(result, SimilarUser{
			User:       users[uid],
			Similarity: float64(count) / float64(len(areaIDs)),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		if !a.User.JoinedAt.Equal(b.User.JoinedAt) {
			return a.User.JoinedAt.After(b.User.JoinedAt)
		}
		return a.User.ID < b.User.ID
	})
	return result, nil
}
