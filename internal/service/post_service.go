package service

import (
	"context"
	"errors"
	"strings"

	"famenet/internal/cache"
	"famenet/internal/classifier"
	"famenet/internal/models"
	"famenet/internal/observability"
	"famenet/internal/repository"
)

// PostService runs the submission pipeline: publication policy, reputation
// update engine and community auto-eviction, all inside one transaction. It
// also handles reader ratings of posts.
type PostService struct {
	uow        repository.UnitOfWork
	postRepo   repository.PostRepository
	userRepo   repository.UserRepository
	classifier classifier.Classifier
}

// NewPostService returns a new PostService.
func NewPostService(
	uow repository.UnitOfWork,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	cls classifier.Classifier,
) *PostService {
	return &PostService{
		uow:        uow,
		postRepo:   postRepo,
		userRepo:   userRepo,
		classifier: cls,
	}
}

// SubmitPostInput carries one post submission.
type SubmitPostInput struct {
	UserID      uint
	Content     string
	CitesID     *uint
	RepliesToID *uint
}

// SubmitPostResult is the outcome of one submission.
type SubmitPostResult struct {
	PostID    uint                    `json:"id"`
	Published bool                    `json:"published"`
	Ratings   []classifier.AreaRating `json:"ratings"`
	// ForcedLogout is true when this submission banned the author; boundary
	// layers must terminate the session.
	ForcedLogout bool `json:"forced_logout"`
}

// SubmitPost persists the post, classifies it, applies the publication
// policy (classifier verdict plus author-reputation veto), adjusts the
// author's fame profile for negative truth ratings, bans authors that fall
// off the bottom of the ladder, and evicts the author from communities whose
// fame dropped below the Super Pro threshold. A failure anywhere rolls the
// whole submission back.
func (s *PostService) SubmitPost(ctx context.Context, in SubmitPostInput) (*SubmitPostResult, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}

	var (
		result    *SubmitPostResult
		demotions int
		banned    bool
		evictions int
		vetoed    bool
	)

	err := s.uow.Do(ctx, func(tx *repository.TxRepos) error {
		user, err := tx.Users.GetByID(ctx, in.UserID)
		if err != nil {
			return err
		}
		if user.Banned || !user.Active {
			return models.NewBannedError()
		}

		post := &models.Post{
			Content:     in.Content,
			AuthorID:    user.ID,
			CitesID:     in.CitesID,
			RepliesToID: in.RepliesToID,
			Published:   false,
		}
		if err := tx.Posts.Create(ctx, post); err != nil {
			return err
		}

		verdict, err := s.classifier.Classify(ctx, in.Content)
		if err != nil {
			// aborts the transaction; no partial post survives
			return models.NewInternalError(err)
		}

		areaIDs := make([]uint, 0, len(verdict.Ratings))
		rows := make([]models.PostAreaRating, 0, len(verdict.Ratings))
		for _, ar := range verdict.Ratings {
			areaIDs = append(areaIDs, ar.Area.ID)
			row := models.PostAreaRating{PostID: post.ID, ExpertiseAreaID: ar.Area.ID}
			if ar.Truth != nil {
				id := ar.Truth.ID
				row.TruthRatingID = &id
			}
			rows = append(rows, row)
		}
		if err := tx.Posts.CreateAreaRatings(ctx, rows); err != nil {
			return err
		}

		published := !verdict.HasBullshitArea

		// Author-reputation veto, evaluated against the pre-update profile:
		// an area where the author already has negative fame blocks
		// publication regardless of this submission's truth ratings.
		veto, err := tx.Fame.HasNegativeIn(ctx, user.ID, areaIDs)
		if err != nil {
			return err
		}
		if veto {
			published = false
			vetoed = true
		}

		ladder, err := tx.Fame.Ladder(ctx)
		if err != nil {
			return err
		}

		forcedLogout := false
		for _, ar := range verdict.Ratings {
			if ar.Truth == nil || ar.Truth.NumericValue >= 0 {
				continue
			}
			entry, err := tx.Fame.GetEntry(ctx, user.ID, ar.Area.ID)
			if err != nil {
				return err
			}
			if entry == nil {
				// first negative rating in an untracked area
				confuser, err := ladder.ByName(models.FameLevelConfuser)
				if err != nil {
					observability.Logger.WarnContext(ctx, "confuser level missing, skipping fame entry creation")
					continue
				}
				if err := tx.Fame.CreateEntry(ctx, &models.FameEntry{
					UserID:          user.ID,
					ExpertiseAreaID: ar.Area.ID,
					FameLevelID:     confuser.ID,
				}); err != nil {
					return err
				}
				continue
			}

			lower, err := ladder.NextLower(entry.FameLevel)
			if errors.Is(err, models.ErrLadderBottom) {
				// already at the minimum rung: ban, leave the level as is.
				// Later negative areas of this submission are still processed.
				user.Active = false
				user.Banned = true
				if err := tx.Users.Update(ctx, user); err != nil {
					return err
				}
				if err := tx.Posts.UnpublishByAuthor(ctx, user.ID); err != nil {
					return err
				}
				forcedLogout = true
				banned = true
				continue
			}
			if err != nil {
				return err
			}
			if err := tx.Fame.UpdateEntryLevel(ctx, entry.ID, lower.ID); err != nil {
				return err
			}
			demotions++
		}

		// Community auto-eviction runs after the reputation update so it
		// observes post-demotion levels.
		superPro, err := ladder.ByName(models.FameLevelSuperPro)
		if err == nil {
			for _, areaID := range areaIDs {
				member, err := tx.Communities.IsMember(ctx, user.ID, areaID)
				if err != nil {
					return err
				}
				if !member {
					continue
				}
				entry, err := tx.Fame.GetEntry(ctx, user.ID, areaID)
				if err != nil {
					return err
				}
				if entry != nil && entry.FameLevel.NumericValue < superPro.NumericValue {
					if err := tx.Communities.Leave(ctx, user.ID, areaID); err != nil {
						return err
					}
					evictions++
				}
			}
		}

		if banned {
			// UnpublishByAuthor already covered the new row, keep the final
			// write consistent with it.
			published = false
		}
		post.Published = published
		if err := tx.Posts.Update(ctx, post); err != nil {
			return err
		}

		result = &SubmitPostResult{
			PostID:       post.ID,
			Published:    published,
			Ratings:      verdict.Ratings,
			ForcedLogout: forcedLogout,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	observability.SubmissionsTotal.WithLabelValues(publishedLabel(result.Published)).Inc()
	observability.DemotionsTotal.Add(float64(demotions))
	observability.EvictionsTotal.Add(float64(evictions))
	if vetoed {
		observability.VetoesTotal.Inc()
	}
	if banned {
		observability.BansTotal.Inc()
		// the bulk unpublish must not keep serving from the author's cached
		// feed pages; followers' pages age out with the TTL
		for _, community := range []bool{false, true} {
			for _, published := range []bool{false, true} {
				cache.Invalidate(ctx, cache.TimelineKey(in.UserID, community, published))
			}
		}
	}
	cache.Invalidate(ctx, cache.BullshittersKey())

	return result, nil
}

func publishedLabel(published bool) string {
	if published {
		return "published"
	}
	return "unpublished"
}

// RateResult reports whether a rating was created or updated in place.
type RateResult struct {
	Rated bool   `json:"rated"`
	Type  string `json:"type"`
}

// RatePost records or updates the user's rating of a post. Users cannot rate
// their own posts.
func (s *PostService) RatePost(ctx context.Context, userID, postID uint, ratingType string, score int) (*RateResult, error) {
	if strings.TrimSpace(ratingType) == "" {
		return nil, models.NewValidationError("Rating type is required")
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID == userID {
		return nil, models.NewUnauthorizedError("You cannot rate your own post")
	}

	existing, err := s.postRepo.GetUserRating(ctx, userID, postID, ratingType)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.RatingScore = score
		if err := s.postRepo.SaveUserRating(ctx, existing); err != nil {
			return nil, err
		}
		return &RateResult{Rated: true, Type: "update"}, nil
	}

	rating := &models.UserRating{
		UserID:      userID,
		PostID:      postID,
		RatingType:  ratingType,
		RatingScore: score,
	}
	if err := s.postRepo.SaveUserRating(ctx, rating); err != nil {
		return nil, err
	}
	return &RateResult{Rated: true, Type: "new"}, nil
}

// GetPost returns a post with its classifier verdict resolved.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}
