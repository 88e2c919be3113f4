package service

import (
	"context"
	"errors"
	"testing"

	"famenet/internal/cache"
	"famenet/internal/classifier"
	"famenet/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	truthVerified = models.TruthRating{ID: 1, Name: "Verified", NumericValue: 200}
	truthWrong    = models.TruthRating{ID: 2, Name: "Mostly Wrong", NumericValue: -100}
)

func fixedVerdict(ratings ...classifier.AreaRating) *stubClassifier {
	hasBullshit := false
	for _, ar := range ratings {
		if ar.Truth != nil && ar.Truth.NumericValue < 0 {
			hasBullshit = true
		}
	}
	return &stubClassifier{classifyFunc: func(context.Context, string) (classifier.Result, error) {
		return classifier.Result{HasBullshitArea: hasBullshit, Ratings: ratings}, nil
	}}
}

func newSubmissionStore() *memStore {
	s := newMemStore()
	s.standardLevels()
	s.addArea(1, "Politics")
	s.addArea(2, "Economics")
	s.addUser(models.User{ID: 1, Username: "alice", Active: true})
	return s
}

func TestSubmitPostPublishesCleanPost(t *testing.T) {
	s := newSubmissionStore()
	svc := buildPostService(s, fixedVerdict(
		classifier.AreaRating{Area: s.areas[1], Truth: &truthVerified},
	))

	result, err := svc.SubmitPost(context.Background(), SubmitPostInput{UserID: 1, Content: "the budget passed"})
	require.NoError(t, err)

	assert.True(t, result.Published)
	assert.False(t, result.ForcedLogout)
	assert.True(t, s.posts[result.PostID].Published)
	assert.Len(t, s.areaRatings, 1)
}

func TestSubmitPostWithholdsBullshit(t *testing.T) {
	s := newSubmissionStore()
	svc := buildPostService(s, fixedVerdict(
		classifier.AreaRating{Area: s.areas[1], Truth: &truthWrong},
	))

	result, err := svc.SubmitPost(context.Background(), SubmitPostInput{UserID: 1, Content: "the earth is flat"})
	require.NoError(t, err)

	assert.False(t, result.Published)
	assert.False(t, s.posts[result.PostID].Published)
}

func TestSubmitPostVetoOnPriorNegativeFame(t *testing.T) {
	s := newSubmissionStore()
	// negative reputation in Politics blocks publication even when the
	// classifier finds nothing wrong with this post
	s.addEntry(1, 1, s.levelByName(models.FameLevelConfuser))

	svc := buildPostService(s, fixedVerdict(
		classifier.AreaRating{Area: s.areas[1], Truth: &truthVerified},
	))

	result, err := svc.SubmitPost(context.Background(), SubmitPostInput{UserID: 1, Content: "a true claim"})
	require.NoError(t, err)

	assert.False(t, result.Published)
	// no demotion either, the rating was positive
	assert.Equal(t, models.FameLevelConfuser, s.entries[0].FameLevel.Name)
}

func TestSubmitPostDemotesOneRung(t *testing.T) {
	s := newSubmissionStore()
	s.addEntry(1, 1, s.levelByName("Newbie"))

	svc := buildPostService(s, fixedVerdict(
		classifier.AreaRating{Area: s.areas[1], Truth: &truthWrong},
	))

	_, err := svc.SubmitPost(context.Background(), SubmitPostInput{UserID: 1, Content: "wrong take"})
	require.NoError(t, err)

	assert.Equal(t, models.FameLevelConfuser, s.entries[0].FameLevel.Name)
	user := s.users[1]
	assert.True(t, user.Active)
	assert.False(t, user.Banned)
}

func TestSubmitPostCreatesConfuserEntryForUntrackedArea(t *testing.T) {
	s := newSubmissionStore()
	svc := buildPostService(s, fixedVerdict(
		classifier.AreaRating{Area: s.areas[2], Truth: &truthWrong},
	))

	_, err := svc.SubmitPost(context.Background(), SubmitPostInput{UserID: 1, Content: "bad economics"})
	require.NoError(t, err)

	require.Len(t, s.entries, 1)
	assert.Equal(t, uint(2), s.entries[0].ExpertiseAreaID)
	assert.Equal(t, models.FameLevelConfuser, s.entries[0].FameLevel.Name)
}

func TestSubmitPostBansAtLadderBottom(t *testing.T) {
	s := newSubmissionStore()
	s.addEntry(1, 1, s.levelByName(models.FameLevelDangerousBullshiter))

	// a previously published post that the ban must retract
	prior := &models.Post{ID: 99, AuthorID: 1, Content: "old post", Published: true}
	s.posts[99] = prior

	svc := buildPostService(s, fixedVerdict(
		classifier.AreaRating{Area: s.areas[1], Truth: &truthWrong},
	))

	result, err := svc.SubmitPost(context.Background(), SubmitPostInput{UserID: 1, Content: "one lie too many"})
	require.NoError(t, err)

	assert.True(t, result.ForcedLogout)
	assert.False(t, result.Published)

	user := s.users[1]
	assert.True(t, user.Banned)
	assert.False(t, user.Active)
	assert.False(t, prior.Published)
	// the level stays at the bottom rung, there is nothing lower
	assert.Equal(t, models.FameLevelDangerousBullshiter, s.entries[0].FameLevel.Name)
}

func TestSubmitPostBanDropsAuthorTimelineCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	s := newSubmissionStore()
	s.addEntry(1, 1, s.levelByName(models.FameLevelDangerousBullshiter))

	staleKey := cache.TimelineKey(1, false, true)
	require.NoError(t, mr.Set(staleKey, `[{"id":99}]`))
	keptKey := cache.TimelineKey(2, false, true)
	require.NoError(t, mr.Set(keptKey, `[]`))

	svc := buildPostService(s, fixedVerdict(
		classifier.AreaRating{Area: s.areas[1], Truth: &truthWrong},
	))

	result, err := svc.SubmitPost(context.Background(), SubmitPostInput{UserID: 1, Content: "one lie too many"})
	require.NoError(t, err)
	require.True(t, result.ForcedLogout)

	// the banned author's cached pages are gone, other users' age out via TTL
	assert.False(t, mr.Exists(staleKey))
	assert.True(t, mr.Exists(keptKey))
}

func TestSubmitPostBanDoesNotSkipRemainingAreas(t *testing.T) {
	s := newSubmissionStore()
	s.addEntry(1, 1, s.levelByName(models.FameLevelDangerousBullshiter))
	s.addEntry(1, 2, s.levelByName("Newbie"))

	svc := buildPostService(s, fixedVerdict(
		classifier.AreaRating{Area: s.areas[1], Truth: &truthWrong},
		classifier.AreaRating{Area: s.areas[2], Truth: &truthWrong},
	))

	result, err := svc.SubmitPost(context.Background(), SubmitPostInput{UserID: 1, Content: "doubly wrong"})
	require.NoError(t, err)
	assert.True(t, result.ForcedLogout)

	// the second area was still demoted after the ban fired on the first
	assert.Equal(t, models.FameLevelConfuser, s.entries[1].FameLevel.Name)
}

func TestSubmitPostEvictsFromCommunityBelowThreshold(t *testing.T) {
	s := newSubmissionStore()
	s.addEntry(1, 1, s.levelByName(models.FameLevelSuperPro))
	s.memberships[[2]uint{1, 1}] = true

	svc := buildPostService(s, fixedVerdict(
		classifier.AreaRating{Area: s.areas[1], Truth: &truthWrong},
	))

	_, err := svc.SubmitPost(context.Background(), SubmitPostInput{UserID: 1, Content: "an expert slips"})
	require.NoError(t, err)

	assert.Equal(t, "Newbie", s.entries[0].FameLevel.Name)
	assert.False(t, s.memberships[[2]uint{1, 1}])
}

func TestSubmitPostKeepsMembershipAtOrAboveThreshold(t *testing.T) {
	s := newSubmissionStore()
	s.addEntry(1, 1, s.levelByName("Legend"))
	s.memberships[[2]uint{1, 1}] = true

	svc := buildPostService(s, fixedVerdict(
		classifier.AreaRating{Area: s.areas[1], Truth: &truthWrong},
	))

	_, err := svc.SubmitPost(context.Background(), SubmitPostInput{UserID: 1, Content: "a legend slips"})
	require.NoError(t, err)

	// Legend demotes to Super Pro, which is exactly the threshold
	assert.Equal(t, models.FameLevelSuperPro, s.entries[0].FameLevel.Name)
	assert.True(t, s.memberships[[2]uint{1, 1}])
}

func TestSubmitPostClassifierErrorAborts(t *testing.T) {
	s := newSubmissionStore()
	svc := buildPostService(s, &stubClassifier{
		classifyFunc: func(context.Context, string) (classifier.Result, error) {
			return classifier.Result{}, errors.New("oracle unavailable")
		},
	})

	_, err := svc.SubmitPost(context.Background(), SubmitPostInput{UserID: 1, Content: "anything"})
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeInternal, appErr.Code)
}

func TestSubmitPostRefusesBannedAuthor(t *testing.T) {
	s := newSubmissionStore()
	s.addUser(models.User{ID: 2, Username: "mallory", Active: false, Banned: true})

	svc := buildPostService(s, fixedVerdict())
	_, err := svc.SubmitPost(context.Background(), SubmitPostInput{UserID: 2, Content: "let me back in"})

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeBanned, appErr.Code)
}

func TestSubmitPostRejectsEmptyContent(t *testing.T) {
	s := newSubmissionStore()
	svc := buildPostService(s, fixedVerdict())

	_, err := svc.SubmitPost(context.Background(), SubmitPostInput{UserID: 1, Content: "   "})

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

func TestRatePost(t *testing.T) {
	s := newSubmissionStore()
	s.addUser(models.User{ID: 2, Username: "bob", Active: true})
	s.posts[1] = &models.Post{ID: 1, AuthorID: 1, Content: "rate me", Published: true}

	svc := buildPostService(s, fixedVerdict())
	ctx := context.Background()

	result, err := svc.RatePost(ctx, 2, 1, "truth", 80)
	require.NoError(t, err)
	assert.Equal(t, "new", result.Type)

	result, err = svc.RatePost(ctx, 2, 1, "truth", 40)
	require.NoError(t, err)
	assert.Equal(t, "update", result.Type)
	require.Len(t, s.userRatings, 1)
	assert.Equal(t, 40, s.userRatings[0].RatingScore)
}

func TestRatePostOwnPostRefused(t *testing.T) {
	s := newSubmissionStore()
	s.posts[1] = &models.Post{ID: 1, AuthorID: 1, Content: "self five", Published: true}

	svc := buildPostService(s, fixedVerdict())
	_, err := svc.RatePost(context.Background(), 1, 1, "truth", 100)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeUnauthorized, appErr.Code)
}
