package service

import (
	"context"
	"sort"
	"strings"

	"famenet/internal/classifier"
	"famenet/internal/models"
	"famenet/internal/repository"
)

// memStore is a shared in-memory backing store for the repository fakes.
// All fakes operate on the same state so scenarios read back their own
// writes, the way a real transaction would.
type memStore struct {
	users       map[uint]*models.User
	posts       map[uint]*models.Post
	areaRatings []models.PostAreaRating
	userRatings []*models.UserRating

	levels  []models.FameLevel
	areas   map[uint]models.ExpertiseArea
	entries []*models.FameEntry

	follows     map[[2]uint]bool
	memberships map[[2]uint]bool

	nextPostID   uint
	nextEntryID  uint
	nextRatingID uint
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[uint]*models.User{},
		posts:        map[uint]*models.Post{},
		areas:        map[uint]models.ExpertiseArea{},
		follows:      map[[2]uint]bool{},
		memberships:  map[[2]uint]bool{},
		nextPostID:   1,
		nextEntryID:  1,
		nextRatingID: 1,
	}
}

func (m *memStore) addUser(u models.User) *models.User {
	cp := u
	m.users[cp.ID] = &cp
	return &cp
}

func (m *memStore) addArea(id uint, label string) models.ExpertiseArea {
	area := models.ExpertiseArea{ID: id, Label: label}
	m.areas[id] = area
	return area
}

func (m *memStore) levelByName(name string) models.FameLevel {
	for _, l := range m.levels {
		if l.Name == name {
			return l
		}
	}
	return models.FameLevel{}
}

func (m *memStore) addEntry(userID, areaID uint, level models.FameLevel) *models.FameEntry {
	e := &models.FameEntry{
		ID:              m.nextEntryID,
		UserID:          userID,
		ExpertiseAreaID: areaID,
		FameLevelID:     level.ID,
		FameLevel:       level,
	}
	if u, ok := m.users[userID]; ok {
		e.User = *u
	}
	if a, ok := m.areas[areaID]; ok {
		e.ExpertiseArea = a
	}
	m.nextEntryID++
	m.entries = append(m.entries, e)
	return e
}

// standardLevels installs a five-rung ladder centered on the rungs the
// reputation engine cares about.
func (m *memStore) standardLevels() {
	m.levels = []models.FameLevel{
		{ID: 1, Name: models.FameLevelDangerousBullshiter, NumericValue: -500},
		{ID: 2, Name: models.FameLevelConfuser, NumericValue: -10},
		{ID: 3, Name: "Newbie", NumericValue: 0},
		{ID: 4, Name: models.FameLevelSuperPro, NumericValue: models.SuperProThreshold},
		{ID: 5, Name: "Legend", NumericValue: 500},
	}
}

type fakeUserRepo struct{ s *memStore }

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, models.NewNotFoundError("user", id)
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range r.s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if user.ID == 0 {
		user.ID = uint(len(r.s.users) + 1)
	}
	r.s.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.s.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Follow(_ context.Context, followerID, followeeID uint) error {
	r.s.follows[[2]uint{followerID, followeeID}] = true
	return nil
}

func (r *fakeUserRepo) Unfollow(_ context.Context, followerID, followeeID uint) error {
	delete(r.s.follows, [2]uint{followerID, followeeID})
	return nil
}

func (r *fakeUserRepo) IsFollowing(_ context.Context, followerID, followeeID uint) (bool, error) {
	return r.s.follows[[2]uint{followerID, followeeID}], nil
}

func (r *fakeUserRepo) Follows(_ context.Context, userID uint, offset, limit int) ([]models.User, error) {
	var out []models.User
	for edge := range r.s.follows {
		if edge[0] == userID {
			out = append(out, *r.s.users[edge[1]])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, offset, limit), nil
}

func (r *fakeUserRepo) Followers(_ context.Context, userID uint, offset, limit int) ([]models.User, error) {
	var out []models.User
	for edge := range r.s.follows {
		if edge[1] == userID {
			out = append(out, *r.s.users[edge[0]])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, offset, limit), nil
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

type fakePostRepo struct{ s *memStore }

func (r *fakePostRepo) Create(_ context.Context, post *models.Post) error {
	post.ID = r.s.nextPostID
	r.s.nextPostID++
	cp := *post
	r.s.posts[cp.ID] = &cp
	return nil
}

func (r *fakePostRepo) Update(_ context.Context, post *models.Post) error {
	cp := *post
	r.s.posts[cp.ID] = &cp
	return nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id uint) (*models.Post, error) {
	p, ok := r.s.posts[id]
	if !ok {
		return nil, models.NewNotFoundError("post", id)
	}
	return p, nil
}

func (r *fakePostRepo) UnpublishByAuthor(_ context.Context, authorID uint) error {
	for _, p := range r.s.posts {
		if p.AuthorID == authorID {
			p.Published = false
		}
	}
	return nil
}

func (r *fakePostRepo) CreateAreaRatings(_ context.Context, ratings []models.PostAreaRating) error {
	r.s.areaRatings = append(r.s.areaRatings, ratings...)
	return nil
}

func (r *fakePostRepo) AreaRatingsForPost(_ context.Context, postID uint) ([]models.PostAreaRating, error) {
	var out []models.PostAreaRating
	for _, ar := range r.s.areaRatings {
		if ar.PostID == postID {
			out = append(out, ar)
		}
	}
	return out, nil
}

func (r *fakePostRepo) Timeline(_ context.Context, userID uint, published bool, offset, limit int) ([]models.Post, error) {
	var out []models.Post
	for _, p := range r.s.posts {
		if p.AuthorID == userID || (r.s.follows[[2]uint{userID, p.AuthorID}] && p.Published == published) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, offset, limit), nil
}

func (r *fakePostRepo) CommunityTimeline(_ context.Context, userID uint, published bool, offset, limit int) ([]models.Post, error) {
	var out []models.Post
	for _, p := range r.s.posts {
		if p.Published != published && p.AuthorID != userID {
			continue
		}
		shared := false
		for _, ar := range r.s.areaRatings {
			if ar.PostID != p.ID {
				continue
			}
			if r.s.memberships[[2]uint{userID, ar.ExpertiseAreaID}] &&
				r.s.memberships[[2]uint{p.AuthorID, ar.ExpertiseAreaID}] {
				shared = true
				break
			}
		}
		if shared {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, offset, limit), nil
}

func (r *fakePostRepo) Search(_ context.Context, keyword string, published bool, offset, limit int) ([]models.Post, error) {
	needle := strings.ToLower(keyword)
	var out []models.Post
	for _, p := range r.s.posts {
		if p.Published != published {
			continue
		}
		author := r.s.users[p.AuthorID]
		hay := strings.ToLower(p.Content)
		if author != nil {
			hay += " " + strings.ToLower(author.Email+" "+author.FirstName+" "+author.LastName)
		}
		if strings.Contains(hay, needle) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, offset, limit), nil
}

func (r *fakePostRepo) GetUserRating(_ context.Context, userID, postID uint, ratingType string) (*models.UserRating, error) {
	for _, ur := range r.s.userRatings {
		if ur.UserID == userID && ur.PostID == postID && ur.RatingType == ratingType {
			return ur, nil
		}
	}
	return nil, nil
}

func (r *fakePostRepo) SaveUserRating(_ context.Context, rating *models.UserRating) error {
	if rating.ID == 0 {
		rating.ID = r.s.nextRatingID
		r.s.nextRatingID++
		r.s.userRatings = append(r.s.userRatings, rating)
	}
	return nil
}

type fakeFameRepo struct{ s *memStore }

func (r *fakeFameRepo) Ladder(_ context.Context) (*models.FameLadder, error) {
	return models.NewFameLadder(r.s.levels), nil
}

func (r *fakeFameRepo) ListAreas(_ context.Context) ([]models.ExpertiseArea, error) {
	var out []models.ExpertiseArea
	for _, a := range r.s.areas {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeFameRepo) GetAreaByID(_ context.Context, id uint) (*models.ExpertiseArea, error) {
	a, ok := r.s.areas[id]
	if !ok {
		return nil, models.NewNotFoundError("expertise area", id)
	}
	return &a, nil
}

func (r *fakeFameRepo) ListTruthRatings(_ context.Context) ([]models.TruthRating, error) {
	return nil, nil
}

func (r *fakeFameRepo) GetEntry(_ context.Context, userID, areaID uint) (*models.FameEntry, error) {
	for _, e := range r.s.entries {
		if e.UserID == userID && e.ExpertiseAreaID == areaID {
			return e, nil
		}
	}
	return nil, nil
}

func (r *fakeFameRepo) CreateEntry(_ context.Context, entry *models.FameEntry) error {
	entry.ID = r.s.nextEntryID
	r.s.nextEntryID++
	for _, l := range r.s.levels {
		if l.ID == entry.FameLevelID {
			entry.FameLevel = l
		}
	}
	r.s.entries = append(r.s.entries, entry)
	return nil
}

func (r *fakeFameRepo) UpdateEntryLevel(_ context.Context, entryID, levelID uint) error {
	for _, e := range r.s.entries {
		if e.ID == entryID {
			e.FameLevelID = levelID
			for _, l := range r.s.levels {
				if l.ID == levelID {
					e.FameLevel = l
				}
			}
		}
	}
	return nil
}

func (r *fakeFameRepo) EntriesForUser(_ context.Context, userID uint) ([]models.FameEntry, error) {
	var out []models.FameEntry
	for _, e := range r.s.entries {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeFameRepo) HasNegativeIn(_ context.Context, userID uint, areaIDs []uint) (bool, error) {
	for _, e := range r.s.entries {
		if e.UserID != userID || e.FameLevel.NumericValue >= 0 {
			continue
		}
		for _, id := range areaIDs {
			if e.ExpertiseAreaID == id {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *fakeFameRepo) NegativeEntries(_ context.Context) ([]models.FameEntry, error) {
	var out []models.FameEntry
	for _, e := range r.s.entries {
		if e.FameLevel.NumericValue < 0 {
			cp := *e
			if u, ok := r.s.users[e.UserID]; ok {
				cp.User = *u
			}
			out = append(out, cp)
		}
	}
	return out, nil
}

func (r *fakeFameRepo) EntriesInAreas(_ context.Context, areaIDs []uint, excludeUserID uint) ([]models.FameEntry, error) {
	var out []models.FameEntry
	for _, e := range r.s.entries {
		if e.UserID == excludeUserID {
			continue
		}
		for _, id := range areaIDs {
			if e.ExpertiseAreaID == id {
				cp := *e
				if u, ok := r.s.users[e.UserID]; ok {
					cp.User = *u
				}
				out = append(out, cp)
				break
			}
		}
	}
	return out, nil
}

type fakeCommunityRepo struct{ s *memStore }

func (r *fakeCommunityRepo) Join(_ context.Context, userID, areaID uint) error {
	r.s.memberships[[2]uint{userID, areaID}] = true
	return nil
}

func (r *fakeCommunityRepo) Leave(_ context.Context, userID, areaID uint) error {
	delete(r.s.memberships, [2]uint{userID, areaID})
	return nil
}

func (r *fakeCommunityRepo) IsMember(_ context.Context, userID, areaID uint) (bool, error) {
	return r.s.memberships[[2]uint{userID, areaID}], nil
}

func (r *fakeCommunityRepo) AreasForUser(_ context.Context, userID uint) ([]models.ExpertiseArea, error) {
	var out []models.ExpertiseArea
	for key := range r.s.memberships {
		if key[0] == userID {
			out = append(out, r.s.areas[key[1]])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fakeUnitOfWork passes the shared fakes straight through; there is no
// rollback, tests assert on committed state only.
type fakeUnitOfWork struct{ repos *repository.TxRepos }

func (u *fakeUnitOfWork) Do(_ context.Context, fn func(tx *repository.TxRepos) error) error {
	return fn(u.repos)
}

// stubClassifier lets each test script the verdict.
type stubClassifier struct {
	classifyFunc func(ctx context.Context, content string) (classifier.Result, error)
}

func (c *stubClassifier) Classify(ctx context.Context, content string) (classifier.Result, error) {
	return c.classifyFunc(ctx, content)
}

// buildPostService wires a PostService over one shared memStore.
func buildPostService(s *memStore, cls classifier.Classifier) *PostService {
	users := &fakeUserRepo{s: s}
	posts := &fakePostRepo{s: s}
	fame := &fakeFameRepo{s: s}
	communities := &fakeCommunityRepo{s: s}
	uow := &fakeUnitOfWork{repos: &repository.TxRepos{
		Users:       users,
		Posts:       posts,
		Fame:        fame,
		Communities: communities,
	}}
	return NewPostService(uow, posts, users, cls)
}
