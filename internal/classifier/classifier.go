// Package classifier abstracts the external content-classification and
// truth-rating oracle behind a single capability interface so the reputation
// engine can be tested with a deterministic fake.
package classifier

import (
	"context"
	"hash/fnv"
	"math/rand"

	"famenet/internal/models"
)

// AreaRating is one classifier verdict: a detected expertise area and an
// optional truth rating. A nil Truth means the area was detected but
// truthfulness is undetermined.
type AreaRating struct {
	Area  models.ExpertiseArea `json:"expertise_area"`
	Truth *models.TruthRating  `json:"truth_rating"`
}

// Result is the classifier output for one piece of content.
type Result struct {
	// HasBullshitArea is true when at least one detected area carries a
	// negative truth rating.
	HasBullshitArea bool
	Ratings         []AreaRating
}

// Classifier assigns expertise areas and truth ratings to raw text.
// Implementations must be deterministic: identical content always yields an
// identical result.
type Classifier interface {
	Classify(ctx context.Context, content string) (Result, error)
}

// Oracle is a deterministic stand-in for the external classification service.
// It derives every verdict from a hash of the content, so resubmitting
// identical content reproduces identical areas and ratings.
type Oracle struct {
	areas   []models.ExpertiseArea
	ratings []models.TruthRating
	// areasPerPost controls how many areas are detected per non-empty content.
	areasPerPost int
	// ratedShare is the per-area chance (0..1) of attaching a truth rating.
	ratedShare float64
}

// NewOracle builds an Oracle over the given reference catalogs. Areas and
// ratings must be the immutable reference data from the store.
func NewOracle(areas []models.ExpertiseArea, ratings []models.TruthRating) *Oracle {
	return &Oracle{
		areas:        areas,
		ratings:      ratings,
		areasPerPost: 2,
		ratedShare:   0.6,
	}
}

// Classify implements Classifier. Empty content yields an empty result.
func (o *Oracle) Classify(_ context.Context, content string) (Result, error) {
	if content == "" || len(o.areas) == 0 {
		return Result{}, nil
	}

	h := fnv.New64a()
	h.Write([]byte(content))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	n := o.areasPerPost
	if n > len(o.areas) {
		n = len(o.areas)
	}

	picked := rng.Perm(len(o.areas))[:n]
	result := Result{Ratings: make([]AreaRating, 0, n)}
	for _, idx := range picked {
		ar := AreaRating{Area: o.areas[idx]}
		if len(o.ratings) > 0 && rng.Float64() < o.ratedShare {
			rating := o.ratings[rng.Intn(len(o.ratings))]
			ar.Truth = &rating
			if rating.NumericValue < 0 {
				result.HasBullshitArea = true
			}
		}
		result.Ratings = append(result.Ratings, ar)
	}
	return result, nil
}
