package repository

import (
	"context"
	"errors"

	"famenet/internal/models"

	"gorm.io/gorm"
)

// FameRepository defines persistence operations for the reputation store:
// fame entries plus the immutable level, area and truth-rating catalogs.
type FameRepository interface {
	Ladder(ctx context.Context) (*models.FameLadder, error)
	ListAreas(ctx context.Context) ([]models.ExpertiseArea, error)
	GetAreaByID(ctx context.Context, id uint) (*models.ExpertiseArea, error)
	ListTruthRatings(ctx context.Context) ([]models.TruthRating, error)

	GetEntry(ctx context.Context, userID, areaID uint) (*models.FameEntry, error)
	CreateEntry(ctx context.Context, entry *models.FameEntry) error
	UpdateEntryLevel(ctx context.Context, entryID, levelID uint) error
	EntriesForUser(ctx context.Context, userID uint) ([]models.FameEntry, error)

	// HasNegativeIn reports whether the user holds a negative-valued fame
	// level in any of the given areas. Drives the publication veto.
	HasNegativeIn(ctx context.Context, userID uint, areaIDs []uint) (bool, error)

	// NegativeEntries returns every fame entry with a negative numeric value,
	// with user, area and level resolved. Feeds the bullshitters ranking.
	NegativeEntries(ctx context.Context) ([]models.FameEntry, error)

	// EntriesInAreas returns other users' entries restricted to the given
	// areas. Feeds the similarity engine.
	EntriesInAreas(ctx context.Context, areaIDs []uint, excludeUserID uint) ([]models.FameEntry, error)
}

type fameRepository struct {
	db *gorm.DB
}

// NewFameRepository returns a new FameRepository implementation.
func NewFameRepository(db *gorm.DB) FameRepository {
	return &fameRepository{db: db}
}

func (r *fameRepository) Ladder(ctx context.Context) (*models.FameLadder, error) {
	var levels []models.FameLevel
	if err := r.db.WithContext(ctx).Order("numeric_value").Find(&levels).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return models.NewFameLadder(levels), nil
}

func (r *fameRepository) ListAreas(ctx context.Context) ([]models.ExpertiseArea, error) {
	var areas []models.ExpertiseArea
	if err := r.db.WithContext(ctx).Order("id").Find(&areas).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return areas, nil
}

func (r *fameRepository) GetAreaByID(ctx context.Context, id uint) (*models.ExpertiseArea, error) {
	var area models.ExpertiseArea
	if err := r.db.WithContext(ctx).First(&area, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("ExpertiseArea", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &area, nil
}

func (r *fameRepository) ListTruthRatings(ctx context.Context) ([]models.TruthRating, error) {
	var ratings []models.TruthRating
	if err := r.db.WithContext(ctx).Order("id").Find(&ratings).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ratings, nil
}

func (r *fameRepository) GetEntry(ctx context.Context, userID, areaID uint) (*models.FameEntry, error) {
	var entry models.FameEntry
	err := r.db.WithContext(ctx).
		Preload("FameLevel").
		Preload("ExpertiseArea").
		Where("user_id = ? AND expertise_area_id = ?", userID, areaID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &entry, nil
}

func (r *fameRepository) CreateEntry(ctx context.Context, entry *models.FameEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Fame entry already exists for this user and area")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *fameRepository) UpdateEntryLevel(ctx context.Context, entryID, levelID uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.FameEntry{}).
		Where("id = ?", entryID).
		Update("fame_level_id", levelID).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *fameRepository) EntriesForUser(ctx context.Context, userID uint) ([]models.FameEntry, error) {
	var entries []models.FameEntry
	err := r.db.WithContext(ctx).
		Preload("ExpertiseArea").
		Preload("FameLevel").
		Where("user_id = ?", userID).
		Order("expertise_area_id").
		Find(&entries).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}

func (r *fameRepository) HasNegativeIn(ctx context.Context, userID uint, areaIDs []uint) (bool, error) {
	if len(areaIDs) == 0 {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.FameEntry{}).
		Joins("JOIN fame_levels ON fame_levels.id = fame_entries.fame_level_id").
		Where("fame_entries.user_id = ? AND fame_entries.expertise_area_id IN ?", userID, areaIDs).
		Where("fame_levels.numeric_value < 0").
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *fameRepository) NegativeEntries(ctx context.Context) ([]models.FameEntry, error) {
	var entries []models.FameEntry
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("ExpertiseArea").
		Preload("FameLevel").
		Joins("JOIN fame_levels ON fame_levels.id = fame_entries.fame_level_id").
		Where("fame_levels.numeric_value < 0").
		Find(&entries).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}

func (r *fameRepository) EntriesInAreas(ctx context.Context, areaIDs []uint, excludeUserID uint) ([]models.FameEntry, error) {
	if len(areaIDs) == 0 {
		return nil, nil
	}
	var entries []models.FameEntry
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("ExpertiseArea").
		Preload("FameLevel").
		Where("expertise_area_id IN ? AND user_id <> ?", areaIDs, excludeUserID).
		Find(&entries).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}
