package repository

import (
	"context"

	"famenet/internal/models"

	"gorm.io/gorm"
)

// CommunityRepository defines persistence operations for community
// memberships (user x expertise area).
type CommunityRepository interface {
	Join(ctx context.Context, userID, areaID uint) error
	Leave(ctx context.Context, userID, areaID uint) error
	IsMember(ctx context.Context, userID, areaID uint) (bool, error)
	AreasForUser(ctx context.Context, userID uint) ([]models.ExpertiseArea, error)
}

type communityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository returns a new CommunityRepository implementation.
func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

func (r *communityRepository) Join(ctx context.Context, userID, areaID uint) error {
	user := models.User{ID: userID}
	err := r.db.WithContext(ctx).
		Model(&user).
		Association("Communities").
		Append(&models.ExpertiseArea{ID: areaID})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *communityRepository) Leave(ctx context.Context, userID, areaID uint) error {
	user := models.User{ID: userID}
	err := r.db.WithContext(ctx).
		Model(&user).
		Association("Communities").
		Delete(&models.ExpertiseArea{ID: areaID})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *communityRepository) IsMember(ctx context.Context, userID, areaID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("community_memberships").
		Where("user_id = ? AND expertise_area_id = ?", userID, areaID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *communityRepository) AreasForUser(ctx context.Context, userID uint) ([]models.ExpertiseArea, error) {
	var areas []models.ExpertiseArea
	err := r.db.WithContext(ctx).
		Joins("JOIN community_memberships cm ON cm.expertise_area_id = expertise_areas.id").
		Where("cm.user_id = ?", userID).
		Order("expertise_areas.id").
		Find(&areas).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return areas, nil
}
