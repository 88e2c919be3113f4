package models

// TruthRating is the classifier's verdict on factual accuracy for one
// expertise area. Negative numeric value means "judged false". Reference
// data, immutable at runtime.
type TruthRating struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"unique;not null" json:"name"`
	NumericValue int    `gorm:"not null" json:"numeric_value"`
}

// TableName specifies the table name for GORM.
func (TruthRating) TableName() string {
	return "truth_ratings"
}

// PostAreaRating associates a post with one detected expertise area and an
// optional truth rating. A nil TruthRatingID means the classifier placed the
// post in the area but left truthfulness undetermined. Immutable once created.
type PostAreaRating struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	PostID          uint          `gorm:"not null;uniqueIndex:idx_post_area" json:"post_id"`
	ExpertiseAreaID uint          `gorm:"not null;uniqueIndex:idx_post_area" json:"expertise_area_id"`
	ExpertiseArea   ExpertiseArea `gorm:"foreignKey:ExpertiseAreaID" json:"expertise_area"`
	TruthRatingID   *uint         `json:"truth_rating_id,omitempty"`
	TruthRating     *TruthRating  `gorm:"foreignKey:TruthRatingID" json:"truth_rating,omitempty"`
}

// TableName specifies the table name for GORM.
func (PostAreaRating) TableName() string {
	return "post_area_ratings"
}
