package models

import "time"

// UserRating is a reader's rating of a post (e.g. "like", "agree"). One
// rating per (user, post, type); re-rating updates the score in place.
type UserRating struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"not null;uniqueIndex:idx_user_post_type" json:"user_id"`
	PostID      uint   `gorm:"not null;uniqueIndex:idx_user_post_type" json:"post_id"`
	RatingType  string `gorm:"size:40;not null;uniqueIndex:idx_user_post_type" json:"rating_type"`
	RatingScore int    `gorm:"not null" json:"rating_score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (UserRating) TableName() string {
	return "user_ratings"
}
