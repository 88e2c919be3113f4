package models

import "time"

// Post represents a submitted post. Posts are never deleted; a banned
// author's posts are unpublished in bulk instead.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Content  string `gorm:"type:text;not null" json:"content"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"author"`
	// CitesID and RepliesToID are optional self-references to other posts.
	CitesID     *uint `json:"cites_id,omitempty"`
	Cites       *Post `gorm:"foreignKey:CitesID" json:"-"`
	RepliesToID *uint `json:"replies_to_id,omitempty"`
	RepliesTo   *Post `gorm:"foreignKey:RepliesToID" json:"-"`

	Published   bool      `gorm:"not null;default:false;index" json:"published"`
	SubmittedAt time.Time `gorm:"autoCreateTime;index" json:"submitted_at"`

	// AreaRatings is the classifier's verdict, one row per detected area.
	AreaRatings []PostAreaRating `gorm:"foreignKey:PostID" json:"area_ratings,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Post) TableName() string {
	return "posts"
}
