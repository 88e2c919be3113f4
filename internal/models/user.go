// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a member of the FameNet social network.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Username  string `gorm:"unique;not null" json:"username"`
	Email     string `gorm:"unique;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	// Active is cleared when the user is banned.
	Active bool `gorm:"not null;default:true" json:"active"`
	// Banned is monotonic: once set it is never reset.
	Banned bool `gorm:"not null;default:false" json:"banned"`
	// JoinedAt orders tie-breaks in the bullshitters and similarity rankings.
	JoinedAt time.Time `gorm:"autoCreateTime;index" json:"joined_at"`

	// Follows is the directed follow graph (who this user follows).
	Follows []User `gorm:"many2many:user_follows;joinForeignKey:FollowerID;joinReferences:FolloweeID" json:"-"`
	// Communities are the expertise-area communities this user has joined.
	Communities []ExpertiseArea `gorm:"many2many:community_memberships" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}
