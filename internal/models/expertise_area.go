package models

// ExpertiseArea is a topical category used both for content classification
// and for community grouping. Reference data, immutable at runtime.
type ExpertiseArea struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Label string `gorm:"unique;not null" json:"label"`
}

// TableName specifies the table name for GORM.
func (ExpertiseArea) TableName() string {
	return "expertise_areas"
}
