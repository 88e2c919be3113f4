package models

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// Reserved fame level names and the community eligibility threshold.
const (
	FameLevelConfuser            = "Confuser"
	FameLevelDangerousBullshiter = "Dangerous Bullshitter"
	FameLevelSuperPro            = "Super Pro"

	// SuperProThreshold is the minimum numeric fame value required for
	// community membership ("Super Pro or higher").
	SuperProThreshold = 100
)

// ErrLadderBottom signals that a fame level has no lower rung. It is the
// designed trigger for the ban path and must never escape the reputation
// update engine.
var ErrLadderBottom = errors.New("fame level is the ladder minimum")

// FameLevel is one rung on the strictly ordered fame ladder. Reference data,
// immutable at runtime.
type FameLevel struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"unique;not null" json:"name"`
	NumericValue int    `gorm:"unique;not null" json:"numeric_value"`
}

// TableName specifies the table name for GORM.
func (FameLevel) TableName() string {
	return "fame_levels"
}

// FameEntry ties one (user, expertise area) pair to exactly one fame level.
// Created lazily on the first negative rating in an untracked area, mutated
// by demotion, never deleted.
type FameEntry struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	UserID          uint          `gorm:"not null;uniqueIndex:idx_fame_user_area" json:"user_id"`
	User            User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ExpertiseAreaID uint          `gorm:"not null;uniqueIndex:idx_fame_user_area" json:"expertise_area_id"`
	ExpertiseArea   ExpertiseArea `gorm:"foreignKey:ExpertiseAreaID" json:"expertise_area,omitempty"`
	FameLevelID     uint          `gorm:"not null" json:"fame_level_id"`
	FameLevel       FameLevel     `gorm:"foreignKey:FameLevelID" json:"fame_level,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (FameEntry) TableName() string {
	return "fame_entries"
}

// FameLadder is the ordered catalog of fame levels, indexed by rank so that
// "next lower" is an index decrement with a clean boundary error.
type FameLadder struct {
	levels []FameLevel // ascending by NumericValue
	byID   map[uint]int
}

// NewFameLadder builds a ladder from the level catalog. The input order does
// not matter; levels are ranked by numeric value.
func NewFameLadder(levels []FameLevel) *FameLadder {
	sorted := make([]FameLevel, len(levels))
	copy(sorted, levels)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].NumericValue < sorted[j].NumericValue
	})
	byID := make(map[uint]int, len(sorted))
	for i, l := range sorted {
		byID[l.ID] = i
	}
	return &FameLadder{levels: sorted, byID: byID}
}

// Levels returns the ladder rungs in ascending numeric order.
func (l *FameLadder) Levels() []FameLevel {
	return l.levels
}

// Minimum returns the ladder's lowest rung.
func (l *FameLadder) Minimum() (FameLevel, error) {
	if len(l.levels) == 0 {
		return FameLevel{}, errors.New("fame ladder is empty")
	}
	return l.levels[0], nil
}

// NextLower returns the immediate predecessor of the given level.
// Returns ErrLadderBottom when the level is the ladder minimum.
func (l *FameLadder) NextLower(level FameLevel) (FameLevel, error) {
	rank, ok := l.byID[level.ID]
	if !ok {
		return FameLevel{}, errors.New("fame level is not on the ladder")
	}
	if rank == 0 {
		return FameLevel{}, ErrLadderBottom
	}
	return l.levels[rank-1], nil
}

// ByName looks up a rung by name, case-insensitively.
func (l *FameLadder) ByName(name string) (FameLevel, error) {
	for _, level := range l.levels {
		if strings.EqualFold(level.Name, name) {
			return level, nil
		}
	}
	return FameLevel{}, NewNotFoundError("FameLevel", name)
}
