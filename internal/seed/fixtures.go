// Package seed provides helpers to create reference catalogs and demo data
// for the application database. These helpers are intended for development
// and testing only.
package seed

import (
	"fmt"

	"famenet/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BuiltInFameLevel is one rung of the permanent fame ladder.
type BuiltInFameLevel struct {
	Name         string
	NumericValue int
}

// BuiltInFameLevels defines the fame ladder from worst to best. Demotion
// steps down exactly one rung; falling below the bottom rung is a ban.
var BuiltInFameLevels = []BuiltInFameLevel{
	{Name: models.FameLevelDangerousBullshiter, NumericValue: -500},
	{Name: "Bullshitter", NumericValue: -100},
	{Name: models.FameLevelConfuser, NumericValue: -10},
	{Name: "Newbie", NumericValue: 0},
	{Name: "Apprentice", NumericValue: 10},
	{Name: "Knowledgeable", NumericValue: 30},
	{Name: "Skilled", NumericValue: 50},
	{Name: "Expert", NumericValue: 70},
	{Name: models.FameLevelSuperPro, NumericValue: models.SuperProThreshold},
	{Name: "Legend", NumericValue: 500},
}

// BuiltInAreas defines the permanent expertise areas. Every area doubles as
// a joinable community.
var BuiltInAreas = []string{
	"Politics", "Economics", "Health", "Climate", "Technology",
	"History", "Sports", "Nutrition", "Astronomy", "Psychology",
}

// BuiltInTruthRating is one entry of the classifier's verdict scale.
type BuiltInTruthRating struct {
	Name         string
	NumericValue int
}

// BuiltInTruthRatings defines the truth-rating scale. Negative verdicts are
// what cost authors fame.
var BuiltInTruthRatings = []BuiltInTruthRating{
	{Name: "Fabricated", NumericValue: -300},
	{Name: "Seriously Wrong", NumericValue: -200},
	{Name: "Mostly Wrong", NumericValue: -100},
	{Name: "Questionable", NumericValue: -50},
	{Name: "Neutral", NumericValue: 0},
	{Name: "Plausible", NumericValue: 50},
	{Name: "Mostly True", NumericValue: 100},
	{Name: "Verified", NumericValue: 200},
}

// Fixtures seeds the permanent reference catalogs: the fame ladder, the
// expertise areas, and the truth-rating scale. It is idempotent and safe to
// run on every startup.
func Fixtures(db *gorm.DB) error {
	for _, item := range BuiltInFameLevels {
		level := models.FameLevel{Name: item.Name, NumericValue: item.NumericValue}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"numeric_value"}),
		}).Create(&level).Error; err != nil {
			return fmt.Errorf("seed fame level %s: %w", item.Name, err)
		}
	}

	for _, label := range BuiltInAreas {
		area := models.ExpertiseArea{Label: label}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "label"}},
			DoNothing: true,
		}).Create(&area).Error; err != nil {
			return fmt.Errorf("seed expertise area %s: %w", label, err)
		}
	}

	for _, item := range BuiltInTruthRatings {
		rating := models.TruthRating{Name: item.Name, NumericValue: item.NumericValue}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"numeric_value"}),
		}).Create(&rating).Error; err != nil {
			return fmt.Errorf("seed truth rating %s: %w", item.Name, err)
		}
	}

	return nil
}
