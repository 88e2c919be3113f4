package database

import "famenet/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.ExpertiseArea{},
		&models.FameLevel{},
		&models.FameEntry{},
		&models.TruthRating{},
		&models.Post{},
		&models.PostAreaRating{},
		&models.UserRating{},
	}
}
