package database

import "nightlife/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []any {
	return []any{
		&models.User{},
		&models.EstablishmentCategory{},
		&models.Establishment{},
		&models.Employee{},
		&models.EmploymentHistory{},
		&models.EmployeeExistenceVote{},
		&models.EstablishmentOwner{},
		&models.OwnershipRequest{},
		&models.Comment{},
		&models.CommentReport{},
		&models.ConsumableTemplate{},
		&models.EstablishmentConsumable{},
		&models.Notification{},
		&models.UserPoints{},
		&models.XPTransaction{},
		&models.LegacyIDMapping{},
	}
}
