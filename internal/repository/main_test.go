package repository

import (
	"context"
	"testing"
	"time"

	"nightlife/internal/database"
	"nightlife/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return gormDB, mock
}

func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role models.Role, accountType models.AccountType) *models.User {
	t.Helper()
	u := &models.User{
		Pseudonym:   "user-" + uuid.NewString()[:8],
		Email:       uuid.NewString() + "@example.com",
		Password:    "x",
		Role:        role,
		AccountType: accountType,
		IsActive:    true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedEstablishment(t *testing.T, db *gorm.DB, status models.ModerationStatus, createdBy *uuid.UUID) *models.Establishment {
	t.Helper()
	e := &models.Establishment{
		Name:       "Venue " + uuid.NewString()[:6],
		Zone:       "soi6",
		CreatedBy:  createdBy,
		Moderation: models.Moderation{Status: status},
	}
	require.NoError(t, db.Create(e).Error)
	return e
}

func seedEmployee(t *testing.T, db *gorm.DB, status models.ModerationStatus, createdBy *uuid.UUID) *models.Employee {
	t.Helper()
	e := &models.Employee{
		Name:       "Employee " + uuid.NewString()[:6],
		CreatedBy:  createdBy,
		Moderation: models.Moderation{Status: status},
	}
	require.NoError(t, db.Create(e).Error)
	return e
}

func ctxT() context.Context { return context.Background() }

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
