package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pfes/joborder-api/internal/database"
	"github.com/pfes/joborder-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter int64

// SetupTestDB opens an isolated in-memory SQLite database with the schema migrated
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := fmt.Sprintf("file:joborders_%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// CreateTestUser inserts an active user with the given role
func CreateTestUser(t *testing.T, db *gorm.DB, email, role string) *domain.User {
	t.Helper()
	user := &domain.User{
		Name:         "Test " + role,
		Email:        email,
		PasswordHash: "not-a-real-hash",
		UserType:     role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// Day parses a YYYY-MM-DD string, failing the test on error
func Day(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return &d
}

// NewJobOrder returns an unsaved domestic truck job order owned by owner
func NewJobOrder(t *testing.T, number string, owner uuid.UUID) *domain.JobOrder {
	t.Helper()
	return &domain.JobOrder{
		JobOrderNumber:   number,
		Variant:          domain.VariantDomestic,
		ShipperConsignee: "Acme Trading",
		Associate:        "Test sales",
		Contact:          domain.Contact{Name: "Juan dela Cruz", Number: "0917-555-0101", Email: "juan@acme.ph"},
		ModeOfTransport:  domain.ModeTruck,
		Commodity:        domain.Commodity{Type: "Dry goods", Description: "Rice"},
		Origin:           domain.Place{Location: "Warehouse 3", ProvinceKey: "laguna", ProvinceName: "Laguna", City: "Calamba"},
		Destination:      domain.Place{Location: "Pier 4", ProvinceKey: "cebu", ProvinceName: "Cebu", City: "Mandaue"},
		PickupDate:       Day(t, "2025-01-10"),
		ETD:              Day(t, "2025-01-11"),
		ETA:              Day(t, "2025-01-14"),
		Status:           domain.StatusOngoing,
		Operations: domain.Operations{
			Preloading: domain.Stage{Status: domain.StagePending},
			Loading:    domain.Stage{Status: domain.StagePending},
			Unloading:  domain.Stage{Status: domain.StagePending},
		},
		UserID:  owner,
		Version: 1,
	}
}
