package database

import (
	"testing"

	"laufmanager.de/database/seeders"
	"laufmanager.de/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestInitialize_MigratesAndSeeds(t *testing.T) {
	db := openTestDB(t)

	err := Initialize(db, Options{
		Migrate: true,
		Seed:    true,
		Admin:   seeders.AdminSeed{Email: " Coach@HAW-Kiel.de "},
	})
	require.NoError(t, err)

	for _, table := range []string{"runners", "events", "attendance", "messages"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	var admin models.Runner
	require.NoError(t, db.Where("email = ?", "coach@haw-kiel.de").First(&admin).Error)
	assert.True(t, admin.IsAdmin)
	assert.Equal(t, "coach", admin.DisplayName)
	assert.True(t, admin.HasFeed())
	assert.Len(t, *admin.ICalToken, 32)
}

func TestInitialize_IsRepeatable(t *testing.T) {
	db := openTestDB(t)
	opts := Options{Migrate: true, Seed: true, Admin: seeders.AdminSeed{Email: "coach@haw-kiel.de", DisplayName: "Coach"}}

	require.NoError(t, Initialize(db, opts))
	require.NoError(t, Initialize(db, opts))

	var count int64
	require.NoError(t, db.Model(&models.Runner{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestInitialize_PromotesExistingRunner(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Initialize(db, Options{Migrate: true}))
	require.NoError(t, db.Create(&models.Runner{DisplayName: "Anna", Email: "anna@haw-kiel.de"}).Error)

	require.NoError(t, Initialize(db, Options{Seed: true, Admin: seeders.AdminSeed{Email: "ANNA@haw-kiel.de"}}))

	var anna models.Runner
	require.NoError(t, db.Where("email = ?", "anna@haw-kiel.de").First(&anna).Error)
	assert.True(t, anna.IsAdmin)
	assert.Equal(t, "Anna", anna.DisplayName)
}

func TestInitialize_NothingRequested(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Initialize(db, Options{}))
	assert.False(t, db.Migrator().HasTable("runners"))
}

func TestInitialize_SeedWithoutTablesRollsBack(t *testing.T) {
	db := openTestDB(t)
	err := Initialize(db, Options{Seed: true, Admin: seeders.AdminSeed{Email: "coach@haw-kiel.de"}})
	assert.Error(t, err)
}
