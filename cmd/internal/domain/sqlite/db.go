package sqlite

import (
	"clinicdesk/cmd/internal/domain/entity"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Init opens (or creates) the SQLite database at path and migrates the schema.
// Use ":memory:" for a throwaway database.
func Init(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// One connection, never recycled: SQLite serializes writers anyway, and
	// ":memory:" lives and dies with its connection.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	err = db.AutoMigrate(
		&entity.User{},
		&entity.Credential{},
		&entity.Patient{},
		&entity.Prescription{},
		&entity.Appointment{},
	)
	if err != nil {
		return nil, err
	}
	return db, nil
}
