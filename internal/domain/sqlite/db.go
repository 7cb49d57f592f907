package sqlite

import (
	"errors"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/cris6h16/notes-api/internal/domain/entity"
)

// Init opens (or creates) the database at the given path, migrates the
// schema and makes sure the closed role set exists. Use ":memory:" for
// throwaway databases in tests.
func Init(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&entity.Role{}, &entity.User{}, &entity.Note{})
	if err != nil {
		return nil, err
	}

	if err = seedRoles(db); err != nil {
		return nil, err
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func seedRoles(db *gorm.DB) error {
	for _, name := range []string{entity.RoleUser, entity.RoleAdmin} {
		role := entity.Role{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&role).Error; err != nil {
			return err
		}
	}
	return nil
}

// IsUniqueViolation reports whether err comes from a unique index, i.e.
// a duplicate slipped past the optimistic pre-check and raced the write.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
