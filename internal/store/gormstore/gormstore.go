// Package gormstore implements the store contracts on top of gorm. It works
// with the SQLite and PostgreSQL drivers.
package gormstore

import (
	"context"
	"errors"
	"strings"

	"bitwise74/socials-api/internal/model"
	"bitwise74/socials-api/internal/store"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the store needs
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		model.User{},
		model.Post{},
		model.PostLike{},
		model.Comment{},
		model.Follow{},
	)
}

func New(db *gorm.DB) *store.Store {
	return &store.Store{
		Users:   &userRepo{db: db},
		Posts:   &postRepo{db: db},
		Follows: &followRepo{db: db},
		Close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}

			return sqlDB.Close()
		},
	}
}

// mapErr converts driver errors into store sentinels. Error translation is
// enabled on the connection but the sqlite message check stays as a
// fallback for connections opened without it.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return store.ErrDuplicate
	}

	return err
}
