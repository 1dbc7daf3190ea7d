// Package database manages the SQLite database connection, schema migration,
// and initial seeding for church-ui.
package database

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path"

	"github.com/hanlovechurch/church-ui/config"
	"github.com/hanlovechurch/church-ui/database/model"
	"github.com/hanlovechurch/church-ui/util/crypto"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

const (
	defaultUsername = "admin"
	defaultPassword = "admin"
	defaultEmail    = "admin@localhost"
)

func initModels() error {
	models := []any{
		&model.User{},
		&model.Title{},
		&model.Post{},
		&model.Comment{},
		&model.Sermon{},
		&model.PageContent{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			log.Printf("Error auto migrating model: %v", err)
			return err
		}
	}
	return nil
}

// initUser seeds a verified admin account when the users table is empty.
func initUser() error {
	empty, err := isTableEmpty("users")
	if err != nil {
		log.Printf("Error checking if users table is empty: %v", err)
		return err
	}
	if !empty {
		return nil
	}
	hash, err := crypto.HashPasswordAsBcrypt(defaultPassword)
	if err != nil {
		return err
	}
	user := &model.User{
		Username:      defaultUsername,
		Password:      hash,
		Name:          "Administrator",
		Email:         defaultEmail,
		Role:          model.RoleAdmin,
		EmailVerified: true,
	}
	return db.Create(user).Error
}

func isTableEmpty(tableName string) (bool, error) {
	var count int64
	err := db.Table(tableName).Count(&count).Error
	return count == 0, err
}

func InitDB(dbPath string) error {
	dir := path.Dir(dbPath)
	err := os.MkdirAll(dir, fs.ModePerm)
	if err != nil {
		return err
	}

	var gormLogger logger.Interface

	if config.IsDebug() {
		gormLogger = logger.Default
	} else {
		gormLogger = logger.Discard
	}

	c := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	}

	dsn := dbPath + "?cache=shared&_journal_mode=WAL&_synchronous=NORMAL"
	db, err = gorm.Open(sqlite.Open(dsn), c)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	_, err = sqlDB.Exec("PRAGMA foreign_keys = ON;")
	if err != nil {
		return err
	}

	if err := initModels(); err != nil {
		return err
	}
	return initUser()
}

// InitTestDB opens an in-memory database for tests.
func InitTestDB() error {
	c := &gorm.Config{Logger: logger.Discard}
	var err error
	db, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), c)
	if err != nil {
		return err
	}
	return initModels()
}

func GetDB() *gorm.DB {
	return db
}

// IsNotFound reports whether err is the driver's record-not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
