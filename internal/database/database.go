package database

import (
	"log"

	"github.com/deepkiyada/product-catalog/internal/models"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB opens the database, runs migrations and seeds the admin user.
// Durability, identifier uniqueness and row timestamps live here; the
// cache and rate-limit layers treat this store as an opaque collaborator.
func InitDB(dbPath, adminUsername, adminPassword string) {
	var err error

	// Using glebarez/sqlite which is a pure Go implementation (no CGO required)
	DB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Product{},
	)

	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	if err := SeedAdmin(DB, adminUsername, adminPassword); err != nil {
		log.Fatal("Failed to seed admin user:", err)
	}

	log.Println("Database connected and migrated")
}

// SeedAdmin creates the admin user if it does not exist yet.
func SeedAdmin(db *gorm.DB, username, password string) error {
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return db.Create(&models.User{
		ID:       "admin-1",
		Username: username,
		Password: string(hash),
	}).Error
}

// GetDB returns the database connection
func GetDB() *gorm.DB {
	return DB
}
