package initializers

import (
	"errors"
	"log"
	"os"

	"github.com/Kariqs/fishing-store-api/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates the staff account described by ADMIN_USERNAME, ADMIN_EMAIL
// and ADMIN_PASSWORD if no user with that username exists yet.
func SeedAdmin() error {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return nil
	}

	var existing models.User
	err := DB.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Username: username,
		Email:    os.Getenv("ADMIN_EMAIL"),
		Password: string(hash),
		IsStaff:  true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}
	log.Println("Created staff account:", username)
	return nil
}
