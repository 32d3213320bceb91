package seeders

import (
	"log"
	"os"

	"pbl-review/constants"
	"pbl-review/models/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdminUser creates the bootstrap admin account if no admin exists yet.
// Credentials come from ADMIN_USERNAME / ADMIN_PASSWORD, defaulting to a
// local-development login.
func SeedAdminUser(db *gorm.DB) {
	log.Printf("🔍 Checking for bootstrap admin account...")

	var count int64
	if err := db.Model(&user.User{}).Where("role = ?", constants.RoleAdmin).Count(&count).Error; err != nil {
		log.Printf("❌ Failed to count admin users: %v", err)
		return
	}
	if count > 0 {
		return
	}

	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin@local"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("❌ Failed to hash admin password: %v", err)
		return
	}

	admin := user.User{
		Uuid:         uuid.NewString(),
		Username:     username,
		LegalName:    "PBL Administrator",
		PasswordHash: string(hash),
		Role:         constants.RoleAdmin,
		Permissions:  user.StringSlice(constants.PermissionsForRole(constants.RoleAdmin)),
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Printf("❌ Failed to seed admin user: %v", err)
		return
	}
	log.Printf("✅ Seeded bootstrap admin account %q", username)
}
