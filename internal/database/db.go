package database

import (
	"log"

	"quanan-backend/internal/config"
	"quanan-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	err = DB.AutoMigrate(
		&models.Account{},
		&models.RefreshToken{},
		&models.Table{},
		&models.Guest{},
		&models.Dish{},
		&models.DishSnapshot{},
		&models.Order{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	seedOwnerAccount(cfg)

	log.Println("database connected, migration complete")
}

// seedOwnerAccount creates the first owner account on an empty
// install so the HTTP API is not a brick out of the box.
func seedOwnerAccount(cfg *config.Config) {
	var count int64
	DB.Model(&models.Account{}).Where("role = ?", models.RoleOwner).Count(&count)
	if count > 0 {
		return
	}
	if cfg.InitialOwnerPassword == "" {
		log.Println("[WARN] no owner account and INITIAL_OWNER_PASSWORD not set, skipping seed")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.InitialOwnerPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("could not hash initial owner password: %v", err)
	}

	owner := models.Account{
		Name:         "Owner",
		Email:        cfg.InitialOwnerEmail,
		PasswordHash: string(hash),
		Role:         models.RoleOwner,
	}
	if err := DB.Create(&owner).Error; err != nil {
		log.Fatalf("could not seed owner account: %v", err)
	}
	log.Printf("seeded owner account %s", owner.Email)
}
