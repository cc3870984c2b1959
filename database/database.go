package database

import (
	"fmt"
	"log"

	config "github.com/KarimShetewy/Ikhtaberni-Platform/configs"
	"github.com/KarimShetewy/Ikhtaberni-Platform/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Payment{},
		&models.Video{},
		&models.Quiz{},
		&models.Question{},
		&models.Choice{},
		&models.QuizAttempt{},
		&models.StudentAnswer{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}

	// AutoMigrate cannot express partial indexes; these back the two
	// uniqueness invariants: one incomplete attempt per (student, quiz)
	// and one active subscription per (student, teacher).
	if err := DB.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_attempts_one_in_progress
		 ON quiz_attempts (student_id, quiz_id) WHERE is_completed = false`,
	).Error; err != nil {
		log.Fatalf("🔥 Failed to create attempt exclusivity index: %v", err)
	}
	if err := DB.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_subscriptions_one_active
		 ON subscriptions (student_id, teacher_id) WHERE status = 'active'`,
	).Error; err != nil {
		log.Fatalf("🔥 Failed to create subscription exclusivity index: %v", err)
	}

	fmt.Println("✅ Database migration successful")
}

func SeedAdmin() {
	adminEmail := config.Config("ADMIN_EMAIL")
	adminPassword := config.Config("ADMIN_PASSWORD")

	var count int64
	err := DB.Model(&models.User{}).Where("email = ?", adminEmail).Count(&count).Error
	if err != nil {
		log.Fatalf("🔥 Failed to check for admin user: %v", err)
		return
	}

	if count > 0 {
		log.Println("Admin user already exists.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("🔥 Failed to hash admin password: %v", err)
		return
	}

	adminUser := models.User{
		FullName: config.Config("ADMIN_FULL_NAME"),
		Email:    adminEmail,
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
	}

	if err := DB.Create(&adminUser).Error; err != nil {
		log.Fatalf("🔥 Failed to seed admin user: %v", err)
		return
	}

	log.Println("✅ Admin user seeded successfully")
}
