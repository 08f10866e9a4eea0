package db

import (
	"log"
	"os"

	"arenax/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=arenax port=5432 sslmode=disable"
	}

	var err error
	// TranslateError 把驱动层唯一约束冲突统一成 gorm.ErrDuplicatedKey
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	// Seed initial categories
	seedCategories(DB)
}

// Migrate 独立出来，测试可以对自己打开的句柄执行同一套迁移
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Debate{},
		&models.Participant{},
		&models.Argument{},
		&models.ArgumentVote{},
		&models.PointLog{},
		&models.Notification{},
	)
}

func seedCategories(gdb *gorm.DB) {
	// 检查是否已有分类数据
	var count int64
	gdb.Model(&models.Category{}).Count(&count)
	if count > 0 {
		log.Println("Categories already seeded, skipping")
		return
	}

	categories := []models.Category{
		{Name: "Technology", Description: "Software, hardware and the future of computing"},
		{Name: "Politics", Description: "Policy, governance and current affairs"},
		{Name: "Science", Description: "Research findings and scientific controversies"},
		{Name: "Ethics", Description: "Moral questions without easy answers"},
		{Name: "Culture", Description: "Media, society and everything in between"},
	}

	for _, category := range categories {
		if err := gdb.Create(&category).Error; err != nil {
			log.Printf("Failed to create category %s: %v", category.Name, err)
		}
	}
	log.Println("Initial categories created successfully")
}
