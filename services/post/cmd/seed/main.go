package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"

	"post-board/pkg/config"
	"post-board/pkg/database"
	"post-board/pkg/logger"
	"post-board/pkg/password"
	"post-board/services/post/internal/entity"
	"post-board/services/post/internal/model"
	"post-board/services/post/internal/repo/persistent"

	"gorm.io/gorm"
)

const seedPassword = "1234qwer"

var (
	authors = []string{"루비", "에메랄드", "사파이어", "토파즈", "오팔"}
	words   = []string{"오늘", "날씨", "점심", "메뉴", "추천", "질문", "공지", "후기", "모임", "일상"}
)

func main() {
	count := flag.Int("count", 45, "number of posts to create")
	reset := flag.Bool("reset", true, "remove existing posts first")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	if err := seedDatabase(context.Background(), db, cfg, log, *count, *reset); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(ctx context.Context, db *gorm.DB, cfg *config.Config, log *logger.Logger, count int, reset bool) error {
	if reset {
		if err := db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&model.PostModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear posts: %w", err)
		}
		log.Info("Removed existing posts")
	}

	// Every seeded post shares one password, so hash it once.
	hashed, err := password.Hash(seedPassword, cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	postRepo := persistent.NewPostRepository(db)
	for i := 0; i < count; i++ {
		post := &entity.Post{
			Author:       authors[rand.Intn(len(authors))],
			PasswordHash: hashed,
			Title:        fmt.Sprintf("%s %s %d", pick(), pick(), i),
			Content:      fmt.Sprintf("%s %s %s 이야기입니다.", pick(), pick(), pick()),
		}
		if _, err := postRepo.Insert(ctx, post); err != nil {
			return err
		}
	}

	log.Info("Created %d posts with password %s", count, seedPassword)
	return nil
}

func pick() string {
	return words[rand.Intn(len(words))]
}
