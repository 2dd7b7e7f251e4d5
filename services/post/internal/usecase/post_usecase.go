package usecase

import (
	"context"
	"errors"
	"fmt"

	"post-board/pkg/logger"
	"post-board/pkg/password"
	"post-board/services/post/internal/entity"
	"post-board/services/post/internal/repo/persistent"
)

var (
	ErrPostNotFound     = persistent.ErrPostNotFound
	ErrPasswordMismatch = errors.New("password mismatch")
)

type PostUseCase interface {
	AddPost(ctx context.Context, author, password, title, content string) (*entity.Post, error)
	GetPosts(ctx context.Context, beforeLastID *uint, keyword string) (*entity.PostPage, error)
	GetPost(ctx context.Context, id uint) (*entity.Post, error)
	UpdatePost(ctx context.Context, id uint, password, author, title, content string) error
	DeletePost(ctx context.Context, id uint, password string) error
}

type postUseCase struct {
	postRepo   persistent.PostRepository
	bcryptCost int
	logger     *logger.Logger
}

func NewPostUseCase(postRepo persistent.PostRepository, bcryptCost int, logger *logger.Logger) PostUseCase {
	return &postUseCase{
		postRepo:   postRepo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (uc *postUseCase) AddPost(ctx context.Context, author, plaintext, title, content string) (*entity.Post, error) {
	hashed, err := password.Hash(plaintext, uc.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	post := &entity.Post{
		Author:       author,
		PasswordHash: hashed,
		Title:        title,
		Content:      content,
	}

	if _, err := uc.postRepo.Insert(ctx, post); err != nil {
		return nil, err
	}

	uc.logger.Info("Post %d created by %s", post.ID, post.Author)
	return post, nil
}

func (uc *postUseCase) GetPosts(ctx context.Context, beforeLastID *uint, keyword string) (*entity.PostPage, error) {
	posts, err := uc.postRepo.Search(ctx, entity.NewSearchFilter(beforeLastID, keyword))
	if err != nil {
		return nil, err
	}

	page := &entity.PostPage{Posts: posts}
	if len(posts) > 0 {
		lastID := posts[len(posts)-1].ID
		page.BeforeLastID = &lastID
	}
	return page, nil
}

func (uc *postUseCase) GetPost(ctx context.Context, id uint) (*entity.Post, error) {
	return uc.postRepo.FindByID(ctx, id)
}

func (uc *postUseCase) UpdatePost(ctx context.Context, id uint, plaintext, author, title, content string) error {
	if _, err := uc.authorize(ctx, id, plaintext); err != nil {
		return err
	}

	if err := uc.postRepo.Update(ctx, id, author, title, content); err != nil {
		return err
	}

	uc.logger.Info("Post %d updated", id)
	return nil
}

func (uc *postUseCase) DeletePost(ctx context.Context, id uint, plaintext string) error {
	if _, err := uc.authorize(ctx, id, plaintext); err != nil {
		return err
	}

	if err := uc.postRepo.SoftDelete(ctx, id); err != nil {
		return err
	}

	uc.logger.Info("Post %d deleted", id)
	return nil
}

// authorize loads the live post and checks plaintext against its hash.
func (uc *postUseCase) authorize(ctx context.Context, id uint, plaintext string) (*entity.Post, error) {
	post, err := uc.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !password.Verify(plaintext, post.PasswordHash) {
		uc.logger.Warn("Password mismatch for post %d", id)
		return nil, ErrPasswordMismatch
	}

	return post, nil
}
