package persistent

import (
	"post-board/services/post/internal/entity"
	"post-board/services/post/internal/model"
)

func ToPostEntity(m *model.PostModel) *entity.Post {
	if m == nil {
		return nil
	}

	return &entity.Post{
		ID:           m.ID,
		Author:       m.Author,
		PasswordHash: m.Password,
		Title:        m.Title,
		Content:      m.Content,
		CreatedAt:    m.CreatedAt,
	}
}

func ToPostModel(e *entity.Post) *model.PostModel {
	if e == nil {
		return nil
	}

	return &model.PostModel{
		ID:        e.ID,
		Author:    e.Author,
		Password:  e.PasswordHash,
		Title:     e.Title,
		Content:   e.Content,
		CreatedAt: e.CreatedAt,
	}
}

func ToPostEntities(models []model.PostModel) []*entity.Post {
	posts := make([]*entity.Post, len(models))
	for i := range models {
		posts[i] = ToPostEntity(&models[i])
	}
	return posts
}
