package persistent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"post-board/services/post/internal/entity"
	"post-board/services/post/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrPostNotFound = errors.New("post not found")

// searchColumns are the columns a keyword is matched against.
var searchColumns = []string{"title", "content"}

type PostRepository interface {
	Insert(ctx context.Context, post *entity.Post) (uint, error)
	FindByID(ctx context.Context, id uint) (*entity.Post, error)
	Update(ctx context.Context, id uint, author, title, content string) error
	SoftDelete(ctx context.Context, id uint) error
	Search(ctx context.Context, filter entity.SearchFilter) ([]*entity.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Insert(ctx context.Context, post *entity.Post) (uint, error) {
	postModel := ToPostModel(post)
	postModel.ID = 0

	if err := r.db.WithContext(ctx).Create(postModel).Error; err != nil {
		return 0, fmt.Errorf("failed to insert post: %w", err)
	}

	*post = *ToPostEntity(postModel)
	return postModel.ID, nil
}

func (r *postRepository) FindByID(ctx context.Context, id uint) (*entity.Post, error) {
	var postModel model.PostModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&postModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to find post %d: %w", id, err)
	}
	return ToPostEntity(&postModel), nil
}

func (r *postRepository) Update(ctx context.Context, id uint, author, title, content string) error {
	result := r.db.WithContext(ctx).Model(&model.PostModel{}).Where("id = ?", id).Updates(map[string]interface{}{
		"author":  author,
		"title":   title,
		"content": content,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update post %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *postRepository) SoftDelete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.PostModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete post %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *postRepository) Search(ctx context.Context, filter entity.SearchFilter) ([]*entity.Post, error) {
	var postModels []model.PostModel
	if err := searchQuery(r.db.WithContext(ctx), filter).Find(&postModels).Error; err != nil {
		return nil, fmt.Errorf("failed to search posts: %w", err)
	}
	return ToPostEntities(postModels), nil
}

// searchQuery translates filter into an id bound, an OR group of LIKE
// conditions and the fixed newest-first page.
func searchQuery(db *gorm.DB, filter entity.SearchFilter) *gorm.DB {
	query := db.Model(&model.PostModel{})

	if filter.BeforeLastID != nil {
		query = query.Where(clause.Lt{Column: clause.Column{Name: "id"}, Value: *filter.BeforeLastID})
	}

	if len(filter.Words) > 0 {
		exprs := make([]clause.Expression, 0, len(filter.Words)*len(searchColumns))
		for _, column := range searchColumns {
			for _, word := range filter.Words {
				exprs = append(exprs, clause.Like{
					Column: clause.Column{Name: column},
					Value:  "%" + escapeLike(word) + "%",
				})
			}
		}
		query = query.Where(clause.Or(exprs...))
	}

	return query.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true}).Limit(entity.PageSize)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes word match literally inside a LIKE pattern.
func escapeLike(word string) string {
	return likeEscaper.Replace(word)
}
