package repository

import (
	"Murmur/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post) error
	DeletePost(ctx context.Context, postID uint64, userID uint64) error
	GetPostById(ctx context.Context, id uint64) (*model.Post, error)
	GetPostsByUser(ctx context.Context, userID uint64, cursor uint64, limit int) ([]*model.Post, error)
	CreateComment(ctx context.Context, comment *model.PostComment) error
	GetCommentsByPost(ctx context.Context, postID uint64, cursor uint64, limit int) ([]*model.PostComment, error)
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) PostRepo {
	return &PostRepoImpl{db: db}
}

// CreatePost 帖子写入与作者 posts_count 自增同事务
func (s *PostRepoImpl) CreatePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).
			Where("id = ?", post.UserID).
			Update("posts_count", gorm.Expr("posts_count + 1")).Error
	})
}

func (s *PostRepoImpl) DeletePost(ctx context.Context, postID uint64, userID uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", postID, userID).
			Delete(&model.Post{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		if err := tx.Where("post_id = ?", postID).
			Delete(&model.PostComment{}).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).
			Where("id = ? AND posts_count > 0", userID).
			Update("posts_count", gorm.Expr("posts_count - 1")).Error
	})
}

func (s *PostRepoImpl) GetPostById(ctx context.Context, id uint64) (*model.Post, error) {
	post := &model.Post{}
	result := s.db.WithContext(ctx).First(post, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return post, nil
}

func (s *PostRepoImpl) GetPostsByUser(ctx context.Context, userID uint64, cursor uint64, limit int) ([]*model.Post, error) {
	posts := make([]*model.Post, 0, limit)
	query := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit)
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}
	result := query.Find(&posts)
	if result.Error != nil {
		return nil, result.Error
	}
	return posts, nil
}

func (s *PostRepoImpl) CreateComment(ctx context.Context, comment *model.PostComment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

func (s *PostRepoImpl) GetCommentsByPost(ctx context.Context, postID uint64, cursor uint64, limit int) ([]*model.PostComment, error) {
	comments := make([]*model.PostComment, 0, limit)
	query := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("id ASC").
		Limit(limit)
	if cursor > 0 {
		query = query.Where("id > ?", cursor)
	}
	result := query.Find(&comments)
	if result.Error != nil {
		return nil, result.Error
	}
	return comments, nil
}
