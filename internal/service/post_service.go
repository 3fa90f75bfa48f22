package service

import (
	"Murmur/internal/api/dto"
	"Murmur/internal/model"
	"Murmur/internal/repository"
	"context"
)

const PostPageSize = 20

type PostService interface {
	CreatePost(ctx context.Context, userID uint64, dto *dto.CreatePostDTO) (*dto.PostDTO, error)
	DeletePost(ctx context.Context, userID uint64, postID uint64) error
	GetPostsByUser(ctx context.Context, userID uint64, cursor uint64, limit int) ([]*dto.PostDTO, error)
	CreateComment(ctx context.Context, userID uint64, dto *dto.CreateCommentDTO) (*dto.CommentDTO, error)
	GetComments(ctx context.Context, postID uint64, cursor uint64, limit int) ([]*dto.CommentDTO, error)
}

type PostServiceImpl struct {
	postRepo repository.PostRepo
}

func NewPostService(postRepo repository.PostRepo) PostService {
	return &PostServiceImpl{postRepo: postRepo}
}

func (s *PostServiceImpl) CreatePost(ctx context.Context, userID uint64, createDTO *dto.CreatePostDTO) (*dto.PostDTO, error) {
	post := &model.Post{
		UserID:   userID,
		Content:  createDTO.Content,
		MediaURL: createDTO.MediaURL,
	}
	if err := s.postRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return toPostDTO(post), nil
}

func (s *PostServiceImpl) DeletePost(ctx context.Context, userID uint64, postID uint64) error {
	post, err := s.postRepo.GetPostById(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.UserID != userID {
		return UnauthorizedError
	}
	return s.postRepo.DeletePost(ctx, postID, userID)
}

func (s *PostServiceImpl) GetPostsByUser(ctx context.Context, userID uint64, cursor uint64, limit int) ([]*dto.PostDTO, error) {
	if limit <= 0 || limit > PostPageSize {
		limit = PostPageSize
	}
	posts, err := s.postRepo.GetPostsByUser(ctx, userID, cursor, limit)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.PostDTO, 0, len(posts))
	for _, post := range posts {
		res = append(res, toPostDTO(post))
	}
	return res, nil
}

func (s *PostServiceImpl) CreateComment(ctx context.Context, userID uint64, createDTO *dto.CreateCommentDTO) (*dto.CommentDTO, error) {
	post, err := s.postRepo.GetPostById(ctx, createDTO.PostID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	comment := &model.PostComment{
		PostID:  createDTO.PostID,
		UserID:  userID,
		Content: createDTO.Content,
	}
	if err := s.postRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return toCommentDTO(comment), nil
}

func (s *PostServiceImpl) GetComments(ctx context.Context, postID uint64, cursor uint64, limit int) ([]*dto.CommentDTO, error) {
	if limit <= 0 || limit > PostPageSize {
		limit = PostPageSize
	}
	comments, err := s.postRepo.GetCommentsByPost(ctx, postID, cursor, limit)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.CommentDTO, 0, len(comments))
	for _, comment := range comments {
		res = append(res, toCommentDTO(comment))
	}
	return res, nil
}

func toPostDTO(post *model.Post) *dto.PostDTO {
	return &dto.PostDTO{
		ID:        post.ID,
		UserID:    post.UserID,
		Content:   post.Content,
		MediaURL:  post.MediaURL,
		CreatedAt: post.CreatedAt,
	}
}

func toCommentDTO(comment *model.PostComment) *dto.CommentDTO {
	return &dto.CommentDTO{
		ID:        comment.ID,
		PostID:    comment.PostID,
		UserID:    comment.UserID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}
