package service

import (
	"context"
	"strings"

	"awesomeblog/internal/apis"
	"awesomeblog/internal/config"
	"awesomeblog/internal/models"
	"awesomeblog/internal/repository"
)

type CommentService interface {
	ListComments(ctx context.Context, pageIndex int) (apis.Page, []*models.Comment, error)
	BlogComments(ctx context.Context, blogID string) ([]*models.Comment, error)
	CreateComment(ctx context.Context, author *models.User, blogID, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id string) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	blogRepo    repository.BlogRepository
	cfg         *config.Config
}

func NewCommentService(commentRepo repository.CommentRepository, blogRepo repository.BlogRepository, cfg *config.Config) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		blogRepo:    blogRepo,
		cfg:         cfg,
	}
}

func (s *commentService) ListComments(ctx context.Context, pageIndex int) (apis.Page, []*models.Comment, error) {
	num, err := s.commentRepo.Count(ctx)
	if err != nil {
		return apis.Page{}, nil, err
	}
	page := apis.NewPage(num, pageIndex, s.cfg.Server.PageSize)
	if num == 0 {
		return page, []*models.Comment{}, nil
	}

	comments, err := s.commentRepo.FindPage(ctx, page)
	if err != nil {
		return page, nil, err
	}
	return page, comments, nil
}

// BlogComments lists a blog's comments, newest first.
func (s *commentService) BlogComments(ctx context.Context, blogID string) ([]*models.Comment, error) {
	return s.commentRepo.FindByBlog(ctx, blogID)
}

func (s *commentService) CreateComment(ctx context.Context, author *models.User, blogID, content string) (*models.Comment, error) {
	if author == nil {
		return nil, apis.PermissionError("Please signin first.")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apis.ValueError("content", "")
	}

	blog, err := s.blogRepo.Find(ctx, blogID)
	if err != nil {
		return nil, err
	}
	if blog == nil {
		return nil, apis.ResourceNotFound("Blog", "")
	}

	comment := models.NewComment(map[string]any{
		"blog_id":    blog.ID(),
		"user_id":    author.ID(),
		"user_name":  author.Name(),
		"user_image": author.Image(),
		"content":    content,
	})
	if err := s.commentRepo.Save(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) DeleteComment(ctx context.Context, id string) error {
	comment, err := s.commentRepo.Find(ctx, id)
	if err != nil {
		return err
	}
	if comment == nil {
		return apis.ResourceNotFound("Comment", "")
	}
	return s.commentRepo.Remove(ctx, comment)
}
