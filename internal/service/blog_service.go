package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"awesomeblog/internal/apis"
	"awesomeblog/internal/config"
	"awesomeblog/internal/models"
	"awesomeblog/internal/repository"
)

// BlogRequest is the editable part of a blog. Values are trimmed before
// they are checked and stored.
type BlogRequest struct {
	Name    string `json:"name" validate:"required"`
	Summary string `json:"summary" validate:"required"`
	Content string `json:"content" validate:"required"`
}

func (r *BlogRequest) trim() {
	r.Name = strings.TrimSpace(r.Name)
	r.Summary = strings.TrimSpace(r.Summary)
	r.Content = strings.TrimSpace(r.Content)
}

type BlogService interface {
	ListBlogs(ctx context.Context, pageIndex int) (apis.Page, []*models.Blog, error)
	GetBlog(ctx context.Context, id string) (*models.Blog, error)
	CreateBlog(ctx context.Context, author *models.User, req BlogRequest) (*models.Blog, error)
	UpdateBlog(ctx context.Context, id string, req BlogRequest) (*models.Blog, error)
	DeleteBlog(ctx context.Context, id string) error
}

type blogService struct {
	blogRepo repository.BlogRepository
	validate *validator.Validate
	cfg      *config.Config
}

func NewBlogService(blogRepo repository.BlogRepository, cfg *config.Config) BlogService {
	return &blogService{
		blogRepo: blogRepo,
		validate: newValidator(),
		cfg:      cfg,
	}
}

func (s *blogService) ListBlogs(ctx context.Context, pageIndex int) (apis.Page, []*models.Blog, error) {
	num, err := s.blogRepo.Count(ctx)
	if err != nil {
		return apis.Page{}, nil, err
	}
	page := apis.NewPage(num, pageIndex, s.cfg.Server.PageSize)
	if num == 0 {
		return page, []*models.Blog{}, nil
	}

	blogs, err := s.blogRepo.FindPage(ctx, page)
	if err != nil {
		return page, nil, err
	}
	return page, blogs, nil
}

func (s *blogService) GetBlog(ctx context.Context, id string) (*models.Blog, error) {
	blog, err := s.blogRepo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if blog == nil {
		return nil, apis.ResourceNotFound("Blog", "")
	}
	return blog, nil
}

func (s *blogService) check(req *BlogRequest) error {
	req.trim()
	if err := s.validate.Struct(req); err != nil {
		return validationError(err, func(field string) string { return field + " cannot be empty." })
	}
	return nil
}

func (s *blogService) CreateBlog(ctx context.Context, author *models.User, req BlogRequest) (*models.Blog, error) {
	if err := s.check(&req); err != nil {
		return nil, err
	}

	blog := models.NewBlog(map[string]any{
		"user_id":    author.ID(),
		"user_name":  author.Name(),
		"user_image": author.Image(),
		"name":       req.Name,
		"summary":    req.Summary,
		"content":    req.Content,
	})
	if err := s.blogRepo.Save(ctx, blog); err != nil {
		return nil, err
	}
	return blog, nil
}

func (s *blogService) UpdateBlog(ctx context.Context, id string, req BlogRequest) (*models.Blog, error) {
	blog, err := s.GetBlog(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.check(&req); err != nil {
		return nil, err
	}

	blog.SetName(req.Name)
	blog.SetSummary(req.Summary)
	blog.SetContent(req.Content)
	if err := s.blogRepo.Update(ctx, blog); err != nil {
		return nil, err
	}
	return blog, nil
}

func (s *blogService) DeleteBlog(ctx context.Context, id string) error {
	blog, err := s.GetBlog(ctx, id)
	if err != nil {
		return err
	}
	return s.blogRepo.Remove(ctx, blog)
}
