package repository

import (
	"context"

	"go.uber.org/zap"

	"awesomeblog/internal/apis"
	"awesomeblog/internal/database"
	"awesomeblog/internal/models"
)

type UserRepository interface {
	Find(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindPage(ctx context.Context, page apis.Page) ([]*models.User, error)
	Count(ctx context.Context) (int, error)
	Save(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Remove(ctx context.Context, user *models.User) error
}

type BlogRepository interface {
	Find(ctx context.Context, id string) (*models.Blog, error)
	FindPage(ctx context.Context, page apis.Page) ([]*models.Blog, error)
	Count(ctx context.Context) (int, error)
	Save(ctx context.Context, blog *models.Blog) error
	Update(ctx context.Context, blog *models.Blog) error
	Remove(ctx context.Context, blog *models.Blog) error
}

type CommentRepository interface {
	Find(ctx context.Context, id string) (*models.Comment, error)
	FindPage(ctx context.Context, page apis.Page) ([]*models.Comment, error)
	FindByBlog(ctx context.Context, blogID string) ([]*models.Comment, error)
	FindByUser(ctx context.Context, userID string) ([]*models.Comment, error)
	Count(ctx context.Context) (int, error)
	Save(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, comment *models.Comment) error
	Remove(ctx context.Context, comment *models.Comment) error
}

type TablesRepository interface {
	CountTablesDB(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

type Repository struct {
	User    UserRepository
	Blog    BlogRepository
	Comment CommentRepository
	Tables  TablesRepository
}

func NewRepository(db *database.DB, logger *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, logger),
		Blog:    NewBlogRepository(db, logger),
		Comment: NewCommentRepository(db, logger),
		Tables:  NewTablesRepository(db),
	}
}

// newestFirst orders listings by creation time, latest first.
const newestFirst = "created_at desc"
