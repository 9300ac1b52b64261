package service

import (
	"go.uber.org/zap"

	"awesomeblog/internal/config"
	"awesomeblog/internal/repository"
	"awesomeblog/internal/storage"
)

type Service struct {
	Auth    AuthService
	User    UserService
	Blog    BlogService
	Comment CommentService
	Image   ImageService
	Tables  TablesService
}

func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage, logger *zap.Logger) *Service {
	return &Service{
		Auth:    NewAuthService(rep.User, cfg, logger),
		User:    NewUserService(rep.User, rep.Comment, cfg, logger),
		Blog:    NewBlogService(rep.Blog, cfg),
		Comment: NewCommentService(rep.Comment, rep.Blog, cfg),
		Image:   NewImageService(storage, logger),
		Tables:  NewTablesService(rep.Tables),
	}
}
