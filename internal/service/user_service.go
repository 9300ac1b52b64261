package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"awesomeblog/internal/apis"
	"awesomeblog/internal/config"
	"awesomeblog/internal/models"
	"awesomeblog/internal/repository"
)

// DeletedSuffix marks the author name on comments left by a removed user.
const DeletedSuffix = " (deleted)"

type UserService interface {
	ListUsers(ctx context.Context, pageIndex int) (apis.Page, []*models.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

type userService struct {
	userRepo    repository.UserRepository
	commentRepo repository.CommentRepository
	cfg         *config.Config
	logger      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, commentRepo repository.CommentRepository, cfg *config.Config, logger *zap.Logger) UserService {
	return &userService{
		userRepo:    userRepo,
		commentRepo: commentRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

func (s *userService) ListUsers(ctx context.Context, pageIndex int) (apis.Page, []*models.User, error) {
	num, err := s.userRepo.Count(ctx)
	if err != nil {
		return apis.Page{}, nil, err
	}
	page := apis.NewPage(num, pageIndex, s.cfg.Server.PageSize)
	if num == 0 {
		return page, []*models.User{}, nil
	}

	users, err := s.userRepo.FindPage(ctx, page)
	if err != nil {
		return page, nil, err
	}
	for i, u := range users {
		users[i] = u.Redacted()
	}
	return page, users, nil
}

// DeleteUser removes the user and relabels their comments one by one. The
// statements are not wrapped in a transaction.
func (s *userService) DeleteUser(ctx context.Context, userID string) error {
	user, err := s.userRepo.Find(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apis.ResourceNotFound("User", "")
	}
	if err := s.userRepo.Remove(ctx, user); err != nil {
		return err
	}

	comments, err := s.commentRepo.FindByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("relabel comments of %s: %w", userID, err)
	}
	for _, c := range comments {
		c.SetUserName(c.UserName() + DeletedSuffix)
		if err := s.commentRepo.Update(ctx, c); err != nil {
			return fmt.Errorf("relabel comment %s: %w", c.ID(), err)
		}
	}

	s.logger.Info("user deleted", zap.String("user_id", userID), zap.Int("comments", len(comments)))
	return nil
}
