package test

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"awesomeblog/internal/apis"
	"awesomeblog/internal/models"
	"awesomeblog/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req service.RegisterRequest) (*models.User, string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Authenticate(ctx context.Context, email, passwd string) (*models.User, string, error) {
	args := m.Called(ctx, email, passwd)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) UserFromCookie(ctx context.Context, token string) *models.User {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*models.User)
}

func (m *MockAuthService) SessionTTL() time.Duration {
	return 24 * time.Hour
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) ListUsers(ctx context.Context, pageIndex int) (apis.Page, []*models.User, error) {
	args := m.Called(ctx, pageIndex)
	users, _ := args.Get(1).([]*models.User)
	return args.Get(0).(apis.Page), users, args.Error(2)
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type MockBlogService struct {
	mock.Mock
}

func (m *MockBlogService) ListBlogs(ctx context.Context, pageIndex int) (apis.Page, []*models.Blog, error) {
	args := m.Called(ctx, pageIndex)
	blogs, _ := args.Get(1).([]*models.Blog)
	return args.Get(0).(apis.Page), blogs, args.Error(2)
}

func (m *MockBlogService) GetBlog(ctx context.Context, id string) (*models.Blog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blog), args.Error(1)
}

func (m *MockBlogService) CreateBlog(ctx context.Context, author *models.User, req service.BlogRequest) (*models.Blog, error) {
	args := m.Called(ctx, author, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blog), args.Error(1)
}

func (m *MockBlogService) UpdateBlog(ctx context.Context, id string, req service.BlogRequest) (*models.Blog, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blog), args.Error(1)
}

func (m *MockBlogService) DeleteBlog(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) ListComments(ctx context.Context, pageIndex int) (apis.Page, []*models.Comment, error) {
	args := m.Called(ctx, pageIndex)
	comments, _ := args.Get(1).([]*models.Comment)
	return args.Get(0).(apis.Page), comments, args.Error(2)
}

func (m *MockCommentService) BlogComments(ctx context.Context, blogID string) ([]*models.Comment, error) {
	args := m.Called(ctx, blogID)
	comments, _ := args.Get(0).([]*models.Comment)
	return comments, args.Error(1)
}

func (m *MockCommentService) CreateComment(ctx context.Context, author *models.User, blogID, content string) (*models.Comment, error) {
	args := m.Called(ctx, author, blogID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentService) DeleteComment(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) UploadImage(ctx context.Context, owner *models.User, fileName string, file io.Reader, size int64) (string, error) {
	args := m.Called(ctx, owner, fileName, file, size)
	return args.String(0), args.Error(1)
}

type MockTablesService struct {
	mock.Mock
}

func (m *MockTablesService) Health(ctx context.Context) (service.Health, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.Health), args.Error(1)
}
