package service

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"awesomeblog/internal/apis"
	"awesomeblog/internal/models"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Find(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) FindPage(ctx context.Context, page apis.Page) ([]*models.User, error) {
	args := m.Called(ctx, page)
	users, _ := args.Get(0).([]*models.User)
	return users, args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Remove(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

type MockBlogRepository struct {
	mock.Mock
}

func (m *MockBlogRepository) Find(ctx context.Context, id string) (*models.Blog, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*models.Blog)
	return b, args.Error(1)
}

func (m *MockBlogRepository) FindPage(ctx context.Context, page apis.Page) ([]*models.Blog, error) {
	args := m.Called(ctx, page)
	blogs, _ := args.Get(0).([]*models.Blog)
	return blogs, args.Error(1)
}

func (m *MockBlogRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockBlogRepository) Save(ctx context.Context, blog *models.Blog) error {
	return m.Called(ctx, blog).Error(0)
}

func (m *MockBlogRepository) Update(ctx context.Context, blog *models.Blog) error {
	return m.Called(ctx, blog).Error(0)
}

func (m *MockBlogRepository) Remove(ctx context.Context, blog *models.Blog) error {
	return m.Called(ctx, blog).Error(0)
}

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Find(ctx context.Context, id string) (*models.Comment, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.Comment)
	return c, args.Error(1)
}

func (m *MockCommentRepository) FindPage(ctx context.Context, page apis.Page) ([]*models.Comment, error) {
	args := m.Called(ctx, page)
	comments, _ := args.Get(0).([]*models.Comment)
	return comments, args.Error(1)
}

func (m *MockCommentRepository) FindByBlog(ctx context.Context, blogID string) ([]*models.Comment, error) {
	args := m.Called(ctx, blogID)
	comments, _ := args.Get(0).([]*models.Comment)
	return comments, args.Error(1)
}

func (m *MockCommentRepository) FindByUser(ctx context.Context, userID string) ([]*models.Comment, error) {
	args := m.Called(ctx, userID)
	comments, _ := args.Get(0).([]*models.Comment)
	return comments, args.Error(1)
}

func (m *MockCommentRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockCommentRepository) Save(ctx context.Context, comment *models.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *MockCommentRepository) Remove(ctx context.Context, comment *models.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

type MockTablesRepository struct {
	mock.Mock
}

func (m *MockTablesRepository) CountTablesDB(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockTablesRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) UploadImage(ctx context.Context, ownerID string, fileName string, file io.Reader, size int64) (string, string, error) {
	args := m.Called(ctx, ownerID, fileName, file, size)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockStorage) DeleteImage(ctx context.Context, objectName string) error {
	return m.Called(ctx, objectName).Error(0)
}

func (m *MockStorage) GetImageURL(objectName string) string {
	return m.Called(objectName).String(0)
}
