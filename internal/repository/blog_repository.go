package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"awesomeblog/internal/apis"
	"awesomeblog/internal/models"
	"awesomeblog/internal/orm"
)

type blogRepository struct {
	table *orm.Table[*models.Blog]
}

func NewBlogRepository(db orm.Executor, logger *zap.Logger) BlogRepository {
	return &blogRepository{table: orm.NewTable(models.BlogSchema, db, models.WrapBlog, logger)}
}

func (r *blogRepository) Find(ctx context.Context, id string) (*models.Blog, error) {
	blog, found, err := r.table.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get blog %s: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return blog, nil
}

func (r *blogRepository) FindPage(ctx context.Context, page apis.Page) ([]*models.Blog, error) {
	return r.table.FindAll(ctx, orm.FindOptions{OrderBy: newestFirst, Limit: page.Window()})
}

func (r *blogRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.table)
}

func (r *blogRepository) Save(ctx context.Context, blog *models.Blog) error {
	return r.table.Save(ctx, blog)
}

func (r *blogRepository) Update(ctx context.Context, blog *models.Blog) error {
	return r.table.Update(ctx, blog)
}

func (r *blogRepository) Remove(ctx context.Context, blog *models.Blog) error {
	return r.table.Remove(ctx, blog)
}
