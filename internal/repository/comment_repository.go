package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"awesomeblog/internal/apis"
	"awesomeblog/internal/models"
	"awesomeblog/internal/orm"
)

type commentRepository struct {
	table *orm.Table[*models.Comment]
}

func NewCommentRepository(db orm.Executor, logger *zap.Logger) CommentRepository {
	return &commentRepository{table: orm.NewTable(models.CommentSchema, db, models.WrapComment, logger)}
}

func (r *commentRepository) Find(ctx context.Context, id string) (*models.Comment, error) {
	comment, found, err := r.table.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get comment %s: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return comment, nil
}

func (r *commentRepository) FindPage(ctx context.Context, page apis.Page) ([]*models.Comment, error) {
	return r.table.FindAll(ctx, orm.FindOptions{OrderBy: newestFirst, Limit: page.Window()})
}

func (r *commentRepository) FindByBlog(ctx context.Context, blogID string) ([]*models.Comment, error) {
	return r.table.FindAll(ctx, orm.FindOptions{Where: "`blog_id`=?", Args: []any{blogID}, OrderBy: newestFirst})
}

func (r *commentRepository) FindByUser(ctx context.Context, userID string) ([]*models.Comment, error) {
	return r.table.FindAll(ctx, orm.FindOptions{Where: "`user_id`=?", Args: []any{userID}})
}

func (r *commentRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.table)
}

func (r *commentRepository) Save(ctx context.Context, comment *models.Comment) error {
	return r.table.Save(ctx, comment)
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.table.Update(ctx, comment)
}

func (r *commentRepository) Remove(ctx context.Context, comment *models.Comment) error {
	return r.table.Remove(ctx, comment)
}
