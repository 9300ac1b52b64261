package repository

import (
	"context"
	"fmt"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"awesomeblog/internal/apis"
	"awesomeblog/internal/models"
	"awesomeblog/internal/orm"
)

type userRepository struct {
	table *orm.Table[*models.User]
}

func NewUserRepository(db orm.Executor, logger *zap.Logger) UserRepository {
	return &userRepository{table: orm.NewTable(models.UserSchema, db, models.WrapUser, logger)}
}

func (r *userRepository) Find(ctx context.Context, id string) (*models.User, error) {
	user, found, err := r.table.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := r.table.FindAll(ctx, orm.FindOptions{Where: "`email`=?", Args: []any{email}})
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if len(users) == 0 {
		return nil, nil
	}
	return users[0], nil
}

func (r *userRepository) FindPage(ctx context.Context, page apis.Page) ([]*models.User, error) {
	return r.table.FindAll(ctx, orm.FindOptions{OrderBy: newestFirst, Limit: page.Window()})
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.table)
}

func (r *userRepository) Save(ctx context.Context, user *models.User) error {
	return r.table.Save(ctx, user)
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.table.Update(ctx, user)
}

func (r *userRepository) Remove(ctx context.Context, user *models.User) error {
	return r.table.Remove(ctx, user)
}

func count[T orm.Record](ctx context.Context, table *orm.Table[T]) (int, error) {
	n, err := table.FindNumber(ctx, "count(`id`)", "")
	if err != nil {
		return 0, err
	}
	if n == nil {
		return 0, nil
	}
	c, err := cast.ToIntE(n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table.Schema().Table, err)
	}
	return c, nil
}
