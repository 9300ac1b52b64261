package repository

import (
	"context"

	"awesomeblog/internal/database"
)

type tablesRepository struct {
	db database.MethodsDB
}

func NewTablesRepository(db database.MethodsDB) TablesRepository {
	return &tablesRepository{db: db}
}

func (r *tablesRepository) CountTablesDB(ctx context.Context) (int, error) {
	return r.db.CountTables(ctx)
}

func (r *tablesRepository) Ping(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}
