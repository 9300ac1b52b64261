package service

import (
	"context"

	"awesomeblog/internal/repository"
)

type Health struct {
	Status string `json:"status"`
	Tables int    `json:"tables"`
}

type TablesService interface {
	Health(ctx context.Context) (Health, error)
}

type tablesService struct {
	tablesRepo repository.TablesRepository
}

func NewTablesService(tablesRepo repository.TablesRepository) TablesService {
	return &tablesService{tablesRepo: tablesRepo}
}

func (t *tablesService) Health(ctx context.Context) (Health, error) {
	if err := t.tablesRepo.Ping(ctx); err != nil {
		return Health{Status: "unavailable"}, err
	}

	countTables, err := t.tablesRepo.CountTablesDB(ctx)
	if err != nil {
		return Health{Status: "unavailable"}, err
	}

	return Health{Status: "ok", Tables: countTables}, nil
}
