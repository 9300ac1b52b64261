package handlers

import (
	"context"
	"net/http"

	"awesomeblog/internal/apis"
	"awesomeblog/internal/middleware"
	"awesomeblog/internal/service"
)

func (h *Handlers) ListComments(ctx context.Context, p *pageParams) (any, error) {
	page, comments, err := h.CommentService.ListComments(ctx, apis.PageIndex(p.Page))
	if err != nil {
		return nil, err
	}
	return map[string]any{"page": page, "comments": comments}, nil
}

type createCommentParams struct {
	ID      string `param:"id,path"`
	Request *http.Request
	Content string `param:"content"`
}

func (h *Handlers) CreateComment(ctx context.Context, p *createCommentParams) (any, error) {
	return h.CommentService.CreateComment(ctx, middleware.CurrentUser(p.Request), p.ID, p.Content)
}

type deleteByIDParams struct {
	ID      string `param:"id,path"`
	Request *http.Request
}

func (h *Handlers) DeleteComment(ctx context.Context, p *deleteByIDParams) (any, error) {
	if err := service.CheckAdmin(middleware.CurrentUser(p.Request)); err != nil {
		return nil, err
	}
	if err := h.CommentService.DeleteComment(ctx, p.ID); err != nil {
		return nil, err
	}
	return map[string]any{"id": p.ID}, nil
}
