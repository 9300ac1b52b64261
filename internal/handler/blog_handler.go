package handlers

import (
	"context"
	"net/http"

	"awesomeblog/internal/apis"
	"awesomeblog/internal/middleware"
	"awesomeblog/internal/service"
)

func (h *Handlers) ListBlogs(ctx context.Context, p *pageParams) (any, error) {
	page, blogs, err := h.BlogService.ListBlogs(ctx, apis.PageIndex(p.Page))
	if err != nil {
		return nil, err
	}
	return map[string]any{"page": page, "blogs": blogs}, nil
}

type blogIDParams struct {
	ID string `param:"id,path"`
}

func (h *Handlers) GetBlog(ctx context.Context, p *blogIDParams) (any, error) {
	return h.BlogService.GetBlog(ctx, p.ID)
}

type createBlogParams struct {
	Request *http.Request
	Name    string `param:"name"`
	Summary string `param:"summary"`
	Content string `param:"content"`
}

func (h *Handlers) CreateBlog(ctx context.Context, p *createBlogParams) (any, error) {
	user := middleware.CurrentUser(p.Request)
	if err := service.CheckAdmin(user); err != nil {
		return nil, err
	}
	return h.BlogService.CreateBlog(ctx, user, service.BlogRequest{Name: p.Name, Summary: p.Summary, Content: p.Content})
}

type updateBlogParams struct {
	ID      string `param:"id,path"`
	Request *http.Request
	Name    string `param:"name"`
	Summary string `param:"summary"`
	Content string `param:"content"`
}

func (h *Handlers) UpdateBlog(ctx context.Context, p *updateBlogParams) (any, error) {
	if err := service.CheckAdmin(middleware.CurrentUser(p.Request)); err != nil {
		return nil, err
	}
	return h.BlogService.UpdateBlog(ctx, p.ID, service.BlogRequest{Name: p.Name, Summary: p.Summary, Content: p.Content})
}

// deleteBlogParams takes id as a keyword; the path value fills it.
type deleteBlogParams struct {
	Request *http.Request
	ID      string `param:"id"`
}

func (h *Handlers) DeleteBlog(ctx context.Context, p *deleteBlogParams) (any, error) {
	if err := service.CheckAdmin(middleware.CurrentUser(p.Request)); err != nil {
		return nil, err
	}
	if err := h.BlogService.DeleteBlog(ctx, p.ID); err != nil {
		return nil, err
	}
	return map[string]any{"id": p.ID}, nil
}
