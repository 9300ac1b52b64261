package handlers

import (
	"context"

	"awesomeblog/internal/apis"
	"awesomeblog/internal/web"
)

func (h *Handlers) Index(ctx context.Context, p *pageParams) (any, error) {
	page, blogs, err := h.BlogService.ListBlogs(ctx, apis.PageIndex(p.Page))
	if err != nil {
		return nil, err
	}
	return map[string]any{web.TemplateKey: "blogs.html", "page": page, "blogs": blogs}, nil
}

func (h *Handlers) BlogPage(ctx context.Context, p *blogIDParams) (any, error) {
	blog, err := h.BlogService.GetBlog(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	comments, err := h.CommentService.BlogComments(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return map[string]any{web.TemplateKey: "blog.html", "blog": blog, "comments": comments}, nil
}

func (h *Handlers) RegisterPage(context.Context, *noParams) (any, error) {
	return map[string]any{web.TemplateKey: "register.html"}, nil
}

func (h *Handlers) SigninPage(context.Context, *noParams) (any, error) {
	return map[string]any{web.TemplateKey: "signin.html"}, nil
}

func (h *Handlers) Manage(context.Context, *noParams) (any, error) {
	return "redirect:/manage/blogs", nil
}

func (h *Handlers) ManageComments(_ context.Context, p *pageParams) (any, error) {
	return managePage("manage_comments.html", p), nil
}

func (h *Handlers) ManageBlogs(_ context.Context, p *pageParams) (any, error) {
	return managePage("manage_blogs.html", p), nil
}

func (h *Handlers) ManageUsers(_ context.Context, p *pageParams) (any, error) {
	return managePage("manage_users.html", p), nil
}

func (h *Handlers) ManageCreateBlog(context.Context, *noParams) (any, error) {
	return map[string]any{web.TemplateKey: "manage_blog_edit.html", "id": "", "action": "/api/blogs"}, nil
}

type editBlogParams struct {
	ID string `param:"id"`
}

func (h *Handlers) ManageEditBlog(_ context.Context, p *editBlogParams) (any, error) {
	return map[string]any{web.TemplateKey: "manage_blog_edit.html", "id": p.ID, "action": "/api/blogs/" + p.ID}, nil
}

// managePage lists are loaded by the page's script; only the index is rendered.
func managePage(template string, p *pageParams) map[string]any {
	return map[string]any{web.TemplateKey: template, "page_index": apis.PageIndex(p.Page)}
}
