package handlers

import (
	"context"
	"net/http"
	"time"

	"awesomeblog/internal/apis"
	"awesomeblog/internal/middleware"
	"awesomeblog/internal/models"
	"awesomeblog/internal/service"
	"awesomeblog/internal/web"
)

func (h *Handlers) ListUsers(ctx context.Context, p *pageParams) (any, error) {
	page, users, err := h.UserService.ListUsers(ctx, apis.PageIndex(p.Page))
	if err != nil {
		return nil, err
	}
	return map[string]any{"page": page, "users": users}, nil
}

func (h *Handlers) DeleteUser(ctx context.Context, p *deleteByIDParams) (any, error) {
	if err := service.CheckAdmin(middleware.CurrentUser(p.Request)); err != nil {
		return nil, err
	}
	if err := h.UserService.DeleteUser(ctx, p.ID); err != nil {
		return nil, err
	}
	return map[string]any{"id": p.ID}, nil
}

type registerParams struct {
	Email  string `param:"email"`
	Name   string `param:"name"`
	Passwd string `param:"passwd"`
}

func (h *Handlers) RegisterUser(ctx context.Context, p *registerParams) (any, error) {
	user, token, err := h.AuthService.Register(ctx, service.RegisterRequest{Name: p.Name, Email: p.Email, Passwd: p.Passwd})
	if err != nil {
		return nil, err
	}
	return h.sessionResponse(user, token)
}

type authenticateParams struct {
	Email  string `param:"email"`
	Passwd string `param:"passwd"`
}

func (h *Handlers) Authenticate(ctx context.Context, p *authenticateParams) (any, error) {
	user, token, err := h.AuthService.Authenticate(ctx, p.Email, p.Passwd)
	if err != nil {
		return nil, err
	}
	return h.sessionResponse(user, token)
}

type signoutParams struct {
	Request *http.Request
}

// Signout clears the session cookie and goes back to the referring page.
func (h *Handlers) Signout(_ context.Context, p *signoutParams) (any, error) {
	target := p.Request.Header.Get("Referer")
	if target == "" {
		target = "/"
	}

	resp := &web.Response{
		Status: http.StatusFound,
		Header: http.Header{"Location": []string{target}},
		Cookies: []*http.Cookie{{
			Name:     h.Cfg.Session.CookieName,
			Value:    "-deleted-",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		}},
	}
	h.logger.Info("user signed out")
	return resp, nil
}

// sessionResponse answers with the redacted user and a fresh session cookie.
func (h *Handlers) sessionResponse(user *models.User, token string) (*web.Response, error) {
	resp, err := web.JSON(user)
	if err != nil {
		return nil, err
	}
	resp.Cookies = append(resp.Cookies, &http.Cookie{
		Name:     h.Cfg.Session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.AuthService.SessionTTL() / time.Second),
		HttpOnly: true,
	})
	return resp, nil
}
