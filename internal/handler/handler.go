package handlers

import (
	"go.uber.org/zap"

	"awesomeblog/internal/config"
	"awesomeblog/internal/service"
	"awesomeblog/internal/web"
)

type Handlers struct {
	AuthService    service.AuthService
	UserService    service.UserService
	BlogService    service.BlogService
	CommentService service.CommentService
	ImageService   service.ImageService
	TablesService  service.TablesService
	Cfg            *config.Config
	logger         *zap.Logger
}

func NewHandlers(services *service.Service, cfg *config.Config, logger *zap.Logger) *Handlers {
	return &Handlers{
		AuthService:    services.Auth,
		UserService:    services.User,
		BlogService:    services.Blog,
		CommentService: services.Comment,
		ImageService:   services.Image,
		TablesService:  services.Tables,
		Cfg:            cfg,
		logger:         logger,
	}
}

// Register mounts every API and page route. Signature errors are collected
// on rt and reported by rt.Err.
func (h *Handlers) Register(rt *web.Router) {
	web.Get(rt, "/api/blogs", h.ListBlogs)
	web.Get(rt, "/api/blogs/{id}", h.GetBlog)
	web.Post(rt, "/api/blogs", h.CreateBlog)
	web.Post(rt, "/api/blogs/{id}", h.UpdateBlog)
	web.Post(rt, "/api/blogs/{id}/delete", h.DeleteBlog)

	web.Get(rt, "/api/comments", h.ListComments)
	web.Post(rt, "/api/blogs/{id}/comments", h.CreateComment)
	web.Post(rt, "/api/comments/{id}/delete", h.DeleteComment)

	web.Post(rt, "/api/users", h.RegisterUser)
	web.Get(rt, "/api/users", h.ListUsers)
	web.Post(rt, "/api/users/{id}/delete", h.DeleteUser)
	web.Post(rt, "/api/authenticate", h.Authenticate)

	web.Post(rt, "/api/images", h.UploadImage)
	web.Get(rt, "/health", h.Health)

	web.Get(rt, "/", h.Index)
	web.Get(rt, "/blog/{id}", h.BlogPage)
	web.Get(rt, "/register", h.RegisterPage)
	web.Get(rt, "/signin", h.SigninPage)
	web.Get(rt, "/signout", h.Signout)

	web.Get(rt, "/manage/", h.Manage)
	web.Get(rt, "/manage/comments", h.ManageComments)
	web.Get(rt, "/manage/blogs", h.ManageBlogs)
	web.Get(rt, "/manage/blogs/create", h.ManageCreateBlog)
	web.Get(rt, "/manage/blogs/edit", h.ManageEditBlog)
	web.Get(rt, "/manage/users", h.ManageUsers)
}

type pageParams struct {
	Page string `param:"page" default:"1"`
}

type noParams struct{}
