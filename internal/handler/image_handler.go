package handlers

import (
	"context"
	"errors"
	"net/http"

	"awesomeblog/internal/apis"
	"awesomeblog/internal/middleware"
	"awesomeblog/internal/service"
)

// multipartOverhead covers boundaries and part headers around the file.
const multipartOverhead = 64 << 10

type uploadParams struct {
	Request *http.Request
}

// UploadImage stores the multipart "image" file and returns its public URL.
func (h *Handlers) UploadImage(ctx context.Context, p *uploadParams) (any, error) {
	user := middleware.CurrentUser(p.Request)
	if err := service.CheckAdmin(user); err != nil {
		return nil, err
	}

	limit := h.Cfg.Server.MaxUploadSize + multipartOverhead
	if p.Request.ContentLength > limit {
		return nil, apis.ValueError("image", "Image is too large.")
	}
	p.Request.Body = http.MaxBytesReader(nil, p.Request.Body, limit)

	file, header, err := p.Request.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apis.ValueError("image", "Image is too large.")
		}
		return nil, apis.ValueError("image", "Image file is required.")
	}
	defer file.Close()

	if header.Size > h.Cfg.Server.MaxUploadSize {
		return nil, apis.ValueError("image", "Image is too large.")
	}

	url, err := h.ImageService.UploadImage(ctx, user, header.Filename, file, header.Size)
	if err != nil {
		return nil, err
	}
	return map[string]any{"url": url}, nil
}
