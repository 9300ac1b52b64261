package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"awesomeblog/internal/apis"
	"awesomeblog/internal/config"
	"awesomeblog/internal/models"
	"awesomeblog/internal/repository"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9\.\-\_]+\@[a-z0-9\-\_]+(\.[a-z0-9\-\_]+){1,4}$`)
	sha1Pattern  = regexp.MustCompile(`^[0-9a-f]{40}$`)
)

// RegisterRequest carries a sign-up form. Passwd is the sha1 hex digest the
// browser computes from email and plaintext, never the plaintext itself.
type RegisterRequest struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,blogemail"`
	Passwd string `json:"passwd" validate:"required,sha1hex"`
}

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*models.User, string, error)
	Authenticate(ctx context.Context, email, passwd string) (*models.User, string, error)
	UserFromCookie(ctx context.Context, token string) *models.User
	SessionTTL() time.Duration
}

type authService struct {
	userRepo repository.UserRepository
	codec    *CookieCodec
	validate *validator.Validate
	cfg      *config.Config
	logger   *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config, logger *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		codec:    NewCookieCodec(userRepo, cfg.Session.Secret, logger),
		validate: newValidator(),
		cfg:      cfg,
		logger:   logger,
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("blogemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("sha1hex", func(fl validator.FieldLevel) bool {
		return sha1Pattern.MatchString(fl.Field().String())
	})
	return v
}

// validationError turns the first failing field into a value:invalid error.
func validationError(err error, message func(field string) string) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field := verrs[0].Field()
		return apis.ValueError(field, message(field))
	}
	return err
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*models.User, string, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate.Struct(req); err != nil {
		return nil, "", validationError(err, func(string) string { return "" })
	}

	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", apis.NewAPIError("register:failed", "email", "Email is already in use.")
	}

	uid := models.NextID()
	user := models.NewUser(map[string]any{
		"id":     uid,
		"name":   req.Name,
		"email":  req.Email,
		"passwd": PasswordDigest(uid, req.Passwd),
		"image":  GravatarURL(req.Email),
	})
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, "", fmt.Errorf("register %s: %w", req.Email, err)
	}

	token := s.codec.Encode(user, s.cfg.Session.TTL)
	s.logger.Info("user registered", zap.String("user_id", uid))
	return user.Redacted(), token, nil
}

func (s *authService) Authenticate(ctx context.Context, email, passwd string) (*models.User, string, error) {
	if email == "" {
		return nil, "", apis.ValueError("email", "Invalid email.")
	}
	if passwd == "" {
		return nil, "", apis.ValueError("passwd", "Invalid password.")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", apis.ValueError("email", "Email not exist.")
	}
	if user.Passwd() != PasswordDigest(user.ID(), passwd) {
		return nil, "", apis.ValueError("passwd", "Invalid password.")
	}

	token := s.codec.Encode(user, s.cfg.Session.TTL)
	s.logger.Info("user signed in", zap.String("user_id", user.ID()))
	return user.Redacted(), token, nil
}

func (s *authService) UserFromCookie(ctx context.Context, token string) *models.User {
	return s.codec.Decode(ctx, token)
}

func (s *authService) SessionTTL() time.Duration {
	return s.cfg.Session.TTL
}

func GravatarURL(email string) string {
	sum := md5.Sum([]byte(email))
	return "http://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?d=mm&s=120"
}

// CheckAdmin fails with permission:forbidden unless user is a signed-in
// administrator.
func CheckAdmin(user *models.User) error {
	if user == nil || !user.Admin() {
		return apis.PermissionError("")
	}
	return nil
}
