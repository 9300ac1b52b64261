package service

import (
	"context"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"awesomeblog/internal/models"
	"awesomeblog/internal/repository"
)

// RedactedPasswd replaces the stored digest on users handed to callers.
const RedactedPasswd = "******"

// CookieCodec signs session tokens of the form id-expires-sha1. Nothing is
// stored server side; a token stops verifying when the user's password
// digest changes.
type CookieCodec struct {
	users  repository.UserRepository
	secret string
	logger *zap.Logger
	now    func() time.Time
}

func NewCookieCodec(users repository.UserRepository, secret string, logger *zap.Logger) *CookieCodec {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CookieCodec{users: users, secret: secret, logger: logger, now: time.Now}
}

func (c *CookieCodec) Encode(user *models.User, ttl time.Duration) string {
	expires := strconv.FormatInt(c.now().Add(ttl).Unix(), 10)
	return strings.Join([]string{user.ID(), expires, c.digest(user.ID(), user.Passwd(), expires)}, "-")
}

// Decode returns the signed-in user, or nil for any token that does not
// verify. The returned user has its passwd redacted.
func (c *CookieCodec) Decode(ctx context.Context, token string) *models.User {
	if token == "" {
		return nil
	}
	parts := strings.Split(token, "-")
	if len(parts) != 3 {
		return nil
	}
	uid, expires, sum := parts[0], parts[1], parts[2]

	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		c.logger.Info("invalid cookie expiry", zap.String("expires", expires))
		return nil
	}
	if time.Unix(exp, 0).Before(c.now()) {
		return nil
	}

	user, err := c.users.Find(ctx, uid)
	if err != nil {
		c.logger.Info("cookie user lookup failed", zap.String("user_id", uid), zap.Error(err))
		return nil
	}
	if user == nil {
		return nil
	}

	want := c.digest(uid, user.Passwd(), expires)
	if subtle.ConstantTimeCompare([]byte(want), []byte(sum)) != 1 {
		c.logger.Info("invalid sha1", zap.String("user_id", uid))
		return nil
	}

	user.SetPasswd(RedactedPasswd)
	return user
}

func (c *CookieCodec) digest(id, passwd, expires string) string {
	return sha1Hex(id + "-" + passwd + "-" + expires + "-" + c.secret)
}

// PasswordDigest is the stored form of a password: sha1 of "id:passwd",
// where passwd is the client side sha1 of the plaintext.
func PasswordDigest(id, passwd string) string {
	return sha1Hex(id + ":" + passwd)
}

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
