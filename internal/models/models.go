package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"awesomeblog/internal/orm"
)

// NextID returns a 50 character id that sorts by creation time: 15 digits of
// epoch milliseconds, 32 hex digits of a random uuid and a 000 suffix.
func NextID() string {
	return fmt.Sprintf("%015d%s000", time.Now().UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", ""))
}

// Now is the current time as float seconds since the epoch.
func Now() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}

var (
	idField        = orm.StringField("id", "varchar(50)").Key().WithDefault(orm.Computed(func() any { return NextID() }))
	createdAtField = orm.FloatField("created_at").WithDefault(orm.Computed(func() any { return Now() })).WithIndex()
)

var UserSchema = orm.MustSchema("users",
	idField,
	orm.StringField("email", "varchar(50)").WithUnique(),
	orm.StringField("passwd", "varchar(50)"),
	orm.BooleanField("admin"),
	orm.StringField("name", "varchar(50)"),
	orm.StringField("image", "varchar(500)"),
	createdAtField,
)

var BlogSchema = orm.MustSchema("blogs",
	idField,
	orm.StringField("user_id", "varchar(50)").WithIndex(),
	orm.StringField("user_name", "varchar(50)"),
	orm.StringField("user_image", "varchar(500)"),
	orm.StringField("name", "varchar(50)"),
	orm.StringField("summary", "varchar(200)"),
	orm.TextField("content"),
	createdAtField,
)

var CommentSchema = orm.MustSchema("comments",
	idField,
	orm.StringField("blog_id", "varchar(50)").WithIndex(),
	orm.StringField("user_id", "varchar(50)").WithIndex(),
	orm.StringField("user_name", "varchar(50)"),
	orm.StringField("user_image", "varchar(500)"),
	orm.TextField("content"),
	createdAtField,
)

// Registry lists every model schema in creation order.
func Registry() *orm.Registry {
	r := orm.NewRegistry()
	for _, s := range []*orm.Schema{UserSchema, BlogSchema, CommentSchema} {
		// table names are distinct
		_ = r.Register(s)
	}
	return r
}

type User struct {
	e *orm.Entity
}

func NewUser(values map[string]any) *User {
	return &User{e: orm.NewEntity(UserSchema, values)}
}

func WrapUser(e *orm.Entity) *User { return &User{e: e} }

func (u *User) Entity() *orm.Entity { return u.e }
func (u *User) ID() string          { return u.e.String("id") }
func (u *User) Email() string       { return u.e.String("email") }
func (u *User) Passwd() string      { return u.e.String("passwd") }
func (u *User) Admin() bool         { return u.e.Bool("admin") }
func (u *User) Name() string        { return u.e.String("name") }
func (u *User) Image() string       { return u.e.String("image") }
func (u *User) CreatedAt() float64  { return u.e.Float("created_at") }

func (u *User) SetPasswd(v string) { u.e.Set("passwd", v) }
func (u *User) SetAdmin(v bool)    { u.e.Set("admin", v) }

func (u *User) MarshalJSON() ([]byte, error) { return u.e.MarshalJSON() }

// Redacted returns a copy safe to send to clients.
func (u *User) Redacted() *User {
	c := &User{e: orm.NewEntity(UserSchema, u.e.Map())}
	c.SetPasswd("******")
	return c
}

type Blog struct {
	e *orm.Entity
}

func NewBlog(values map[string]any) *Blog {
	return &Blog{e: orm.NewEntity(BlogSchema, values)}
}

func WrapBlog(e *orm.Entity) *Blog { return &Blog{e: e} }

func (b *Blog) Entity() *orm.Entity { return b.e }
func (b *Blog) ID() string          { return b.e.String("id") }
func (b *Blog) UserID() string      { return b.e.String("user_id") }
func (b *Blog) UserName() string    { return b.e.String("user_name") }
func (b *Blog) UserImage() string   { return b.e.String("user_image") }
func (b *Blog) Name() string        { return b.e.String("name") }
func (b *Blog) Summary() string     { return b.e.String("summary") }
func (b *Blog) Content() string     { return b.e.String("content") }
func (b *Blog) CreatedAt() float64  { return b.e.Float("created_at") }

func (b *Blog) SetName(v string)    { b.e.Set("name", v) }
func (b *Blog) SetSummary(v string) { b.e.Set("summary", v) }
func (b *Blog) SetContent(v string) { b.e.Set("content", v) }

func (b *Blog) MarshalJSON() ([]byte, error) { return b.e.MarshalJSON() }

type Comment struct {
	e *orm.Entity
}

func NewComment(values map[string]any) *Comment {
	return &Comment{e: orm.NewEntity(CommentSchema, values)}
}

func WrapComment(e *orm.Entity) *Comment { return &Comment{e: e} }

func (c *Comment) Entity() *orm.Entity { return c.e }
func (c *Comment) ID() string          { return c.e.String("id") }
func (c *Comment) BlogID() string      { return c.e.String("blog_id") }
func (c *Comment) UserID() string      { return c.e.String("user_id") }
func (c *Comment) UserName() string    { return c.e.String("user_name") }
func (c *Comment) UserImage() string   { return c.e.String("user_image") }
func (c *Comment) Content() string     { return c.e.String("content") }
func (c *Comment) CreatedAt() float64  { return c.e.Float("created_at") }

func (c *Comment) SetUserName(v string) { c.e.Set("user_name", v) }

func (c *Comment) MarshalJSON() ([]byte, error) { return c.e.MarshalJSON() }
