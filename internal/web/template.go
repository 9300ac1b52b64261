package web

import (
	"fmt"
	"html"
	"html/template"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Templates renders html/template files parsed from a file system.
type Templates struct {
	set *template.Template
}

func NewTemplates(fsys fs.FS, patterns ...string) (*Templates, error) {
	if len(patterns) == 0 {
		patterns = []string{"*.html"}
	}
	set, err := template.New("").Funcs(template.FuncMap{
		"datetime":  func(ts float64) string { return Datetime(ts, time.Now()) },
		"text2html": Text2HTML,
		"add":       func(a, b int) int { return a + b },
	}).ParseFS(fsys, patterns...)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Templates{set: set}, nil
}

func (t *Templates) Render(w io.Writer, name string, data map[string]any) error {
	return t.set.ExecuteTemplate(w, name, data)
}

// Datetime formats an epoch-seconds timestamp relative to now, falling back
// to the calendar date once it is a week old.
func Datetime(ts float64, now time.Time) string {
	then := time.Unix(0, int64(ts*float64(time.Second)))
	delta := now.Sub(then)
	switch {
	case delta < time.Minute:
		return "1 minute ago"
	case delta < 7*24*time.Hour:
		return humanize.RelTime(then, now, "ago", "from now")
	}
	return then.Format("2006-01-02")
}

// Text2HTML escapes text and wraps each non-blank line in a paragraph.
func Text2HTML(text string) template.HTML {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(line))
		b.WriteString("</p>")
	}
	return template.HTML(b.String())
}
