package view

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"

	"github.com/xcsh-hit/goblog/pkg/core/blog/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Page carries everything a template can show. Handlers fill only the
// fields their page needs.
type Page struct {
	Title    string
	User     *model.User
	Flash    string
	Errors   map[string]string
	Form     interface{}
	Posts    []model.Post
	Post     *model.Post
	Comments []model.Comment
	Editing  bool
}

// Render executes the named template and writes it as the HTML response.
func Render(c *app.RequestContext, status int, name string, page Page) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, page); err != nil {
		hlog.Errorf("template %s render failed: %v", name, err)
		c.AbortWithStatus(500)
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
