package handler

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"github.com/xcsh-hit/goblog/pkg/web/middleware"
	"github.com/xcsh-hit/goblog/pkg/web/session"
	"github.com/xcsh-hit/goblog/pkg/web/view"
)

type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func (h *PageHandler) About(ctx context.Context, c *app.RequestContext) {
	view.Render(c, consts.StatusOK, "about.tmpl", view.Page{
		Title: "About",
		User:  middleware.CurrentUser(c),
		Flash: session.PopFlash(c),
	})
}

func (h *PageHandler) Contact(ctx context.Context, c *app.RequestContext) {
	view.Render(c, consts.StatusOK, "contact.tmpl", view.Page{
		Title: "Contact",
		User:  middleware.CurrentUser(c),
		Flash: session.PopFlash(c),
	})
}

var startupTime = time.Now()

// Health is a plain liveness probe.
func (h *PageHandler) Health(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, utils.H{
		"status": "healthy",
		"uptime": time.Since(startupTime).String(),
	})
}
