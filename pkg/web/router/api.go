package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"
	"gorm.io/gorm"

	"github.com/xcsh-hit/goblog/pkg/common/config"
	dao "github.com/xcsh-hit/goblog/pkg/core/blog/repository/dao/impl"
	"github.com/xcsh-hit/goblog/pkg/web/handler"
	"github.com/xcsh-hit/goblog/pkg/web/middleware"
	"github.com/xcsh-hit/goblog/pkg/web/session"
)

// RegisterRoutes wires repositories, session manager, middleware and all
// page routes onto the server. Everything a handler touches is injected
// here; nothing reads ambient state.
func RegisterRoutes(h *server.Hertz, cfg *config.Config, db *gorm.DB) {
	users := dao.NewUserRepository(db)
	posts := dao.NewPostRepository(db)
	comments := dao.NewCommentRepository(db)

	sessions := session.NewManager(cfg.Session)

	userHandler := handler.NewUserHandler(users, sessions)
	postHandler := handler.NewPostHandler(posts, comments)
	pageHandler := handler.NewPageHandler()

	h.Use(
		middleware.RecoveryMiddleware(cfg),
		middleware.RequestIDMiddleware(),
		middleware.LoggerMiddleware(),
		middleware.CORSMiddleware(cfg.CORS),
		middleware.IdentityMiddleware(sessions, users),
	)

	h.GET("/health", pageHandler.Health)

	// public pages
	h.GET("/", postHandler.Index)
	h.GET("/about", pageHandler.About)
	h.GET("/contact", pageHandler.Contact)
	h.GET("/register", userHandler.ShowRegister)
	h.POST("/register", userHandler.Register)
	h.GET("/login", userHandler.ShowLogin)
	h.POST("/login", userHandler.Login)
	h.GET("/logout", userHandler.Logout)

	// gated pages: the guard runs before every handler in the group
	authed := h.Group("/", middleware.AuthGuard(cfg.Session))
	{
		authed.GET("/post/:postId", postHandler.Show)
		authed.POST("/post/:postId", postHandler.AddComment)
		authed.GET("/new-post", postHandler.ShowNew)
		authed.POST("/new-post", postHandler.CreateNew)
		authed.GET("/edit-post/:postId", postHandler.ShowEdit)
		authed.POST("/edit-post/:postId", postHandler.SubmitEdit)
		authed.GET("/delete/:postId", postHandler.Delete)
	}
}
