package middleware

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/google/uuid"
	"github.com/hertz-contrib/cors"
	jwth "github.com/hertz-contrib/jwt"

	"github.com/xcsh-hit/goblog/pkg/common/config"
	"github.com/xcsh-hit/goblog/pkg/core/blog/model"
	"github.com/xcsh-hit/goblog/pkg/core/blog/repository/dao"
	"github.com/xcsh-hit/goblog/pkg/web/session"
)

const currentUserKey = "current_user"

// RequestIDMiddleware tags every request with an id for log correlation.
func RequestIDMiddleware() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		id := uuid.NewString()
		ctx.Set("request_id", id)
		ctx.Response.Header.Set("X-Request-ID", id)
		ctx.Next(c)
	}
}

// LoggerMiddleware writes one structured line per request.
func LoggerMiddleware() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c)
		latency := time.Since(start)

		hlog.CtxTracef(c, "| %3d | %13v | %15s | %-7s | %s | id=%s",
			ctx.Response.StatusCode(),
			latency,
			ctx.ClientIP(),
			ctx.Method(),
			ctx.Path(),
			ctx.GetString("request_id"),
		)
	}
}

// RecoveryMiddleware converts panics into a 500. Production hides details.
func RecoveryMiddleware(cfg *config.Config) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		defer func() {
			if err := recover(); err != nil {
				stack := string(debug.Stack())

				hlog.CtxErrorf(c, "[PANIC RECOVERED] %v\n%s", err, stack)

				if cfg.IsProd() {
					ctx.AbortWithStatusJSON(500, map[string]interface{}{
						"code":    500,
						"message": "internal server error",
					})
				} else {
					ctx.AbortWithStatusJSON(500, map[string]interface{}{
						"code":  500,
						"error": fmt.Sprintf("%v", err),
						"stack": strings.Split(stack, "\n"),
					})
				}
			}
		}()
		ctx.Next(c)
	}
}

// CORSMiddleware applies the configured cross-origin policy.
func CORSMiddleware(corsConfig config.CORSConfig) app.HandlerFunc {
	return cors.New(
		cors.Config{
			AllowOrigins:     corsConfig.AllowOrigins,
			AllowMethods:     corsConfig.AllowMethods,
			AllowHeaders:     corsConfig.AllowHeaders,
			ExposeHeaders:    corsConfig.ExposeHeaders,
			AllowCredentials: corsConfig.AllowCredentials,
			MaxAge:           corsConfig.MaxAge,
		},
	)
}

// IdentityMiddleware resolves the session cookie into the current user and
// stores it on the request context. It never rejects; anonymous requests
// simply carry no user. Runs globally so every page can render login state.
func IdentityMiddleware(sessions *session.Manager, users dao.UserRepository) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		if id, err := sessions.UserID(ctx); err == nil {
			if user, err := users.FindByID(id); err == nil {
				ctx.Set(currentUserKey, &user)
			}
		}
		ctx.Next(c)
	}
}

// CurrentUser returns the authenticated user resolved by IdentityMiddleware,
// or nil for anonymous requests.
func CurrentUser(ctx *app.RequestContext) *model.User {
	if v, ok := ctx.Get(currentUserKey); ok {
		if user, ok := v.(*model.User); ok {
			return user
		}
	}
	return nil
}

// AuthGuard rejects unauthenticated requests before the handler runs,
// redirecting browsers to the login page. Registered on the route group,
// so gated handlers are unreachable without a valid session cookie.
func AuthGuard(cfg config.SessionConfig) app.HandlerFunc {
	authMiddleware, err := jwth.New(&jwth.HertzJWTMiddleware{
		Realm:            cfg.Issuer,
		SigningAlgorithm: "HS256",
		Key:              []byte(cfg.Secret),
		Timeout:          cfg.ExpireDuration,
		TimeFunc:         time.Now,
		TokenLookup:      "cookie:" + cfg.CookieName,
		IdentityKey:      "user_id",
		IdentityHandler: func(c context.Context, ctx *app.RequestContext) interface{} {
			claims := jwth.ExtractClaims(c, ctx)
			id, ok := claims["user_id"].(float64)
			if !ok {
				return nil
			}
			return int64(id)
		},
		Unauthorized: func(c context.Context, ctx *app.RequestContext, code int, message string) {
			hlog.CtxInfof(c, "auth guard rejected path=%s: %s", ctx.Path(), message)
			ctx.Redirect(consts.StatusFound, []byte("/login"))
			ctx.Abort()
		},
	})
	if err != nil {
		panic(fmt.Sprintf("auth guard init failed: %v", err))
	}
	return authMiddleware.MiddlewareFunc()
}

// RequireUser backs the guard up inside gated handlers: the guard proves the
// cookie is valid, this proves the referenced user still exists.
func RequireUser(ctx *app.RequestContext) (*model.User, bool) {
	user := CurrentUser(ctx)
	if user == nil {
		ctx.Redirect(consts.StatusFound, []byte("/login"))
		ctx.Abort()
		return nil, false
	}
	return user, true
}
