package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"golang.org/x/crypto/bcrypt"

	commonerr "github.com/xcsh-hit/goblog/pkg/common/errors"
	"github.com/xcsh-hit/goblog/pkg/core/blog/repository/dao"
	"github.com/xcsh-hit/goblog/pkg/web/middleware"
	webmodel "github.com/xcsh-hit/goblog/pkg/web/model"
	"github.com/xcsh-hit/goblog/pkg/web/session"
	"github.com/xcsh-hit/goblog/pkg/web/view"
)

type UserHandler struct {
	Users    dao.UserRepository
	Sessions *session.Manager
}

func NewUserHandler(users dao.UserRepository, sessions *session.Manager) *UserHandler {
	return &UserHandler{Users: users, Sessions: sessions}
}

func (h *UserHandler) ShowRegister(ctx context.Context, c *app.RequestContext) {
	view.Render(c, consts.StatusOK, "register.tmpl", view.Page{
		Title: "Register",
		User:  middleware.CurrentUser(c),
		Flash: session.PopFlash(c),
		Form:  &webmodel.RegisterForm{},
	})
}

// Register creates the account, logs the new user in and sends them home.
// A duplicate email flashes and redirects to the login page instead. The
// email check and the insert are not serialized against other requests;
// two racing registrations can both pass the check (accepted behavior).
func (h *UserHandler) Register(ctx context.Context, c *app.RequestContext) {
	var form webmodel.RegisterForm
	if err := c.Bind(&form); err != nil {
		c.AbortWithStatus(consts.StatusBadRequest)
		return
	}

	if errs := form.Validate(); len(errs) > 0 {
		view.Render(c, consts.StatusOK, "register.tmpl", view.Page{
			Title:  "Register",
			User:   middleware.CurrentUser(c),
			Form:   &form,
			Errors: errs,
		})
		return
	}

	_, err := h.Users.FindByEmail(form.Email)
	switch {
	case err == nil:
		session.Flash(c, "That email is already registered. Try logging in.")
		c.Redirect(consts.StatusFound, []byte("/login"))
		return
	case !commonerr.IsNotFound(err):
		hlog.CtxErrorf(ctx, "register: email lookup failed: %v", err)
		c.AbortWithStatus(consts.StatusInternalServerError)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		hlog.CtxErrorf(ctx, "register: password hashing failed: %v", err)
		c.AbortWithStatus(consts.StatusInternalServerError)
		return
	}

	user, err := h.Users.Create(form.Name, form.Email, string(hashed))
	if err != nil {
		hlog.CtxErrorf(ctx, "register: user creation failed: %v", err)
		c.AbortWithStatus(consts.StatusInternalServerError)
		return
	}

	if err := h.Sessions.Issue(c, user); err != nil {
		hlog.CtxErrorf(ctx, "register: session issue failed: %v", err)
		c.AbortWithStatus(consts.StatusInternalServerError)
		return
	}

	c.Redirect(consts.StatusFound, []byte("/"))
}

func (h *UserHandler) ShowLogin(ctx context.Context, c *app.RequestContext) {
	view.Render(c, consts.StatusOK, "login.tmpl", view.Page{
		Title: "Log In",
		User:  middleware.CurrentUser(c),
		Flash: session.PopFlash(c),
		Form:  &webmodel.LoginForm{},
	})
}

// Login verifies the credentials. The two failure messages stay distinct
// ("Invalid email" / "Wrong password") and nothing beyond that leaks.
func (h *UserHandler) Login(ctx context.Context, c *app.RequestContext) {
	var form webmodel.LoginForm
	if err := c.Bind(&form); err != nil {
		c.AbortWithStatus(consts.StatusBadRequest)
		return
	}

	if errs := form.Validate(); len(errs) > 0 {
		view.Render(c, consts.StatusOK, "login.tmpl", view.Page{
			Title:  "Log In",
			User:   middleware.CurrentUser(c),
			Form:   &form,
			Errors: errs,
		})
		return
	}

	user, err := h.Users.FindByEmail(form.Email)
	switch {
	case commonerr.IsNotFound(err):
		view.Render(c, consts.StatusOK, "login.tmpl", view.Page{
			Title: "Log In",
			Flash: "Invalid email",
			Form:  &form,
		})
		return
	case err != nil:
		hlog.CtxErrorf(ctx, "login: email lookup failed: %v", err)
		c.AbortWithStatus(consts.StatusInternalServerError)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(form.Password)); err != nil {
		view.Render(c, consts.StatusOK, "login.tmpl", view.Page{
			Title: "Log In",
			Flash: "Wrong password",
			Form:  &form,
		})
		return
	}

	if err := h.Sessions.Issue(c, user); err != nil {
		hlog.CtxErrorf(ctx, "login: session issue failed: %v", err)
		c.AbortWithStatus(consts.StatusInternalServerError)
		return
	}

	c.Redirect(consts.StatusFound, []byte("/"))
}

func (h *UserHandler) Logout(ctx context.Context, c *app.RequestContext) {
	h.Sessions.Clear(c)
	c.Redirect(consts.StatusFound, []byte("/"))
}
