package handler

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	commonerr "github.com/xcsh-hit/goblog/pkg/common/errors"
	"github.com/xcsh-hit/goblog/pkg/core/blog/model"
	"github.com/xcsh-hit/goblog/pkg/core/blog/repository/dao"
	"github.com/xcsh-hit/goblog/pkg/web/middleware"
	webmodel "github.com/xcsh-hit/goblog/pkg/web/model"
	"github.com/xcsh-hit/goblog/pkg/web/session"
	"github.com/xcsh-hit/goblog/pkg/web/view"
)

type PostHandler struct {
	Posts    dao.PostRepository
	Comments dao.CommentRepository
}

func NewPostHandler(posts dao.PostRepository, comments dao.CommentRepository) *PostHandler {
	return &PostHandler{Posts: posts, Comments: comments}
}

// Index lists every post, newest last.
func (h *PostHandler) Index(ctx context.Context, c *app.RequestContext) {
	posts, err := h.Posts.ListAll()
	if err != nil {
		hlog.CtxErrorf(ctx, "index: post listing failed: %v", err)
		c.AbortWithStatus(consts.StatusInternalServerError)
		return
	}

	view.Render(c, consts.StatusOK, "index.tmpl", view.Page{
		Title: "The Blog",
		User:  middleware.CurrentUser(c),
		Flash: session.PopFlash(c),
		Posts: posts,
	})
}

func (h *PostHandler) Show(ctx context.Context, c *app.RequestContext) {
	post, ok := h.loadPost(ctx, c)
	if !ok {
		return
	}
	h.renderPost(ctx, c, post, nil)
}

// AddComment attributes the comment to the logged-in user and reloads the
// post page via redirect so a refresh does not resubmit.
func (h *PostHandler) AddComment(ctx context.Context, c *app.RequestContext) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	post, ok := h.loadPost(ctx, c)
	if !ok {
		return
	}

	var form webmodel.CommentForm
	if err := c.Bind(&form); err != nil {
		c.AbortWithStatus(consts.StatusBadRequest)
		return
	}

	if errs := form.Validate(); len(errs) > 0 {
		h.renderPost(ctx, c, post, errs)
		return
	}

	if _, err := h.Comments.Create(form.Body, user.ID, post.ID); err != nil {
		hlog.CtxErrorf(ctx, "comment: creation failed: %v", err)
		c.AbortWithStatus(consts.StatusInternalServerError)
		return
	}

	c.Redirect(consts.StatusFound, []byte(fmt.Sprintf("/post/%d", post.ID)))
}

func (h *PostHandler) ShowNew(ctx context.Context, c *app.RequestContext) {
	view.Render(c, consts.StatusOK, "make-post.tmpl", view.Page{
		Title: "New Post",
		User:  middleware.CurrentUser(c),
		Form:  &webmodel.CreatePostForm{},
	})
}

// CreateNew stamps the current identity as author and today's date in
// display format. Both stay fixed for the life of the post.
func (h *PostHandler) CreateNew(ctx context.Context, c *app.RequestContext) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	var form webmodel.CreatePostForm
	if err := c.Bind(&form); err != nil {
		c.AbortWithStatus(consts.StatusBadRequest)
		return
	}

	if errs := form.Validate(); len(errs) > 0 {
		view.Render(c, consts.StatusOK, "make-post.tmpl", view.Page{
			Title:  "New Post",
			User:   user,
			Form:   &form,
			Errors: errs,
		})
		return
	}

	date := time.Now().Format(model.DateFormat)
	if _, err := h.Posts.Create(form.Title, form.Subtitle, form.Body, form.ImgURL, user.ID, date); err != nil {
		hlog.CtxErrorf(ctx, "new post: creation failed: %v", err)
		c.AbortWithStatus(consts.StatusInternalServerError)
		return
	}

	c.Redirect(consts.StatusFound, []byte("/"))
}

func (h *PostHandler) ShowEdit(ctx context.Context, c *app.RequestContext) {
	post, ok := h.loadPost(ctx, c)
	if !ok {
		return
	}

	form := webmodel.CreatePostForm{
		Title:    post.Title,
		Subtitle: post.Subtitle,
		ImgURL:   post.ImgURL,
		Body:     post.Body,
	}
	view.Render(c, consts.StatusOK, "make-post.tmpl", view.Page{
		Title:   "Edit Post",
		User:    middleware.CurrentUser(c),
		Form:    &form,
		Editing: true,
	})
}

// SubmitEdit rewrites title/subtitle/image/body; author and date are never
// part of the update.
func (h *PostHandler) SubmitEdit(ctx context.Context, c *app.RequestContext) {
	post, ok := h.loadPost(ctx, c)
	if !ok {
		return
	}

	var form webmodel.CreatePostForm
	if err := c.Bind(&form); err != nil {
		c.AbortWithStatus(consts.StatusBadRequest)
		return
	}

	if errs := form.Validate(); len(errs) > 0 {
		view.Render(c, consts.StatusOK, "make-post.tmpl", view.Page{
			Title:   "Edit Post",
			User:    middleware.CurrentUser(c),
			Form:    &form,
			Errors:  errs,
			Editing: true,
		})
		return
	}

	if err := h.Posts.Update(post.ID, form.Title, form.Subtitle, form.Body, form.ImgURL); err != nil {
		hlog.CtxErrorf(ctx, "edit post: update failed: %v", err)
		c.AbortWithStatus(consts.StatusInternalServerError)
		return
	}

	c.Redirect(consts.StatusFound, []byte(fmt.Sprintf("/post/%d", post.ID)))
}

// Delete removes a post; only the author may do it. Unknown ids fall
// through to the same redirect, keeping deletion idempotent.
func (h *PostHandler) Delete(ctx context.Context, c *app.RequestContext) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}

	id, err := postID(c)
	if err != nil {
		c.Redirect(consts.StatusFound, []byte("/"))
		return
	}

	post, err := h.Posts.FindByID(id)
	switch {
	case commonerr.IsNotFound(err):
		c.Redirect(consts.StatusFound, []byte("/"))
		return
	case err != nil:
		hlog.CtxErrorf(ctx, "delete: post lookup failed: %v", err)
		c.AbortWithStatus(consts.StatusInternalServerError)
		return
	}

	if post.AuthorID != user.ID {
		session.Flash(c, "Only the author can delete this post.")
		c.Redirect(consts.StatusFound, []byte("/"))
		return
	}

	if err := h.Posts.Delete(id); err != nil {
		hlog.CtxErrorf(ctx, "delete: post deletion failed: %v", err)
		c.AbortWithStatus(consts.StatusInternalServerError)
		return
	}

	c.Redirect(consts.StatusFound, []byte("/"))
}

func (h *PostHandler) loadPost(ctx context.Context, c *app.RequestContext) (model.Post, bool) {
	id, err := postID(c)
	if err != nil {
		h.renderNotFound(c)
		return model.Post{}, false
	}

	post, err := h.Posts.FindByID(id)
	switch {
	case commonerr.IsNotFound(err):
		h.renderNotFound(c)
		return model.Post{}, false
	case err != nil:
		hlog.CtxErrorf(ctx, "post lookup failed: %v", err)
		c.AbortWithStatus(consts.StatusInternalServerError)
		return model.Post{}, false
	}
	return post, true
}

func (h *PostHandler) renderPost(ctx context.Context, c *app.RequestContext, post model.Post, errs map[string]string) {
	comments, err := h.Comments.ListForPost(post.ID)
	if err != nil {
		hlog.CtxErrorf(ctx, "post %d: comment listing failed: %v", post.ID, err)
		c.AbortWithStatus(consts.StatusInternalServerError)
		return
	}

	view.Render(c, consts.StatusOK, "post.tmpl", view.Page{
		Title:    post.Title,
		User:     middleware.CurrentUser(c),
		Flash:    session.PopFlash(c),
		Post:     &post,
		Comments: comments,
		Errors:   errs,
	})
}

func (h *PostHandler) renderNotFound(c *app.RequestContext) {
	view.Render(c, consts.StatusNotFound, "not_found.tmpl", view.Page{
		Title: "Not Found",
		User:  middleware.CurrentUser(c),
	})
}

func postID(c *app.RequestContext) (int64, error) {
	return strconv.ParseInt(c.Param("postId"), 10, 64)
}
