package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreatePostFormValidate(t *testing.T) {
	form := CreatePostForm{
		Title:    "T1",
		Subtitle: "S1",
		ImgURL:   "http://img.example.com/cover.png",
		Body:     "body",
	}
	assert.Empty(t, form.Validate())

	empty := CreatePostForm{}
	errs := empty.Validate()
	assert.Len(t, errs, 4)
	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "subtitle")
	assert.Contains(t, errs, "img_url")
	assert.Contains(t, errs, "body")

	badURL := form
	badURL.ImgURL = "not a url"
	assert.Equal(t, "Must be a valid URL", badURL.Validate()["img_url"])

	relative := form
	relative.ImgURL = "/just/a/path"
	assert.Contains(t, relative.Validate(), "img_url")
}

func TestRegisterFormValidate(t *testing.T) {
	form := RegisterForm{Name: "Alice", Email: "alice@x.com", Password: "pw123"}
	assert.Empty(t, form.Validate())

	badEmail := form
	badEmail.Email = "not-an-email"
	assert.Equal(t, "Must be a valid email address", badEmail.Validate()["email"])

	blank := RegisterForm{}
	errs := blank.Validate()
	assert.Len(t, errs, 3)
}

func TestLoginFormValidate(t *testing.T) {
	form := LoginForm{Email: "alice@x.com", Password: "pw123"}
	assert.Empty(t, form.Validate())

	missing := LoginForm{Email: "alice@x.com"}
	assert.Contains(t, missing.Validate(), "password")

	bad := LoginForm{Email: "alice at x", Password: "pw"}
	assert.Contains(t, bad.Validate(), "email")
}

func TestCommentFormValidate(t *testing.T) {
	assert.Empty(t, (&CommentForm{Body: "nice post"}).Validate())
	assert.Contains(t, (&CommentForm{Body: "   "}).Validate(), "body")
}
