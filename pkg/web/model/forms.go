package model

import (
	"net/mail"
	"net/url"
	"strings"
)

// Form inputs, one struct per submission. Validate returns a field→message
// map; an empty map means the submission is acceptable. Failed validation
// re-renders the form with these messages; nothing is persisted.

type CreatePostForm struct {
	Title    string `form:"title"`
	Subtitle string `form:"subtitle"`
	ImgURL   string `form:"img_url"`
	Body     string `form:"body"`
}

func (f *CreatePostForm) Validate() map[string]string {
	errs := make(map[string]string)
	requireField(errs, "title", f.Title)
	requireField(errs, "subtitle", f.Subtitle)
	requireField(errs, "body", f.Body)
	if requireField(errs, "img_url", f.ImgURL) && !isValidURL(f.ImgURL) {
		errs["img_url"] = "Must be a valid URL"
	}
	return errs
}

type RegisterForm struct {
	Name     string `form:"name"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

func (f *RegisterForm) Validate() map[string]string {
	errs := make(map[string]string)
	requireField(errs, "name", f.Name)
	requireField(errs, "password", f.Password)
	if requireField(errs, "email", f.Email) && !isValidEmail(f.Email) {
		errs["email"] = "Must be a valid email address"
	}
	return errs
}

type LoginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

func (f *LoginForm) Validate() map[string]string {
	errs := make(map[string]string)
	requireField(errs, "password", f.Password)
	if requireField(errs, "email", f.Email) && !isValidEmail(f.Email) {
		errs["email"] = "Must be a valid email address"
	}
	return errs
}

type CommentForm struct {
	Body string `form:"body"`
}

func (f *CommentForm) Validate() map[string]string {
	errs := make(map[string]string)
	requireField(errs, "body", f.Body)
	return errs
}

func requireField(errs map[string]string, name, value string) bool {
	if strings.TrimSpace(value) == "" {
		errs[name] = "This field is required"
		return false
	}
	return true
}

func isValidEmail(addr string) bool {
	parsed, err := mail.ParseAddress(addr)
	return err == nil && parsed.Address == addr
}

func isValidURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
