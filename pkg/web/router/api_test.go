package router_test

import (
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/xcsh-hit/goblog/pkg/common/config"
	"github.com/xcsh-hit/goblog/pkg/core/blog/model"
	"github.com/xcsh-hit/goblog/pkg/web/router"
)

func newTestServer(t *testing.T) (*server.Hertz, *gorm.DB) {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Address: ":0"},
		Database: config.DatabaseConfig{
			Driver:      "sqlite",
			Path:        filepath.Join(t.TempDir(), "blog.db"),
			MinPoolSize: 1,
			MaxPoolSize: 4,
			LogLevel:    "silent",
		},
		Session: config.SessionConfig{
			Secret:         "test-secret",
			ExpireDuration: time.Hour,
			Issuer:         "goblog",
			CookieName:     "blog_session",
		},
		CORS: config.CORSConfig{
			AllowOrigins: []string{"http://localhost:8080"},
			AllowMethods: []string{"GET", "POST"},
		},
		Env: "development",
	}

	db, err := cfg.InitDB()
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))

	h := server.New()
	router.RegisterRoutes(h, cfg, db)
	return h, db
}

func get(h *server.Hertz, path string, cookies ...string) *protocol.Response {
	headers := make([]ut.Header, 0, 1)
	if len(cookies) > 0 {
		headers = append(headers, ut.Header{Key: "Cookie", Value: strings.Join(cookies, "; ")})
	}
	w := ut.PerformRequest(h.Engine, "GET", path, nil, headers...)
	return w.Result()
}

func postForm(h *server.Hertz, path string, form url.Values, cookies ...string) *protocol.Response {
	encoded := form.Encode()
	headers := []ut.Header{
		{Key: "Content-Type", Value: "application/x-www-form-urlencoded"},
	}
	if len(cookies) > 0 {
		headers = append(headers, ut.Header{Key: "Cookie", Value: strings.Join(cookies, "; ")})
	}
	w := ut.PerformRequest(h.Engine, "POST", path,
		&ut.Body{Body: strings.NewReader(encoded), Len: len(encoded)}, headers...)
	return w.Result()
}

func responseCookie(t *testing.T, resp *protocol.Response, name string) string {
	t.Helper()
	cookie := protocol.AcquireCookie()
	defer protocol.ReleaseCookie(cookie)
	cookie.SetKey(name)
	if !resp.Header.Cookie(cookie) {
		return ""
	}
	return string(cookie.Value())
}

// register creates an account through the HTTP surface and returns the
// session cookie ready to be sent back.
func register(t *testing.T, h *server.Hertz, name, email, password string) string {
	t.Helper()
	resp := postForm(h, "/register", url.Values{
		"name":     {name},
		"email":    {email},
		"password": {password},
	})
	require.Equal(t, 302, resp.StatusCode())
	require.Equal(t, "/", resp.Header.Get("Location"))
	token := responseCookie(t, resp, "blog_session")
	require.NotEmpty(t, token)
	return "blog_session=" + token
}

func TestHealthRoute(t *testing.T) {
	h, _ := newTestServer(t)

	resp := get(h, "/health")
	require.Equal(t, 200, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), "healthy")
}

func TestIndexEmpty(t *testing.T) {
	h, _ := newTestServer(t)

	resp := get(h, "/")
	require.Equal(t, 200, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), "No posts yet.")
}

func TestStaticPages(t *testing.T) {
	h, _ := newTestServer(t)

	for _, path := range []string{"/about", "/contact"} {
		resp := get(h, path)
		assert.Equal(t, 200, resp.StatusCode(), path)
	}
}

func TestRegisterCreatesUserAndSession(t *testing.T) {
	h, db := newTestServer(t)

	register(t, h, "Alice", "alice@x.com", "pw123")

	var users []model.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "Alice", users[0].Name)
	assert.Equal(t, "alice@x.com", users[0].Email)
	assert.NotEqual(t, "pw123", users[0].PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users[0].PasswordHash), []byte("pw123")))
}

func TestRegisterDuplicateEmailRedirectsToLogin(t *testing.T) {
	h, db := newTestServer(t)

	register(t, h, "Alice", "alice@x.com", "pw123")

	resp := postForm(h, "/register", url.Values{
		"name":     {"Impostor"},
		"email":    {"alice@x.com"},
		"password": {"other"},
	})
	require.Equal(t, 302, resp.StatusCode())
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	assert.NotEmpty(t, responseCookie(t, resp, "blog_flash"))

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegisterValidationReRendersForm(t *testing.T) {
	h, db := newTestServer(t)

	resp := postForm(h, "/register", url.Values{
		"name":     {"Alice"},
		"email":    {"not-an-email"},
		"password": {"pw123"},
	})
	require.Equal(t, 200, resp.StatusCode())
	body := string(resp.Body())
	assert.Contains(t, body, "Must be a valid email address")
	assert.Contains(t, body, `value="Alice"`)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestLoginFlows(t *testing.T) {
	h, _ := newTestServer(t)
	register(t, h, "Alice", "alice@x.com", "pw123")

	t.Run("unknown email", func(t *testing.T) {
		resp := postForm(h, "/login", url.Values{
			"email":    {"nobody@x.com"},
			"password": {"pw123"},
		})
		require.Equal(t, 200, resp.StatusCode())
		assert.Contains(t, string(resp.Body()), "Invalid email")
		assert.Empty(t, responseCookie(t, resp, "blog_session"))
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := postForm(h, "/login", url.Values{
			"email":    {"alice@x.com"},
			"password": {"wrong"},
		})
		require.Equal(t, 200, resp.StatusCode())
		assert.Contains(t, string(resp.Body()), "Wrong password")
		assert.Empty(t, responseCookie(t, resp, "blog_session"))
	})

	t.Run("success", func(t *testing.T) {
		resp := postForm(h, "/login", url.Values{
			"email":    {"alice@x.com"},
			"password": {"pw123"},
		})
		require.Equal(t, 302, resp.StatusCode())
		assert.Equal(t, "/", resp.Header.Get("Location"))
		assert.NotEmpty(t, responseCookie(t, resp, "blog_session"))
	})
}

func TestLogoutClearsSession(t *testing.T) {
	h, _ := newTestServer(t)
	cookie := register(t, h, "Alice", "alice@x.com", "pw123")

	resp := get(h, "/logout", cookie)
	require.Equal(t, 302, resp.StatusCode())
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Empty(t, responseCookie(t, resp, "blog_session"))
}

func TestGuardedRoutesRedirectAnonymous(t *testing.T) {
	h, _ := newTestServer(t)

	paths := []string{"/post/1", "/new-post", "/edit-post/1", "/delete/1"}
	for _, path := range paths {
		resp := get(h, path)
		assert.Equal(t, 302, resp.StatusCode(), path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}

	resp := postForm(h, "/new-post", url.Values{"title": {"T"}})
	assert.Equal(t, 302, resp.StatusCode())
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestCreatePostStampsAuthorAndDate(t *testing.T) {
	h, db := newTestServer(t)
	cookie := register(t, h, "Alice", "alice@x.com", "pw123")

	resp := postForm(h, "/new-post", url.Values{
		"title":    {"T1"},
		"subtitle": {"S1"},
		"img_url":  {"http://img.example.com/1.png"},
		"body":     {"hello world"},
	}, cookie)
	require.Equal(t, 302, resp.StatusCode())
	assert.Equal(t, "/", resp.Header.Get("Location"))

	var posts []model.Post
	require.NoError(t, db.Preload("Author").Find(&posts).Error)
	require.Len(t, posts, 1)
	assert.Equal(t, "T1", posts[0].Title)
	assert.Equal(t, "Alice", posts[0].Author.Name)
	assert.Equal(t, time.Now().Format(model.DateFormat), posts[0].Date)

	index := get(h, "/")
	assert.Contains(t, string(index.Body()), "T1")
}

func TestNewPostValidationReRenders(t *testing.T) {
	h, db := newTestServer(t)
	cookie := register(t, h, "Alice", "alice@x.com", "pw123")

	resp := postForm(h, "/new-post", url.Values{
		"title":    {""},
		"subtitle": {"S1"},
		"img_url":  {"not a url"},
		"body":     {"hello"},
	}, cookie)
	require.Equal(t, 200, resp.StatusCode())
	body := string(resp.Body())
	assert.Contains(t, body, "This field is required")
	assert.Contains(t, body, "Must be a valid URL")

	var count int64
	require.NoError(t, db.Model(&model.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestViewPostWithComments(t *testing.T) {
	h, _ := newTestServer(t)
	cookie := register(t, h, "Alice", "alice@x.com", "pw123")

	postForm(h, "/new-post", url.Values{
		"title":    {"T1"},
		"subtitle": {"S1"},
		"img_url":  {"http://img.example.com/1.png"},
		"body":     {"hello world"},
	}, cookie)

	resp := get(h, "/post/1", cookie)
	require.Equal(t, 200, resp.StatusCode())
	body := string(resp.Body())
	assert.Contains(t, body, "T1")
	assert.Contains(t, body, "No comments yet.")

	commentResp := postForm(h, "/post/1", url.Values{"body": {"nice post"}}, cookie)
	require.Equal(t, 302, commentResp.StatusCode())
	assert.Equal(t, "/post/1", commentResp.Header.Get("Location"))

	again := get(h, "/post/1", cookie)
	body = string(again.Body())
	assert.Contains(t, body, "nice post")
	assert.Contains(t, body, "Alice")
}

func TestViewMissingPostIs404(t *testing.T) {
	h, _ := newTestServer(t)
	cookie := register(t, h, "Alice", "alice@x.com", "pw123")

	resp := get(h, "/post/999", cookie)
	assert.Equal(t, 404, resp.StatusCode())

	resp = get(h, "/edit-post/999", cookie)
	assert.Equal(t, 404, resp.StatusCode())
}

func TestEditPostKeepsAuthorAndDate(t *testing.T) {
	h, db := newTestServer(t)
	cookie := register(t, h, "Alice", "alice@x.com", "pw123")

	postForm(h, "/new-post", url.Values{
		"title":    {"Old"},
		"subtitle": {"Old sub"},
		"img_url":  {"http://img.example.com/old.png"},
		"body":     {"old body"},
	}, cookie)

	var original model.Post
	require.NoError(t, db.First(&original).Error)

	editPage := get(h, "/edit-post/1", cookie)
	require.Equal(t, 200, editPage.StatusCode())
	assert.Contains(t, string(editPage.Body()), `value="Old"`)

	resp := postForm(h, "/edit-post/1", url.Values{
		"title":    {"New"},
		"subtitle": {"New sub"},
		"img_url":  {"http://img.example.com/new.png"},
		"body":     {"new body"},
	}, cookie)
	require.Equal(t, 302, resp.StatusCode())
	assert.Equal(t, "/post/1", resp.Header.Get("Location"))

	var updated model.Post
	require.NoError(t, db.First(&updated).Error)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, original.AuthorID, updated.AuthorID)
	assert.Equal(t, original.Date, updated.Date)
}

func TestDeletePostAuthorOnly(t *testing.T) {
	h, db := newTestServer(t)
	alice := register(t, h, "Alice", "alice@x.com", "pw123")
	bob := register(t, h, "Bob", "bob@x.com", "pw456")

	postForm(h, "/new-post", url.Values{
		"title":    {"T1"},
		"subtitle": {"S1"},
		"img_url":  {"http://img.example.com/1.png"},
		"body":     {"hello"},
	}, alice)

	resp := get(h, "/delete/1", bob)
	require.Equal(t, 302, resp.StatusCode())
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.NotEmpty(t, responseCookie(t, resp, "blog_flash"))

	var count int64
	require.NoError(t, db.Model(&model.Post{}).Count(&count).Error)
	require.Equal(t, int64(1), count)

	resp = get(h, "/delete/1", alice)
	require.Equal(t, 302, resp.StatusCode())
	assert.Equal(t, "/", resp.Header.Get("Location"))

	require.NoError(t, db.Model(&model.Post{}).Count(&count).Error)
	assert.Zero(t, count)

	// deleting again stays a silent redirect
	resp = get(h, "/delete/1", alice)
	assert.Equal(t, 302, resp.StatusCode())
}

func TestIndexIsIdempotent(t *testing.T) {
	h, _ := newTestServer(t)
	cookie := register(t, h, "Alice", "alice@x.com", "pw123")

	postForm(h, "/new-post", url.Values{
		"title":    {"T1"},
		"subtitle": {"S1"},
		"img_url":  {"http://img.example.com/1.png"},
		"body":     {"hello"},
	}, cookie)

	first := string(get(h, "/").Body())
	second := string(get(h, "/").Body())
	assert.Equal(t, first, second)
}

func TestEndToEndAliceScenario(t *testing.T) {
	h, db := newTestServer(t)

	cookie := register(t, h, "Alice", "alice@x.com", "pw123")

	var userCount int64
	require.NoError(t, db.Model(&model.User{}).Count(&userCount).Error)
	require.Equal(t, int64(1), userCount)

	resp := postForm(h, "/new-post", url.Values{
		"title":    {"T1"},
		"subtitle": {"S1"},
		"img_url":  {"http://img"},
		"body":     {"body"},
	}, cookie)
	require.Equal(t, 302, resp.StatusCode())

	var post model.Post
	require.NoError(t, db.Preload("Author").First(&post).Error)
	require.Equal(t, "Alice", post.Author.Name)

	resp = postForm(h, "/post/1", url.Values{"body": {"nice post"}}, cookie)
	require.Equal(t, 302, resp.StatusCode())

	var comment model.Comment
	require.NoError(t, db.First(&comment).Error)
	assert.Equal(t, post.ID, comment.PostID)
	assert.Equal(t, post.AuthorID, comment.CommenterID)

	resp = get(h, "/delete/1", cookie)
	require.Equal(t, 302, resp.StatusCode())

	var postCount int64
	require.NoError(t, db.Model(&model.Post{}).Count(&postCount).Error)
	assert.Zero(t, postCount)

	index := get(h, "/")
	assert.Contains(t, string(index.Body()), "No posts yet.")
}
