package dao

import (
	"github.com/xcsh-hit/goblog/pkg/core/blog/model"
)

type UserRepository interface {
	FindByEmail(email string) (model.User, error)
	FindByID(id int64) (model.User, error)
	Create(name, email, passwordHash string) (model.User, error)
}

type PostRepository interface {
	ListAll() ([]model.Post, error)
	FindByID(id int64) (model.Post, error)
	Create(title, subtitle, body, imgURL string, authorID int64, date string) (model.Post, error)
	// Update touches title/subtitle/img/body only; author and date stay as
	// created. A missing id is not an error.
	Update(id int64, title, subtitle, body, imgURL string) error
	// Delete is a no-op when the id does not exist.
	Delete(id int64) error
}

type CommentRepository interface {
	ListForPost(postID int64) ([]model.Comment, error)
	Create(body string, commenterID, postID int64) (model.Comment, error)
}
