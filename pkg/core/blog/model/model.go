package model

import (
	"time"

	"gorm.io/gorm"
)

// DateFormat is the display format stamped onto posts at creation time,
// e.g. "June 05, 2024". Posts keep this string untouched afterwards.
const DateFormat = "January 02, 2006"

type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Email        string    `gorm:"type:varchar(100);not null;index"`
	PasswordHash string    `gorm:"type:varchar(256);not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`

	Posts    []Post    `gorm:"foreignKey:AuthorID"`
	Comments []Comment `gorm:"foreignKey:CommenterID"`
}

func (User) TableName() string {
	return "users"
}

type Post struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Title    string `gorm:"type:varchar(250);not null"`
	Subtitle string `gorm:"type:varchar(250);not null"`
	// Date holds the human-readable creation date; immutable after insert.
	Date     string `gorm:"type:varchar(250);not null"`
	Body     string `gorm:"type:text;not null"`
	ImgURL   string `gorm:"type:varchar(250);not null"`
	AuthorID int64  `gorm:"index;not null"`

	Author   User      `gorm:"foreignKey:AuthorID"`
	Comments []Comment `gorm:"foreignKey:PostID"`
}

func (Post) TableName() string {
	return "blog_posts"
}

type Comment struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Body        string `gorm:"type:varchar(500);not null"`
	CommenterID int64  `gorm:"index;not null"`
	PostID      int64  `gorm:"index;not null"`

	Commenter User `gorm:"foreignKey:CommenterID"`
	Post      Post `gorm:"foreignKey:PostID"`
}

func (Comment) TableName() string {
	return "comments"
}

// AutoMigrate creates or updates the three blog tables.
// Email deliberately carries no unique constraint: the duplicate check
// happens in the register handler before the insert.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Post{}, &Comment{})
}
