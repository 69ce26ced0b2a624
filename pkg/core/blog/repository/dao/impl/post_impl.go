package dao

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	commonerr "github.com/xcsh-hit/goblog/pkg/common/errors"
	"github.com/xcsh-hit/goblog/pkg/core/blog/model"
	"github.com/xcsh-hit/goblog/pkg/core/blog/repository/dao"
)

type GormPostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) dao.PostRepository {
	return &GormPostRepository{db: db}
}

// ListAll returns every post in insertion order with its author resolved.
func (r *GormPostRepository) ListAll() ([]model.Post, error) {
	var posts []model.Post
	err := r.db.Preload("Author").Order("id").Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("%w: post listing failed", commonerr.WrapGormError(err))
	}
	return posts, nil
}

func (r *GormPostRepository) FindByID(id int64) (model.Post, error) {
	var post model.Post
	err := r.db.Preload("Author").Where("id = ?", id).First(&post).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.Post{}, commonerr.ErrPostNotFound
	case err != nil:
		return model.Post{}, fmt.Errorf("%w: post lookup failed", commonerr.WrapGormError(err))
	default:
		return post, nil
	}
}

func (r *GormPostRepository) Create(title, subtitle, body, imgURL string, authorID int64, date string) (model.Post, error) {
	post := model.Post{
		Title:    title,
		Subtitle: subtitle,
		Body:     body,
		ImgURL:   imgURL,
		AuthorID: authorID,
		Date:     date,
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return fmt.Errorf("%w: post creation failed", commonerr.WrapGormError(err))
		}
		return nil
	})
	if err != nil {
		return model.Post{}, err
	}
	return post, nil
}

func (r *GormPostRepository) Update(id int64, title, subtitle, body, imgURL string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Post{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"title":    title,
				"subtitle": subtitle,
				"body":     body,
				"img_url":  imgURL,
			})
		if result.Error != nil {
			return fmt.Errorf("%w: post update failed", commonerr.WrapGormError(result.Error))
		}
		// zero rows affected means the id does not exist; not an error
		return nil
	})
}

func (r *GormPostRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return fmt.Errorf("%w: comment cleanup failed", commonerr.WrapGormError(err))
		}
		result := tx.Where("id = ?", id).Delete(&model.Post{})
		if result.Error != nil {
			return fmt.Errorf("%w: post deletion failed", commonerr.WrapGormError(result.Error))
		}
		return nil
	})
}
