package dao

import (
	"fmt"

	"gorm.io/gorm"

	commonerr "github.com/xcsh-hit/goblog/pkg/common/errors"
	"github.com/xcsh-hit/goblog/pkg/core/blog/model"
	"github.com/xcsh-hit/goblog/pkg/core/blog/repository/dao"
)

type GormCommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) dao.CommentRepository {
	return &GormCommentRepository{db: db}
}

func (r *GormCommentRepository) ListForPost(postID int64) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.Preload("Commenter").
		Where("post_id = ?", postID).
		Order("id").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("%w: comment listing failed", commonerr.WrapGormError(err))
	}
	return comments, nil
}

func (r *GormCommentRepository) Create(body string, commenterID, postID int64) (model.Comment, error) {
	comment := model.Comment{
		Body:        body,
		CommenterID: commenterID,
		PostID:      postID,
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return fmt.Errorf("%w: comment creation failed", commonerr.WrapGormError(err))
		}
		return nil
	})
	if err != nil {
		return model.Comment{}, err
	}
	return comment, nil
}
