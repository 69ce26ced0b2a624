package dao

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	commonerr "github.com/xcsh-hit/goblog/pkg/common/errors"
	"github.com/xcsh-hit/goblog/pkg/core/blog/model"
	"github.com/xcsh-hit/goblog/pkg/core/blog/repository/dao"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) dao.UserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByEmail(email string) (model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.User{}, commonerr.ErrUserNotFound
	case err != nil:
		return model.User{}, fmt.Errorf("%w: user lookup by email failed", commonerr.WrapGormError(err))
	default:
		return user, nil
	}
}

func (r *GormUserRepository) FindByID(id int64) (model.User, error) {
	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.User{}, commonerr.ErrUserNotFound
	case err != nil:
		return model.User{}, fmt.Errorf("%w: user lookup failed", commonerr.WrapGormError(err))
	default:
		return user, nil
	}
}

// Create inserts a new user row. The duplicate-email check is the register
// handler's job; nothing here stops two concurrent registrations with the
// same address (accepted race, there is no unique index on email).
func (r *GormUserRepository) Create(name, email, passwordHash string) (model.User, error) {
	user := model.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("%w: user creation failed", commonerr.WrapGormError(err))
		}
		return nil
	})
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}
