package repository

import (
	"errors"

	"clinicdesk/cmd/internal/domain/entity"
	"gorm.io/gorm"
)

type DefaultUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *DefaultUserRepository {
	return &DefaultUserRepository{db: db}
}

func (u *DefaultUserRepository) FindByID(id int) (*entity.User, error) {
	var user entity.User
	err := u.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (u *DefaultUserRepository) FindBySub(sub string) (*entity.User, error) {
	return u.findOne("sub_uuid = ?", sub)
}

func (u *DefaultUserRepository) FindByEmail(email string) (*entity.User, error) {
	return u.findOne("email = ?", email)
}

func (u *DefaultUserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := u.db.Model(&entity.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (u *DefaultUserRepository) FindAll() ([]*entity.User, error) {
	var users []*entity.User
	err := u.db.Order("id asc").Find(&users).Error
	return users, err
}

// Count is used to make the very first registered user an admin.
func (u *DefaultUserRepository) Count() (int64, error) {
	var count int64
	err := u.db.Model(&entity.User{}).Count(&count).Error
	return count, err
}

func (u *DefaultUserRepository) Save(user *entity.User) error {
	return u.db.Save(user).Error
}

func (u *DefaultUserRepository) findOne(query string, arg any) (*entity.User, error) {
	var user entity.User
	err := u.db.Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}
