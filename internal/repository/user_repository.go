package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/fresh-market/internal/model"
)

// UserRepository 用户读模型（订单响应 join 客户展示字段）
type UserRepository interface {
	GetCustomerInfo(ctx context.Context, userID string) (*model.CustomerInfo, error)
}

type gormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) GetCustomerInfo(ctx context.Context, userID string) (*model.CustomerInfo, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		return nil, err
	}
	return &model.CustomerInfo{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}, nil
}
