package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/fresh-market/internal/model"
)

// ProductRepository 商品读模型（下单校验 + 展示 join 用）
type ProductRepository interface {
	// GetByID 按 ID 查商品（含规格）
	GetByID(ctx context.Context, productID string) (*model.Product, error)

	// GetByIDs 批量查商品，返回 id -> product
	GetByIDs(ctx context.Context, productIDs []string) (map[string]*model.Product, error)
}

type gormProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &gormProductRepository{db: db}
}

func (r *gormProductRepository) GetByID(ctx context.Context, productID string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("id = ?", productID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *gormProductRepository) GetByIDs(ctx context.Context, productIDs []string) (map[string]*model.Product, error) {
	out := make(map[string]*model.Product, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	var products []*model.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", productIDs).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}
