package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/fresh-market/internal/model"
)

// gormOrderRepository 基于 gorm 的订单仓储实现
type gormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &gormOrderRepository{db: db}
}

// shopOrderFilter 订单须含至少一个属于该店铺的条目
const shopOrderFilter = "EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = orders.id AND oi.shop_id = ?)"

func (r *gormOrderRepository) Create(ctx context.Context, order *model.Order) error {
	// 条目随订单一起写入（gorm association），条目顺序由自增主键保持
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *gormOrderRepository) GetByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) ListByCustomer(ctx context.Context, customerID string, status model.OrderStatus, offset, limit int) ([]*model.Order, error) {
	var orders []*model.Order
	q := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		Where("customer_id = ?", customerID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error
	return orders, err
}

func (r *gormOrderRepository) CountByCustomer(ctx context.Context, customerID string, status model.OrderStatus) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Order{}).Where("customer_id = ?", customerID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *gormOrderRepository) ListByShop(ctx context.Context, shopID string, status model.OrderStatus, offset, limit int) ([]*model.Order, error) {
	var orders []*model.Order
	q := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id ASC") }).
		Where(shopOrderFilter, shopID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error
	return orders, err
}

func (r *gormOrderRepository) CountByShop(ctx context.Context, shopID string, status model.OrderStatus) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Order{}).Where(shopOrderFilter, shopID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Count(&count).Error
	return count, err
}

func (r *gormOrderRepository) UpdateFields(ctx context.Context, orderID string, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(fields).Error
}

func (r *gormOrderRepository) CustomerStatusCounts(ctx context.Context, customerID string) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("status, COUNT(*) AS count, SUM(total_amount) AS total").
		Where("customer_id = ?", customerID).
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *gormOrderRepository) CustomerPaidTotal(ctx context.Context, customerID string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("customer_id = ? AND payment_status = ?", customerID, model.PaymentPaid).
		Scan(&total).Error
	return total, err
}

func (r *gormOrderRepository) ShopStatusCounts(ctx context.Context, shopID string) ([]ShopStatusCount, error) {
	var rows []ShopStatusCount
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("orders.status AS status, orders.payment_status AS payment_status, COUNT(*) AS count, SUM(order_items.item_total) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.shop_id = ?", shopID).
		Group("orders.status, orders.payment_status").
		Scan(&rows).Error
	return rows, err
}
