package repository

import (
	"context"

	"github.com/d60-Lab/fresh-market/internal/model"
)

// StatusCount 按状态聚合行（客户侧统计）
type StatusCount struct {
	Status model.OrderStatus `json:"status"`
	Count  int64             `json:"count"`
	Total  float64           `json:"total"`
}

// ShopStatusCount 按 (状态, 支付状态) 聚合行（店铺侧统计，金额为条目级小计）
type ShopStatusCount struct {
	Status        model.OrderStatus   `json:"status"`
	PaymentStatus model.PaymentStatus `json:"paymentStatus"`
	Count         int64               `json:"count"`
	Revenue       float64             `json:"revenue"`
}

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// Create 落库订单及其条目
	Create(ctx context.Context, order *model.Order) error

	// GetByID 按 ID 查订单（含条目，按写入顺序）
	GetByID(ctx context.Context, orderID string) (*model.Order, error)

	// ListByCustomer 客户订单分页；status 为空表示不过滤
	ListByCustomer(ctx context.Context, customerID string, status model.OrderStatus, offset, limit int) ([]*model.Order, error)

	// CountByCustomer 客户订单计数
	CountByCustomer(ctx context.Context, customerID string, status model.OrderStatus) (int64, error)

	// ListByShop 含该店铺条目的订单分页（条目不在库内过滤，投影在服务层做）
	ListByShop(ctx context.Context, shopID string, status model.OrderStatus, offset, limit int) ([]*model.Order, error)

	// CountByShop 含该店铺条目的订单计数
	CountByShop(ctx context.Context, shopID string, status model.OrderStatus) (int64, error)

	// UpdateFields 单次原子更新订单字段（状态流转唯一的写路径）
	UpdateFields(ctx context.Context, orderID string, fields map[string]any) error

	// CustomerStatusCounts 客户侧按状态聚合（不分支付状态）
	CustomerStatusCounts(ctx context.Context, customerID string) ([]StatusCount, error)

	// CustomerPaidTotal 客户已支付订单总额
	CustomerPaidTotal(ctx context.Context, customerID string) (float64, error)

	// ShopStatusCounts 店铺侧按 (状态, 支付状态) 聚合条目小计
	ShopStatusCounts(ctx context.Context, shopID string) ([]ShopStatusCount, error)
}
