package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/fresh-market/internal/model"
	"github.com/d60-Lab/fresh-market/internal/repository"
	"github.com/d60-Lab/fresh-market/pkg/apperr"
)

// Decision 店铺接单决定
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
)

// ShopBucket 店铺侧按状态统计桶；Revenue 只累计已支付部分，Count 全量
type ShopBucket struct {
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

// ShopStats 店铺侧统计；TotalRevenue 只计已支付条目小计
type ShopStats struct {
	TotalOrders     int64                            `json:"totalOrders"`
	TotalRevenue    float64                          `json:"totalRevenue"`
	StatusBreakdown map[model.OrderStatus]ShopBucket `json:"statusBreakdown"`
}

// ShopOrderService 店铺侧订单服务：店铺视图、接单/拒单、履约推进、统计
// 所有响应都按店铺投影：只含本店条目，totalAmount 替换为本店小计
type ShopOrderService interface {
	ListForShop(ctx context.Context, shopID string, status model.OrderStatus, page, limit int) ([]*OrderView, *Pagination, error)
	Decide(ctx context.Context, shopID, orderID string, decision Decision, reason string) (*OrderView, error)
	UpdateStatus(ctx context.Context, shopID, orderID string, status model.OrderStatus, notes string) (*OrderView, error)
	ShopStats(ctx context.Context, shopID string) (*ShopStats, error)
}

type shopOrderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	users    repository.UserRepository
}

func NewShopOrderService(orders repository.OrderRepository, products repository.ProductRepository, users repository.UserRepository) ShopOrderService {
	return &shopOrderService{orders: orders, products: products, users: users}
}

// ListForShop 含本店条目的订单分页，读时投影，不动存储
func (s *shopOrderService) ListForShop(ctx context.Context, shopID string, status model.OrderStatus, page, limit int) ([]*OrderView, *Pagination, error) {
	if status != "" && !model.ValidStatus(status) {
		return nil, nil, apperr.Validation("invalid order status: %s", status)
	}
	page, limit = normalizePage(page, limit)

	orders, err := s.orders.ListByShop(ctx, shopID, status, (page-1)*limit, limit)
	if err != nil {
		return nil, nil, apperr.Internal("error fetching orders", err)
	}
	total, err := s.orders.CountByShop(ctx, shopID, status)
	if err != nil {
		return nil, nil, apperr.Internal("error counting orders", err)
	}

	views := make([]*OrderView, 0, len(orders))
	for _, order := range orders {
		view, err := s.projectForShop(ctx, order, shopID)
		if err != nil {
			return nil, nil, err
		}
		views = append(views, view)
	}
	return views, newPagination(page, limit, total), nil
}

// Decide 接单/拒单；仅对 Placed 状态有效
func (s *shopOrderService) Decide(ctx context.Context, shopID, orderID string, decision Decision, reason string) (*OrderView, error) {
	if decision != DecisionAccept && decision != DecisionReject {
		return nil, apperr.Validation("decision must be accept or reject")
	}

	order, err := s.loadOwnedOrder(ctx, shopID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.StatusPlaced {
		return nil, apperr.Conflict("order has already been processed")
	}

	fields := map[string]any{}
	if decision == DecisionAccept {
		fields["status"] = model.StatusConfirmed
		order.Status = model.StatusConfirmed
	} else {
		fields["status"] = model.StatusCancelled
		order.Status = model.StatusCancelled
		if reason != "" {
			fields["cancellation_reason"] = reason
			order.CancellationReason = reason
		}
	}
	if err := s.orders.UpdateFields(ctx, orderID, fields); err != nil {
		return nil, apperr.Internal("error updating order", err)
	}
	return s.projectForShop(ctx, order, shopID)
}

// UpdateStatus 履约推进；目标状态由调用方显式给出，仅限履约状态集合
func (s *shopOrderService) UpdateStatus(ctx context.Context, shopID, orderID string, status model.OrderStatus, notes string) (*OrderView, error) {
	if !model.ValidStatus(status) {
		return nil, apperr.Validation("invalid order status: %s", status)
	}
	fulfillment := false
	for _, v := range model.FulfillmentStatuses {
		if v == status {
			fulfillment = true
			break
		}
	}
	if !fulfillment {
		return nil, apperr.Validation("status %s cannot be set through fulfilment update", status)
	}

	order, err := s.loadOwnedOrder(ctx, shopID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Terminal() {
		return nil, apperr.Conflict("order is already %s", order.Status)
	}

	fields := map[string]any{"status": status}
	order.Status = status
	if notes != "" {
		fields["notes"] = notes
		order.Notes = notes
	}
	if status == model.StatusDelivered {
		now := time.Now()
		fields["actual_delivery"] = now
		order.ActualDelivery = &now
	}
	if err := s.orders.UpdateFields(ctx, orderID, fields); err != nil {
		return nil, apperr.Internal("error updating order status", err)
	}
	return s.projectForShop(ctx, order, shopID)
}

func (s *shopOrderService) ShopStats(ctx context.Context, shopID string) (*ShopStats, error) {
	total, err := s.orders.CountByShop(ctx, shopID, "")
	if err != nil {
		return nil, apperr.Internal("error counting orders", err)
	}
	rows, err := s.orders.ShopStatusCounts(ctx, shopID)
	if err != nil {
		return nil, apperr.Internal("error aggregating orders", err)
	}

	var totalRevenue float64
	breakdown := make(map[model.OrderStatus]ShopBucket)
	for _, row := range rows {
		bucket := breakdown[row.Status]
		bucket.Count += row.Count
		if row.PaymentStatus == model.PaymentPaid {
			bucket.Revenue += row.Revenue
			totalRevenue += row.Revenue
		}
		breakdown[row.Status] = bucket
	}
	return &ShopStats{TotalOrders: total, TotalRevenue: totalRevenue, StatusBreakdown: breakdown}, nil
}

// loadOwnedOrder 读订单并做店铺归属校验（至少拥有一个条目）
func (s *shopOrderService) loadOwnedOrder(ctx context.Context, shopID, orderID string) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, apperr.Internal("error fetching order", err)
	}
	if !order.OwnedByShop(shopID) {
		return nil, apperr.Forbidden("you are not authorized to handle this order")
	}
	return order, nil
}

// projectForShop 店铺投影：过滤掉其他店铺条目，totalAmount 换成本店小计
// 返回值里的 totalAmount 是派生小计，不是库内的全单总额
func (s *shopOrderService) projectForShop(ctx context.Context, order *model.Order, shopID string) (*OrderView, error) {
	view := &OrderView{Order: *order}

	filtered := make([]model.OrderItem, 0, len(order.Items))
	var shopTotal float64
	for _, it := range order.Items {
		if it.ShopID == shopID {
			filtered = append(filtered, it)
			shopTotal += it.ItemTotal
		}
	}
	view.Items = filtered
	view.TotalAmount = shopTotal

	if info, err := s.users.GetCustomerInfo(ctx, order.CustomerID); err == nil {
		view.Customer = info
	}
	if err := decorateItems(ctx, s.products, view.Items); err != nil {
		return nil, err
	}
	return view, nil
}
