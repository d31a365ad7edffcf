package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/fresh-market/internal/model"
	"github.com/d60-Lab/fresh-market/internal/repository"
	"github.com/d60-Lab/fresh-market/pkg/apperr"
	"github.com/d60-Lab/fresh-market/pkg/logger"
)

// CreateItemInput 下单提交的行条目；价格不收客户端的，一律以库内规格为准
type CreateItemInput struct {
	ProductID     string
	VariantWeight string
	Quantity      int
}

// CreateOrderInput 下单入参；razorpay 两个 id 同时存在视为已验证的在线支付
type CreateOrderInput struct {
	Items             []CreateItemInput
	Address           string
	OrderType         model.OrderType
	RazorpayOrderID   string
	RazorpayPaymentID string
}

// OrderView 订单响应视图：订单 + join 出的客户展示字段
// 店铺侧视图中 Order.TotalAmount 会被替换为本店小计（见 shop_order_service）
type OrderView struct {
	model.Order
	Customer *model.CustomerInfo `json:"customer,omitempty"`
}

// Pagination 列表分页信息（匹配订单数，而非条目数）
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalOrders int64 `json:"totalOrders"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// StatusBucket 客户侧按状态统计桶（金额不分支付状态）
type StatusBucket struct {
	Count       int64   `json:"count"`
	TotalAmount float64 `json:"totalAmount"`
}

// CustomerStats 客户侧统计；TotalSpent 只计已支付订单
type CustomerStats struct {
	TotalOrders     int64                              `json:"totalOrders"`
	TotalSpent      float64                            `json:"totalSpent"`
	StatusBreakdown map[model.OrderStatus]StatusBucket `json:"statusBreakdown"`
}

// OrderService 客户侧订单服务：创建、查询、取消、统计
type OrderService interface {
	Create(ctx context.Context, customerID string, in CreateOrderInput) (*OrderView, error)
	ListForCustomer(ctx context.Context, customerID string, status model.OrderStatus, page, limit int) ([]*OrderView, *Pagination, error)
	GetForCustomer(ctx context.Context, customerID, orderID string) (*OrderView, error)
	Cancel(ctx context.Context, customerID, orderID, reason string) (*OrderView, error)
	CustomerStats(ctx context.Context, customerID string) (*CustomerStats, error)
}

type orderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	users    repository.UserRepository
	carts    repository.CartStore
}

func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, users repository.UserRepository, carts repository.CartStore) OrderService {
	return &orderService{orders: orders, products: products, users: users, carts: carts}
}

// Create 校验条目、冻结规格价格、打 shop_id 快照并落库（任一条目非法则整单失败）
func (s *orderService) Create(ctx context.Context, customerID string, in CreateOrderInput) (*OrderView, error) {
	if len(in.Items) == 0 {
		return nil, apperr.Validation("items are required")
	}
	if in.Address == "" {
		return nil, apperr.Validation("delivery address is required")
	}
	orderType := in.OrderType
	if orderType == "" {
		orderType = model.OrderDirect
	}
	if orderType != model.OrderDirect && orderType != model.OrderCheckout {
		return nil, apperr.Validation("invalid order type: %s", orderType)
	}

	var calculatedTotal float64
	items := make([]model.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity < 1 {
			return nil, apperr.Validation("quantity must be at least 1 for product: %s", it.ProductID)
		}
		product, err := s.products.GetByID(ctx, it.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("product not found: %s", it.ProductID)
			}
			return nil, apperr.Internal("error loading product", err)
		}
		variant := product.FindVariant(it.VariantWeight)
		if variant == nil {
			return nil, apperr.Validation("variant not found for product: %s", product.Name)
		}

		itemTotal := variant.Price * float64(it.Quantity)
		calculatedTotal += itemTotal
		items = append(items, model.OrderItem{
			ProductID:     product.ID,
			ShopID:        product.ShopID, // 下单时快照，商品后续改店铺不回溯
			VariantWeight: variant.Weight,
			VariantPrice:  variant.Price, // 价格快照，后续调价不影响历史订单
			Quantity:      it.Quantity,
			ItemTotal:     itemTotal,
		})
	}

	order := &model.Order{
		ID:          uuid.New().String(),
		OrderNumber: generateOrderNumber(),
		CustomerID:  customerID,
		Items:       items,
		Address:     in.Address,
		Status:      model.StatusPlaced,
		TotalAmount: calculatedTotal, // 服务端计算的总额才是权威值
		OrderType:   orderType,
	}
	if in.RazorpayOrderID != "" && in.RazorpayPaymentID != "" {
		order.PaymentStatus = model.PaymentPaid
		order.PaymentMethod = model.PayOnline
		order.RazorpayOrderID = in.RazorpayOrderID
		order.RazorpayPaymentID = in.RazorpayPaymentID
	} else {
		order.PaymentStatus = model.PaymentPending
		order.PaymentMethod = model.PayCOD
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperr.Internal("error creating order", err)
	}

	// 购物车结算才清车；立即购买没碰过购物车
	if orderType == model.OrderCheckout {
		if err := s.carts.Clear(ctx, customerID); err != nil {
			logger.Warn("cart clear failed after checkout",
				zap.String("customer", customerID), zap.String("order", order.ID), zap.Error(err))
		}
	}

	return s.toView(ctx, order)
}

func (s *orderService) ListForCustomer(ctx context.Context, customerID string, status model.OrderStatus, page, limit int) ([]*OrderView, *Pagination, error) {
	if status != "" && !model.ValidStatus(status) {
		return nil, nil, apperr.Validation("invalid order status: %s", status)
	}
	page, limit = normalizePage(page, limit)

	orders, err := s.orders.ListByCustomer(ctx, customerID, status, (page-1)*limit, limit)
	if err != nil {
		return nil, nil, apperr.Internal("error fetching orders", err)
	}
	total, err := s.orders.CountByCustomer(ctx, customerID, status)
	if err != nil {
		return nil, nil, apperr.Internal("error counting orders", err)
	}

	views, err := s.toViews(ctx, orders)
	if err != nil {
		return nil, nil, err
	}
	return views, newPagination(page, limit, total), nil
}

func (s *orderService) GetForCustomer(ctx context.Context, customerID, orderID string) (*OrderView, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, apperr.Internal("error fetching order", err)
	}
	// 非本人的订单按不存在处理，不泄露他人订单的存在性
	if order.CustomerID != customerID {
		return nil, apperr.NotFound("order not found")
	}
	return s.toView(ctx, order)
}

// Cancel 客户取消；仅 Placed/Confirmed/Processing 可取消
func (s *orderService) Cancel(ctx context.Context, customerID, orderID, reason string) (*OrderView, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, apperr.Internal("error fetching order", err)
	}
	if order.CustomerID != customerID {
		return nil, apperr.NotFound("order not found")
	}
	if !order.CanBeCancelled() {
		return nil, apperr.Conflict("order cannot be cancelled at this stage")
	}

	fields := map[string]any{"status": model.StatusCancelled}
	if reason != "" {
		fields["cancellation_reason"] = reason
	}
	if err := s.orders.UpdateFields(ctx, orderID, fields); err != nil {
		return nil, apperr.Internal("error cancelling order", err)
	}

	order.Status = model.StatusCancelled
	order.CancellationReason = reason
	return s.toView(ctx, order)
}

func (s *orderService) CustomerStats(ctx context.Context, customerID string) (*CustomerStats, error) {
	total, err := s.orders.CountByCustomer(ctx, customerID, "")
	if err != nil {
		return nil, apperr.Internal("error counting orders", err)
	}
	rows, err := s.orders.CustomerStatusCounts(ctx, customerID)
	if err != nil {
		return nil, apperr.Internal("error aggregating orders", err)
	}
	spent, err := s.orders.CustomerPaidTotal(ctx, customerID)
	if err != nil {
		return nil, apperr.Internal("error aggregating orders", err)
	}

	breakdown := make(map[model.OrderStatus]StatusBucket, len(rows))
	for _, row := range rows {
		breakdown[row.Status] = StatusBucket{Count: row.Count, TotalAmount: row.Total}
	}
	return &CustomerStats{TotalOrders: total, TotalSpent: spent, StatusBreakdown: breakdown}, nil
}

// toView join 客户与商品展示字段；只读便利，不落库
func (s *orderService) toView(ctx context.Context, order *model.Order) (*OrderView, error) {
	views, err := s.toViews(ctx, []*model.Order{order})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *orderService) toViews(ctx context.Context, orders []*model.Order) ([]*OrderView, error) {
	views := make([]*OrderView, 0, len(orders))
	for _, order := range orders {
		view := &OrderView{Order: *order}
		if info, err := s.users.GetCustomerInfo(ctx, order.CustomerID); err == nil {
			view.Customer = info
		}
		if err := decorateItems(ctx, s.products, view.Items); err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// decorateItems 批量补商品展示字段；商品已删除时条目保持原样
func decorateItems(ctx context.Context, products repository.ProductRepository, items []model.OrderItem) error {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	byID, err := products.GetByIDs(ctx, ids)
	if err != nil {
		return apperr.Internal("error loading products", err)
	}
	for i := range items {
		if p, ok := byID[items[i].ProductID]; ok {
			items[i].ProductName = p.Name
			items[i].ProductImage = p.Image
			items[i].ProductCategory = p.Category
		}
	}
	return nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return page, limit
}

func newPagination(page, limit int, total int64) *Pagination {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return &Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalOrders: total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// generateOrderNumber ORD-<毫秒时间戳后8位><3位随机数>
func generateOrderNumber() string {
	ts := fmt.Sprintf("%d", time.Now().UnixMilli())
	if len(ts) > 8 {
		ts = ts[len(ts)-8:]
	}
	return fmt.Sprintf("ORD-%s%03d", ts, rand.Intn(1000))
}
