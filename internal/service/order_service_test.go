package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/fresh-market/internal/model"
	"github.com/d60-Lab/fresh-market/internal/repository"
	"github.com/d60-Lab/fresh-market/pkg/apperr"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Product{}, &model.ProductVariant{}, &model.Order{}, &model.OrderItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// cartStub 记录 Clear 调用，用来断言 checkout 才清车
type cartStub struct {
	cleared []string
}

func (c *cartStub) Get(ctx context.Context, userID string) (*model.Cart, error) {
	return &model.Cart{User: userID}, nil
}
func (c *cartStub) Save(ctx context.Context, cart *model.Cart) error { return nil }
func (c *cartStub) Clear(ctx context.Context, userID string) error {
	c.cleared = append(c.cleared, userID)
	return nil
}

type fixture struct {
	db       *gorm.DB
	svc      OrderService
	shopSvc  ShopOrderService
	cart     *cartStub
	customer model.User
	shop1    model.User
	shop2    model.User
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)
	orders := repository.NewOrderRepository(db)
	products := repository.NewProductRepository(db)
	users := repository.NewUserRepository(db)
	cart := &cartStub{}

	f := &fixture{
		db:       db,
		cart:     cart,
		svc:      NewOrderService(orders, products, users, cart),
		shopSvc:  NewShopOrderService(orders, products, users),
		customer: model.User{ID: uuid.New().String(), Name: "Asha", Email: "asha@example.com", Password: "p", Role: model.RoleCustomer, Phone: "111"},
		shop1:    model.User{ID: uuid.New().String(), Name: "Shop One", Email: "s1@example.com", Password: "p", Role: model.RoleShop},
		shop2:    model.User{ID: uuid.New().String(), Name: "Shop Two", Email: "s2@example.com", Password: "p", Role: model.RoleShop},
	}
	require.NoError(t, db.Create(&f.customer).Error)
	require.NoError(t, db.Create(&f.shop1).Error)
	require.NoError(t, db.Create(&f.shop2).Error)
	return f
}

func (f *fixture) seedProduct(t *testing.T, name, shopID string, variants ...model.ProductVariant) model.Product {
	t.Helper()
	p := model.Product{
		ID: uuid.New().String(), Name: name, Category: "seafood",
		Image: "img.jpg", ShopID: shopID, Variants: variants,
	}
	require.NoError(t, f.db.Create(&p).Error)
	return p
}

func TestCreateOrder_TotalsAndSnapshots(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	p1 := f.seedProduct(t, "Seer Fish", f.shop1.ID, model.ProductVariant{Weight: "500g", Price: 200})
	p2 := f.seedProduct(t, "Tiger Prawns", f.shop1.ID, model.ProductVariant{Weight: "1kg", Price: 400})

	order, err := f.svc.Create(ctx, f.customer.ID, CreateOrderInput{
		Items: []CreateItemInput{
			{ProductID: p1.ID, VariantWeight: "500g", Quantity: 2},
			{ProductID: p2.ID, VariantWeight: "1kg", Quantity: 1},
		},
		Address: "12 Marine Drive",
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusPlaced, order.Status)
	assert.Equal(t, 800.0, order.TotalAmount)
	require.Len(t, order.Items, 2)
	for _, it := range order.Items {
		assert.Equal(t, f.shop1.ID, it.ShopID)
	}
	assert.Equal(t, 400.0, order.Items[0].ItemTotal)
	assert.Equal(t, 400.0, order.Items[1].ItemTotal)
	assert.Contains(t, order.OrderNumber, "ORD-")
	assert.Len(t, order.OrderNumber, 15)

	// 展示 join
	require.NotNil(t, order.Customer)
	assert.Equal(t, "Asha", order.Customer.Name)
	assert.Equal(t, "Seer Fish", order.Items[0].ProductName)

	// 商品后续调价不影响已落库订单
	require.NoError(t, f.db.Model(&model.ProductVariant{}).
		Where("product_id = ?", p1.ID).Update("price", 999).Error)
	reloaded, err := f.svc.GetForCustomer(ctx, f.customer.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, reloaded.Items[0].VariantPrice)
	assert.Equal(t, 800.0, reloaded.TotalAmount)
}

func TestCreateOrder_Validation(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Squid", f.shop1.ID, model.ProductVariant{Weight: "500g", Price: 150})

	cases := []struct {
		name string
		in   CreateOrderInput
		kind apperr.Kind
		msg  string
	}{
		{"empty items", CreateOrderInput{Address: "addr"}, apperr.KindValidation, "items are required"},
		{"missing address", CreateOrderInput{Items: []CreateItemInput{{ProductID: p.ID, VariantWeight: "500g", Quantity: 1}}}, apperr.KindValidation, "address"},
		{"unknown product", CreateOrderInput{Items: []CreateItemInput{{ProductID: "nope", VariantWeight: "500g", Quantity: 1}}, Address: "addr"}, apperr.KindNotFound, "nope"},
		{"unknown variant", CreateOrderInput{Items: []CreateItemInput{{ProductID: p.ID, VariantWeight: "2kg", Quantity: 1}}, Address: "addr"}, apperr.KindValidation, "Squid"},
		{"zero quantity", CreateOrderInput{Items: []CreateItemInput{{ProductID: p.ID, VariantWeight: "500g"}}, Address: "addr"}, apperr.KindValidation, "quantity"},
		{"bad order type", CreateOrderInput{Items: []CreateItemInput{{ProductID: p.ID, VariantWeight: "500g", Quantity: 1}}, Address: "addr", OrderType: "subscription"}, apperr.KindValidation, "order type"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, f.customer.ID, tc.in)
			require.Error(t, err)
			assert.Equal(t, tc.kind, apperr.KindOf(err))
			assert.Contains(t, apperr.MessageOf(err), tc.msg)
		})
	}

	// 整单失败：没有半个订单留下
	var count int64
	require.NoError(t, f.db.Model(&model.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateOrder_CartClearedOnlyOnCheckout(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Pomfret", f.shop1.ID, model.ProductVariant{Weight: "1kg", Price: 500})
	item := []CreateItemInput{{ProductID: p.ID, VariantWeight: "1kg", Quantity: 1}}

	_, err := f.svc.Create(ctx, f.customer.ID, CreateOrderInput{Items: item, Address: "a", OrderType: model.OrderDirect})
	require.NoError(t, err)
	assert.Empty(t, f.cart.cleared, "direct buy must not touch the cart")

	_, err = f.svc.Create(ctx, f.customer.ID, CreateOrderInput{Items: item, Address: "a", OrderType: model.OrderCheckout})
	require.NoError(t, err)
	assert.Equal(t, []string{f.customer.ID}, f.cart.cleared)
}

func TestCreateOrder_PaymentModes(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Crab", f.shop1.ID, model.ProductVariant{Weight: "500g", Price: 350})
	item := []CreateItemInput{{ProductID: p.ID, VariantWeight: "500g", Quantity: 1}}

	cod, err := f.svc.Create(ctx, f.customer.ID, CreateOrderInput{Items: item, Address: "a"})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPending, cod.PaymentStatus)
	assert.Equal(t, model.PayCOD, cod.PaymentMethod)

	online, err := f.svc.Create(ctx, f.customer.ID, CreateOrderInput{
		Items: item, Address: "a",
		RazorpayOrderID: "order_x", RazorpayPaymentID: "pay_y",
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, online.PaymentStatus)
	assert.Equal(t, model.PayOnline, online.PaymentMethod)
	assert.Equal(t, "order_x", online.RazorpayOrderID)
}

func TestCancelOrder(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Mussels", f.shop1.ID, model.ProductVariant{Weight: "500g", Price: 120})
	order, err := f.svc.Create(ctx, f.customer.ID, CreateOrderInput{
		Items: []CreateItemInput{{ProductID: p.ID, VariantWeight: "500g", Quantity: 1}}, Address: "a",
	})
	require.NoError(t, err)

	// Processing 仍可取消
	require.NoError(t, f.db.Model(&model.Order{}).Where("id = ?", order.ID).
		Update("status", model.StatusProcessing).Error)
	cancelled, err := f.svc.Cancel(ctx, f.customer.ID, order.ID, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
	assert.Equal(t, "changed my mind", cancelled.CancellationReason)

	// 再取消一次：冲突，状态不变
	_, err = f.svc.Cancel(ctx, f.customer.ID, order.ID, "")
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	var current model.Order
	require.NoError(t, f.db.First(&current, "id = ?", order.ID).Error)
	assert.Equal(t, model.StatusCancelled, current.Status)

	// 已送达不可取消
	require.NoError(t, f.db.Model(&model.Order{}).Where("id = ?", order.ID).
		Update("status", model.StatusDelivered).Error)
	_, err = f.svc.Cancel(ctx, f.customer.ID, order.ID, "")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// 他人订单按不存在处理
	_, err = f.svc.Cancel(ctx, f.shop2.ID, order.ID, "")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestListForCustomer(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Clams", f.shop1.ID, model.ProductVariant{Weight: "500g", Price: 100})

	for i := 0; i < 12; i++ {
		_, err := f.svc.Create(ctx, f.customer.ID, CreateOrderInput{
			Items: []CreateItemInput{{ProductID: p.ID, VariantWeight: "500g", Quantity: 1}}, Address: "a",
		})
		require.NoError(t, err)
	}

	orders, pg, err := f.svc.ListForCustomer(ctx, f.customer.ID, "", 1, 10)
	require.NoError(t, err)
	assert.Len(t, orders, 10)
	assert.Equal(t, int64(12), pg.TotalOrders)
	assert.Equal(t, 2, pg.TotalPages)
	assert.True(t, pg.HasNext)
	assert.False(t, pg.HasPrev)

	orders, pg, err = f.svc.ListForCustomer(ctx, f.customer.ID, "", 2, 10)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.True(t, pg.HasPrev)

	// 状态过滤
	orders, _, err = f.svc.ListForCustomer(ctx, f.customer.ID, model.StatusDelivered, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, orders)

	// 非法状态
	_, _, err = f.svc.ListForCustomer(ctx, f.customer.ID, "Teleported", 1, 10)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCustomerStats(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	p := f.seedProduct(t, "Lobster", f.shop1.ID, model.ProductVariant{Weight: "500g", Price: 500})
	item := []CreateItemInput{{ProductID: p.ID, VariantWeight: "500g", Quantity: 1}}

	// 一单已支付，一单待支付：totalSpent 只计已支付，breakdown 全量
	_, err := f.svc.Create(ctx, f.customer.ID, CreateOrderInput{
		Items: item, Address: "a", RazorpayOrderID: "o1", RazorpayPaymentID: "p1",
	})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.customer.ID, CreateOrderInput{Items: item, Address: "a"})
	require.NoError(t, err)

	stats, err := f.svc.CustomerStats(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.Equal(t, 500.0, stats.TotalSpent)
	assert.Equal(t, int64(2), stats.StatusBreakdown[model.StatusPlaced].Count)
	assert.Equal(t, 1000.0, stats.StatusBreakdown[model.StatusPlaced].TotalAmount)
}
