package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/fresh-market/internal/api/middleware"
	"github.com/d60-Lab/fresh-market/internal/model"
	"github.com/d60-Lab/fresh-market/internal/repository"
	"github.com/d60-Lab/fresh-market/internal/service"
)

const testSecret = "test-secret"

type env struct {
	r        *gin.Engine
	db       *gorm.DB
	customer model.User
	shop     model.User
	other    model.User
	product  model.Product
}

type nopCart struct{}

func (nopCart) Get(_ context.Context, userID string) (*model.Cart, error) {
	return &model.Cart{User: userID}, nil
}
func (nopCart) Save(_ context.Context, _ *model.Cart) error { return nil }
func (nopCart) Clear(_ context.Context, _ string) error     { return nil }

func setupEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	RegisterValidations()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Product{}, &model.ProductVariant{}, &model.Order{}, &model.OrderItem{}))

	orders := repository.NewOrderRepository(db)
	products := repository.NewProductRepository(db)
	users := repository.NewUserRepository(db)
	h := New(
		service.NewOrderService(orders, products, users, nopCart{}),
		service.NewShopOrderService(orders, products, users),
	)

	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.Use(middleware.Auth(testSecret))
	v1.POST("/orders", h.CreateOrder)
	v1.GET("/orders/:id", h.GetOrder)
	v1.PUT("/orders/:id/cancel", h.CancelOrder)
	shop := v1.Group("/shop/orders")
	shop.Use(middleware.RequireRole(model.RoleShop))
	shop.GET("", h.ListShopOrders)
	shop.PUT("/:id/decision", h.OrderDecision)
	shop.PUT("/:id/status", h.UpdateShopOrderStatus)

	e := &env{
		r:        r,
		db:       db,
		customer: model.User{ID: uuid.New().String(), Name: "Asha", Email: "a@example.com", Password: "p", Role: model.RoleCustomer},
		shop:     model.User{ID: uuid.New().String(), Name: "Shop", Email: "s@example.com", Password: "p", Role: model.RoleShop},
		other:    model.User{ID: uuid.New().String(), Name: "Other", Email: "o@example.com", Password: "p", Role: model.RoleShop},
	}
	require.NoError(t, db.Create(&e.customer).Error)
	require.NoError(t, db.Create(&e.shop).Error)
	require.NoError(t, db.Create(&e.other).Error)

	e.product = model.Product{
		ID: uuid.New().String(), Name: "Seer Fish", Category: "seafood", Image: "img.jpg",
		ShopID: e.shop.ID,
		Variants: []model.ProductVariant{{Weight: "500g", Price: 200}},
	}
	require.NoError(t, db.Create(&e.product).Error)
	return e
}

func (e *env) do(t *testing.T, method, path string, body any, user model.User) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	token, err := middleware.SignToken(testSecret, user.ID, user.Role, time.Hour)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func createOrderBody(productID string) gin.H {
	return gin.H{
		"items": []gin.H{
			{"productId": productID, "variant": gin.H{"weight": "500g"}, "quantity": 2},
		},
		"address": "12 Marine Drive",
	}
}

func TestCreateOrderEndpoint(t *testing.T) {
	e := setupEnv(t)

	w := e.do(t, http.MethodPost, "/api/v1/orders", createOrderBody(e.product.ID), e.customer)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"totalAmount":400`)
	assert.Contains(t, w.Body.String(), `"status":"Placed"`)

	// 缺 address：binding 拦下
	w = e.do(t, http.MethodPost, "/api/v1/orders", gin.H{
		"items": []gin.H{{"productId": e.product.ID, "variant": gin.H{"weight": "500g"}, "quantity": 1}},
	}, e.customer)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 未知商品 404
	w = e.do(t, http.MethodPost, "/api/v1/orders", createOrderBody("missing"), e.customer)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShopDecisionEndpoint(t *testing.T) {
	e := setupEnv(t)

	w := e.do(t, http.MethodPost, "/api/v1/orders", createOrderBody(e.product.ID), e.customer)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	orderID := resp.Data.ID

	// 客户角色进不了店铺路由
	w = e.do(t, http.MethodPut, fmt.Sprintf("/api/v1/shop/orders/%s/decision", orderID),
		gin.H{"decision": "accept"}, e.customer)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 无条目店铺 403
	w = e.do(t, http.MethodPut, fmt.Sprintf("/api/v1/shop/orders/%s/decision", orderID),
		gin.H{"decision": "accept"}, e.other)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 属主店铺接单
	w = e.do(t, http.MethodPut, fmt.Sprintf("/api/v1/shop/orders/%s/decision", orderID),
		gin.H{"decision": "accept"}, e.shop)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"Confirmed"`)

	// 重复决定 409
	w = e.do(t, http.MethodPut, fmt.Sprintf("/api/v1/shop/orders/%s/decision", orderID),
		gin.H{"decision": "reject"}, e.shop)
	assert.Equal(t, http.StatusConflict, w.Code)

	// 非法履约状态值 400
	w = e.do(t, http.MethodPut, fmt.Sprintf("/api/v1/shop/orders/%s/status", orderID),
		gin.H{"status": "Lost"}, e.shop)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 正常推进
	w = e.do(t, http.MethodPut, fmt.Sprintf("/api/v1/shop/orders/%s/status", orderID),
		gin.H{"status": "Shipped", "notes": "cold chain"}, e.shop)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"Shipped"`)
}

func TestCancelEndpoint(t *testing.T) {
	e := setupEnv(t)

	w := e.do(t, http.MethodPost, "/api/v1/orders", createOrderBody(e.product.ID), e.customer)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w = e.do(t, http.MethodPut, "/api/v1/orders/"+resp.Data.ID+"/cancel", nil, e.customer)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"Cancelled"`)

	w = e.do(t, http.MethodPut, "/api/v1/orders/"+resp.Data.ID+"/cancel", nil, e.customer)
	assert.Equal(t, http.StatusConflict, w.Code)
}
