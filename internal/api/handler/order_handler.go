package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/fresh-market/internal/api/middleware"
	"github.com/d60-Lab/fresh-market/internal/model"
	"github.com/d60-Lab/fresh-market/internal/service"
	"github.com/d60-Lab/fresh-market/pkg/response"
)

type createOrderItem struct {
	ProductID string `json:"productId" binding:"required"`
	Variant   struct {
		Weight string `json:"weight" binding:"required"`
	} `json:"variant" binding:"required"`
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type createOrderRequest struct {
	Items             []createOrderItem `json:"items" binding:"required,min=1,dive"`
	Address           string            `json:"address" binding:"required"`
	OrderType         string            `json:"orderType" binding:"omitempty,oneof=direct checkout"`
	RazorpayOrderID   string            `json:"razorpayOrderId"`
	RazorpayPaymentID string            `json:"razorpayPaymentId"`
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CreateOrder 下单（立即购买或购物车结算）
// @Summary 创建订单
// @Tags 订单
// @Accept json
// @Produce json
// @Param request body createOrderRequest true "订单信息"
// @Success 201 {object} response.Response{data=service.OrderView}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/orders [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	id, _ := middleware.GetIdentity(c)

	items := make([]service.CreateItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.CreateItemInput{
			ProductID:     it.ProductID,
			VariantWeight: it.Variant.Weight,
			Quantity:      it.Quantity,
		})
	}
	order, err := h.orderSvc.Create(c.Request.Context(), id.UserID, service.CreateOrderInput{
		Items:             items,
		Address:           req.Address,
		OrderType:         model.OrderType(req.OrderType),
		RazorpayOrderID:   req.RazorpayOrderID,
		RazorpayPaymentID: req.RazorpayPaymentID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "order placed successfully", order)
}

// ListOrders 当前客户订单列表
// @Summary 客户订单分页
// @Tags 订单
// @Param status query string false "状态过滤"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/orders [get]
func (h *Handler) ListOrders(c *gin.Context) {
	id, _ := middleware.GetIdentity(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	status := model.OrderStatus(c.Query("status"))

	orders, pagination, err := h.orderSvc.ListForCustomer(c.Request.Context(), id.UserID, status, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"orders": orders, "pagination": pagination})
}

// GetOrder 单个订单（仅本人）
// @Summary 订单详情
// @Tags 订单
// @Param id path string true "订单ID"
// @Success 200 {object} response.Response{data=service.OrderView}
// @Failure 404 {object} response.Response
// @Router /api/v1/orders/{id} [get]
func (h *Handler) GetOrder(c *gin.Context) {
	id, _ := middleware.GetIdentity(c)
	order, err := h.orderSvc.GetForCustomer(c.Request.Context(), id.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, order)
}

// CancelOrder 客户取消订单
// @Summary 取消订单
// @Tags 订单
// @Param id path string true "订单ID"
// @Param request body cancelOrderRequest false "取消原因"
// @Success 200 {object} response.Response{data=service.OrderView}
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/orders/{id}/cancel [put]
func (h *Handler) CancelOrder(c *gin.Context) {
	var req cancelOrderRequest
	_ = c.ShouldBindJSON(&req) // body 可省略
	id, _ := middleware.GetIdentity(c)

	order, err := h.orderSvc.Cancel(c.Request.Context(), id.UserID, c.Param("id"), req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMsg(c, "order cancelled successfully", order)
}

// OrderStats 客户订单统计
// @Summary 客户订单统计
// @Tags 订单
// @Success 200 {object} response.Response{data=service.CustomerStats}
// @Router /api/v1/orders/stats [get]
func (h *Handler) OrderStats(c *gin.Context) {
	id, _ := middleware.GetIdentity(c)
	stats, err := h.orderSvc.CustomerStats(c.Request.Context(), id.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}
