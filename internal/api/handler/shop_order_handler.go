package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/fresh-market/internal/api/middleware"
	"github.com/d60-Lab/fresh-market/internal/model"
	"github.com/d60-Lab/fresh-market/internal/service"
	"github.com/d60-Lab/fresh-market/pkg/response"
)

type decisionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=accept reject"`
	Reason   string `json:"reason"`
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required,orderstatus"`
	Notes  string `json:"notes"`
}

// ListShopOrders 店铺订单列表（只含本店条目，金额为本店小计）
// @Summary 店铺订单分页
// @Tags 店铺订单
// @Param status query string false "状态过滤"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/shop/orders [get]
func (h *Handler) ListShopOrders(c *gin.Context) {
	id, _ := middleware.GetIdentity(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	status := model.OrderStatus(c.Query("status"))

	orders, pagination, err := h.shopSvc.ListForShop(c.Request.Context(), id.UserID, status, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"orders": orders, "pagination": pagination})
}

// ShopOrderStats 店铺订单统计
// @Summary 店铺订单统计
// @Tags 店铺订单
// @Success 200 {object} response.Response{data=service.ShopStats}
// @Router /api/v1/shop/orders/stats [get]
func (h *Handler) ShopOrderStats(c *gin.Context) {
	id, _ := middleware.GetIdentity(c)
	stats, err := h.shopSvc.ShopStats(c.Request.Context(), id.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

// OrderDecision 接单 / 拒单
// @Summary 店铺接单决定
// @Tags 店铺订单
// @Param id path string true "订单ID"
// @Param request body decisionRequest true "accept 或 reject"
// @Success 200 {object} response.Response{data=service.OrderView}
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/shop/orders/{id}/decision [put]
func (h *Handler) OrderDecision(c *gin.Context) {
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	id, _ := middleware.GetIdentity(c)

	order, err := h.shopSvc.Decide(c.Request.Context(), id.UserID, c.Param("id"), service.Decision(req.Decision), req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMsg(c, "order "+req.Decision+"ed", order)
}

// UpdateShopOrderStatus 履约状态推进
// @Summary 店铺更新订单状态
// @Tags 店铺订单
// @Param id path string true "订单ID"
// @Param request body statusUpdateRequest true "目标状态"
// @Success 200 {object} response.Response{data=service.OrderView}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/shop/orders/{id}/status [put]
func (h *Handler) UpdateShopOrderStatus(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	id, _ := middleware.GetIdentity(c)

	order, err := h.shopSvc.UpdateStatus(c.Request.Context(), id.UserID, c.Param("id"), model.OrderStatus(req.Status), req.Notes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMsg(c, "order status updated", order)
}
