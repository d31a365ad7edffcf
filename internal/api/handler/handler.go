package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/fresh-market/internal/model"
	"github.com/d60-Lab/fresh-market/internal/service"
)

// Handler 聚合各服务的 HTTP 入口
type Handler struct {
	orderSvc service.OrderService
	shopSvc  service.ShopOrderService
}

func New(orderSvc service.OrderService, shopSvc service.ShopOrderService) *Handler {
	return &Handler{orderSvc: orderSvc, shopSvc: shopSvc}
}

// RegisterValidations 注册自定义校验规则（orderstatus：履约状态枚举）
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("orderstatus", func(fl validator.FieldLevel) bool {
			return model.ValidStatus(model.OrderStatus(fl.Field().String()))
		})
	}
}
