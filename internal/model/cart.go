package model

// Cart 购物车快照（redis JSON，非 gorm 模型）
// 订单核心只在 checkout 结算后清空它，增删改走外部协作方
type Cart struct {
	User  string     `json:"user"`
	Items []CartItem `json:"items"`
}

// CartItem 购物车条目（variant 为规格 weight 标签）
type CartItem struct {
	ProductID string `json:"productId"`
	Variant   string `json:"variant"`
	Quantity  int    `json:"quantity"`
}
