package model

import "time"

// OrderStatus 订单状态
type OrderStatus string

const (
	StatusPlaced         OrderStatus = "Placed"
	StatusConfirmed      OrderStatus = "Confirmed"
	StatusProcessing     OrderStatus = "Processing"
	StatusPacked         OrderStatus = "Packed"
	StatusShipped        OrderStatus = "Shipped"
	StatusOutForDelivery OrderStatus = "Out for Delivery"
	StatusDelivered      OrderStatus = "Delivered"
	StatusCancelled      OrderStatus = "Cancelled"
)

// AllStatuses 状态全集（校验用）
var AllStatuses = []OrderStatus{
	StatusPlaced, StatusConfirmed, StatusProcessing, StatusPacked,
	StatusShipped, StatusOutForDelivery, StatusDelivered, StatusCancelled,
}

// ValidStatus 是否属于状态全集
func ValidStatus(s OrderStatus) bool {
	for _, v := range AllStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// CancellableStatuses 客户可取消的状态
var CancellableStatuses = []OrderStatus{StatusPlaced, StatusConfirmed, StatusProcessing}

// FulfillmentStatuses 店铺履约推进可设置的目标状态
var FulfillmentStatuses = []OrderStatus{
	StatusProcessing, StatusPacked, StatusShipped, StatusOutForDelivery, StatusDelivered,
}

// PaymentStatus 支付状态
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentPaid     PaymentStatus = "Paid"
	PaymentFailed   PaymentStatus = "Failed"
	PaymentRefunded PaymentStatus = "Refunded"
)

// PaymentMethod 支付方式
type PaymentMethod string

const (
	PayCOD    PaymentMethod = "COD"
	PayOnline PaymentMethod = "Online"
	PayWallet PaymentMethod = "Wallet"
)

// OrderType direct = 立即购买，checkout = 购物车结算
type OrderType string

const (
	OrderDirect   OrderType = "direct"
	OrderCheckout OrderType = "checkout"
)

// Order 订单聚合根；TotalAmount 为全单总额（跨店铺），创建后不再重算
type Order struct {
	ID                 string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderNumber        string        `json:"orderNumber" gorm:"type:varchar(32);uniqueIndex;not null"`
	CustomerID         string        `json:"customerId" gorm:"type:varchar(36);index:idx_order_customer_created;not null"`
	Items              []OrderItem   `json:"items" gorm:"foreignKey:OrderID"`
	Address            string        `json:"address" gorm:"type:varchar(255);not null"`
	Status             OrderStatus   `json:"status" gorm:"type:varchar(20);index;not null;default:'Placed'"`
	PaymentStatus      PaymentStatus `json:"paymentStatus" gorm:"type:varchar(12);not null;default:'Pending'"`
	PaymentMethod      PaymentMethod `json:"paymentMethod" gorm:"type:varchar(8);not null;default:'COD'"`
	TotalAmount        float64       `json:"totalAmount" gorm:"type:decimal(10,2);not null"`
	OrderType          OrderType     `json:"orderType" gorm:"type:varchar(10);not null;default:'direct'"`
	DeliveryFee        float64       `json:"deliveryFee" gorm:"type:decimal(10,2);not null;default:0"`
	Discount           float64       `json:"discount" gorm:"type:decimal(10,2);not null;default:0"`
	RazorpayOrderID    string        `json:"razorpayOrderId,omitempty" gorm:"type:varchar(64)"`
	RazorpayPaymentID  string        `json:"razorpayPaymentId,omitempty" gorm:"type:varchar(64)"`
	EstimatedDelivery  *time.Time    `json:"estimatedDelivery,omitempty"`
	ActualDelivery     *time.Time    `json:"actualDelivery,omitempty"`
	TrackingNumber     string        `json:"trackingNumber,omitempty" gorm:"type:varchar(64)"`
	Notes              string        `json:"notes,omitempty" gorm:"type:text"`
	CancellationReason string        `json:"cancellationReason,omitempty" gorm:"type:varchar(255)"`
	CreatedAt          time.Time     `json:"createdAt" gorm:"index:idx_order_customer_created"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

func (Order) TableName() string { return "orders" }

// CanBeCancelled 客户侧是否仍可取消
func (o *Order) CanBeCancelled() bool {
	for _, s := range CancellableStatuses {
		if o.Status == s {
			return true
		}
	}
	return false
}

// Terminal 终态（Delivered / Cancelled）
func (o *Order) Terminal() bool {
	return o.Status == StatusDelivered || o.Status == StatusCancelled
}

// OwnedByShop 店铺是否拥有至少一个条目（以下单时快照的 shop_id 为准）
func (o *Order) OwnedByShop(shopID string) bool {
	for _, it := range o.Items {
		if it.ShopID == shopID {
			return true
		}
	}
	return false
}

// OrderItem 订单行条目；variant 价格与 shop_id 均为下单时快照
type OrderItem struct {
	ID            uint    `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID       string  `json:"-" gorm:"type:varchar(36);index;not null"`
	ProductID     string  `json:"productId" gorm:"type:varchar(36);not null"`
	ShopID        string  `json:"shopId" gorm:"type:varchar(36);index;not null"`
	VariantWeight string  `json:"variantWeight" gorm:"type:varchar(20);not null"`
	VariantPrice  float64 `json:"variantPrice" gorm:"type:decimal(10,2);not null"`
	Quantity      int     `json:"quantity" gorm:"not null;default:1"`
	ItemTotal     float64 `json:"itemTotal" gorm:"type:decimal(10,2);not null"`

	// 展示字段，来自商品表 join，不落库
	ProductName     string `json:"productName,omitempty" gorm:"-"`
	ProductImage    string `json:"productImage,omitempty" gorm:"-"`
	ProductCategory string `json:"productCategory,omitempty" gorm:"-"`
}

func (OrderItem) TableName() string { return "order_items" }
