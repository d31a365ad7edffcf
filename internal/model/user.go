package model

import "time"

// Role 用户角色
type Role string

const (
	RoleCustomer Role = "customer"
	RoleShop     Role = "shop"
	RoleDelivery Role = "delivery"
	RoleAdmin    Role = "admin"
)

// User 用户（顾客 / 店铺 / 配送 / 管理员）
// 登录与发 token 在上游认证层，这里只承载展示字段与角色
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name         string    `json:"name" gorm:"type:varchar(50);not null"`
	Email        string    `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Password     string    `json:"-" gorm:"type:varchar(100);not null"`
	Role         Role      `json:"role" gorm:"type:varchar(10);index;not null;default:'customer'"`
	Phone        string    `json:"phone,omitempty" gorm:"type:varchar(20)"`
	Address      string    `json:"address,omitempty" gorm:"type:varchar(200)"`
	BusinessName string    `json:"businessName,omitempty" gorm:"type:varchar(100)"`
	IsActive     bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// CustomerInfo 订单响应里 join 出的客户展示字段
type CustomerInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}
