package model

import "time"

// Product 商品；ShopID 指向所属店铺
type Product struct {
	ID          string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string           `json:"name" gorm:"type:varchar(100);not null"`
	Category    string           `json:"category" gorm:"type:varchar(50);index;not null"`
	Description string           `json:"description,omitempty" gorm:"type:text"`
	Image       string           `json:"image" gorm:"type:varchar(255);not null"`
	ShopID      string           `json:"shopId" gorm:"type:varchar(36);index;not null"`
	Variants    []ProductVariant `json:"variants" gorm:"foreignKey:ProductID"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func (Product) TableName() string { return "products" }

// FindVariant 按 weight 匹配规格；找不到返回 nil
func (p *Product) FindVariant(weight string) *ProductVariant {
	for i := range p.Variants {
		if p.Variants[i].Weight == weight {
			return &p.Variants[i]
		}
	}
	return nil
}

// ProductVariant 可购规格（按重量定价）
type ProductVariant struct {
	ID        uint    `json:"-" gorm:"primaryKey;autoIncrement"`
	ProductID string  `json:"-" gorm:"type:varchar(36);index;not null"`
	Weight    string  `json:"weight" gorm:"type:varchar(20);not null"`
	Price     float64 `json:"price" gorm:"type:decimal(10,2);not null"`
}

func (ProductVariant) TableName() string { return "product_variants" }
