package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/fresh-market/config"
	"github.com/d60-Lab/fresh-market/internal/api/middleware"
	"github.com/d60-Lab/fresh-market/internal/model"
	"github.com/d60-Lab/fresh-market/internal/repository"
	"github.com/d60-Lab/fresh-market/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// 种子数据：SHOPS 个店铺，每家 PRODUCTS 个商品（各两个规格），
// 一个演示客户及其购物车，并打印可直接使用的 token。
func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	cartStore := repository.NewCartStore(rdb)
	ctx := context.Background()

	shops := 2
	products := 3
	if s := os.Getenv("SHOPS"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			shops = v
		}
	}
	if s := os.Getenv("PRODUCTS"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			products = v
		}
	}

	hash := must(bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost))

	customer := model.User{
		ID: uuid.New().String(), Name: "Demo Customer", Email: "customer@example.com",
		Password: string(hash), Role: model.RoleCustomer, Phone: "+91 90000 00001",
		Address: "12 Marine Drive, Kochi",
	}
	_ = db.Where("email = ?", customer.Email).FirstOrCreate(&customer).Error

	names := []string{"Seer Fish", "Tiger Prawns", "Mutton Curry Cut", "Chicken Breast", "Squid Rings", "Pomfret"}
	for i := 0; i < shops; i++ {
		shop := model.User{
			ID: uuid.New().String(), Name: fmt.Sprintf("Shop %d", i+1),
			Email: fmt.Sprintf("shop%d@example.com", i+1), Password: string(hash),
			Role: model.RoleShop, BusinessName: fmt.Sprintf("Fresh Catch %d", i+1),
		}
		_ = db.Where("email = ?", shop.Email).FirstOrCreate(&shop).Error

		for j := 0; j < products; j++ {
			p := model.Product{
				ID:       uuid.New().String(),
				Name:     names[(i*products+j)%len(names)],
				Category: "seafood",
				Image:    "https://example.com/img/placeholder.jpg",
				ShopID:   shop.ID,
				Variants: []model.ProductVariant{
					{Weight: "500g", Price: 200 + float64(j)*50},
					{Weight: "1kg", Price: 380 + float64(j)*90},
				},
			}
			_ = db.Create(&p).Error

			// 演示购物车：每家店的第一个商品放一件
			if j == 0 {
				cart := must(cartStore.Get(ctx, customer.ID))
				cart.Items = append(cart.Items, model.CartItem{ProductID: p.ID, Variant: "500g", Quantity: 1})
				_ = cartStore.Save(ctx, cart)
			}
		}
		token := must(middleware.SignToken(cfg.JWT.Secret, shop.ID, model.RoleShop, time.Duration(cfg.JWT.ExpireHr)*time.Hour))
		fmt.Printf("shop %s token: %s\n", shop.Email, token)
	}

	token := must(middleware.SignToken(cfg.JWT.Secret, customer.ID, model.RoleCustomer, time.Duration(cfg.JWT.ExpireHr)*time.Hour))
	fmt.Printf("customer %s token: %s\n", customer.Email, token)
}
