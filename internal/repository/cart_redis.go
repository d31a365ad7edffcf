package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/fresh-market/internal/model"
)

// CartStore 购物车存储（外部协作方边界）
// 订单核心只在 checkout 下单后调用 Clear；Get/Save 供结算前物化与种子工具使用
type CartStore interface {
	Get(ctx context.Context, userID string) (*model.Cart, error)
	Save(ctx context.Context, cart *model.Cart) error
	Clear(ctx context.Context, userID string) error
}

// redisCartStore 购物车以 JSON 快照存 redis，key = cart:<userID>
type redisCartStore struct {
	client *redis.Client
}

func NewCartStore(client *redis.Client) CartStore {
	return &redisCartStore{client: client}
}

func cartKey(userID string) string { return fmt.Sprintf("cart:%s", userID) }

// Get 读购物车；不存在时返回空车（不报错）
func (s *redisCartStore) Get(ctx context.Context, userID string) (*model.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(userID)).Bytes()
	if err == redis.Nil {
		return &model.Cart{User: userID, Items: []model.CartItem{}}, nil
	}
	if err != nil {
		return nil, err
	}
	var cart model.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (s *redisCartStore) Save(ctx context.Context, cart *model.Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, cartKey(cart.User), payload, 0).Err()
}

func (s *redisCartStore) Clear(ctx context.Context, userID string) error {
	return s.client.Del(ctx, cartKey(userID)).Err()
}
