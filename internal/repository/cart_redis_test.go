package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/fresh-market/internal/model"
)

func setupCartStore(t *testing.T) CartStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCartStore(client)
}

func TestCartStore_RoundTrip(t *testing.T) {
	store := setupCartStore(t)
	ctx := context.Background()

	// 不存在时返回空车
	cart, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", cart.User)
	assert.Empty(t, cart.Items)

	cart.Items = append(cart.Items,
		model.CartItem{ProductID: "p1", Variant: "500g", Quantity: 2},
		model.CartItem{ProductID: "p2", Variant: "1kg", Quantity: 1},
	)
	require.NoError(t, store.Save(ctx, cart))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "p1", got.Items[0].ProductID)
	assert.Equal(t, 2, got.Items[0].Quantity)
}

func TestCartStore_Clear(t *testing.T) {
	store := setupCartStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &model.Cart{
		User:  "u1",
		Items: []model.CartItem{{ProductID: "p1", Variant: "500g", Quantity: 1}},
	}))
	require.NoError(t, store.Clear(ctx, "u1"))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got.Items)

	// 清空不存在的购物车也不报错
	require.NoError(t, store.Clear(ctx, "nobody"))
}
