package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackofish/market/internal/cart/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client), mr
}

func TestLoad_Success(t *testing.T) {
	s, mr := setupTestStore(t)
	ctx := context.Background()

	items := []domain.LineItem{
		{ID: "p1:none", ProductID: "p1", Name: "דניס", Price: 70, OriginalPrice: 70, Quantity: 2, Unit: domain.UnitKG},
	}
	data, err := json.Marshal(items)
	require.NoError(t, err)
	require.NoError(t, mr.Set(cartKey("sess-1"), string(data)))

	loaded, err := s.Load(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "p1:none", loaded[0].ID)
	assert.Equal(t, 2, loaded[0].Quantity)
}

func TestLoad_Missing(t *testing.T) {
	s, _ := setupTestStore(t)

	items, err := s.Load(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, items)
}

func TestLoad_MalformedJSON(t *testing.T) {
	s, mr := setupTestStore(t)
	require.NoError(t, mr.Set(cartKey("sess-1"), "{not json"))

	_, err := s.Load(context.Background(), "sess-1")
	require.ErrorContains(t, err, "unmarshal cart failed")
}

func TestLoad_ObjectInsteadOfArray(t *testing.T) {
	s, mr := setupTestStore(t)
	require.NoError(t, mr.Set(cartKey("sess-1"), `{"id":"p1:none"}`))

	_, err := s.Load(context.Background(), "sess-1")
	require.ErrorContains(t, err, "unmarshal cart failed")
}

func TestSave_RoundTrip(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	items := []domain.LineItem{
		{ID: "p1:SLICED", ProductID: "p1", Name: "לברק", Price: 60, OriginalPrice: 60, Quantity: 1, Unit: domain.UnitKG},
		{ID: "p2:none", ProductID: "p2", Name: "שרימפס", Price: 80, OriginalPrice: 80, Quantity: 3, Unit: domain.UnitUnit},
	}
	require.NoError(t, s.Save(ctx, "sess-2", items))

	loaded, err := s.Load(ctx, "sess-2")
	require.NoError(t, err)
	assert.Equal(t, items, loaded)
}

func TestSave_NilItemsStoredAsEmptyArray(t *testing.T) {
	s, mr := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "sess-3", nil))

	raw, err := mr.Get(cartKey("sess-3"))
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)

	loaded, err := s.Load(ctx, "sess-3")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestSave_SetsTTL(t *testing.T) {
	s, mr := setupTestStore(t)

	require.NoError(t, s.Save(context.Background(), "sess-4", []domain.LineItem{}))
	assert.Greater(t, mr.TTL(cartKey("sess-4")).Hours(), 0.0)
}

func TestDelete(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "sess-5", []domain.LineItem{{ID: "p1:none", ProductID: "p1", Quantity: 1}}))
	require.NoError(t, s.Delete(ctx, "sess-5"))

	_, err := s.Load(ctx, "sess-5")
	assert.ErrorIs(t, err, ErrNotFound)
}
