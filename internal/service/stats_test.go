package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"acadrepo/internal/apperror"
	"acadrepo/internal/model"
	"acadrepo/internal/repository/memory"
	repoMocks "acadrepo/internal/repository/mocks"
)

func TestStatsService_EmptyCollections(t *testing.T) {
	svc := NewStatsService(memory.NewProductMemory(), memory.NewNewsMemory(), memory.NewEnsinoMemory(), memory.NewExtensaoMemory())

	s, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))

	for _, k := range []string{"total_products", "total_news", "total_ensino", "total_extensao"} {
		assert.Equal(t, float64(0), out[k], k)
	}
	for _, k := range []string{"product_types", "news_categories", "ensino_types", "extensao_types"} {
		assert.Equal(t, map[string]any{}, out[k], k)
	}
	for _, k := range []string{"recent_products", "recent_news", "recent_ensino", "recent_extensao"} {
		assert.Equal(t, []any{}, out[k], k)
	}
}

func TestStatsService_Rollup(t *testing.T) {
	ctx := context.Background()
	products := memory.NewProductMemory()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, typ := range []string{"Articles", "Articles", "Books", "Projects"} {
		at := base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, products.Create(ctx, &model.Product{
			Meta:        model.Meta{ID: string(rune('a' + i)), CreatedAt: at, UpdatedAt: at},
			Title:       typ,
			ProductType: typ,
		}))
	}
	news := memory.NewNewsMemory()
	require.NoError(t, news.Create(ctx, &model.News{Meta: model.Meta{ID: "n1"}, Title: "N", Category: "Geral"}))

	svc := NewStatsService(products, news, memory.NewEnsinoMemory(), memory.NewExtensaoMemory())
	s, err := svc.Snapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, s.TotalProducts)
	assert.Equal(t, 1, s.TotalNews)
	assert.Equal(t, map[string]int{"Articles": 2, "Books": 1, "Projects": 1}, s.ProductTypes)
	assert.Equal(t, map[string]int{"Geral": 1}, s.NewsCategories)
	require.Len(t, s.RecentProducts, 3)
	assert.Equal(t, "d", s.RecentProducts[0].ID)
	assert.Empty(t, s.RecentEnsino)
}

func TestStatsService_SourceError(t *testing.T) {
	failing := new(repoMocks.MockRecordRepository[*model.Ensino])
	failing.On("Summary", mock.Anything, 3).Return(nil, errors.New("db down"))

	svc := NewStatsService(memory.NewProductMemory(), memory.NewNewsMemory(), failing, memory.NewExtensaoMemory())
	_, err := svc.Snapshot(context.Background())

	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}
