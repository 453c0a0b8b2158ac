package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acadrepo/internal/model"
	"acadrepo/internal/repository"
)

func seedProducts(t *testing.T, repo *RecordMemory[*model.Product], n int) time.Time {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		typ := "Articles"
		if i%2 == 1 {
			typ = "Books"
		}
		require.NoError(t, repo.Create(context.Background(), &model.Product{
			Meta:        model.Meta{ID: fmt.Sprintf("p%02d", i), CreatedAt: at, UpdatedAt: at},
			Title:       fmt.Sprintf("Title %d", i),
			ProductType: typ,
		}))
	}
	return base
}

func TestRecordMemory_ListOrderAndPaging(t *testing.T) {
	repo := NewProductMemory()
	seedProducts(t, repo, 5)
	ctx := context.Background()

	res, err := repo.List(ctx, model.Filter{}, repository.PageQuery{Limit: 2, Offset: 0})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "p04", res.Items[0].ID)
	assert.Equal(t, "p03", res.Items[1].ID)

	res, err = repo.List(ctx, model.Filter{}, repository.PageQuery{Limit: 2, Offset: 4})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "p00", res.Items[0].ID)

	res, err = repo.List(ctx, model.Filter{Type: "Books"}, repository.PageQuery{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)

	res, err = repo.List(ctx, model.Filter{}, repository.PageQuery{Limit: 20, Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Total)
	assert.Empty(t, res.Items)
}

func TestRecordMemory_UpdateKeepsSlotsAndCounters(t *testing.T) {
	repo := NewProductMemory()
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, &model.Product{
		Meta:         model.Meta{ID: "p1", CreatedAt: created, UpdatedAt: created},
		Title:        "old",
		DocumentFile: "p1_document.pdf",
	}))
	_, err := repo.Increment(ctx, "p1", model.CounterViews)
	require.NoError(t, err)

	err = repo.Update(ctx, &model.Product{
		Meta:  model.Meta{ID: "p1", CreatedAt: created.Add(time.Hour), UpdatedAt: created.Add(time.Hour)},
		Title: "new",
	})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "p1_document.pdf", got.DocumentFile)
	assert.Equal(t, int64(1), got.ViewCount)
	assert.Equal(t, created, got.CreatedAt)

	assert.ErrorIs(t, repo.Update(ctx, &model.Product{Meta: model.Meta{ID: "ghost"}}), repository.ErrNotFound)
}

func TestRecordMemory_ReturnsCopies(t *testing.T) {
	repo := NewProductMemory()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &model.Product{Meta: model.Meta{ID: "p1"}, Authors: model.StringList{"A"}}))

	got, err := repo.FindByID(ctx, "p1")
	require.NoError(t, err)
	got.Authors[0] = "mutated"

	again, err := repo.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "A", again.Authors[0])
}

func TestRecordMemory_ConcurrentIncrement(t *testing.T) {
	repo := NewProductMemory()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &model.Product{Meta: model.Meta{ID: "p1"}}))

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.Increment(ctx, "p1", model.CounterDownloads)
		}()
	}
	wg.Wait()

	got, err := repo.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(n), got.DownloadCount)
}

func TestRecordMemory_SlotAndCounterErrors(t *testing.T) {
	repo := NewNewsMemory()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &model.News{Meta: model.Meta{ID: "n1"}}))

	assert.Error(t, repo.SetAttachment(ctx, "n1", model.RoleAudio, "x.wav"))
	assert.ErrorIs(t, repo.SetAttachment(ctx, "ghost", model.RoleImage, "x.png"), repository.ErrNotFound)
	_, err := repo.Increment(ctx, "n1", model.CounterViews)
	assert.Error(t, err)

	require.NoError(t, repo.Delete(ctx, "n1"))
	assert.ErrorIs(t, repo.Delete(ctx, "n1"), repository.ErrNotFound)
	require.NoError(t, repo.Create(ctx, &model.News{Meta: model.Meta{ID: "n2"}}))
	assert.ErrorIs(t, repo.Create(ctx, &model.News{Meta: model.Meta{ID: "n2"}}), repository.ErrConflict)
}

func TestRecordMemory_Summary(t *testing.T) {
	repo := NewProductMemory()
	seedProducts(t, repo, 5)

	s, err := repo.Summary(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, map[string]int{"Articles": 3, "Books": 2}, s.ByType)
	require.Len(t, s.Recent, 3)
	assert.Equal(t, "p04", s.Recent[0].ID)
	assert.Equal(t, "Title 4", s.Recent[0].Title)

	empty, err := NewExtensaoMemory().Summary(context.Background(), 3)
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
	assert.NotNil(t, empty.ByType)
	assert.NotNil(t, empty.Recent)
}

func TestPrincipalMemory(t *testing.T) {
	repo := NewPrincipalMemory()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Principal{ID: "u1", Username: "ana", PasswordHash: "h1"}))
	assert.ErrorIs(t, repo.Create(ctx, &model.Principal{ID: "u2", Username: "ana"}), repository.ErrConflict)

	require.NoError(t, repo.Upsert(ctx, &model.Principal{ID: "u3", Username: "ana", PasswordHash: "h2"}))
	p, err := repo.FindByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, "h2", p.PasswordHash)

	require.NoError(t, repo.UpdatePassword(ctx, "ana", "h3"))
	assert.ErrorIs(t, repo.UpdatePassword(ctx, "bob", "h"), repository.ErrNotFound)
	_, err = repo.FindByUsername(ctx, "bob")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
