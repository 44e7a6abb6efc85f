package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/products_api/internal/cache"
	"github.com/Skotchmaster/products_api/internal/db"
	"github.com/Skotchmaster/products_api/internal/models"
	"github.com/Skotchmaster/products_api/internal/mykafka"
	"github.com/Skotchmaster/products_api/internal/repo"
	"github.com/Skotchmaster/products_api/internal/transport"
)

func newCatalog(t *testing.T) (*CatalogService, *recordingPublisher, *fakeIndex) {
	t.Helper()
	r := repo.New(db.OpenTest(t))
	ctx := context.Background()
	for _, p := range []models.Product{
		{ID: 1, Name: "Product 1", Price: decimal.NewFromInt(10), StockQuantity: 100},
		{ID: 2, Name: "Product 2", Price: decimal.NewFromInt(20), StockQuantity: 200},
	} {
		p := p
		require.NoError(t, r.CreateProduct(ctx, &p))
	}

	pub := &recordingPublisher{}
	idx := newFakeIndex()
	svc := &CatalogService{
		Repo:   r,
		Cache:  cache.NewProductsCache(time.Minute, nil),
		Events: pub,
		Search: idx,
	}
	return svc, pub, idx
}

func TestListProductsServesCachedSnapshot(t *testing.T) {
	svc, _, _ := newCatalog(t)
	ctx := context.Background()

	first, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)

	extra := models.Product{ID: 9, Name: "Direct", Price: decimal.NewFromInt(1)}
	require.NoError(t, svc.Repo.CreateProduct(ctx, &extra))

	second, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Equal(t, first, second)

	first[0].Name = "changed by caller"
	third, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Equal(t, "Product 1", third[0].Name)
}

func TestWritesInvalidateCache(t *testing.T) {
	svc, _, _ := newCatalog(t)
	ctx := context.Background()

	_, err := svc.ListProducts(ctx)
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, transport.ProductRequest{ID: 3, Name: "Product 3", Price: decimal.NewFromInt(30), StockQuantity: 300})
	require.NoError(t, err)

	items, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)

	require.NoError(t, svc.DeleteProduct(ctx, 1))
	items, err = svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, 2, items[0].ID)
}

func TestCreateProduct(t *testing.T) {
	svc, pub, idx := newCatalog(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, transport.ProductRequest{Name: "Auto", Price: decimal.RequireFromString("4.50"), StockQuantity: 1})
	require.NoError(t, err)
	require.NotZero(t, p.ID)

	require.Len(t, pub.events, 1)
	require.Equal(t, mykafka.TopicProducts, pub.events[0].Topic)
	ev := pub.events[0].Event.(mykafka.ProductEvent)
	require.Equal(t, mykafka.EventProductCreated, ev.Type)
	require.Equal(t, p.ID, ev.ProductID)
	require.Contains(t, idx.docs, p.ID)
}

func TestCreateProductValidation(t *testing.T) {
	svc, pub, _ := newCatalog(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, transport.ProductRequest{Name: "Bad", Price: decimal.NewFromInt(-1)})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateProduct(ctx, transport.ProductRequest{Name: "Bad", Price: decimal.NewFromInt(1), StockQuantity: -3})
	require.ErrorIs(t, err, ErrValidation)

	require.Empty(t, pub.events)
}

func TestReplaceProduct(t *testing.T) {
	svc, pub, idx := newCatalog(t)
	ctx := context.Background()

	err := svc.ReplaceProduct(ctx, 1, transport.ProductRequest{ID: 2, Name: "x"})
	require.ErrorIs(t, err, ErrIDMismatch)

	err = svc.ReplaceProduct(ctx, 1, transport.ProductRequest{ID: 1, Name: "Updated", Price: decimal.NewFromInt(15), StockQuantity: 0})
	require.NoError(t, err)

	got, err := svc.GetProduct(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Updated", got.Name)
	require.True(t, decimal.NewFromInt(15).Equal(got.Price))
	require.Zero(t, got.StockQuantity)

	other, err := svc.GetProduct(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, "Product 2", other.Name)

	require.Len(t, pub.events, 1)
	require.Equal(t, mykafka.EventProductUpdated, pub.events[0].Event.(mykafka.ProductEvent).Type)
	require.Equal(t, "Updated", idx.docs[1].Name)
}

func TestReplaceMissingProduct(t *testing.T) {
	svc, _, _ := newCatalog(t)

	err := svc.ReplaceProduct(context.Background(), 42, transport.ProductRequest{ID: 42, Name: "ghost"})
	require.ErrorIs(t, err, repo.ErrProductNotFound)
}

func TestDeleteProduct(t *testing.T) {
	svc, pub, idx := newCatalog(t)
	ctx := context.Background()

	require.NoError(t, svc.DeleteProduct(ctx, 1))
	_, err := svc.GetProduct(ctx, 1)
	require.ErrorIs(t, err, repo.ErrProductNotFound)
	require.Equal(t, []int{1}, idx.deleted)
	require.Equal(t, "1", pub.events[0].Key)

	require.ErrorIs(t, svc.DeleteProduct(ctx, 1), repo.ErrProductNotFound)
}

func TestSideEffectFailuresDoNotFailWrites(t *testing.T) {
	svc, pub, idx := newCatalog(t)
	pub.err = errBroker
	idx.err = errBroker

	_, err := svc.CreateProduct(context.Background(), transport.ProductRequest{Name: "Still saved", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
}

func TestSearchProducts(t *testing.T) {
	svc, _, idx := newCatalog(t)
	idx.docs[1] = models.Product{ID: 1, Name: "Product 1"}

	total, items, err := svc.SearchProducts(context.Background(), "Product 1", 0, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, 1, items[0].ID)

	svc.Search = nil
	_, _, err = svc.SearchProducts(context.Background(), "Product 1", 0, 10)
	require.ErrorIs(t, err, ErrSearchDisabled)
}

// forceUpdateConflict makes every UPDATE on gdb report zero affected rows, the
// shape a lost race on an existing row takes.
func forceUpdateConflict(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	err := gdb.Callback().Update().After("gorm:update").Register("test:zero_rows", func(tx *gorm.DB) {
		tx.RowsAffected = 0
	})
	require.NoError(t, err)
}

func TestReplaceConflictOnExistingRowIsReturned(t *testing.T) {
	svc, pub, idx := newCatalog(t)
	ctx := context.Background()
	forceUpdateConflict(t, svc.Repo.DB)

	_, err := svc.ListProducts(ctx)
	require.NoError(t, err)

	err = svc.ReplaceProduct(ctx, 1, transport.ProductRequest{ID: 1, Name: "Lost race", Price: decimal.NewFromInt(1)})
	require.ErrorIs(t, err, repo.ErrConcurrencyConflict)
	require.NotErrorIs(t, err, repo.ErrProductNotFound)

	require.Empty(t, pub.events)
	require.Empty(t, idx.docs)
	_, cached := svc.Cache.Get()
	require.True(t, cached)
}
