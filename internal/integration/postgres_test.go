//go:build integration

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/Skotchmaster/products_api/internal/cache"
	"github.com/Skotchmaster/products_api/internal/db"
	"github.com/Skotchmaster/products_api/internal/identity"
	"github.com/Skotchmaster/products_api/internal/models"
	"github.com/Skotchmaster/products_api/internal/repo"
	"github.com/Skotchmaster/products_api/internal/service"
	"github.com/Skotchmaster/products_api/internal/transport"
)

func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "products",
			"POSTGRES_PASSWORD": "products",
			"POSTGRES_DB":       "products",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("postgres container not available: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://products:products@%s:%s/products?sslmode=disable", host, port.Port())
	gdb, err := db.Open(ctx, "postgres", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

func TestCatalogOnPostgres(t *testing.T) {
	gdb := setupPostgres(t)
	ctx := context.Background()

	svc := &service.CatalogService{
		Repo:  repo.New(gdb),
		Cache: cache.NewProductsCache(time.Minute, nil),
	}

	created, err := svc.CreateProduct(ctx, transport.ProductRequest{Name: "Desk", Price: decimal.RequireFromString("199.99"), StockQuantity: 4})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	require.NoError(t, svc.ReplaceProduct(ctx, created.ID, transport.ProductRequest{
		ID: created.ID, Name: "Desk", Price: decimal.RequireFromString("199.99"), StockQuantity: 4,
	}))

	got, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("199.99").Equal(got.Price))

	err = svc.ReplaceProduct(ctx, created.ID+1000, transport.ProductRequest{ID: created.ID + 1000, Name: "ghost"})
	require.ErrorIs(t, err, repo.ErrProductNotFound)

	items, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Equal(t, []models.Product{*got}, items)
}

func TestExplicitIDKeepsSequenceAhead(t *testing.T) {
	gdb := setupPostgres(t)
	r := repo.New(gdb)
	ctx := context.Background()

	explicit := models.Product{ID: 3, Name: "Product 3", Price: decimal.NewFromInt(30), StockQuantity: 300}
	require.NoError(t, r.CreateProduct(ctx, &explicit))

	for i := 0; i < 5; i++ {
		p := models.Product{Name: fmt.Sprintf("auto %d", i), Price: decimal.NewFromInt(1)}
		require.NoError(t, r.CreateProduct(ctx, &p), "insert %d", i)
		require.Greater(t, p.ID, 3)
	}

	dup := models.Product{ID: 3, Name: "again", Price: decimal.NewFromInt(1)}
	require.ErrorIs(t, r.CreateProduct(ctx, &dup), repo.ErrDuplicateProduct)

	items, err := r.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, items, 6)
}

func TestDuplicateUserNameOnPostgres(t *testing.T) {
	gdb := setupPostgres(t)
	r := repo.New(gdb)
	ctx := context.Background()

	u := &models.User{ID: "11111111-1111-4111-8111-111111111111", UserName: "alice", NormalizedUserName: "ALICE", PasswordHash: "x"}
	require.NoError(t, r.CreateUser(ctx, u))

	// Bypass the pre-check so the unique index is what rejects the row.
	dup := &models.User{ID: "22222222-2222-4222-8222-222222222222", UserName: "Alice", NormalizedUserName: "ALICE", PasswordHash: "x"}
	err := gdb.WithContext(ctx).Create(dup).Error
	require.Error(t, err)

	m := identity.NewManager(r)
	_, res, err := m.CreateUser(ctx, "ALICE", "", "Passw0rd!")
	require.NoError(t, err)
	require.False(t, res.Succeeded)
	require.Equal(t, identity.CodeDuplicateUserName, res.Errors[0].Code)
}
