package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/products_api/internal/cache"
	"github.com/Skotchmaster/products_api/internal/logging"
	"github.com/Skotchmaster/products_api/internal/models"
	"github.com/Skotchmaster/products_api/internal/mykafka"
	"github.com/Skotchmaster/products_api/internal/repo"
	"github.com/Skotchmaster/products_api/internal/transport"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrIDMismatch     = errors.New("path id does not match body id")
	ErrSearchDisabled = errors.New("search is not configured")
)

// SearchIndex is the optional full-text mirror of the catalog.
type SearchIndex interface {
	IndexProduct(ctx context.Context, product models.Product) error
	DeleteProduct(ctx context.Context, id int) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error)
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Cache  *cache.ProductsCache
	Events mykafka.Publisher
	Search SearchIndex
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	if items, ok := s.Cache.Get(); ok {
		return items, nil
	}

	items, err := s.Repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	s.Cache.Set(items)
	return items, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.ProductRequest) (*models.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	product := req.Product()
	if err := s.Repo.CreateProduct(ctx, &product); err != nil {
		return nil, err
	}
	s.Cache.Invalidate()

	s.afterWrite(ctx, mykafka.EventProductCreated, product)
	return &product, nil
}

// ReplaceProduct overwrites the product at id. A store conflict on a row that
// no longer exists is reported as not found; any other conflict is returned.
func (s *CatalogService) ReplaceProduct(ctx context.Context, id int, req transport.ProductRequest) error {
	if id != req.ID {
		return ErrIDMismatch
	}
	if err := validateProduct(req); err != nil {
		return err
	}

	product := req.Product()
	if err := s.Repo.ReplaceProduct(ctx, &product); err != nil {
		if !errors.Is(err, repo.ErrConcurrencyConflict) {
			return err
		}
		exists, existsErr := s.Repo.ProductExists(ctx, id)
		if existsErr != nil {
			return errors.Join(err, existsErr)
		}
		if !exists {
			return repo.ErrProductNotFound
		}
		return err
	}
	s.Cache.Invalidate()

	s.afterWrite(ctx, mykafka.EventProductUpdated, product)
	return nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.Cache.Invalidate()

	s.afterWrite(ctx, mykafka.EventProductDeleted, models.Product{ID: id})
	return nil
}

func (s *CatalogService) SearchProducts(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	if s.Search == nil {
		return 0, nil, ErrSearchDisabled
	}
	return s.Search.Search(ctx, query, from, size)
}

// afterWrite publishes the change and mirrors it into the search index.
// Failures are logged and never reach the caller.
func (s *CatalogService) afterWrite(ctx context.Context, eventType string, product models.Product) {
	l := logging.FromContext(ctx).With("event", eventType, "product_id", product.ID)

	if s.Events != nil {
		ev := mykafka.ProductEvent{
			Type:          eventType,
			ProductID:     product.ID,
			Name:          product.Name,
			Price:         product.Price,
			StockQuantity: product.StockQuantity,
			OccurredAt:    time.Now().UTC(),
		}
		if err := s.Events.PublishEvent(ctx, mykafka.TopicProducts, strconv.Itoa(product.ID), ev); err != nil {
			l.Warn("publish_event_failed", "reason", "kafka", "error", err)
		}
	}

	if s.Search == nil {
		return
	}
	var err error
	if eventType == mykafka.EventProductDeleted {
		err = s.Search.DeleteProduct(ctx, product.ID)
	} else {
		err = s.Search.IndexProduct(ctx, product)
	}
	if err != nil {
		l.Warn("search_sync_failed", "reason", "elasticsearch", "error", err)
	}
}

func validateProduct(req transport.ProductRequest) error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Price, validation.By(nonNegativeDecimal)),
		validation.Field(&req.StockQuantity, validation.Min(0)),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

func nonNegativeDecimal(value any) error {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return errors.New("must be a decimal")
	}
	if d.IsNegative() {
		return errors.New("must be no less than 0")
	}
	return nil
}
