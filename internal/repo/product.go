package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/products_api/internal/models"
)

func (r *GormRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	items := make([]models.Product, 0)
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts prod. A caller-chosen id that is already taken is
// reported as ErrDuplicateProduct. On postgres an explicit id also moves the
// id sequence past the highest stored id so later inserts without an id do
// not collide with it.
func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	explicitID := prod.ID != 0
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(prod).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("create product %d: %w", prod.ID, ErrDuplicateProduct)
			}
			return err
		}
		if explicitID && tx.Dialector.Name() == "postgres" {
			return syncProductIDSequence(tx)
		}
		return nil
	})
}

func syncProductIDSequence(tx *gorm.DB) error {
	err := tx.Exec(`SELECT setval(pg_get_serial_sequence('products', 'id'), (SELECT COALESCE(MAX(id), 1) FROM products))`).Error
	if err != nil {
		return fmt.Errorf("sync product id sequence: %w", err)
	}
	return nil
}

// ReplaceProduct overwrites every column of the row keyed by prod.ID. An
// update that matches no row is reported as ErrConcurrencyConflict.
func (r *GormRepo) ReplaceProduct(ctx context.Context, prod *models.Product) error {
	res := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", prod.ID).
		Select("name", "price", "stock_quantity").
		Updates(prod)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("replace product %d: %w", prod.ID, ErrConcurrencyConflict)
	}
	return nil
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id int) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *GormRepo) ProductExists(ctx context.Context, id int) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
