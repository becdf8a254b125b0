package stores

import (
	"context"

	"github.com/Mediamoney08/mediamoney-gateway/models"
	"gorm.io/gorm"
)

type ProductStore struct {
	BaseStore
}

func CreateProductStore(db *gorm.DB) *ProductStore {
	return &ProductStore{BaseStore: BaseStore{db: db}}
}

func (s *ProductStore) Create(ctx context.Context, product *models.Product) error {
	return s.GetDB(ctx).Create(product).Error
}

func (s *ProductStore) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := s.GetDB(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductStore) ListActive(ctx context.Context) ([]*models.Product, error) {
	var products []*models.Product
	if err := s.GetDB(ctx).Where("is_active = ?", true).Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ProductStore) ListCategories(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	if err := s.GetDB(ctx).Where("is_active = ?", true).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// DecrementStock subtracts quantity only while enough stock remains at
// write time. A false return means a concurrent order consumed the stock
// first; the caller must abort its transaction.
func (s *ProductStore) DecrementStock(ctx context.Context, id string, quantity int) (bool, error) {
	result := s.GetDB(ctx).Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *ProductStore) RestoreStock(ctx context.Context, id string, quantity int) error {
	return s.GetDB(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", quantity)).Error
}
