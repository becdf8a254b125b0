package services

import (
	"context"
	"errors"

	"github.com/Mediamoney08/mediamoney-gateway/models"
	"github.com/Mediamoney08/mediamoney-gateway/stores"
	"github.com/Mediamoney08/mediamoney-gateway/utils"
	"gorm.io/gorm"
)

// CatalogService backs the customer-facing read endpoints: products,
// categories and the caller's wallet balance.
type CatalogService struct {
	products *stores.ProductStore
	wallets  *stores.WalletStore
}

func CreateCatalogService(products *stores.ProductStore, wallets *stores.WalletStore) *CatalogService {
	return &CatalogService{
		products: products,
		wallets:  wallets,
	}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	return s.products.ListActive(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, utils.ErrNotFound
	}
	return product, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.products.ListCategories(ctx)
}

// GetBalance reports zero for users who have never been credited.
func (s *CatalogService) GetBalance(ctx context.Context, userID string) (*models.BalanceResponse, error) {
	wallet, err := s.wallets.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.BalanceResponse{UserID: userID, Balance: 0}, nil
		}
		return nil, err
	}
	return &models.BalanceResponse{UserID: userID, Balance: wallet.Balance}, nil
}
