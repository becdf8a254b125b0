package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Mediamoney08/mediamoney-gateway/models"
	"github.com/Mediamoney08/mediamoney-gateway/stores"
	"github.com/Mediamoney08/mediamoney-gateway/utils"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// In-memory sqlite gives each connection its own database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.APIKey{},
		&models.Product{},
		&models.Category{},
		&models.Order{},
		&models.Wallet{},
		&models.Payment{},
		&models.Webhook{},
		&models.UsageLog{},
		&models.Profile{},
		&models.Ticket{},
	))

	return db
}

func newOrderService(t *testing.T, db *gorm.DB) *OrderService {
	t.Helper()
	webhooks := CreateWebhookService(stores.CreateWebhookStore(db))
	return CreateOrderService(
		stores.CreateOrderStore(db),
		stores.CreateProductStore(db),
		stores.CreateWalletStore(db),
		webhooks,
	)
}

func seedProduct(t *testing.T, db *gorm.DB, id string, price int64, stock int) {
	t.Helper()
	require.NoError(t, db.Create(&models.Product{
		ID:            id,
		Name:          "Diamond Pack",
		Price:         price,
		StockQuantity: stock,
		IsActive:      true,
	}).Error)
}

func seedWallet(t *testing.T, db *gorm.DB, userID string, balance int64) {
	t.Helper()
	require.NoError(t, db.Create(&models.Wallet{UserID: userID, Balance: balance}).Error)
}

func TestCreateOrderDebitsWalletAndStock(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	ctx := context.Background()

	seedProduct(t, db, "prod-1", 500, 10)
	seedWallet(t, db, "user-1", 2000)

	resp, err := svc.CreateOrder(ctx, "user-1", &models.CreateOrderRequest{
		ProductID: "prod-1",
		Quantity:  3,
		PlayerID:  "player-99",
	})
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusPending, resp.Status)
	require.Equal(t, int64(1500), resp.TotalAmount)

	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", "prod-1").Error)
	require.Equal(t, 7, product.StockQuantity)

	var wallet models.Wallet
	require.NoError(t, db.First(&wallet, "user_id = ?", "user-1").Error)
	require.Equal(t, int64(500), wallet.Balance)
}

func TestCreateOrderValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, "user-1", &models.CreateOrderRequest{Quantity: 1})
	require.ErrorIs(t, err, utils.ErrValidation)

	_, err = svc.CreateOrder(ctx, "user-1", &models.CreateOrderRequest{ProductID: "prod-1", Quantity: 0})
	require.ErrorIs(t, err, utils.ErrValidation)

	_, err = svc.CreateOrder(ctx, "user-1", &models.CreateOrderRequest{ProductID: "missing", Quantity: 1})
	require.ErrorIs(t, err, utils.ErrNotFound)
}

func TestCreateOrderInactiveProductHidden(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Product{
		ID:            "prod-hidden",
		Name:          "Retired Pack",
		Price:         100,
		StockQuantity: 5,
		IsActive:      false,
	}).Error)
	seedWallet(t, db, "user-1", 1000)

	_, err := svc.CreateOrder(ctx, "user-1", &models.CreateOrderRequest{ProductID: "prod-hidden", Quantity: 1})
	require.ErrorIs(t, err, utils.ErrNotFound)
}

func TestCreateOrderOverselling(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	ctx := context.Background()

	seedProduct(t, db, "prod-1", 100, 1)
	seedWallet(t, db, "user-1", 1000)
	seedWallet(t, db, "user-2", 1000)

	_, err := svc.CreateOrder(ctx, "user-1", &models.CreateOrderRequest{ProductID: "prod-1", Quantity: 1})
	require.NoError(t, err)

	_, err = svc.CreateOrder(ctx, "user-2", &models.CreateOrderRequest{ProductID: "prod-1", Quantity: 1})
	require.ErrorIs(t, err, utils.ErrOutOfStock)

	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", "prod-1").Error)
	require.Equal(t, 0, product.StockQuantity)
}

func TestCreateOrderInsufficientFundsLeavesStateIntact(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	ctx := context.Background()

	seedProduct(t, db, "prod-1", 500, 10)
	seedWallet(t, db, "user-1", 499)

	_, err := svc.CreateOrder(ctx, "user-1", &models.CreateOrderRequest{ProductID: "prod-1", Quantity: 1})
	require.ErrorIs(t, err, utils.ErrInsufficientFunds)

	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", "prod-1").Error)
	require.Equal(t, 10, product.StockQuantity)

	var wallet models.Wallet
	require.NoError(t, db.First(&wallet, "user_id = ?", "user-1").Error)
	require.Equal(t, int64(499), wallet.Balance)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreateOrderNoWallet(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	ctx := context.Background()

	seedProduct(t, db, "prod-1", 500, 10)

	_, err := svc.CreateOrder(ctx, "user-1", &models.CreateOrderRequest{ProductID: "prod-1", Quantity: 1})
	require.ErrorIs(t, err, utils.ErrInsufficientFunds)
}

func TestOrderTotalSurvivesPriceChange(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	ctx := context.Background()

	seedProduct(t, db, "prod-1", 500, 10)
	seedWallet(t, db, "user-1", 2000)

	resp, err := svc.CreateOrder(ctx, "user-1", &models.CreateOrderRequest{ProductID: "prod-1", Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", "prod-1").Update("price", 9999).Error)

	order, err := svc.GetOrder(ctx, resp.OrderID)
	require.NoError(t, err)
	require.Equal(t, int64(500), order.UnitPrice)
	require.Equal(t, int64(1000), order.TotalAmount)
}

func TestCancelOrderRestoresStock(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	ctx := context.Background()

	seedProduct(t, db, "prod-1", 100, 5)
	seedWallet(t, db, "user-1", 1000)

	resp, err := svc.CreateOrder(ctx, "user-1", &models.CreateOrderRequest{ProductID: "prod-1", Quantity: 2})
	require.NoError(t, err)

	cancelled, err := svc.CancelOrder(ctx, resp.OrderID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusCancelled, cancelled.Status)

	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", "prod-1").Error)
	require.Equal(t, 5, product.StockQuantity)

	// Second cancel loses the guarded status flip.
	_, err = svc.CancelOrder(ctx, resp.OrderID)
	require.ErrorIs(t, err, utils.ErrConflict)

	require.NoError(t, db.First(&product, "id = ?", "prod-1").Error)
	require.Equal(t, 5, product.StockQuantity)
}

func TestCompleteOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	ctx := context.Background()

	seedProduct(t, db, "prod-1", 100, 5)
	seedWallet(t, db, "user-1", 1000)

	resp, err := svc.CreateOrder(ctx, "user-1", &models.CreateOrderRequest{ProductID: "prod-1", Quantity: 1})
	require.NoError(t, err)

	order, err := svc.CompleteOrder(ctx, resp.OrderID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusCompleted, order.Status)
	require.NotNil(t, order.CompletedAt)

	// A completed order can no longer be cancelled.
	_, err = svc.CancelOrder(ctx, resp.OrderID)
	require.ErrorIs(t, err, utils.ErrConflict)

	_, err = svc.CompleteOrder(ctx, resp.OrderID)
	require.ErrorIs(t, err, utils.ErrConflict)

	_, err = svc.CompleteOrder(ctx, "missing")
	require.ErrorIs(t, err, utils.ErrNotFound)
}

func TestGetOrderForUserScoping(t *testing.T) {
	db := newTestDB(t)
	svc := newOrderService(t, db)
	ctx := context.Background()

	seedProduct(t, db, "prod-1", 100, 5)
	seedWallet(t, db, "user-1", 1000)

	resp, err := svc.CreateOrder(ctx, "user-1", &models.CreateOrderRequest{ProductID: "prod-1", Quantity: 1})
	require.NoError(t, err)

	_, err = svc.GetOrderForUser(ctx, resp.OrderID, "user-1")
	require.NoError(t, err)

	// Another user's key sees not-found, not forbidden.
	_, err = svc.GetOrderForUser(ctx, resp.OrderID, "user-2")
	require.ErrorIs(t, err, utils.ErrNotFound)

	var ge *utils.GatewayError
	require.True(t, errors.As(err, &ge))
	require.Equal(t, 404, ge.Status)
}
