package services

import (
	"context"
	"errors"

	"github.com/Mediamoney08/mediamoney-gateway/models"
	"github.com/Mediamoney08/mediamoney-gateway/stores"
	"github.com/Mediamoney08/mediamoney-gateway/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderService struct {
	orders   *stores.OrderStore
	products *stores.ProductStore
	wallets  *stores.WalletStore
	webhooks *WebhookService
	log      *utils.Logger
}

func CreateOrderService(orders *stores.OrderStore, products *stores.ProductStore, wallets *stores.WalletStore, webhooks *WebhookService) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		wallets:  wallets,
		webhooks: webhooks,
		log:      utils.NewLogger("orders"),
	}
}

// CreateOrder validates stock and balance, then commits the order insert,
// stock decrement and wallet debit as one transaction. Both mutations carry
// write-time guards; if a concurrent order consumed the stock or balance
// after the pre-checks, the whole transaction rolls back with a retryable
// conflict. Overselling and double-spending are impossible regardless of
// interleaving.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, req *models.CreateOrderRequest) (*models.CreateOrderResponse, error) {
	if req.ProductID == "" {
		return nil, utils.ValidationError("product_id is required")
	}
	if req.Quantity < 1 {
		return nil, utils.ValidationError("quantity must be at least 1")
	}

	product, err := s.products.GetByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, utils.ErrNotFound
	}
	if product.StockQuantity < req.Quantity {
		return nil, utils.ErrOutOfStock
	}

	// Price and total are fixed here; later product price changes never
	// touch an existing order.
	total := product.Price * int64(req.Quantity)

	wallet, err := s.wallets.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrInsufficientFunds
		}
		return nil, err
	}
	if wallet.Balance < total {
		return nil, utils.ErrInsufficientFunds
	}

	order := &models.Order{
		ID:           uuid.NewString(),
		UserID:       userID,
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		UnitPrice:    product.Price,
		TotalAmount:  total,
		Status:       models.OrderStatusPending,
		PlayerID:     req.PlayerID,
		CustomFields: req.CustomFields,
	}

	err = s.orders.WithTransaction(ctx, func(txCtx context.Context) error {
		ok, err := s.products.DecrementStock(txCtx, req.ProductID, req.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return utils.ErrConflict
		}

		ok, err = s.wallets.Debit(txCtx, userID, total)
		if err != nil {
			return err
		}
		if !ok {
			return utils.ErrConflict
		}

		return s.orders.Create(txCtx, order)
	})
	if err != nil {
		return nil, err
	}

	s.webhooks.Dispatch(order.UserID, models.EventOrderCreated, models.JSON{
		"order_id":     order.ID,
		"user_id":      order.UserID,
		"product_id":   order.ProductID,
		"quantity":     order.Quantity,
		"total_amount": order.TotalAmount,
	})

	return &models.CreateOrderResponse{
		OrderID:     order.ID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
	}, nil
}

// CancelOrder releases the reserved stock and flips the order to
// cancelled. The guarded status flip resolves a race against fulfillment
// to exactly one winner; the loser sees a conflict.
func (s *OrderService) CancelOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}

	err = s.orders.WithTransaction(ctx, func(txCtx context.Context) error {
		ok, err := s.orders.MarkCancelled(txCtx, orderID)
		if err != nil {
			return err
		}
		if !ok {
			return utils.ErrConflict
		}
		return s.products.RestoreStock(txCtx, order.ProductID, order.Quantity)
	})
	if err != nil {
		return nil, err
	}

	order.Status = models.OrderStatusCancelled

	s.webhooks.Dispatch(order.UserID, models.EventOrderCancelled, models.JSON{
		"order_id": order.ID,
		"user_id":  order.UserID,
	})

	return order, nil
}

// CompleteOrder is driven by fulfillment through the admin gateway.
func (s *OrderService) CompleteOrder(ctx context.Context, orderID string) (*models.Order, error) {
	ok, err := s.orders.MarkCompleted(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		if _, err := s.orders.GetByID(ctx, orderID); errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, utils.ErrConflict
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.webhooks.Dispatch(order.UserID, models.EventOrderCompleted, models.JSON{
		"order_id":     order.ID,
		"user_id":      order.UserID,
		"product_id":   order.ProductID,
		"total_amount": order.TotalAmount,
	})

	return order, nil
}

func (s *OrderService) GetOrderForUser(ctx context.Context, orderID, userID string) (*models.Order, error) {
	order, err := s.orders.GetByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) ListOrdersForUser(ctx context.Context, userID string, limit, offset int) ([]*models.Order, error) {
	return s.orders.ListByUser(ctx, userID, limit, offset)
}

func (s *OrderService) ListOrders(ctx context.Context, status *models.OrderStatus, limit, offset int) ([]*models.Order, error) {
	return s.orders.List(ctx, status, limit, offset)
}
