package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/moldcart/catalog-api/internal/dto"
	"github.com/moldcart/catalog-api/internal/model"
	"github.com/moldcart/catalog-api/internal/repository"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderAccessDenied  = errors.New("access denied")
	ErrInvalidOrderStatus = errors.New("invalid order status")
	ErrInvalidTransition  = errors.New("invalid status transition")
)

type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo, productRepo: productRepo}
}

// Create prices the order against the current catalog and snapshots unit
// prices into the line items. Any unknown product id aborts the whole order
// before anything is persisted.
func (s *OrderService) Create(ctx context.Context, userID int64, req dto.CreateOrderRequest) (*model.Order, error) {
	ids := make([]int64, 0, len(req.OrderItems))
	seen := make(map[int64]bool, len(req.OrderItems))
	for _, item := range req.OrderItems {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}
	productMap := make(map[int64]*model.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	var total decimal.Decimal
	items := make([]model.OrderItem, 0, len(req.OrderItems))
	for _, item := range req.OrderItems {
		product, ok := productMap[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product %d", ErrProductNotFound, item.ProductID)
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		items = append(items, model.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
	}

	order := &model.Order{
		UserID:  userID,
		Total:   total,
		Status:  model.StatusPending,
		Address: req.Address,
		Items:   items,
	}

	// A generated order number can collide with an existing one. Retry once
	// with a fresh number before surfacing the error.
	for attempt := 0; ; attempt++ {
		order.OrderNumber = newOrderNumber()
		err := s.orderRepo.Create(ctx, order)
		if err == nil {
			return order, nil
		}
		if errors.Is(err, repository.ErrDuplicateOrderNumber) && attempt == 0 {
			continue
		}
		return nil, fmt.Errorf("create order: %w", err)
	}
}

// newOrderNumber builds a human-shareable reference independent of the
// primary key.
func newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), suffix)
}

// Get checks existence before ownership: a missing order is 404 for every
// caller, so the status code never tells a non-owner whether an order exists.
func (s *OrderService) Get(ctx context.Context, orderID, userID int64, isAdmin bool) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !isAdmin && order.UserID != userID {
		return nil, ErrOrderAccessDenied
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status string) (*model.Order, error) {
	next := model.OrderStatus(status)
	if !next.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrderStatus, status)
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
	}

	// The write is guarded on the status we just read, so a concurrent update
	// cannot sneak a forbidden transition past the check above.
	if err := s.orderRepo.UpdateStatus(ctx, orderID, order.Status, next); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			current, getErr := s.orderRepo.GetByID(ctx, orderID)
			if getErr == nil && current != nil {
				return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, next)
			}
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}
	order.Status = next
	return order, nil
}

func (s *OrderService) Delete(ctx context.Context, orderID int64) error {
	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}
