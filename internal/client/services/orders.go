package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/restorder/internal/client/client"
	"github.com/dmitrijs2005/restorder/internal/client/models"
	"github.com/dmitrijs2005/restorder/internal/common"
)

type OrderService interface {
	MyOrders(ctx context.Context) ([]models.Order, error)
	AdminOrders(ctx context.Context, page int, search string) (*models.OrderPage, error)
	// UpdateStatus moves current to status when the lifecycle allows it.
	UpdateStatus(ctx context.Context, current models.Order, status models.OrderStatus) (*models.Order, error)
	// Reorder adds every line of o that carries a menu snapshot to the cart
	// and returns how many lines were added.
	Reorder(ctx context.Context, o models.Order) (int, error)
}

type orderService struct {
	api      client.OrderAPI
	guard    Guard
	cart     CartStore
	pageSize int
}

func NewOrderService(api client.OrderAPI, guard Guard, cart CartStore, pageSize int) OrderService {
	if pageSize < 1 {
		pageSize = 20
	}
	return &orderService{api: api, guard: guard, cart: cart, pageSize: pageSize}
}

func (s *orderService) MyOrders(ctx context.Context) ([]models.Order, error) {
	if _, err := s.guard.RequireUser(); err != nil {
		return nil, err
	}
	list, err := s.api.MyOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list my orders: %w", err)
	}
	return list, nil
}

func (s *orderService) AdminOrders(ctx context.Context, page int, search string) (*models.OrderPage, error) {
	if _, err := s.guard.RequireAdmin(); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	p, err := s.api.AdminOrders(ctx, page, s.pageSize, search)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return p, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, current models.Order, status models.OrderStatus) (*models.Order, error) {
	if _, err := s.guard.RequireAdmin(); err != nil {
		return nil, err
	}
	if !current.Status.CanTransition(status) {
		return nil, fmt.Errorf("%w: %s -> %s", common.ErrInvalidTransition, current.Status, status)
	}
	o, err := s.api.UpdateOrderStatus(ctx, current.ID, status)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return o, nil
}

func (s *orderService) Reorder(ctx context.Context, o models.Order) (int, error) {
	if _, err := s.guard.RequireUser(); err != nil {
		return 0, err
	}
	added := 0
	for _, it := range o.Items {
		if it.MenuItem == nil || it.MenuItem.ID == "" {
			continue
		}
		s.cart.AddItem(ctx, *it.MenuItem, it.Quantity)
		added++
	}
	return added, nil
}
