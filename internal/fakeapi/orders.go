package fakeapi

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// ErrOrderNotFound is returned by Load for unknown ids.
var ErrOrderNotFound = errors.New("fakeapi: order not found")

// Order is an accepted order as recorded by the fake service.
type Order struct {
	ID         string
	Email      string
	Phone      string
	Address    string
	Payment    string
	Items      []string
	Total      decimal.Decimal
	AcceptedAt time.Time
}

func (o Order) clone() Order {
	out := o
	out.Items = append([]string{}, o.Items...)
	return out
}

// OrderStore records accepted orders.
type OrderStore interface {
	Save(ctx context.Context, order Order) error
	Load(ctx context.Context, id string) (Order, error)
	List(ctx context.Context) ([]Order, error)
}

// MemoryOrders is an in-memory OrderStore for tests and examples.
type MemoryOrders struct {
	mu     sync.RWMutex
	orders map[string]Order
}

// NewMemoryOrders constructs an empty store.
func NewMemoryOrders() *MemoryOrders {
	return &MemoryOrders{orders: map[string]Order{}}
}

// Save records order, replacing any previous order with the same id.
func (s *MemoryOrders) Save(_ context.Context, order Order) error {
	if order.ID == "" {
		return errors.New("fakeapi: order id is required")
	}
	s.mu.Lock()
	s.orders[order.ID] = order.clone()
	s.mu.Unlock()
	return nil
}

// Load returns the order stored under id.
func (s *MemoryOrders) Load(_ context.Context, id string) (Order, error) {
	s.mu.RLock()
	order, ok := s.orders[id]
	s.mu.RUnlock()
	if !ok {
		return Order{}, ErrOrderNotFound
	}
	return order.clone(), nil
}

// List returns every order, oldest first.
func (s *MemoryOrders) List(_ context.Context) ([]Order, error) {
	s.mu.RLock()
	out := make([]Order, 0, len(s.orders))
	for _, order := range s.orders {
		out = append(out, order.clone())
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].AcceptedAt.Equal(out[j].AcceptedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].AcceptedAt.Before(out[j].AcceptedAt)
	})
	return out, nil
}
