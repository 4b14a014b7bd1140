package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/RaikyD/order-verification-service/internal/domain"
)

// MemoryOrderRepository — то же самое хранилище без Postgres, для демо-режима
// (пустой DB_STRING) и тестов. Порядок вставки сохраняется через ids.
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	byID   map[int64]domain.Order
	ids    []int64
	nextID int64
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		byID: make(map[int64]domain.Order),
	}
}

func (m *MemoryOrderRepository) AddOrder(_ context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	o.ID = m.nextID
	m.byID[o.ID] = *o
	m.ids = append(m.ids, o.ID)
	return nil
}

func (m *MemoryOrderRepository) GetOrderByID(_ context.Context, id int64) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.byID[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return &o, nil
}

func (m *MemoryOrderRepository) ListOrders(_ context.Context) ([]domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Order, 0, len(m.ids))
	for _, id := range m.ids {
		if o, ok := m.byID[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *MemoryOrderRepository) SaveOrder(_ context.Context, o *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[o.ID]; !ok {
		m.ids = append(m.ids, o.ID)
		if o.ID > m.nextID {
			m.nextID = o.ID
		}
	}
	m.byID[o.ID] = *o
	return nil
}

func (m *MemoryOrderRepository) DeleteOrder(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[id]; !ok {
		return nil
	}
	delete(m.byID, id)
	for i, v := range m.ids {
		if v == id {
			m.ids = append(m.ids[:i], m.ids[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryOrderRepository) ListByClientAndNumber(ctx context.Context, client, number string) ([]domain.Order, error) {
	return m.filter(ctx, func(o domain.Order) bool {
		return o.Client == client && o.Number == number
	})
}

func (m *MemoryOrderRepository) ListByClient(ctx context.Context, client string) ([]domain.Order, error) {
	return m.filter(ctx, func(o domain.Order) bool {
		return o.Client == client
	})
}

func (m *MemoryOrderRepository) TopByPrice(ctx context.Context, limit int) ([]domain.Order, error) {
	all, _ := m.ListOrders(ctx)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Price.GreaterThan(all[j].Price)
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *MemoryOrderRepository) filter(ctx context.Context, keep func(domain.Order) bool) ([]domain.Order, error) {
	all, _ := m.ListOrders(ctx)
	var out []domain.Order
	for _, o := range all {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out, nil
}
