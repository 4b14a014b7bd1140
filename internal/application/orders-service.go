package application

import (
	"context"

	"github.com/RaikyD/order-verification-service/internal/domain"
	"github.com/RaikyD/order-verification-service/internal/logger"
	"github.com/RaikyD/order-verification-service/internal/repository"
)

// VerificationQueue — неблокирующая постановка заказа на асинхронную
// верификацию (реализуется verification.Worker)
type VerificationQueue interface {
	Submit(o domain.Order)
}

type OrdersService struct {
	repo  repository.OrderRepo
	queue VerificationQueue
}

func NewOrdersService(r repository.OrderRepo, q VerificationQueue) *OrdersService {
	return &OrdersService{repo: r, queue: q}
}

// CreateOrder сохраняет заказ и ставит его в очередь верификации.
// Ответ клиенту не ждёт вердикта: статус в этот момент всегда
// "not verified", id назначен хранилищем.
func (s *OrdersService) CreateOrder(ctx context.Context, o *domain.Order) error {
	o.ID = 0
	o.Status = domain.StatusNotVerified

	if err := s.repo.AddOrder(ctx, o); err != nil {
		logger.Warn("Error while adding order", "err", err)
		return err
	}

	s.queue.Submit(*o)
	return nil
}

func (s *OrdersService) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetOrderByID(ctx, id)
}

func (s *OrdersService) List(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListOrders(ctx)
}

// Save перезаписывает запись как есть, включая статус, если его выставил
// вызывающий
func (s *OrdersService) Save(ctx context.Context, o *domain.Order) error {
	return s.repo.SaveOrder(ctx, o)
}

func (s *OrdersService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteOrder(ctx, id)
}

func (s *OrdersService) FindByClientAndNumber(ctx context.Context, client, number string) ([]domain.Order, error) {
	return s.repo.ListByClientAndNumber(ctx, client, number)
}

func (s *OrdersService) FindByClient(ctx context.Context, client string) ([]domain.Order, error) {
	return s.repo.ListByClient(ctx, client)
}

func (s *OrdersService) TopTwoByPrice(ctx context.Context) ([]domain.Order, error) {
	return s.repo.TopByPrice(ctx, 2)
}
