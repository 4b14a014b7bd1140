package application_test

import (
	"context"
	"os"
	"testing"

	"github.com/RaikyD/order-verification-service/internal/application"
	"github.com/RaikyD/order-verification-service/internal/domain"
	"github.com/RaikyD/order-verification-service/internal/logger"
	"github.com/RaikyD/order-verification-service/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type queueStub struct {
	submitted []domain.Order
}

func (q *queueStub) Submit(o domain.Order) {
	q.submitted = append(q.submitted, o)
}

func newService() (*application.OrdersService, *queueStub) {
	queue := &queueStub{}
	return application.NewOrdersService(repository.NewMemoryOrderRepository(), queue), queue
}

func create(t *testing.T, svc *application.OrdersService, number, client string, price int64) domain.Order {
	o := domain.Order{Number: number, Client: client, Price: decimal.NewFromInt(price)}
	require.NoError(t, svc.CreateOrder(context.Background(), &o))
	return o
}

func TestCreateOrderForcesInitialStatus(t *testing.T) {
	svc, queue := newService()

	o := domain.Order{
		ID:     777,
		Number: "N1",
		Client: "alice",
		Price:  decimal.NewFromInt(100),
		Status: domain.StatusAccepted,
	}
	require.NoError(t, svc.CreateOrder(context.Background(), &o))

	assert.Equal(t, int64(1), o.ID)
	assert.Equal(t, domain.StatusNotVerified, o.Status)

	// в очередь ушёл снапшот уже сохранённого заказа
	require.Len(t, queue.submitted, 1)
	assert.Equal(t, o, queue.submitted[0])
}

func TestFindByClientAndNumber(t *testing.T) {
	svc, _ := newService()
	create(t, svc, "N1", "alice", 10)
	want := create(t, svc, "N2", "alice", 20)
	create(t, svc, "N2", "bob", 30)

	got, err := svc.FindByClientAndNumber(context.Background(), "alice", "N2")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, want.ID, got[0].ID)

	byClient, err := svc.FindByClient(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, byClient, 2)
}

func TestTopTwoByPrice(t *testing.T) {
	svc, _ := newService()
	create(t, svc, "N1", "alice", 10)
	top1 := create(t, svc, "N2", "bob", 300)
	top2 := create(t, svc, "N3", "carol", 200)

	got, err := svc.TopTwoByPrice(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, top1.ID, got[0].ID)
	assert.Equal(t, top2.ID, got[1].ID)
}
