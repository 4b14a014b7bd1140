package verification_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/RaikyD/order-verification-service/internal/domain"
	"github.com/RaikyD/order-verification-service/internal/logger"
	"github.com/RaikyD/order-verification-service/internal/repository"
	"github.com/RaikyD/order-verification-service/internal/status"
	"github.com/RaikyD/order-verification-service/internal/verification"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

const (
	waitFor = 3 * time.Second
	tick    = 10 * time.Millisecond
)

// настоящий классификатор за httptest-сервером
func realStatusServer() *httptest.Server {
	r := chi.NewRouter()
	status.NewHandler().Register(r)
	return httptest.NewServer(r)
}

func newWorker(t *testing.T, statusURL string) (*verification.Worker, *repository.MemoryOrderRepository) {
	repo := repository.NewMemoryOrderRepository()
	client := verification.NewStatusClient(statusURL, 2*time.Second)
	w := verification.NewWorker(repo, client, 0)
	w.Start()
	t.Cleanup(w.Stop)
	return w, repo
}

func createOrder(t *testing.T, repo repository.OrderRepo, number, client string, price int64) domain.Order {
	o := domain.Order{
		Number: number,
		Client: client,
		Price:  decimal.NewFromInt(price),
		Status: domain.StatusNotVerified,
	}
	require.NoError(t, repo.AddOrder(context.Background(), &o))
	return o
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func storedStatus(t *testing.T, repo repository.OrderRepo, id int64) string {
	o, err := repo.GetOrderByID(context.Background(), id)
	require.NoError(t, err)
	return o.Status
}

func TestWorkerRejectsJanusz(t *testing.T) {
	srv := realStatusServer()
	defer srv.Close()

	w, repo := newWorker(t, srv.URL+"/status")
	o := createOrder(t, repo, "N1", "janusz", 100)
	w.Submit(o)

	assert.Eventually(t, func() bool {
		return storedStatus(t, repo, o.ID) == domain.StatusRejected
	}, waitFor, tick)

	// остальные поля не тронуты
	got, err := repo.GetOrderByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, "N1", got.Number)
	assert.Equal(t, "janusz", got.Client)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(100)))
}

func TestWorkerAcceptsStubbedVerdict(t *testing.T) {
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"accepted"}`))
	}))
	defer stub.Close()

	w, repo := newWorker(t, stub.URL)
	o := createOrder(t, repo, "N1", "alice", 100)
	w.Submit(o)

	assert.Eventually(t, func() bool {
		return storedStatus(t, repo, o.ID) == domain.StatusAccepted
	}, waitFor, tick)
}

func TestWorkerAbandonsTaskOnServerError(t *testing.T) {
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer stub.Close()

	w, repo := newWorker(t, stub.URL)
	o := createOrder(t, repo, "N1", "alice", 100)
	w.Submit(o)

	// вердикт так и не приходит, статус не меняется
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, domain.StatusNotVerified, storedStatus(t, repo, o.ID))
}

func TestWorkerAbandonsTaskOnNetworkError(t *testing.T) {
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	stub.Close() // соединение будет отклоняться

	w, repo := newWorker(t, stub.URL)
	o := createOrder(t, repo, "N1", "alice", 100)
	w.Submit(o)

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, domain.StatusNotVerified, storedStatus(t, repo, o.ID))
}

func TestWorkerAbandonsTaskOnUnknownVerdict(t *testing.T) {
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"maybe"}`))
	}))
	defer stub.Close()

	w, repo := newWorker(t, stub.URL)
	o := createOrder(t, repo, "N1", "alice", 100)
	w.Submit(o)

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, domain.StatusNotVerified, storedStatus(t, repo, o.ID))
}

func TestWorkerFailureDoesNotStopLane(t *testing.T) {
	// первый запрос падает, последующие обрабатываются нормально
	var mu sync.Mutex
	calls := 0
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"accepted"}`))
	}))
	defer stub.Close()

	w, repo := newWorker(t, stub.URL)
	bad := createOrder(t, repo, "N1", "alice", 100)
	good := createOrder(t, repo, "N2", "bob", 200)
	w.Submit(bad)
	w.Submit(good)

	assert.Eventually(t, func() bool {
		return storedStatus(t, repo, good.ID) == domain.StatusAccepted
	}, waitFor, tick)
	assert.Equal(t, domain.StatusNotVerified, storedStatus(t, repo, bad.ID))
}

func TestWorkerProcessesInCreationOrder(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Client string `json:"client"`
		}
		_ = decodeBody(r, &req)
		mu.Lock()
		seen = append(seen, req.Client)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"accepted"}`))
	}))
	defer stub.Close()

	w, repo := newWorker(t, stub.URL)
	var last domain.Order
	for _, client := range []string{"c1", "c2", "c3"} {
		last = createOrder(t, repo, "N", client, 100)
		w.Submit(last)
	}

	assert.Eventually(t, func() bool {
		return storedStatus(t, repo, last.ID) == domain.StatusAccepted
	}, waitFor, tick)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"c1", "c2", "c3"}, seen)
}

// снапшот заказа сохраняется воркером как есть: конкурентный PUT между
// созданием и вердиктом перетирается обратно (кроме статуса)
func TestWorkerSavesPreVerificationSnapshot(t *testing.T) {
	release := make(chan struct{})
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"accepted"}`))
	}))
	defer stub.Close()

	w, repo := newWorker(t, stub.URL)
	o := createOrder(t, repo, "N1", "alice", 100)
	w.Submit(o)

	// пока воркер ждёт статус-сервис, PUT меняет клиента
	updated := o
	updated.Client = "bob"
	require.NoError(t, repo.SaveOrder(context.Background(), &updated))
	close(release)

	assert.Eventually(t, func() bool {
		return storedStatus(t, repo, o.ID) == domain.StatusAccepted
	}, waitFor, tick)

	got, err := repo.GetOrderByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Client)
}
