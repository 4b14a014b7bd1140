package verification

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/RaikyD/order-verification-service/internal/domain"
	"github.com/RaikyD/order-verification-service/internal/logger"
	"github.com/RaikyD/order-verification-service/internal/repository"
	"github.com/google/uuid"
)

// Task несёт снапшот заказа, снятый в момент создания. Воркер сохраняет
// именно этот снапшот (с новым статусом), не перечитывая запись из базы —
// конкурентный PUT может быть перетёрт, это известная гонка исходного
// поведения, чинить её нельзя.
type Task struct {
	ID    uuid.UUID
	Order domain.Order
}

// Worker — единственная полоса верификации на весь процесс: задачи
// выполняются строго по одной, в порядке создания заказов. Очередь
// неограниченная, Submit не блокируется.
type Worker struct {
	repo        repository.OrderRepo
	verifier    Verifier
	delayMaxSec int

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []Task
	stopped bool

	stopCh chan struct{}
	done   chan struct{}
}

func NewWorker(repo repository.OrderRepo, verifier Verifier, delayMaxSec int) *Worker {
	w := &Worker{
		repo:        repo,
		verifier:    verifier,
		delayMaxSec: delayMaxSec,
		stopCh:      make(chan struct{}),
		done:        make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	return w
}

func (w *Worker) Start() {
	go w.run()
}

// Submit ставит заказ в очередь на верификацию и сразу возвращается
func (w *Worker) Submit(o domain.Order) {
	t := Task{ID: uuid.New(), Order: o}

	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		logger.Warn("verification worker stopped, task dropped", "task", t.ID, "order_id", o.ID)
		return
	}
	w.queue = append(w.queue, t)
	w.mu.Unlock()
	w.cond.Signal()

	logger.Info("Send order for verification", "task", t.ID, "order_id", o.ID, "client", o.Client)
}

// Stop останавливает воркер; всё, что лежало в очереди или спало,
// теряется — состояние незавершённой верификации нигде не хранится.
func (w *Worker) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	w.mu.Unlock()

	close(w.stopCh)
	w.cond.Signal()
	<-w.done
}

func (w *Worker) run() {
	defer close(w.done)

	for {
		t, ok := w.next()
		if !ok {
			return
		}
		w.process(t)
	}
}

func (w *Worker) next() (Task, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for len(w.queue) == 0 && !w.stopped {
		w.cond.Wait()
	}
	if w.stopped {
		return Task{}, false
	}
	t := w.queue[0]
	w.queue = w.queue[1:]
	return t, true
}

func (w *Worker) process(t Task) {
	// имитация сетевой/процессной задержки, с точностью до секунды
	if w.delayMaxSec > 0 {
		d := time.Duration(rand.Intn(w.delayMaxSec)) * time.Second
		select {
		case <-time.After(d):
		case <-w.stopCh:
			return
		}
	}

	verdict, err := w.verifier.Verify(context.Background(), t.Order.Client, t.Order.Price)
	if err != nil {
		logger.Warn("verification failed, task abandoned", "task", t.ID, "order_id", t.Order.ID, "err", err)
		return
	}

	logger.Info("Order verified with status", "task", t.ID, "order_id", t.Order.ID, "status", verdict)

	ord := t.Order
	ord.Status = verdict
	if err := w.repo.SaveOrder(context.Background(), &ord); err != nil {
		logger.Warn("failed to save verified order", "task", t.ID, "order_id", ord.ID, "err", err)
	}
}
