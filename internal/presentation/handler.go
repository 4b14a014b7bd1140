package presentation

import (
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/RaikyD/order-verification-service/internal/application"
	"github.com/RaikyD/order-verification-service/internal/domain"
	"github.com/RaikyD/order-verification-service/internal/presentation/helpers"
	"github.com/RaikyD/order-verification-service/internal/repository"
	"github.com/go-chi/chi/v5"
)

type OrdersHandler struct {
	svc *application.OrdersService
}

func NewOrdersHandler(svc *application.OrdersService) *OrdersHandler {
	return &OrdersHandler{svc: svc}
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Route("/order", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Get("/{id}", h.GetOrder)
		r.Post("/", h.CreateOrder)
		r.Put("/", h.UpdateOrder)
		r.Delete("/{id}", h.DeleteOrder)
	})
}

func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.List(r.Context())
	if err != nil {
		helpers.HttpError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	helpers.WriteJSON(w, http.StatusOK, orders)
}

func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid id")
		return
	}

	ord, err := h.svc.GetByID(r.Context(), id)
	if errors.Is(err, repository.ErrOrderNotFound) {
		helpers.HttpError(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		helpers.HttpError(w, http.StatusInternalServerError, "failed to get order")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, ord)
}

// id и status в теле игнорируются: id назначает хранилище, статус всегда
// начинается с "not verified". Вердикт появится в записи позже, ответ
// его не ждёт.
func (h *OrdersHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	mediatype, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediatype != "application/json" {
		helpers.HttpError(w, http.StatusUnsupportedMediaType, "unsupported content-type")
		return
	}

	var ord domain.Order
	if err := helpers.DecodeJSON(r.Body, &ord); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if strings.TrimSpace(ord.Number) == "" {
		helpers.HttpError(w, http.StatusBadRequest, "number is required")
		return
	}

	if err := h.svc.CreateOrder(r.Context(), &ord); err != nil {
		helpers.HttpError(w, http.StatusInternalServerError, "failed to add order")
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, ord)
}

// UpdateOrder перезаписывает запись ровно так, как прислал вызывающий,
// включая статус
func (h *OrdersHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	mediatype, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediatype != "application/json" {
		helpers.HttpError(w, http.StatusUnsupportedMediaType, "unsupported content-type")
		return
	}

	var ord domain.Order
	if err := helpers.DecodeJSON(r.Body, &ord); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if err := h.svc.Save(r.Context(), &ord); err != nil {
		helpers.HttpError(w, http.StatusInternalServerError, "failed to save order")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, ord)
}

// DeleteOrder идемпотентен: 204 и для несуществующего id
func (h *OrdersHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		helpers.HttpError(w, http.StatusInternalServerError, "failed to delete order")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func orderID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
