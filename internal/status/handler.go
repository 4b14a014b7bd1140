package status

import (
	"mime"
	"net/http"

	"github.com/RaikyD/order-verification-service/internal/logger"
	"github.com/RaikyD/order-verification-service/internal/presentation/helpers"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// VerifyRequest — поля указатели, чтобы отличать отсутствующее поле от
// пустой строки / нулевой цены
type VerifyRequest struct {
	Client *string          `json:"client"`
	Price  *decimal.Decimal `json:"price"`
}

type VerifyResponse struct {
	Status string `json:"status"`
}

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/status", h.Verify)
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	mediatype, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediatype != "application/json" {
		helpers.HttpError(w, http.StatusUnsupportedMediaType, "unsupported content-type")
		return
	}

	var req VerifyRequest
	if err := helpers.DecodeJSON(r.Body, &req); err != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Client == nil || req.Price == nil {
		helpers.HttpError(w, http.StatusBadRequest, "client and price are required")
		return
	}

	verdict := Classify(*req.Client, *req.Price)
	logger.Info("verifying request", "client", *req.Client, "price", *req.Price, "verdict", verdict)

	helpers.WriteJSON(w, http.StatusOK, VerifyResponse{Status: verdict})
}
