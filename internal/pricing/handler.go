package pricing

import (
	"errors"
	"net/http"

	"elekable/internal/httputil"

	"github.com/shopspring/decimal"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Prices(w http.ResponseWriter, r *http.Request) {
	prices, err := h.store.ListPrices(r.Context())
	if err != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: "server error"})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, prices)
}

func (h *Handler) CurrentPrice(w http.ResponseWriter, r *http.Request) {
	price, err := h.store.CurrentPrice(r.Context())
	if err != nil {
		if errors.Is(err, ErrNoPrice) {
			httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{Error: err.Error()})
			return
		}
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: "server error"})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"price": price})
}

type upsertRequest struct {
	Date  string          `json:"date"`
	Price decimal.Decimal `json:"price"`
}

// UpsertPrice is mounted on the internal router group; the price feed is
// written by operators, not end users.
func (h *Handler) UpsertPrice(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	if err := h.store.Upsert(r.Context(), req.Date, req.Price); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
