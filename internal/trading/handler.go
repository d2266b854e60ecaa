package trading

import (
	"errors"
	"net/http"
	"strconv"

	"elekable/internal/httputil"
	"elekable/internal/ledger"
	"elekable/internal/pricing"

	"github.com/shopspring/decimal"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type buyRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	UseCard bool            `json:"useCard"`
}

type sellRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handler) Buy(w http.ResponseWriter, r *http.Request, userID int64) {
	var req buyRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	res, err := h.svc.Buy(r.Context(), userID, req.Amount, req.UseCard)
	if err != nil {
		writeTradeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"message":       "purchase completed",
		"transaction":   res.Transaction,
		"invoiceNumber": res.InvoiceNumber,
		"balance":       res.Balance,
	})
}

func (h *Handler) Sell(w http.ResponseWriter, r *http.Request, userID int64) {
	var req sellRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	res, err := h.svc.Sell(r.Context(), userID, req.Amount)
	if err != nil {
		writeTradeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"message":       "sale completed",
		"transaction":   res.Transaction,
		"invoiceNumber": res.InvoiceNumber,
		"balance":       res.Balance,
	})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request, userID int64) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	out, err := h.svc.History(r.Context(), userID, limit)
	if err != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: "server error"})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func writeTradeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pricing.ErrNoPrice):
		httputil.WriteJSON(w, http.StatusServiceUnavailable, httputil.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ledger.ErrInsufficientBalance):
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
	default:
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
	}
}
