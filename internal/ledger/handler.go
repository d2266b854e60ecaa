package ledger

import (
	"net/http"

	"elekable/internal/httputil"

	"github.com/shopspring/decimal"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Balance(w http.ResponseWriter, r *http.Request, userID int64) {
	balance, err := h.svc.Balance(r.Context(), userID)
	if err != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: "server error"})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"balance": balance})
}

type topUpRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handler) TopUp(w http.ResponseWriter, r *http.Request, userID int64) {
	var req topUpRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	balance, err := h.svc.TopUp(r.Context(), userID, req.Amount)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "balance": balance})
}
