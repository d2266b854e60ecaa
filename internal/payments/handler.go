package payments

import (
	"errors"
	"net/http"
	"strconv"

	"elekable/internal/httputil"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, userID int64) {
	out, err := h.svc.List(r.Context(), userID)
	if err != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: "server error"})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

type createRequest struct {
	Type       string `json:"type"`
	CardNumber string `json:"cardNumber"`
	CardHolder string `json:"cardHolder"`
	ExpiryDate string `json:"expiryDate"`
	IsDefault  bool   `json:"isDefault"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, userID int64) {
	var req createRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	id, err := h.svc.Create(r.Context(), userID, MethodInput{
		Type:       req.Type,
		CardNumber: req.CardNumber,
		CardHolder: req.CardHolder,
		ExpiryDate: req.ExpiryDate,
		IsDefault:  req.IsDefault,
	})
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "id": id, "message": "payment method added"})
}

func (h *Handler) SetDefault(w http.ResponseWriter, r *http.Request, userID int64, rawID string) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid payment method id"})
		return
	}
	if err := h.svc.SetDefault(r.Context(), userID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{Error: err.Error()})
			return
		}
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: "server error"})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "default payment method set"})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, userID int64, rawID string) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid payment method id"})
		return
	}
	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{Error: err.Error()})
			return
		}
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: "server error"})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "payment method removed"})
}
