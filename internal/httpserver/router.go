package httpserver

import (
	"net/http"

	"elekable/internal/auth"
	"elekable/internal/health"
	"elekable/internal/httputil"
	"elekable/internal/invoices"
	"elekable/internal/ledger"
	"elekable/internal/payments"
	"elekable/internal/pricing"
	"elekable/internal/trading"
	"elekable/internal/users"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type RouterDeps struct {
	AuthHandler    *auth.Handler
	UserHandler    *users.Handler
	LedgerHandler  *ledger.Handler
	PricingHandler *pricing.Handler
	TradeHandler   *trading.Handler
	InvoiceHandler *invoices.Handler
	PaymentHandler *payments.Handler
	HealthHandler  *health.Handler
	AuthService    *auth.Service
	PriceWS        http.Handler
	InternalToken  string
	WSOrigin       string
	Logger         *zap.Logger
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(corsMiddleware(d.WSOrigin))
	r.Use(SecurityHeaders)
	r.Use(RateLimitMiddleware)
	if d.Logger != nil {
		r.Use(RequestLogger(d.Logger))
	}

	r.Get("/health", d.HealthHandler.Ready)
	r.Get("/health/live", d.HealthHandler.Live)
	r.Get("/health/full", d.HealthHandler.Full)
	r.Get("/health/metrics", d.HealthHandler.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", d.AuthHandler.Register)
			r.Post("/login", d.AuthHandler.Login)
			r.Post("/refresh", d.AuthHandler.Refresh)
			r.Group(func(r chi.Router) {
				r.Use(WithAuth(d.AuthService))
				r.Post("/logout", withUser(d.AuthHandler.Logout))
			})
		})

		r.Get("/electricity/ws", d.PriceWS.ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(WithAuth(d.AuthService))

			r.Get("/users/me", withUser(d.UserHandler.Me))
			r.Put("/users/me", withUser(d.UserHandler.UpdateMe))
			r.Put("/users/password", withUser(d.AuthHandler.ChangePassword))
			r.Get("/users/balance", withUser(d.LedgerHandler.Balance))
			r.Put("/users/balance", withUser(d.LedgerHandler.TopUp))

			r.Get("/electricity/prices", d.PricingHandler.Prices)
			r.Get("/electricity/current-price", d.PricingHandler.CurrentPrice)

			r.Post("/transactions/buy", withUser(d.TradeHandler.Buy))
			r.Post("/transactions/sell", withUser(d.TradeHandler.Sell))
			r.Get("/transactions/history", withUser(d.TradeHandler.History))

			r.Get("/invoices", withUser(d.InvoiceHandler.List))
			r.Get("/invoices/{id}", withUserID(d.InvoiceHandler.Get))

			r.Get("/payment/methods", withUser(d.PaymentHandler.List))
			r.Post("/payment/methods", withUser(d.PaymentHandler.Create))
			r.Put("/payment/methods/{id}", withUserID(d.PaymentHandler.SetDefault))
			r.Delete("/payment/methods/{id}", withUserID(d.PaymentHandler.Delete))
		})

		r.Group(func(r chi.Router) {
			r.Use(InternalAuth(d.InternalToken))
			r.Post("/internal/prices", d.PricingHandler.UpsertPrice)
		})
	})

	return r
}

func withUser(h func(http.ResponseWriter, *http.Request, int64)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserID(r)
		if !ok {
			httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "unauthorized"})
			return
		}
		h(w, r, userID)
	}
}

func withUserID(h func(http.ResponseWriter, *http.Request, int64, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserID(r)
		if !ok {
			httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "unauthorized"})
			return
		}
		h(w, r, userID, chi.URLParam(r, "id"))
	}
}

func corsMiddleware(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqOrigin := r.Header.Get("Origin")
			if origin == "*" && reqOrigin == "" {
				reqOrigin = "*"
			}
			if origin != "*" {
				reqOrigin = origin
			}
			w.Header().Set("Access-Control-Allow-Origin", reqOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Internal-Token")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
