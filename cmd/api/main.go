package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"elekable/internal/auth"
	"elekable/internal/config"
	"elekable/internal/db"
	"elekable/internal/health"
	"elekable/internal/httpserver"
	"elekable/internal/invoices"
	"elekable/internal/ledger"
	"elekable/internal/payments"
	"elekable/internal/pricing"
	"elekable/internal/trading"
	"elekable/internal/users"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	startedAt := time.Now().UTC()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	defer pool.Close()
	if err := db.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}

	priceStore := pricing.NewStore(pool)
	ledgerSvc := ledger.NewService(pool)
	invoiceStore := invoices.NewStore(pool)
	tradeSvc := trading.NewService(pool, priceStore, ledgerSvc, invoiceStore)
	authSvc := auth.NewService(pool, cfg.JWTIssuer, []byte(cfg.JWTSecret), cfg.AccessTTL, cfg.RefreshTTL)
	userSvc := users.NewService(pool)
	paymentSvc := payments.NewService(pool)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		AuthHandler:    auth.NewHandler(authSvc),
		UserHandler:    users.NewHandler(userSvc),
		LedgerHandler:  ledger.NewHandler(ledgerSvc),
		PricingHandler: pricing.NewHandler(priceStore),
		TradeHandler:   trading.NewHandler(tradeSvc),
		InvoiceHandler: invoices.NewHandler(invoiceStore),
		PaymentHandler: payments.NewHandler(paymentSvc),
		HealthHandler:  health.NewHandler(pool, startedAt, cfg.HTTPAddr, cfg.InternalToken),
		AuthService:    authSvc,
		PriceWS:        pricing.NewPriceWS(cfg.WSOrigin, priceStore),
		InternalToken:  cfg.InternalToken,
		WSOrigin:       cfg.WSOrigin,
		Logger:         logger,
	})
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	logger.Info("server listening", zap.String("addr", cfg.HTTPAddr))
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("serve", zap.Error(err))
	}
}
