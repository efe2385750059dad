package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/gateway/bkash"
	"storefront/internal/gateway/stripe"
	"storefront/internal/httpserver"
	orderrepo "storefront/internal/repository/order"
	productrepo "storefront/internal/repository/product"
	tokenrepo "storefront/internal/repository/token"
	ordersvc "storefront/internal/service/order"
	productsvc "storefront/internal/service/product"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	productService := productsvc.New(productRepo)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	orderService := ordersvc.New(orderRepo, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)

	bkashClient := bkash.New(bkash.Config{
		GrantTokenURL:     cfg.Bkash.GrantTokenURL,
		CreatePaymentURL:  cfg.Bkash.CreatePaymentURL,
		ExecutePaymentURL: cfg.Bkash.ExecutePaymentURL,
		AppKey:            cfg.Bkash.AppKey,
		AppSecret:         cfg.Bkash.AppSecret,
		Username:          cfg.Bkash.Username,
		Password:          cfg.Bkash.Password,
		CallbackURL:       cfg.Bkash.CallbackURL,
	}, logger)
	stripeGateway := stripe.New(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, cfg.FrontendURL, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		OrderSvc:   orderService,
		ProductSvc: productService,
		Bkash:      bkashClient,
		Stripe:     stripeGateway,
		Tokens:     tokenRepo,
	}, httpserver.Options{
		FrontendURL:     cfg.FrontendURL,
		BkashSuccessURL: cfg.Bkash.SuccessURL,
		BkashFailureURL: cfg.Bkash.FailureURL,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
