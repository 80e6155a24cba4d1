package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"foodorder/internal/authz"
	"foodorder/internal/config"
	"foodorder/internal/db"
	"foodorder/internal/events"
	"foodorder/internal/httpserver"
	cartrepo "foodorder/internal/repository/cart"
	menuitemrepo "foodorder/internal/repository/menuitem"
	orderrepo "foodorder/internal/repository/order"
	paymentrepo "foodorder/internal/repository/payment"
	restaurantrepo "foodorder/internal/repository/restaurant"
	tokenrepo "foodorder/internal/repository/token"
	userrepo "foodorder/internal/repository/user"
	cartsvc "foodorder/internal/service/cart"
	catalogsvc "foodorder/internal/service/catalog"
	ordersvc "foodorder/internal/service/order"
	paymentsvc "foodorder/internal/service/payment"
	usersvc "foodorder/internal/service/user"
	"github.com/redis/go-redis/v9"
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

	menuItemRepo := menuitemrepo.NewPostgres(dbpool)
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatalf("connect to redis: %v", err)
		}
		defer client.Close()
		menuItemRepo = menuitemrepo.NewCached(menuItemRepo, client)
		logger.Printf("menu item cache enabled via %s", cfg.RedisAddr)
	}

	// A nil EventPublisher interface disables eventing; only assign when the
	// broker is configured so the nil check in the order service holds.
	var publisher ordersvc.EventPublisher
	if cfg.AMQPURL != "" {
		p, err := events.Connect(cfg.AMQPURL, logger)
		if err != nil {
			logger.Fatalf("connect to amqp: %v", err)
		}
		defer p.Close()
		publisher = p
		logger.Printf("order events enabled")
	}

	guard := authz.New()

	userRepo := userrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	restaurantRepo := restaurantrepo.NewPostgres(dbpool)
	cartRepo := cartrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool)
	paymentRepo := paymentrepo.NewPostgres(dbpool)

	userService := usersvc.New(userRepo, tokenRepo, guard)
	catalogService := catalogsvc.New(restaurantRepo, menuItemRepo, guard)
	cartService := cartsvc.New(cartRepo, menuItemRepo, guard)
	orderService := ordersvc.New(orderRepo, cartService, paymentRepo, guard, publisher, logger)
	paymentService := paymentsvc.New(paymentRepo, orderRepo, guard)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		UserSvc:    userService,
		CatalogSvc: catalogService,
		CartSvc:    cartService,
		OrderSvc:   orderService,
		PaymentSvc: paymentService,
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
