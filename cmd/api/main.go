package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/sistertele/phonestore/internal/admin"
	"github.com/sistertele/phonestore/internal/cart"
	"github.com/sistertele/phonestore/internal/catalog"
	"github.com/sistertele/phonestore/internal/config"
	"github.com/sistertele/phonestore/internal/httpx"
	"github.com/sistertele/phonestore/internal/inquiry"
	kafkax "github.com/sistertele/phonestore/internal/kafka"
	"github.com/sistertele/phonestore/internal/orders"
	"github.com/sistertele/phonestore/internal/postgres"
	"github.com/sistertele/phonestore/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logrus.WithError(err).Fatal("db connect")
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers
	orderProd := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderPlaced, 1024)
	orderProd.Start(ctx)
	inquiryProd := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicInquiryReceived, 256)
	inquiryProd.Start(ctx)

	// Repos & handlers
	router := httpx.NewRouter()

	ch := &httpx.CatalogHandler{Repo: &catalog.Repo{DB: db}}
	ch.Register(router)

	carts := &cart.Store{Redis: rdb}
	crh := &httpx.CartHandler{Store: carts}
	crh.Register(router)

	oh := &httpx.OrdersHandler{
		Repo:     &orders.Repo{DB: db},
		Carts:    carts,
		Producer: orderProd,
		Redis:    rdb,
		Service:  cfg.ServiceName,
	}
	oh.Register(router)

	ih := &httpx.InquiryHandler{
		Repo:     &inquiry.Repo{DB: db},
		Producer: inquiryProd,
		Service:  cfg.ServiceName,
	}
	ih.Register(router)

	ah := &httpx.AdminHandler{
		Catalog:   &catalog.Repo{DB: db},
		Orders:    &orders.Repo{DB: db},
		Inquiries: &inquiry.Repo{DB: db},
		Admins:    admin.NewService(&admin.Repo{DB: db}, cfg.AdminCheckTimeout),
	}
	ah.Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		logrus.WithField("addr", cfg.HTTPAddr).Info("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("listen")
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logrus.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	orderProd.Close() // close inbox -> flush & close writer
	inquiryProd.Close()
	cancel() // stop producer loops
	orderProd.WaitClosed()
	inquiryProd.WaitClosed()
}
