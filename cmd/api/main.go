package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/minkhant-dev/foodcourt/internal/catalog"
	"github.com/minkhant-dev/foodcourt/internal/config"
	"github.com/minkhant-dev/foodcourt/internal/deliverymen"
	"github.com/minkhant-dev/foodcourt/internal/emailauth"
	"github.com/minkhant-dev/foodcourt/internal/httpx"
	kafkax "github.com/minkhant-dev/foodcourt/internal/kafka"
	"github.com/minkhant-dev/foodcourt/internal/orders"
	"github.com/minkhant-dev/foodcourt/internal/postgres"
	"github.com/minkhant-dev/foodcourt/internal/redisx"
	"github.com/minkhant-dev/foodcourt/internal/seqid"
	"github.com/minkhant-dev/foodcourt/internal/shops"
	"github.com/minkhant-dev/foodcourt/internal/uploads"
	"github.com/minkhant-dev/foodcourt/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	prod.Start(ctx)

	// Uploads
	up, err := uploads.New(cfg.UploadDir)
	if err != nil {
		log.Fatalf("uploads: %v", err)
	}

	ids := &seqid.Allocator{DB: db}

	var mailer emailauth.Mailer = emailauth.LogMailer{}
	if cfg.SMTPHost != "" {
		mailer = &emailauth.SMTPMailer{
			Host: cfg.SMTPHost, Port: cfg.SMTPPort,
			User: cfg.SMTPUser, Pass: cfg.SMTPPass, From: cfg.SMTPFrom,
		}
	}

	// Router & handlers
	router := httpx.NewRouter()
	(&httpx.OrdersHandler{
		Store:     &orders.Repo{DB: db, IDs: ids},
		Approvals: &orders.Approval{DB: db},
		Uploads:   up,
		Producer:  prod,
		Service:   cfg.ServiceName,
	}).Register(router)
	(&httpx.UsersHandler{Repo: &users.Repo{DB: db, IDs: ids}}).Register(router)
	(&httpx.ShopsHandler{Repo: &shops.Repo{DB: db, IDs: ids}, Uploads: up}).Register(router)
	(&httpx.DeliverymenHandler{Repo: &deliverymen.Repo{DB: db, IDs: ids}, Uploads: up}).Register(router)
	(&httpx.CatalogHandler{Repo: &catalog.Repo{DB: db, IDs: ids}, Uploads: up}).Register(router)
	(&httpx.EmailHandler{Codes: &emailauth.Service{Redis: rdb, Mailer: mailer}}).Register(router)
	httpx.MountUploads(router, up)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close()      // close inbox -> flush & close writer
	cancel()          // stop producer loop
	prod.WaitClosed() // drain
}
