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

	"github.com/minkhant-dev/foodcourt/internal/config"
	"github.com/minkhant-dev/foodcourt/internal/httpx"
	"github.com/minkhant-dev/foodcourt/internal/pos"
	"github.com/minkhant-dev/foodcourt/internal/postgres"
	"github.com/minkhant-dev/foodcourt/internal/seqid"
	"github.com/minkhant-dev/foodcourt/internal/uploads"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The POS runs against its own database.
	db, err := postgres.Connect(ctx, cfg.POSDSN)
	if err != nil {
		log.Fatalf("pos db connect: %v", err)
	}
	defer db.Close()

	up, err := uploads.New(cfg.UploadDir)
	if err != nil {
		log.Fatalf("uploads: %v", err)
	}

	router := httpx.NewRouter()
	(&pos.Handler{
		Repo:    &pos.Repo{DB: db, IDs: &seqid.Allocator{DB: db}},
		Uploads: up,
	}).Register(router)
	httpx.MountUploads(router, up)

	srv := &http.Server{Addr: cfg.POSAddr, Handler: router}

	go func() {
		log.Printf("POS listening at %s", cfg.POSAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
}
