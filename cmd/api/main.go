package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskhub.org/internal/audit"
	"taskhub.org/internal/auth"
	"taskhub.org/internal/config"
	"taskhub.org/internal/httpapi"
	"taskhub.org/internal/obs"
	"taskhub.org/internal/store/pg"
	"taskhub.org/internal/stream"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var (
		dir        auth.Directory
		orgs       auth.OrganizationStore
		auditStore audit.Store
		probe      httpapi.ReadyProbe
		store      *pg.Store
	)
	if cfg.PGDSN != "" {
		store, err = pg.Open(cfg.PGDSN)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer store.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := store.EnsureSchema(ctx); err != nil {
			cancel()
			log.Fatalf("ensure schema: %v", err)
		}
		cancel()

		dir = store.Directory()
		orgs = store.Organizations()
		auditStore = store.AuditLog()
		probe = httpapi.ReadyProbe{Check: store.Ping}
	} else {
		// Without a DSN the service runs fully in memory. State is lost on
		// restart; fine for local development, useless for anything else.
		log.Printf("TASKHUB_PG_DSN not set, running with in-memory stores")
		dir = auth.NewMemoryDirectory()
		orgs = auth.NewMemoryOrganizations()
	}

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret: []byte(cfg.AuthSecret),
		TTL:    cfg.TokenTTL,
	})
	if err != nil {
		log.Fatalf("token service: %v", err)
	}
	if cfg.UsingDevSecret() {
		log.Printf("WARNING: signing tokens with the built-in development secret; set TASKHUB_AUTH_SECRET")
	}

	fan := stream.New()
	svc, err := auth.NewService(dir, orgs, tokens,
		auth.WithHasher(auth.NewHasher(cfg.BcryptCost)),
		auth.WithRecorder(audit.New(auditStore, fan)),
	)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}

	api := httpapi.New(svc, fan, probe, version)
	api.SetRateLimit(cfg.RateBurst, cfg.RatePerSec)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	rootCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	grpcHealth := httpapi.NewGRPCHealth(probe)
	go grpcHealth.Watch(rootCtx, 10*time.Second)
	go func() {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			log.Fatalf("grpc listen: %v", err)
		}
		if err := grpcHealth.Server().Serve(lis); err != nil {
			log.Printf("grpc serve: %v", err)
		}
	}()

	log.Printf("Starting taskhub-api %s on %s (grpc %s, env %s)", version, cfg.Addr, cfg.GRPCAddr, cfg.Environment)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-rootCtx.Done()
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	grpcHealth.Server().GracefulStop()
	log.Println("Stopped")
}
