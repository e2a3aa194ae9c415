package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-mfadmin/internal/mockbackend"
)

func main() {
	var (
		addrFlag   = flag.String("addr", ":8443", "listen address")
		tenantFlag = flag.String("tenant", "default", "accepted tenant identifier (empty accepts any)")
		baseFlag   = flag.String("base-path", mockbackend.DefaultBasePath, "API base path")
		seedFlag   = flag.Int("seed", 5, "fake records per collection")
		quietFlag  = flag.Bool("quiet", false, "disable request logging")
	)
	flag.Parse()

	var logger *log.Logger
	if !*quietFlag {
		logger = log.New(os.Stderr, "mock ", log.LstdFlags)
	}

	backend, err := mockbackend.New(
		mockbackend.WithBasePath(*baseFlag),
		mockbackend.WithTenant(*tenantFlag),
		mockbackend.WithLogger(logger),
		mockbackend.WithSeed(*seedFlag),
	)
	if err != nil {
		log.Fatalf("mock backend: %v", err)
	}

	srv := &http.Server{
		Addr:              *addrFlag,
		Handler:           backend.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("mock backend on %s%s", *addrFlag, backend.BasePath())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("serve: %v", err)
	}
}
