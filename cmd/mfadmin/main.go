package main

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-mfadmin/internal/journal"
	"github.com/goliatone/go-mfadmin/internal/server"
	"github.com/goliatone/go-mfadmin/pkg/apiclient"
	"github.com/goliatone/go-mfadmin/pkg/config"
	"github.com/goliatone/go-mfadmin/pkg/notify"
	"github.com/goliatone/go-mfadmin/pkg/render"
)

func main() {
	cfg, err := config.Load(config.LoadOptions{Args: os.Args[1:]})
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	api, err := apiclient.New(cfg.API.BaseURL,
		apiclient.WithTenant(cfg.API.Tenant),
		apiclient.WithBasicAuth(cfg.API.Username, cfg.API.Password),
		apiclient.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
	)
	if err != nil {
		log.Fatalf("api client: %v", err)
	}

	manifest := render.DefaultManifest()
	if cfg.Theme.Name != "" && cfg.Theme.Name != manifest.Name {
		log.Printf("theme %q not bundled, using %q", cfg.Theme.Name, manifest.Name)
	}
	themeCfg, err := render.ResolveTheme(manifest, cfg.Theme.Variant)
	if err != nil {
		log.Fatalf("theme: %v", err)
	}

	logger := log.New(os.Stderr, "mfadmin ", log.LstdFlags)
	opts := []server.Option{
		server.WithNotifier(notify.New(notify.WithTTL(cfg.Toast.TTL))),
		server.WithTheme(themeCfg),
		server.WithLogger(logger),
	}

	if cfg.Journal.Path != "" {
		store, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			log.Fatalf("journal: %v", err)
		}
		defer store.Close()
		opts = append(opts, server.WithJournal(store))
	}

	if cfg.Server.DevProxy {
		target, err := url.Parse(cfg.API.BaseURL)
		if err != nil {
			log.Fatalf("dev proxy target: %v", err)
		}
		opts = append(opts, server.WithDevProxy(target, cfg.API.Tenant))
	}

	srv, err := server.New(api, opts...)
	if err != nil {
		log.Fatalf("server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx, cfg.Server.Addr); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
