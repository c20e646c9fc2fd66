// Swag Labs stub server
//
// Serves a local replica of the demo shop's login, inventory and about pages
// so the scenarios can run without reaching the public site.
//
// Usage:
//
//	go run ./cmd/swagstub -addr 127.0.0.1:8080
//	SWAG_BASE_URL=http://127.0.0.1:8080/ SWAG_ABOUT_MARKER=/about go run ./cmd/swagcheck run
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thesyncim/swaglabs/cmd/swagstub/server"
	"github.com/thesyncim/swaglabs/internal/logging"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8080", "Listen address")
	aboutURL := flag.String("about-url", "", "Target of the About menu link (default: /about on this server)")
	level := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	opts := logging.DefaultOptions()
	opts.Level = *level
	opts.Prefix = "swagstub"
	logger := logging.New(opts)

	cfg := server.DefaultConfig()
	cfg.Addr = *addr
	cfg.AboutURL = *aboutURL
	cfg.Logger = logger
	srv, err := server.NewServer(cfg)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	if _, err := srv.Start(); err != nil {
		logger.Fatal("failed to start server", "err", err)
	}
	logger.Info("listening", "url", srv.URL())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}
