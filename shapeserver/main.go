package main

import (
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/dangunter/alsdata/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("shapeserver failed", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	config.SetupLogging(cfg.LogLevel)

	addr := flag.String("addr", cfg.Addr, "the address to listen on")
	flag.Parse()

	s, err := newServer(cfg)
	if err != nil {
		return err
	}
	s.setupRoutes()

	slog.Info("listening", "addr", *addr)
	srv := http.Server{
		Addr:              *addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	err = srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
