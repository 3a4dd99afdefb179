package main

import (
	"fmt"
	"sync"

	"github.com/dangunter/alsdata/config"
	"github.com/dangunter/alsdata/shape"
	"github.com/gorilla/mux"
	lru "github.com/hashicorp/golang-lru/v2"
)

type server struct {
	router *mux.Router
	idKey  string

	// mu guards builder and schemas; neither is safe for concurrent use.
	mu      sync.Mutex
	builder *shape.Builder
	schemas *shape.Set

	reports *lru.Cache[reportKey, []byte]
	metrics *metrics
}

type reportKey struct {
	hash   uint64
	format string
}

func newServer(cfg *config.Config) (*server, error) {
	reports, err := lru.New[reportKey, []byte](cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return &server{
		router:  mux.NewRouter(),
		idKey:   cfg.IDKey,
		builder: shape.NewBuilder(cfg.BuilderOptions()...),
		schemas: shape.NewSet(),
		reports: reports,
		metrics: newMetrics(),
	}, nil
}

func formatHash(h uint64) string {
	return fmt.Sprintf("%016x", h)
}
