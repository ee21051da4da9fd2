package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/rs/zerolog"

	"github.com/kevinaaaquil/library-graphql/middleware"
)

type RouterConfig struct {
	Schema  *graphql.Schema
	Tokens  middleware.TokenVerifier
	Users   middleware.UserLookup
	Metrics http.Handler // nil disables /metrics
	Log     zerolog.Logger
}

// NewRouter wires the HTTP surface: welcome, health, metrics and the
// authenticated GraphQL endpoint.
func NewRouter(cfg RouterConfig) http.Handler {
	gql := &GraphQLHandler{Schema: cfg.Schema, Log: cfg.Log}

	r := chi.NewRouter()
	r.Use(middleware.AllowAll())
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"welcome to the library. POST queries to /graphql"}`))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Tokens, cfg.Users, cfg.Log))
		r.Handle("/graphql", gql.Handler())
	})
	return r
}
