package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"coffer_scanner/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Get("/items", handler(s.getV1Items))
			r.Get("/snapshots", handler(s.getV1Snapshots))
			r.Post("/refresh", handler(s.postV1Refresh))
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, toFailure(err))
		}
	}
}
