package service

import (
	"github.com/go-chi/chi/v5"
)

// HTTPService is a Service using a HTTP router.
type HTTPService interface {
	Service

	// Router returns the service's router.
	Router() chi.Router
}

// HTTPInfo can be embedded in structs to help implement HTTPService.
type HTTPInfo struct {
	Info

	Mux *chi.Mux
}

func (i *HTTPInfo) Router() chi.Router { return i.Mux }
