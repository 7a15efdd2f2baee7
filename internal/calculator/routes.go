package calculator

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the calculator endpoints under /calculator.
func RegisterRoutes(r chi.Router) {
	h := NewHandler(New())

	r.Route("/calculator", func(r chi.Router) {
		r.Post("/add", h.Binary(OpAdd))
		r.Post("/subtract", h.Binary(OpSubtract))
		r.Post("/multiply", h.Binary(OpMultiply))
		r.Post("/divide", h.Binary(OpDivide))
		r.Post("/chain", h.Chain)
		r.Post("/evaluate", h.Evaluate)
	})
}
