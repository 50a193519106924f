package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	custommiddleware "github.com/mmeshcher/hucreative-studio/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса студии.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Get(custommiddleware.LoginPath, h.LoginView)

	r.Route("/api", func(r chi.Router) {
		r.Get("/projects", h.ListProjects)
		r.Get("/projects/{id}", h.GetProject)
		r.Get("/plans", h.ListPlans)
		r.Post("/contact", h.SubmitContact)
		r.Post("/get-started", h.SubmitGetStarted)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)

			r.Group(func(r chi.Router) {
				r.Use(h.authMiddleware.Middleware)

				r.Get("/dashboard", h.GetDashboard)

				r.Get("/projects", h.GetAdminProjects)
				r.Post("/projects", h.CreateProject)
				r.Put("/projects/{id}", h.UpdateProject)
				r.Delete("/projects/{id}", h.DeleteProject)

				r.Get("/messages", h.GetMessages)
				r.Post("/messages/{id}/read", h.MarkMessageRead)

				r.Get("/orders", h.GetOrders)
				r.Post("/orders", h.CreateOrder)
				r.Patch("/orders/{id}/status", h.UpdateOrderStatus)
			})
		})

		if h.chat != nil {
			r.Route("/chat/sessions", func(r chi.Router) {
				r.Post("/", h.StartChat)
				r.Get("/{id}/messages", h.GetChatHistory)
				r.Post("/{id}/messages", h.SendChatMessage)
			})
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
