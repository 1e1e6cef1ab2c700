package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/pdv/internal/auth"
	authHandler "github.com/MrJamesThe3rd/pdv/internal/http/auth"
	"github.com/MrJamesThe3rd/pdv/internal/http/cart"
	"github.com/MrJamesThe3rd/pdv/internal/http/cashregister"
	"github.com/MrJamesThe3rd/pdv/internal/http/client"
	"github.com/MrJamesThe3rd/pdv/internal/http/exchange"
	"github.com/MrJamesThe3rd/pdv/internal/http/export"
	"github.com/MrJamesThe3rd/pdv/internal/http/label"
	"github.com/MrJamesThe3rd/pdv/internal/http/notification"
	"github.com/MrJamesThe3rd/pdv/internal/http/product"
	"github.com/MrJamesThe3rd/pdv/internal/http/sale"
	"github.com/MrJamesThe3rd/pdv/internal/http/settings"
)

// Handlers groups the v1 API handlers.
type Handlers struct {
	Auth          *authHandler.Handler
	Products      *product.Handler
	Clients       *client.Handler
	Cart          *cart.Handler
	Sales         *sale.Handler
	Exchanges     *exchange.Handler
	Settings      *settings.Handler
	Notifications *notification.Handler
	CashRegister  *cashregister.Handler
	Labels        *label.Handler
	Export        *export.Handler
}

// New builds the router. Everything outside /api is handed to spa, which
// may be nil when no bundle is served.
func New(h Handlers, authSvc *auth.Service, allowedOrigins []string, spa http.Handler) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", h.Auth.Routes)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(authSvc))

			r.Route("/products", h.Products.Routes)
			r.Route("/clients", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Clients.Routes(r)
			})
			r.Route("/cart", h.Cart.Routes)
			r.Route("/sales", h.Sales.Routes)
			r.Route("/exchanges", h.Exchanges.Routes)
			r.Route("/settings", h.Settings.Routes)
			r.Route("/notifications", h.Notifications.Routes)
			r.Route("/cash-register", h.CashRegister.Routes)
			r.Route("/labels", h.Labels.Routes)
			r.Route("/export", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Export.Routes(r)
			})
		})
	})

	if spa != nil {
		router.Handle("/*", spa)
	}

	return router
}
