package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackofish/market/internal/admin/auth"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Handlers collects every handler the router mounts.
type Handlers struct {
	Cart         *CartHandler
	Catalog      *CatalogHandler
	Checkout     *CheckoutHandler
	Contact      *ContactHandler
	AdminAuth    *AdminAuthHandler
	AdminCatalog *AdminCatalogHandler
	AdminOrders  *AdminOrdersHandler
}

// NewRouter assembles the storefront API. Public routes carry the cart
// session cookie; everything under /api/admin except login requires a
// valid admin token.
func NewRouter(h Handlers, authService *auth.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(CartSessionMiddleware)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.Cart.GetCart)
				r.Post("/items", h.Cart.AddItem)
				r.Put("/items/{id}", h.Cart.UpdateQuantity)
				r.Delete("/items/{id}", h.Cart.RemoveItem)
				r.Delete("/", h.Cart.ClearCart)
			})

			r.Post("/orders", h.Checkout.Submit)
		})

		r.Get("/products", h.Catalog.ListProducts)
		r.Get("/products/search", h.Catalog.SearchProducts)
		r.Get("/products/{slug}", h.Catalog.GetProductBySlug)
		r.Get("/categories", h.Catalog.ListCategories)

		r.Post("/contact", h.Contact.Submit)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/auth/login", h.AdminAuth.Login)

			r.Group(func(r chi.Router) {
				r.Use(AdminAuthMiddleware(authService))

				r.Post("/auth/logout", h.AdminAuth.Logout)

				r.Route("/products", func(r chi.Router) {
					r.Get("/", h.AdminCatalog.ListProducts)
					r.Post("/", h.AdminCatalog.CreateProduct)
					r.Get("/{id}", h.AdminCatalog.GetProduct)
					r.Put("/{id}", h.AdminCatalog.UpdateProduct)
					r.Delete("/{id}", h.AdminCatalog.DeleteProduct)
				})

				r.Route("/categories", func(r chi.Router) {
					r.Get("/", h.AdminCatalog.ListCategories)
					r.Post("/", h.AdminCatalog.CreateCategory)
					r.Get("/{id}", h.AdminCatalog.GetCategory)
					r.Put("/{id}", h.AdminCatalog.UpdateCategory)
					r.Delete("/{id}", h.AdminCatalog.DeleteCategory)
				})

				r.Route("/orders", func(r chi.Router) {
					r.Get("/", h.AdminOrders.ListOrders)
					r.Get("/{id}", h.AdminOrders.GetOrder)
					r.Put("/{id}", h.AdminOrders.UpdateStatus)
					r.Delete("/{id}", h.AdminOrders.CancelOrder)
				})
			})
		})
	})

	return otelhttp.NewHandler(r, "storefront-api")
}
