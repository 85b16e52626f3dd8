package router

import (
	"net/http"

	"storefront/internal/auth"
	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// Handlers bundles the handler set the router wires up.
type Handlers struct {
	Account *handler.AccountHandler
	Product *handler.ProductHandler
	Cart    *handler.CartHandler
	Order   *handler.OrderHandler
	Payment *handler.PaymentHandler
	Review  *handler.ReviewHandler
	Device  *handler.DeviceHandler
	Admin   *handler.AdminHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, tokens *auth.Manager, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	customer := middleware.RequireAuth(tokens, auth.SchemeCustomer, logger)
	backoffice := func(next http.Handler) http.Handler {
		return middleware.RequireAuth(tokens, auth.SchemeBackoffice, logger)(
			middleware.RequireRole(model.RoleAdmin)(next))
	}
	optional := middleware.OptionalAuth(tokens, auth.SchemeCustomer)

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Accounts
	mux.HandleFunc("POST /api/account/register", h.Account.Register)
	mux.HandleFunc("POST /api/account/login", h.Account.Login)
	mux.HandleFunc("POST /api/account/logout", h.Account.Logout)
	mux.HandleFunc("POST /api/backoffice/login", h.Account.BackofficeLogin)
	mux.HandleFunc("POST /api/backoffice/logout", h.Account.BackofficeLogout)

	// Catalogue
	mux.HandleFunc("GET /api/products", h.Product.GetAll)
	mux.HandleFunc("GET /api/products/{id}", h.Product.GetByID)
	mux.HandleFunc("GET /api/products/{id}/reviews", h.Review.ListForProduct)
	mux.HandleFunc("GET /api/products/{id}/reviews/stats", h.Review.StatsForProduct)

	// Cart. The count badge degrades to zero for anonymous callers.
	mux.Handle("GET /api/cart", customer(http.HandlerFunc(h.Cart.Get)))
	mux.Handle("DELETE /api/cart", customer(http.HandlerFunc(h.Cart.Clear)))
	mux.Handle("GET /api/cart/count", optional(http.HandlerFunc(h.Cart.Count)))
	mux.Handle("POST /api/cart/items", customer(http.HandlerFunc(h.Cart.AddItem)))
	mux.Handle("PUT /api/cart/items/{id}", customer(http.HandlerFunc(h.Cart.UpdateItem)))
	mux.Handle("DELETE /api/cart/items/{id}", customer(http.HandlerFunc(h.Cart.RemoveItem)))

	// Checkout flow
	mux.Handle("GET /order/checkout", customer(http.HandlerFunc(h.Order.CheckoutPage)))
	mux.Handle("POST /order/checkout", customer(http.HandlerFunc(h.Order.Checkout)))
	mux.Handle("GET /order/confirm/{id}", customer(http.HandlerFunc(h.Order.Confirm)))
	mux.Handle("GET /api/orders", customer(http.HandlerFunc(h.Order.List)))

	// Payment gateway callback, unauthenticated by design of the gateway
	mux.HandleFunc("POST /payment/notify", h.Payment.Notify)

	// Reviews
	mux.Handle("POST /api/reviews", customer(http.HandlerFunc(h.Review.Create)))
	mux.Handle("PUT /api/reviews/{id}", customer(http.HandlerFunc(h.Review.Update)))
	mux.Handle("DELETE /api/reviews/{id}", customer(http.HandlerFunc(h.Review.Delete)))
	mux.Handle("POST /api/reviews/{id}/report", customer(http.HandlerFunc(h.Review.Report)))

	// Devices
	mux.Handle("POST /api/devices", customer(http.HandlerFunc(h.Device.Register)))

	// Back-office
	mux.Handle("POST /api/admin/products", backoffice(http.HandlerFunc(h.Admin.CreateProduct)))
	mux.Handle("PUT /api/admin/products/{id}", backoffice(http.HandlerFunc(h.Admin.UpdateProduct)))
	mux.Handle("PUT /api/admin/orders/{id}/status", backoffice(http.HandlerFunc(h.Admin.UpdateOrderStatus)))
	mux.Handle("POST /api/admin/reviews/{id}/hide", backoffice(http.HandlerFunc(h.Admin.HideReview)))
	mux.Handle("DELETE /api/admin/reviews/{id}", backoffice(http.HandlerFunc(h.Review.Delete)))
	mux.Handle("GET /api/admin/reports", backoffice(http.HandlerFunc(h.Admin.ListReports)))
	mux.Handle("POST /api/admin/reports/{id}/process", backoffice(http.HandlerFunc(h.Admin.ProcessReport)))
	mux.Handle("GET /api/admin/logs", backoffice(http.HandlerFunc(h.Admin.ListLogs)))
	mux.Handle("GET /api/admin/users", backoffice(http.HandlerFunc(h.Admin.ListUsers)))
	mux.Handle("POST /api/admin/users", backoffice(http.HandlerFunc(h.Admin.CreateUser)))
	mux.Handle("PATCH /api/admin/users/batch-status", backoffice(http.HandlerFunc(h.Admin.BatchUserStatus)))
	mux.Handle("GET /api/admin/users/{id}", backoffice(http.HandlerFunc(h.Admin.GetUser)))
	mux.Handle("PUT /api/admin/users/{id}", backoffice(http.HandlerFunc(h.Admin.UpdateUser)))
	mux.Handle("DELETE /api/admin/users/{id}", backoffice(http.HandlerFunc(h.Admin.DeleteUser)))

	// Apply middleware in order: Recovery -> Logging -> CORS
	var root http.Handler = mux
	root = middleware.CORS(root)
	root = middleware.Logging(logger)(root)
	root = middleware.Recovery(logger)(root)

	return root
}
