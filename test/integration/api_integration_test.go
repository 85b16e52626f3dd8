package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/mailer"
	"storefront/internal/model"
	"storefront/internal/payment"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T, testDB *TestDB) http.Handler {
	t.Helper()

	logger := zerolog.Nop()

	userRepo := repository.NewUserRepository(testDB.Pool, logger)
	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	cartRepo := repository.NewCartRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)
	reviewRepo := repository.NewReviewRepository(testDB.Pool, logger)
	oplogRepo := repository.NewOperationLogRepository(testDB.Pool, logger)
	deviceRepo := repository.NewDeviceRepository(testDB.Pool, logger)

	codec, err := payment.NewCodec(gatewayTestKey, gatewayTestIV)
	require.NoError(t, err)

	tokens := auth.NewManager(config.AuthConfig{
		CustomerSecret:   "customer-secret-0123456789abcdefghij",
		BackofficeSecret: "backoffice-secret-0123456789abcdefgh",
		TokenTTLHours:    1,
	})

	policy := config.PolicyConfig{EnforceStock: true}
	audit := service.NewRecorder(oplogRepo, logger)

	accountService := service.NewAccountService(userRepo, audit, logger)
	productService := service.NewProductService(productRepo, logger)
	cartService := service.NewCartService(cartRepo, productRepo, policy, logger)
	orderService := service.NewOrderService(orderRepo, cartRepo, nil, audit, logger)
	paymentService := service.NewPaymentService(codec, orderRepo, audit, logger)
	reviewService := service.NewReviewService(reviewRepo, orderRepo, userRepo,
		mailer.NopNotifier{}, policy, audit, logger)
	deviceService := service.NewDeviceService(deviceRepo, logger)
	userAdminService := service.NewUserAdminService(userRepo, orderRepo, audit, logger)

	h := router.Handlers{
		Account: handler.NewAccountHandler(accountService, tokens, logger),
		Product: handler.NewProductHandler(productService, logger),
		Cart:    handler.NewCartHandler(cartService, logger),
		Order:   handler.NewOrderHandler(orderService, cartService, logger),
		Payment: handler.NewPaymentHandler(paymentService, logger),
		Review:  handler.NewReviewHandler(reviewService, logger),
		Device:  handler.NewDeviceHandler(deviceService, logger),
		Admin:   handler.NewAdminHandler(productService, orderService, reviewService, userAdminService, audit, logger),
	}

	return router.New(h, tokens, logger)
}

// registerCustomer registers an account through the API and returns the
// session cookie the server issued.
func registerCustomer(t *testing.T, server http.Handler, email string) *http.Cookie {
	t.Helper()

	body := `{"username": "tester", "email": "` + email + `", "password": "password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/account/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	server.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SchemeCustomer.CookieName() {
			return c
		}
	}
	t.Fatal("no session cookie issued on registration")
	return nil
}

// backofficeLogin authenticates a seeded admin and returns the back-office
// session cookie.
func backofficeLogin(t *testing.T, server http.Handler, email string) *http.Cookie {
	t.Helper()

	body := `{"email": "` + email + `", "password": "password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/backoffice/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	server.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SchemeBackoffice.CookieName() {
			return c
		}
	}
	t.Fatal("no back-office session cookie issued on login")
	return nil
}

func TestCatalogueAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("GET /api/products returns seeded products", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)

		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var products []model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&products))
		assert.Len(t, products, 5)
	})

	t.Run("GET /api/products/{id} returns 404 for unknown product", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		req := httptest.NewRequest(http.MethodGet, "/api/products/P999", nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("GET /health needs no session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestShoppingFlowAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("Register, fill the cart, check out, confirm", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		session := registerCustomer(t, server, "flow1@example.com")

		// Fill the cart.
		req := httptest.NewRequest(http.MethodPost, "/api/cart/items",
			strings.NewReader(`{"productId": "P001", "quantity": 2}`))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(session)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		// The badge counts the summed quantity.
		req = httptest.NewRequest(http.MethodGet, "/api/cart/count", nil)
		req.AddCookie(session)
		w = httptest.NewRecorder()
		server.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"count": 2}`, w.Body.String())

		// Check out with a form post, as the storefront pages do.
		form := url.Values{"address": {"1 Main St"}, "paymentMethod": {"card"}}
		req = httptest.NewRequest(http.MethodPost, "/order/checkout", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(session)
		w = httptest.NewRecorder()
		server.ServeHTTP(w, req)
		require.Equal(t, http.StatusSeeOther, w.Code)

		location := w.Header().Get("Location")
		require.True(t, strings.HasPrefix(location, "/order/confirm/"))

		// The confirmation page shows the snapshot.
		req = httptest.NewRequest(http.MethodGet, location, nil)
		req.AddCookie(session)
		w = httptest.NewRecorder()
		server.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"totalAmount":20`)

		// The cart is empty afterwards.
		req = httptest.NewRequest(http.MethodGet, "/api/cart/count", nil)
		req.AddCookie(session)
		w = httptest.NewRecorder()
		server.ServeHTTP(w, req)
		assert.JSONEq(t, `{"count": 0}`, w.Body.String())
	})

	t.Run("Checkout with an empty cart bounces back", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		session := registerCustomer(t, server, "flow2@example.com")

		form := url.Values{"address": {"1 Main St"}, "paymentMethod": {"card"}}
		req := httptest.NewRequest(http.MethodPost, "/order/checkout", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(session)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/cart", w.Header().Get("Location"))
	})

	t.Run("Cart requires a session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Anonymous cart badge reads zero", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cart/count", nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"count": 0}`, w.Body.String())
	})
}

func TestPaymentNotifyAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("Garbled payload is acknowledged, not retried", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		form := url.Values{"TradeInfo": {"not-even-hex"}}
		req := httptest.NewRequest(http.MethodPost, "/payment/notify", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "OK", w.Body.String())
	})
}

func TestBackofficeAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("Admin creates a product and reads the audit trail", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedUser(t, testDB.Pool, "admin@example.com", model.RoleAdmin)
		session := backofficeLogin(t, server, "admin@example.com")

		body := `{"id": "P100", "name": "New Product", "price": 12.50, "isActive": true}`
		req := httptest.NewRequest(http.MethodPost, "/api/admin/products", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(session)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code)

		// The new product is live on the storefront.
		req = httptest.NewRequest(http.MethodGet, "/api/products/P100", nil)
		w = httptest.NewRecorder()
		server.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		// The creation landed in the operation log.
		req = httptest.NewRequest(http.MethodGet, "/api/admin/logs", nil)
		req.AddCookie(session)
		w = httptest.NewRecorder()
		server.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "P100")
	})

	t.Run("Admin manages accounts", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedUser(t, testDB.Pool, "admin@example.com", model.RoleAdmin)
		SeedUser(t, testDB.Pool, "carol@example.com", model.RoleUser)
		session := backofficeLogin(t, server, "admin@example.com")

		// Create an account.
		body := `{"username": "dave", "email": "dave@example.com", "password": "password123"}`
		req := httptest.NewRequest(http.MethodPost, "/api/admin/users", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(session)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code)

		var created model.User
		require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
		assert.Equal(t, "dave", created.Username)

		// Keyword search finds it.
		req = httptest.NewRequest(http.MethodGet, "/api/admin/users?keyword=dave", nil)
		req.AddCookie(session)
		w = httptest.NewRecorder()
		server.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var page model.UserPage
		require.NoError(t, json.NewDecoder(w.Body).Decode(&page))
		require.Equal(t, 1, page.TotalItems)
		assert.Equal(t, "dave@example.com", page.Data[0].Email)

		// Batch deactivation reports the affected count.
		body = `{"userIds": ["` + created.ID.String() + `"], "isActive": false}`
		req = httptest.NewRequest(http.MethodPatch, "/api/admin/users/batch-status", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(session)
		w = httptest.NewRecorder()
		server.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success": true, "updatedCount": 1}`, w.Body.String())

		// Deletion works while the account has no orders.
		req = httptest.NewRequest(http.MethodDelete, "/api/admin/users/"+created.ID.String(), nil)
		req.AddCookie(session)
		w = httptest.NewRecorder()
		server.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		req = httptest.NewRequest(http.MethodGet, "/api/admin/users/"+created.ID.String(), nil)
		req.AddCookie(session)
		w = httptest.NewRecorder()
		server.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Accounts with orders cannot be deleted", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedProducts(t, testDB.Pool)
		SeedUser(t, testDB.Pool, "admin@example.com", model.RoleAdmin)
		buyer := SeedUser(t, testDB.Pool, "buyer@example.com", model.RoleUser)
		SeedDeliveredOrder(t, testDB.Pool, buyer, "P001")
		session := backofficeLogin(t, server, "admin@example.com")

		req := httptest.NewRequest(http.MethodDelete, "/api/admin/users/"+buyer.String(), nil)
		req.AddCookie(session)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "deactivate")
	})

	t.Run("Customer session cannot reach the back-office", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		session := registerCustomer(t, server, "notadmin@example.com")

		req := httptest.NewRequest(http.MethodGet, "/api/admin/reports", nil)
		req.AddCookie(session)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		// A customer cookie is the wrong scheme for the back-office guard.
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Back-office login rejects non-admin credentials", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedUser(t, testDB.Pool, "plain@example.com", model.RoleUser)

		body := `{"email": "plain@example.com", "password": "password123"}`
		req := httptest.NewRequest(http.MethodPost, "/api/backoffice/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestCORS_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	t.Run("OPTIONS request returns CORS headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "GET")
	})
}
