package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCartHandler_AddItem(t *testing.T) {
	logger := zerolog.Nop()
	userID := uuid.New()

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectSuccess  bool
		expectService  bool
	}{
		{
			name:           "Success",
			body:           `{"productId": "P001", "quantity": 2}`,
			expectedStatus: http.StatusOK,
			expectSuccess:  true,
			expectService:  true,
		},
		{
			name:           "Invalid body",
			body:           `{not json`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Unknown product",
			body:           `{"productId": "P999", "quantity": 1}`,
			serviceErr:     model.ErrProductNotFound,
			expectedStatus: http.StatusNotFound,
			expectService:  true,
		},
		{
			name:           "Insufficient stock",
			body:           `{"productId": "P001", "quantity": 50}`,
			serviceErr:     model.ErrInsufficientStock,
			expectedStatus: http.StatusBadRequest,
			expectService:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCart := new(MockCartService)
			h := NewCartHandler(mockCart, logger)

			if tt.expectService {
				var item *model.CartItem
				if tt.serviceErr == nil {
					item = &model.CartItem{ID: uuid.New(), UserID: userID, ProductID: "P001", Quantity: 2}
				}
				mockCart.On("AddItem", mock.Anything, userID, mock.AnythingOfType("string"), mock.AnythingOfType("int")).
					Return(item, tt.serviceErr)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(tt.body))
			req = withPrincipal(req, userID, model.RoleUser)
			w := httptest.NewRecorder()

			h.AddItem(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectSuccess {
				assert.Contains(t, w.Body.String(), `"success":true`)
			} else {
				assert.Contains(t, w.Body.String(), `"success":false`)
			}
		})
	}
}

func TestCartHandler_Count(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Authenticated", func(t *testing.T) {
		userID := uuid.New()
		mockCart := new(MockCartService)
		h := NewCartHandler(mockCart, logger)

		mockCart.On("Count", mock.Anything, userID).Return(7)

		req := httptest.NewRequest(http.MethodGet, "/api/cart/count", nil)
		req = withPrincipal(req, userID, model.RoleUser)
		w := httptest.NewRecorder()

		h.Count(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"count": 7}`, w.Body.String())
	})

	t.Run("Anonymous gets zero, not a 401", func(t *testing.T) {
		mockCart := new(MockCartService)
		h := NewCartHandler(mockCart, logger)

		mockCart.On("Count", mock.Anything, uuid.Nil).Return(0)

		req := httptest.NewRequest(http.MethodGet, "/api/cart/count", nil)
		w := httptest.NewRecorder()

		h.Count(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"count": 0}`, w.Body.String())
	})
}

func TestCartHandler_UpdateItem(t *testing.T) {
	logger := zerolog.Nop()
	userID := uuid.New()
	itemID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockCart := new(MockCartService)
		h := NewCartHandler(mockCart, logger)

		mockCart.On("UpdateQuantity", mock.Anything, userID, itemID, 3).Return(nil)

		req := httptest.NewRequest(http.MethodPut, "/api/cart/items/"+itemID.String(), strings.NewReader(`{"quantity": 3}`))
		req.SetPathValue("id", itemID.String())
		req = withPrincipal(req, userID, model.RoleUser)
		w := httptest.NewRecorder()

		h.UpdateItem(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Unknown line", func(t *testing.T) {
		mockCart := new(MockCartService)
		h := NewCartHandler(mockCart, logger)

		mockCart.On("UpdateQuantity", mock.Anything, userID, itemID, 3).Return(model.ErrCartItemNotFound)

		req := httptest.NewRequest(http.MethodPut, "/api/cart/items/"+itemID.String(), strings.NewReader(`{"quantity": 3}`))
		req.SetPathValue("id", itemID.String())
		req = withPrincipal(req, userID, model.RoleUser)
		w := httptest.NewRecorder()

		h.UpdateItem(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Malformed item id", func(t *testing.T) {
		mockCart := new(MockCartService)
		h := NewCartHandler(mockCart, logger)

		req := httptest.NewRequest(http.MethodPut, "/api/cart/items/nope", strings.NewReader(`{"quantity": 3}`))
		req.SetPathValue("id", "nope")
		req = withPrincipal(req, userID, model.RoleUser)
		w := httptest.NewRecorder()

		h.UpdateItem(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockCart.AssertNotCalled(t, "UpdateQuantity")
	})
}

func TestCartHandler_Get_Unauthenticated(t *testing.T) {
	logger := zerolog.Nop()

	mockCart := new(MockCartService)
	h := NewCartHandler(mockCart, logger)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	w := httptest.NewRecorder()

	h.Get(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockCart.AssertNotCalled(t, "GetLines")
}
