package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductService) Update(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func TestProductHandler_GetAll(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Success", func(t *testing.T) {
		mockProducts := new(MockProductService)
		h := NewProductHandler(mockProducts, logger)

		products := []model.Product{
			{ID: "P001", Name: "Product 1", Price: 10.00, IsActive: true},
			{ID: "P002", Name: "Product 2", Price: 20.00, IsActive: true},
		}
		mockProducts.On("GetAll", mock.Anything, 10, 0).Return(products, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		w := httptest.NewRecorder()

		h.GetAll(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var got []model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Len(t, got, 2)
		assert.Equal(t, "P001", got[0].ID)
	})

	t.Run("Pagination parameters pass through", func(t *testing.T) {
		mockProducts := new(MockProductService)
		h := NewProductHandler(mockProducts, logger)

		mockProducts.On("GetAll", mock.Anything, 2, 4).Return([]model.Product{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/products?limit=2&offset=4", nil)
		w := httptest.NewRecorder()

		h.GetAll(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockProducts.AssertExpectations(t)
	})

	t.Run("Garbage pagination falls back to defaults", func(t *testing.T) {
		mockProducts := new(MockProductService)
		h := NewProductHandler(mockProducts, logger)

		mockProducts.On("GetAll", mock.Anything, 10, 0).Return([]model.Product{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/products?limit=lots&offset=-", nil)
		w := httptest.NewRecorder()

		h.GetAll(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockProducts.AssertExpectations(t)
	})
}

func TestProductHandler_GetByID(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Success", func(t *testing.T) {
		mockProducts := new(MockProductService)
		h := NewProductHandler(mockProducts, logger)

		product := &model.Product{ID: "P001", Name: "Product 1", Price: 10.00, IsActive: true}
		mockProducts.On("GetByID", mock.Anything, "P001").Return(product, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/products/P001", nil)
		req.SetPathValue("id", "P001")
		w := httptest.NewRecorder()

		h.GetByID(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var got model.Product
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, "P001", got.ID)
	})

	t.Run("Unknown product", func(t *testing.T) {
		mockProducts := new(MockProductService)
		h := NewProductHandler(mockProducts, logger)

		mockProducts.On("GetByID", mock.Anything, "P999").Return(nil, model.ErrProductNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/products/P999", nil)
		req.SetPathValue("id", "P999")
		w := httptest.NewRecorder()

		h.GetByID(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
