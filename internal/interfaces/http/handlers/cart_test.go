// internal/interfaces/http/handlers/cart_test.go
package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/domain/cart"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/infrastructure/storage"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newCartRouter(t *testing.T) (*gin.Engine, *cart.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	carts := cart.NewStore(storage.NewMemoryStore(), testLogger())
	handler := NewCartHandler(carts)

	router := gin.New()
	router.GET("/cart", handler.GetCart)
	router.GET("/cart/summary", handler.GetSummary)
	router.POST("/cart/items", handler.AddItem)
	router.PUT("/cart/items/:id", handler.UpdateItem)
	router.DELETE("/cart/items/:id", handler.RemoveItem)
	router.DELETE("/cart", handler.ClearCart)
	return router, carts
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAddItemEndpoint(t *testing.T) {
	router, carts := newCartRouter(t)

	w := doJSON(router, http.MethodPost, "/cart/items",
		`{"id": "7", "name": "Miere", "price": "40 RON", "quantity": 2}`)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 2, carts.ItemQuantity("7"))

	var resp struct {
		Items  []cart.Line `json:"items"`
		Totals cart.Totals `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.InDelta(t, 80.0, resp.Totals.Total, 0.001)
}

func TestAddItemValidation(t *testing.T) {
	router, _ := newCartRouter(t)

	w := doJSON(router, http.MethodPost, "/cart/items", `{"quantity": 2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateItemEndpoint(t *testing.T) {
	router, carts := newCartRouter(t)
	carts.AddItem(cart.Snapshot{ProductID: "7", Name: "Miere", Price: "40 RON"}, 1)

	w := doJSON(router, http.MethodPut, "/cart/items/7", `{"quantity": 5}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, carts.ItemQuantity("7"))

	// Zero removes the line.
	w = doJSON(router, http.MethodPut, "/cart/items/7", `{"quantity": 0}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, carts.IsInCart("7"))
}

func TestRemoveAndClearEndpoints(t *testing.T) {
	router, carts := newCartRouter(t)
	carts.AddItem(cart.Snapshot{ProductID: "7", Name: "Miere", Price: "40 RON"}, 1)
	carts.AddItem(cart.Snapshot{ProductID: "8", Name: "Nuci", Price: "30 RON"}, 1)

	w := doJSON(router, http.MethodDelete, "/cart/items/7", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, carts.IsInCart("7"))
	assert.True(t, carts.IsInCart("8"))

	w = doJSON(router, http.MethodDelete, "/cart", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, carts.Items())
}

func TestSummaryEndpoint(t *testing.T) {
	router, carts := newCartRouter(t)
	carts.AddItem(cart.Snapshot{ProductID: "7", Name: "Miere", Price: "40 RON"}, 2)
	carts.AddItem(cart.Snapshot{ProductID: "8", Name: "Brânză", Price: "12,50 lei"}, 1)

	w := doJSON(router, http.MethodGet, "/cart/summary", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var totals cart.Totals
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &totals))
	assert.Equal(t, 2, totals.Lines)
	assert.Equal(t, 3, totals.ItemCount)
	assert.InDelta(t, 92.50, totals.Total, 0.001)
}
