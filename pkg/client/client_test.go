package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrofix/agrofix-backend/pkg/types"
)

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func TestLoginStoresTokenAndCookie(t *testing.T) {
	var sawBearer, sawCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			var creds types.Credentials
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "asha", creds.Username)
			http.SetCookie(w, &http.Cookie{Name: "agrofix.sid", Value: "sid-1", Path: "/"})
			writeData(w, http.StatusOK, types.AuthResult{User: types.User{ID: 3, Username: "asha"}, Token: "jwt-1"})
		case "/api/user":
			sawBearer = r.Header.Get("Authorization")
			if c, err := r.Cookie("agrofix.sid"); err == nil {
				sawCookie = c.Value
			}
			writeData(w, http.StatusOK, types.User{ID: 3, Username: "asha"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c, err := New(srv.URL + "/")
	require.NoError(t, err)

	res, err := c.Login(context.Background(), "asha", "pw")
	require.NoError(t, err)
	assert.Equal(t, "jwt-1", res.Token)
	assert.Equal(t, "jwt-1", c.Token())

	user, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
	assert.Equal(t, "Bearer jwt-1", sawBearer)
	assert.Equal(t, "sid-1", sawCookie)
}

func TestErrorEnvelopeIsDecoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":"VALIDATION_ERROR","message":"status: is invalid","details":{"status":"is invalid"}}}`)
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.UpdateOrderStatus(context.Background(), 1, "Lost")
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Contains(t, apiErr.Error(), "status: is invalid")
}

func TestNonEnvelopeErrorKeepsBodyPreview(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "upstream down")
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)
	_, err = c.ListProducts(context.Background(), ProductQuery{})
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "upstream down", apiErr.Message)
}

func TestCreateOrderSendsIdempotencyKeyAndQuery(t *testing.T) {
	var key string
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/orders":
			key = r.Header.Get("Idempotency-Key")
			writeData(w, http.StatusCreated, types.Order{ID: 1, OrderNumber: "AGF-2025-000001", TotalAmount: 25000})
		case "/api/products":
			query = r.URL.RawQuery
			writeData(w, http.StatusOK, []types.Product{})
		}
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	order, err := c.CreateOrder(context.Background(), types.CreateOrderRequest{BuyerName: "A"}, "key-1")
	require.NoError(t, err)
	assert.Equal(t, "AGF-2025-000001", order.OrderNumber)
	assert.Equal(t, "key-1", key)

	products, err := c.ListProducts(context.Background(), ProductQuery{Category: "Fruits", InStock: true})
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.Equal(t, "category=Fruits&inStock=true", query)
}

func TestReplaceCartSendsEmptyArrayForNil(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		writeData(w, http.StatusOK, types.Cart{Items: types.LineItems{}})
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithToken("t"))
	require.NoError(t, err)
	_, err = c.ReplaceCart(context.Background(), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, body)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New("not a url")
	assert.Error(t, err)
}
