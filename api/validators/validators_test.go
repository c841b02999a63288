package validators

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/agrofix/agrofix-backend/pkg/errors"
	"github.com/agrofix/agrofix-backend/pkg/types"
	"github.com/go-chi/chi/v5"
)

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(`{"username":"bob","password":"secret1","isAdmin":true}`))
	var dest types.RegisterRequest
	err := DecodeJSONBody(req, &dest)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

type countingReader struct {
	r    io.Reader
	read int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += int64(n)
	return n, err
}

type spaces struct{}

func (spaces) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = ' '
	}
	return len(p), nil
}

func TestDecodeJSONBodyBoundsReadOfOversizedBody(t *testing.T) {
	body := &countingReader{r: io.MultiReader(
		strings.NewReader(`{"username":"bob","password":"secret1"}`),
		io.LimitReader(spaces{}, 16*maxBodyBytes),
	)}
	req := httptest.NewRequest(http.MethodPost, "/api/register", body)
	var dest types.RegisterRequest
	if err := DecodeJSONBody(req, &dest); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dest.Username != "bob" {
		t.Fatalf("unexpected username %q", dest.Username)
	}
	if body.read > 2*maxBodyBytes {
		t.Fatalf("read %d bytes of an oversized body, want at most %d", body.read, 2*maxBodyBytes)
	}
}

func TestDecodeJSONBodyFieldMessages(t *testing.T) {
	body := `{"name":"Apples","price":0,"minOrderQuantity":-1}`
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
	var dest types.CreateProductRequest
	err := DecodeJSONBody(req, &dest)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details %T", typed.Details())
	}
	if details["price"] != "is required" {
		t.Fatalf("unexpected price detail %q", details["price"])
	}
	if details["minOrderQuantity"] != "must be greater than 0" {
		t.Fatalf("unexpected moq detail %q", details["minOrderQuantity"])
	}
	if typed.Message() != "minOrderQuantity: must be greater than 0; price: is required" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestDecodeJSONBodyNestedItems(t *testing.T) {
	body := `{"buyerName":"A","email":"a","phone":"1","deliveryAddress":"x","city":"c","state":"s","pincode":"p","preferredDeliveryDate":"d","items":[{"productId":1,"quantity":0}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	var dest types.CreateOrderRequest
	err := DecodeJSONBody(req, &dest)
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected error")
	}
	details := typed.Details().(map[string]string)
	if _, ok := details["items[0].quantity"]; !ok {
		t.Fatalf("expected nested field path, got %v", details)
	}
}

func TestParseIDParam(t *testing.T) {
	build := func(id string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	if id, err := ParseIDParam(build("42"), "id"); err != nil || id != 42 {
		t.Fatalf("expected 42, got %d err=%v", id, err)
	}
	for _, raw := range []string{"abc", "0", "-3", ""} {
		if _, err := ParseIDParam(build(raw), "id"); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("expected validation error for %q, got %v", raw, err)
		}
	}
}

func TestParseQueryBool(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/products?inStock=true", nil)
	if v, err := ParseQueryBool(req, "inStock"); err != nil || !v {
		t.Fatalf("expected true, got %v err=%v", v, err)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/products?inStock=maybe", nil)
	if _, err := ParseQueryBool(req, "inStock"); err == nil {
		t.Fatalf("expected error for invalid bool")
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := BearerToken(req); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}
	req.Header.Set("Authorization", "bearer abc.def")
	if got := BearerToken(req); got != "abc.def" {
		t.Fatalf("unexpected token %q", got)
	}
	req.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
	if got := BearerToken(req); got != "" {
		t.Fatalf("basic auth must not be treated as bearer, got %q", got)
	}
}
