package clients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/GOSUGING/levelup-storefront-go/internal/cart"
)

const cartBody = `{"items":[
	{"id":101,"productId":7,"name":"Gaming Mouse","price":19990,"qty":2,"imageUrl":"/img/mouse.png"},
	{"id":102,"productId":"p-8","name":"Mouse Pad","price":4990,"qty":1},
	{"id":103,"productId":9,"name":"Stale Line","price":990,"qty":0}
]}`

func newCartClient(t *testing.T, handler http.HandlerFunc) (*CartClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewCartClient(NewClient("cart-service", srv.URL, srv.Client())), srv
}

func TestCartClientFetch(t *testing.T) {
	var gotMethod, gotPath string
	cc, _ := newCartClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(cartBody))
	})

	items, err := cc.Fetch(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, http.MethodGet, gotMethod)
	require.Equal(t, "/api/cart/u1", gotPath)

	// The zero-quantity line is dropped during normalization.
	require.Len(t, items, 2)
	// Numeric wire ids come back as opaque strings; the service's line id
	// lands in CartItemID, never in ProductID.
	require.Equal(t, cart.ID("7"), items[0].ProductID)
	require.Equal(t, cart.ID("101"), items[0].CartItemID)
	require.Equal(t, "Gaming Mouse", items[0].Name)
	require.Equal(t, 2, items[0].Quantity)
	require.True(t, items[0].UnitPrice.Equal(decimal.NewFromInt(19990)))
	require.Equal(t, cart.ID("p-8"), items[1].ProductID)
}

func TestCartClientAdd(t *testing.T) {
	var gotBody map[string]any
	cc, _ := newCartClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/cart/u1/items", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(cartBody))
	})

	it := cart.Item{
		ProductID: "7",
		Name:      "Gaming Mouse",
		UnitPrice: decimal.NewFromInt(19990),
		Quantity:  2,
		ImageURL:  "/img/mouse.png",
	}
	items, err := cc.Add(context.Background(), "u1", it)
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.Equal(t, "7", gotBody["productId"])
	require.Equal(t, "Gaming Mouse", gotBody["name"])
	require.EqualValues(t, 2, gotBody["qty"])
}

func TestCartClientUpdateQuantity(t *testing.T) {
	cc, _ := newCartClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/api/cart/u1/items/101", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.EqualValues(t, 3, body["qty"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(cartBody))
	})

	_, err := cc.UpdateQuantity(context.Background(), "u1", "101", 3)
	require.NoError(t, err)
}

func TestCartClientRemoveAndClear(t *testing.T) {
	var paths []string
	cc, _ := newCartClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[]}`))
	})

	ctx := context.Background()
	items, err := cc.Remove(ctx, "u1", "101")
	require.NoError(t, err)
	require.Empty(t, items)

	items, err = cc.Clear(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, items)

	require.Equal(t, []string{"/api/cart/u1/items/101", "/api/cart/u1"}, paths)
}

func TestCartClientNon2xx(t *testing.T) {
	cc, _ := newCartClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Failure bodies are not required to be JSON.
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	})

	_, err := cc.Fetch(context.Background(), "u1")
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusInternalServerError, se.StatusCode)
	require.Equal(t, "cart-service", se.Service)
}
