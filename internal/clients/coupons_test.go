package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newCouponsClient(t *testing.T, handler http.HandlerFunc) *CouponsClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewCouponsClient(NewClient("coupons-service", srv.URL, srv.Client()))
}

func TestCouponsFindByCode(t *testing.T) {
	var gotPath string
	cc := newCouponsClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c-1","discount_code":"VERANO10","discount_value":10,"state":"active"}`))
	})

	// Codes are matched case-insensitively; the lookup normalizes to upper.
	c, err := cc.FindByCode(context.Background(), "  verano10 ")
	require.NoError(t, err)
	require.Equal(t, "/api/v1/coupons/code/VERANO10", gotPath)

	require.NotNil(t, c)
	require.Equal(t, "VERANO10", c.Code)
	require.True(t, c.DiscountPercent.Equal(decimal.NewFromInt(10)))
	require.Equal(t, "active", c.State)
}

func TestCouponsFindByCodeUnknown(t *testing.T) {
	cc := newCouponsClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	c, err := cc.FindByCode(context.Background(), "NOPE")
	require.NoError(t, err)
	require.Nil(t, c)
}

func TestCouponsFindByCodeEmpty(t *testing.T) {
	cc := newCouponsClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for a blank code")
	})

	c, err := cc.FindByCode(context.Background(), "   ")
	require.NoError(t, err)
	require.Nil(t, c)
}

func TestCouponsFindByCodeUpstreamError(t *testing.T) {
	cc := newCouponsClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	// Only 404 means unknown; other failures surface as errors.
	c, err := cc.FindByCode(context.Background(), "VERANO10")
	require.Error(t, err)
	require.Nil(t, c)
}

func TestCouponsList(t *testing.T) {
	cc := newCouponsClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/coupons", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"c-1","discount_code":"VERANO10","discount_value":10,"state":"active"},
			{"id":"c-2","discount_code":"INVIERNO20","discount_value":20,"state":"inactive"}
		]`))
	})

	coupons, err := cc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, coupons, 2)
	require.Equal(t, "INVIERNO20", coupons[1].Code)
	require.True(t, coupons[1].DiscountPercent.Equal(decimal.NewFromInt(20)))
}
