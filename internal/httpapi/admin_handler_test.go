package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/GOSUGING/levelup-storefront-go/internal/clients"
	"github.com/GOSUGING/levelup-storefront-go/internal/identity"
)

func newAdminFixture(t *testing.T, userJSON string, upstream http.HandlerFunc) *routerFixture {
	t.Helper()
	log := zap.NewNop()

	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	slots := newMemSlots()
	if userJSON != "" {
		slots.data[identity.StorageKey] = []byte(userJSON)
	}
	session := identity.NewSession(slots, &stubAuth{}, log)

	base := func(name string) *clients.Client { return clients.NewClient(name, srv.URL, srv.Client()) }
	h := NewRouter(Deps{
		Logger:  log,
		Session: session,
		Catalog: clients.NewCatalogClient(base("product-service")),
		Coupons: clients.NewCouponsClient(base("coupon-service")),
		Payment: clients.NewPaymentClient(base("payment-service")),
		Users:   clients.NewAuthClient(base("auth-service")),
	})
	return &routerFixture{handler: h, session: session, slots: slots}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	routes := []struct {
		method, path string
	}{
		{http.MethodPost, "/api/products"},
		{http.MethodPut, "/api/products/1"},
		{http.MethodDelete, "/api/products/1"},
		{http.MethodGet, "/api/admin/coupons"},
		{http.MethodPost, "/api/admin/coupons"},
		{http.MethodDelete, "/api/admin/coupons/c-1"},
		{http.MethodGet, "/api/admin/payments"},
		{http.MethodGet, "/api/users"},
		{http.MethodPut, "/api/users/u2"},
		{http.MethodDelete, "/api/users/u2"},
	}

	t.Run("anonymous", func(t *testing.T) {
		f := newAdminFixture(t, "", func(w http.ResponseWriter, r *http.Request) {
			t.Error("no upstream call expected")
		})
		for _, rt := range routes {
			if rec := f.do(t, rt.method, rt.path, "{}"); rec.Code != http.StatusUnauthorized {
				t.Fatalf("%s %s: status = %d, want 401", rt.method, rt.path, rec.Code)
			}
		}
	})

	t.Run("customer", func(t *testing.T) {
		f := newAdminFixture(t, `{"id":"u1","name":"Ana","role":"customer"}`, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no upstream call expected")
		})
		for _, rt := range routes {
			if rec := f.do(t, rt.method, rt.path, "{}"); rec.Code != http.StatusForbidden {
				t.Fatalf("%s %s: status = %d, want 403", rt.method, rt.path, rec.Code)
			}
		}
	})
}

func TestAdminCreateProduct(t *testing.T) {
	f := newAdminFixture(t, `{"id":"a1","name":"Root","role":"admin"}`, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/products" {
			t.Errorf("upstream got %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"name":"Gaming Chair","price":149990,"stock":3}`))
	})

	rec := f.do(t, http.MethodPost, "/api/products",
		`{"name":"Gaming Chair","price":149990,"stock":3}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var p clients.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.ID != "7" || p.Stock != 3 {
		t.Fatalf("product = %+v", p)
	}
}

func TestAdminUpdateCouponKeysByPathID(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	f := newAdminFixture(t, `{"id":"a1","name":"Root","role":"admin"}`, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c-1","discount_code":"VERANO10","discount_value":15,"state":"active"}`))
	})

	rec := f.do(t, http.MethodPut, "/api/admin/coupons/c-1",
		`{"code":"VERANO10","discountPercent":15,"state":"active"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if gotPath != "/api/v1/coupons/c-1" {
		t.Fatalf("upstream path = %s", gotPath)
	}
	// The path id wins over whatever the body carried.
	if gotBody["id"] != "c-1" {
		t.Fatalf("upstream body id = %v", gotBody["id"])
	}
}

func TestAdminListUsers(t *testing.T) {
	f := newAdminFixture(t, `{"id":"a1","name":"Root","role":"admin"}`, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/users" {
			t.Errorf("upstream got %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":1,"name":"Ana","email":"ana@example.com","role":"customer"},
			{"id":2,"name":"Ben","email":"ben@example.com","role":"admin"}
		]`))
	})

	rec := f.do(t, http.MethodGet, "/api/users", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var users []identity.User
	if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
		t.Fatal(err)
	}
	if len(users) != 2 || users[0].ID != "1" || users[1].Role != "admin" {
		t.Fatalf("users = %+v", users)
	}
}

func TestAdminUpdateUser(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	f := newAdminFixture(t, `{"id":"a1","name":"Root","role":"admin"}`, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":2,"name":"Ben","email":"ben@example.com","role":"admin"}`))
	})

	rec := f.do(t, http.MethodPut, "/api/users/2", `{"role":"admin"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if gotPath != "/api/users/2" {
		t.Fatalf("upstream path = %s", gotPath)
	}
	if gotBody["role"] != "admin" {
		t.Fatalf("upstream body = %v", gotBody)
	}
}

func TestAdminDeleteUser(t *testing.T) {
	f := newAdminFixture(t, `{"id":"a1","name":"Root","role":"admin"}`, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/users/2" {
			t.Errorf("upstream got %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	rec := f.do(t, http.MethodDelete, "/api/users/2", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAdminDeleteProduct(t *testing.T) {
	f := newAdminFixture(t, `{"id":"a1","name":"Root","role":"admin"}`, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/v1/products/7" {
			t.Errorf("upstream got %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	rec := f.do(t, http.MethodDelete, "/api/products/7", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
}
