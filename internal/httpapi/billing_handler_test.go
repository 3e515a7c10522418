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

func newBillingFixture(t *testing.T, userJSON string, handler http.HandlerFunc) *routerFixture {
	t.Helper()
	log := zap.NewNop()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	slots := newMemSlots()
	if userJSON != "" {
		slots.data[identity.StorageKey] = []byte(userJSON)
	}
	session := identity.NewSession(slots, &stubAuth{}, log)

	h := NewRouter(Deps{
		Logger:  log,
		Session: session,
		Billing: clients.NewBillingClient(clients.NewClient("billing-service", srv.URL, srv.Client())),
	})
	return &routerFixture{handler: h, session: session, slots: slots}
}

const billListBody = `[
	{"id":1,"userId":"u1","total":19990,"date":"2026-08-01"},
	{"id":2,"userId":"u2","total":5000,"date":"2026-08-02"},
	{"id":3,"userId":"u1","total":7500,"date":"2026-08-03"}
]`

func TestListBillsFiltersByOwner(t *testing.T) {
	f := newBillingFixture(t, `{"id":"u1","name":"Ana"}`, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/bill/list" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(billListBody))
	})

	rec := f.do(t, http.MethodGet, "/api/bills", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var bills []clients.Bill
	if err := json.Unmarshal(rec.Body.Bytes(), &bills); err != nil {
		t.Fatal(err)
	}
	if len(bills) != 2 {
		t.Fatalf("bills = %+v", bills)
	}
	for _, b := range bills {
		if b.UserID != "u1" {
			t.Fatalf("leaked bill %+v", b)
		}
	}
}

func TestBillsRequireLogin(t *testing.T) {
	f := newBillingFixture(t, "", func(w http.ResponseWriter, r *http.Request) {
		t.Error("no upstream call expected while anonymous")
	})

	for _, path := range []string{"/api/bills", "/api/bills/1"} {
		if rec := f.do(t, http.MethodGet, path, ""); rec.Code != http.StatusUnauthorized {
			t.Fatalf("GET %s: status = %d, want 401", path, rec.Code)
		}
	}
}

func TestGetBillHidesForeignBills(t *testing.T) {
	f := newBillingFixture(t, `{"id":"u1","name":"Ana"}`, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":2,"userId":"u2","total":5000,"date":"2026-08-02"}`))
	})

	rec := f.do(t, http.MethodGet, "/api/bills/2", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
