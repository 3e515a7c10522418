package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/GOSUGING/levelup-storefront-go/internal/cart"
	"github.com/GOSUGING/levelup-storefront-go/internal/clients"
	"github.com/GOSUGING/levelup-storefront-go/internal/identity"
	"github.com/GOSUGING/levelup-storefront-go/internal/middleware"
)

type Deps struct {
	Logger *zap.Logger

	Manager *cart.Manager
	Session *identity.Session
	Auth    Registrar

	// Users is the auth gateway again, for the admin user-management routes.
	Users *clients.AuthClient

	Catalog *clients.CatalogClient
	Coupons *clients.CouponsClient
	Payment *clients.PaymentClient
	Billing *clients.BillingClient

	CORSAllowOrigins []string
}

func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler)
	mux.Handle("GET /metrics", promhttp.Handler())

	ch := NewCartHandler(d.Manager)
	mux.HandleFunc("GET /api/cart", ch.GetCart)
	mux.HandleFunc("POST /api/cart/items", ch.AddItem)
	mux.HandleFunc("PATCH /api/cart/items/{productId}", ch.SetQuantity)
	mux.HandleFunc("POST /api/cart/items/{productId}/increment", ch.Increment)
	mux.HandleFunc("POST /api/cart/items/{productId}/decrement", ch.Decrement)
	mux.HandleFunc("DELETE /api/cart/items/{productId}", ch.RemoveItem)
	mux.HandleFunc("DELETE /api/cart", ch.Clear)

	sh := NewSessionHandler(d.Session, d.Manager, d.Auth, d.Logger)
	mux.HandleFunc("GET /api/session", sh.Current)
	mux.HandleFunc("POST /api/session/login", sh.Login)
	mux.HandleFunc("POST /api/session/register", sh.Register)
	mux.HandleFunc("POST /api/session/logout", sh.Logout)

	cat := NewCatalogHandler(d.Catalog, d.Coupons)
	mux.HandleFunc("GET /api/products", cat.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", cat.GetProduct)
	mux.HandleFunc("GET /api/coupons/{code}", cat.GetCoupon)

	co := NewCheckoutHandler(d.Session, d.Manager, d.Coupons, d.Payment, d.Logger)
	mux.HandleFunc("POST /api/checkout", co.Checkout)

	bh := NewBillingHandler(d.Session, d.Billing)
	mux.HandleFunc("GET /api/bills", bh.ListBills)
	mux.HandleFunc("GET /api/bills/{id}", bh.GetBill)

	ah := NewAdminHandler(d.Session, d.Catalog, d.Coupons, d.Payment, d.Users)
	mux.HandleFunc("POST /api/products", ah.CreateProduct)
	mux.HandleFunc("PUT /api/products/{id}", ah.UpdateProduct)
	mux.HandleFunc("DELETE /api/products/{id}", ah.DeleteProduct)
	mux.HandleFunc("GET /api/admin/coupons", ah.ListCoupons)
	mux.HandleFunc("POST /api/admin/coupons", ah.CreateCoupon)
	mux.HandleFunc("PUT /api/admin/coupons/{id}", ah.UpdateCoupon)
	mux.HandleFunc("DELETE /api/admin/coupons/{id}", ah.DeleteCoupon)
	mux.HandleFunc("GET /api/admin/payments", ah.ListPayments)
	mux.HandleFunc("GET /api/admin/payments/{id}", ah.GetPayment)
	mux.HandleFunc("GET /api/users", ah.ListUsers)
	mux.HandleFunc("PUT /api/users/{id}", ah.UpdateUser)
	mux.HandleFunc("DELETE /api/users/{id}", ah.DeleteUser)

	// Middlewares (inner -> outer)
	var h http.Handler = mux
	h = middleware.Recover(d.Logger)(h)
	h = middleware.CORS(d.CORSAllowOrigins)(h)
	h = middleware.Metrics(h)
	h = middleware.CorrelationID(h)

	return h
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok", "service": "storefront"}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
