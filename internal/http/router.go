package httpapi

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"tavolo-order-service/internal/http/handlers"
	"tavolo-order-service/internal/middleware"
	"tavolo-order-service/internal/ws"
)

func NewRouter(h *handlers.Handler, logger *zap.Logger, wsServer *ws.Server) http.Handler {
	cfg := h.Config

	r := chi.NewRouter()
	r.Use(requestLogger(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Telemetry(logger))

	if cfg.Env == "development" || len(cfg.CorsAllowedOrigins) > 0 {
		options := cors.Options{
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{
				"Accept",
				"Authorization",
				"Content-Type",
				"X-Requested-With",
				"Cache-Control",
				"Pragma",
			},
			AllowCredentials: true,
			MaxAge:           300,
		}

		if cfg.Env == "development" {
			options.AllowOriginFunc = func(_ *http.Request, origin string) bool {
				return true
			}
		} else {
			options.AllowedOrigins = cfg.CorsAllowedOrigins
		}

		r.Use(cors.Handler(options))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Get("/products", h.PublicListProducts)
		r.Get("/reviews", h.PublicListReviews)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(h.Sessions, cfg.JWTSecret))

		r.Post("/logout", h.Logout)
		r.Post("/orders", h.CreateOrder)
		r.Get("/orders", h.MyOrders)
		r.Get("/orders/{orderID}", h.GetOrder)
		r.Post("/payments", h.CreatePayment)
		r.Post("/reviews", h.CreateReview)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(h.Sessions, cfg.JWTSecret))
		r.Use(middleware.RequireAdmin())

		r.Get("/dashboard", h.AdminDashboard)
		r.Get("/dashboard/export.csv", h.AdminDashboardExportCSV)
		r.Get("/dashboard/export.pdf", h.AdminDashboardExportPDF)

		r.Get("/orders", h.AdminListOrders)
		r.Patch("/orders/{orderID}/status", h.AdminUpdateOrderStatus)

		r.Get("/manual-orders", h.AdminListManualOrders)
		r.Post("/manual-orders", h.AdminRecordManualOrder)
		r.Patch("/manual-orders/{orderID}/status", h.AdminUpdateManualOrderStatus)

		r.Get("/payments", h.AdminListPayments)
		r.Patch("/payments/{paymentID}/status", h.AdminUpdatePaymentStatus)

		r.Get("/users", h.AdminListUsers)

		r.Get("/products", h.AdminListProducts)
		r.Post("/products", h.AdminCreateProduct)
		r.Put("/products/{productID}", h.AdminUpdateProduct)
		r.Delete("/products/{productID}", h.AdminDeleteProduct)
		r.Post("/products/{productID}/image", h.AdminUploadProductImage)

		r.Delete("/reviews/{reviewID}", h.AdminDeleteReview)
	})

	// Websocket auth happens inside the handler; the token arrives as a
	// query parameter, not an Authorization header.
	r.Get("/ws/admin/dashboard", wsServer.AdminDashboardWS)

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
