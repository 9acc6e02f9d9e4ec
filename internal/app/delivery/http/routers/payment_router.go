package routers

import (
	"net/http"

	"dococlock-service/internal/app/delivery/http/controllers"
	"dococlock-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachPaymentRoutes(
	router chi.Router,
	middlewares *middlewares.Middlewares,
	normalLimiter, callbackLimiter func(http.Handler) http.Handler,
	paymentController *controllers.PaymentController,
) {
	router.With(callbackLimiter, middlewares.RequireCallbackToken).
		Post("/callbacks/{payment_method}", paymentController.PaymentCallback)

	router.Group(func(r chi.Router) {
		r.Use(normalLimiter, middlewares.Authenticate, middlewares.Authorize)
		r.Post("/", paymentController.InitiatePayment)
		r.Get("/{payment_id}", paymentController.GetPayment)
		r.Post("/{payment_id}/capture", paymentController.CapturePayment)
		r.Post("/{payment_id}/refund", paymentController.RefundPayment)
		r.Get("/{payment_id}/receipt", paymentController.GetPaymentReceipt)
	})
}
