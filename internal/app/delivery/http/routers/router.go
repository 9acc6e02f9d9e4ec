package routers

import (
	"fmt"

	"dococlock-service/internal/app/config"
	"dococlock-service/internal/app/delivery/http/controllers"
	"dococlock-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type Controllers struct {
	Payment   *controllers.PaymentController
	Offline   *controllers.OfflineController
	Network   *controllers.NetworkController
	TwoFactor *controllers.TwoFactorController
	Auth      *controllers.AuthController
}

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	ctrls Controllers,
) {

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Request-ID", "X-Callback-Token"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging)
	router.Use(middlewares.ErrorHandler)
	router.Use(middlewares.BodyLimit)

	normalLimiter, callbackLimiter := middlewares.CreateRateLimiters()

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Route("/payments", func(r chi.Router) {
				attachPaymentRoutes(r, middlewares, normalLimiter, callbackLimiter, ctrls.Payment)
			})

			r.Route("/offline", func(r chi.Router) {
				r.Use(normalLimiter, middlewares.Authenticate, middlewares.Authorize)
				attachOfflineRoutes(r, ctrls.Offline)
			})

			r.Route("/network", func(r chi.Router) {
				r.Use(normalLimiter, middlewares.Authenticate, middlewares.Authorize)
				attachNetworkRoutes(r, ctrls.Network)
			})

			r.Route("/auth", func(r chi.Router) {
				r.Use(normalLimiter)
				attachAuthRoutes(r, middlewares, ctrls.Auth, ctrls.TwoFactor)
			})

			r.Route("/providers", func(r chi.Router) {
				r.Use(normalLimiter)
				attachProviderRoutes(r, ctrls.Auth)
			})
		})
	})
}
