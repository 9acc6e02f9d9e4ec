package routers

import (
	"dococlock-service/internal/app/delivery/http/controllers"
	"dococlock-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachAuthRoutes(
	router chi.Router,
	middlewares *middlewares.Middlewares,
	authController *controllers.AuthController,
	twoFactorController *controllers.TwoFactorController,
) {
	router.Post("/login", authController.Login)

	router.Route("/2fa", func(r chi.Router) {
		r.Use(middlewares.Authenticate, middlewares.Authorize)
		r.Post("/setup", twoFactorController.Setup)
		r.Post("/verify-setup", twoFactorController.VerifySetup)
		r.Post("/verify", twoFactorController.Verify)
		r.Post("/disable", twoFactorController.Disable)
	})
}

func attachProviderRoutes(router chi.Router, authController *controllers.AuthController) {
	router.Post("/register", authController.RegisterProvider)
}
