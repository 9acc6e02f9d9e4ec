package routers

import (
	"dococlock-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachNetworkRoutes(router chi.Router, networkController *controllers.NetworkController) {
	router.Get("/status", networkController.GetStatus)
	router.Post("/samples", networkController.RecordSample)
}
