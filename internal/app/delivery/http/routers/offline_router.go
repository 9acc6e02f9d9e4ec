package routers

import (
	"dococlock-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachOfflineRoutes(router chi.Router, offlineController *controllers.OfflineController) {
	router.Post("/actions", offlineController.EnqueueAction)
	router.Get("/actions", offlineController.ListActions)
	router.Delete("/actions/{action_id}", offlineController.RemoveAction)
	router.Post("/sync", offlineController.SyncNow)
	router.Put("/cache/{cache_key}", offlineController.CacheValue)
	router.Get("/cache/{cache_key}", offlineController.GetCachedValue)
}
