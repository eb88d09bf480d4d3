package api

import (
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"door-monitor-backend/config"
	"door-monitor-backend/internal/ingest"
	"door-monitor-backend/internal/mw"
	"door-monitor-backend/internal/notification"
	"door-monitor-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store, ingestSvc *ingest.Service, dispatcher *notification.Dispatcher) *gin.Engine {
	r := gin.Default()

	db := s.DB()
	handler := NewHandler(s, ingestSvc, dispatcher, cfg.Push.PublicKey)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst, cfg.Server.RequestIPHeader)

	// Stats are the only cached reads; door status and contacts must always
	// be served fresh.
	cacheStore := cache.New(cfg.CacheTTL(), 2*cfg.CacheTTL())
	caching := mw.Cache(cacheStore, cfg.CacheTTL())

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/events", handler.PostEvent)
		api.GET("/events", handler.GetEvents)
		api.DELETE("/events", handler.CleanupEvents)

		api.GET("/door-status", handler.GetDoorStatuses)
		api.DELETE("/door-status", handler.ClearDoorStatuses)

		api.POST("/notify", handler.PostNotify)

		api.GET("/stats", caching, handler.GetStats)

		api.GET("/alert-contacts", GetAlertContacts(db))
		api.POST("/alert-contacts", CreateAlertContact(db))
		api.PUT("/alert-contacts/:id", UpdateAlertContact(db))
		api.DELETE("/alert-contacts/:id", DeleteAlertContact(db))

		api.GET("/assets", GetAssets(db))
		api.POST("/assets", CreateAsset(db))
		api.PUT("/assets/:id", UpdateAsset(db))
		api.DELETE("/assets/:id", DeleteAsset(db))

		api.GET("/authorized-users", GetAuthorizedUsers(db))
		api.POST("/authorized-users", CreateAuthorizedUser(db))
		api.PUT("/authorized-users/:id", UpdateAuthorizedUser(db))
		api.DELETE("/authorized-users/:id", DeleteAuthorizedUser(db))

		api.GET("/push-subscriptions", handler.GetSubscription)
		api.PUT("/push-subscriptions", handler.PutSubscription)
		api.DELETE("/push-subscriptions", handler.DeleteSubscription)
		api.GET("/vapid-public-key", handler.GetVAPIDPublicKey)
	}

	return r
}
