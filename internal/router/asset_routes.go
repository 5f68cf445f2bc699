package router

import (
	"github.com/labstack/echo/v4"

	"github.com/QmazProject/Asset-Management-System/internal/handler"
	"github.com/QmazProject/Asset-Management-System/internal/middleware"
)

// RegisterAssets registers the asset registry, attachment and service
// assignment routes. All of them require authentication; both roles may
// use them. listCache, when non-nil, caches the heavy read endpoints.
func RegisterAssets(e *echo.Echo, assets *handler.AssetHandler, attachments *handler.AttachmentHandler,
	services *handler.ServiceHandler, jwtSecret string, listCache echo.MiddlewareFunc) {

	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN", "STAFF"))

	// Registry. The wizard calls /assets/validate once per step before
	// the final POST /assets.
	g.POST("/assets", assets.Create)
	g.POST("/assets/validate", assets.Validate)
	if listCache != nil {
		g.GET("/assets", assets.List, listCache)
	} else {
		g.GET("/assets", assets.List)
	}
	g.GET("/assets/:id", assets.Get)
	g.PUT("/assets/:id", assets.Update)
	g.PATCH("/assets/:id", assets.Update)
	g.GET("/assets/:id/service-counts", assets.ServiceCounts)

	// Attachments. DELETE on the collection takes {"ids": [...]} for the
	// gallery's multi-select.
	g.POST("/assets/:id/attachments", attachments.UploadAssetFiles)
	g.GET("/assets/:id/attachments", attachments.ListAssetFiles)
	g.DELETE("/assets/:id/attachments", attachments.BulkDeleteAssetFiles)
	g.DELETE("/assets/:id/attachments/:attachmentID", attachments.DeleteAssetFile)

	// Service assignment and lifecycle.
	g.POST("/assets/:id/services", services.Assign)
	g.GET("/assets/:id/services", services.ListForAsset)
	g.POST("/services/:id/complete", services.Complete)
	g.DELETE("/services/:id", services.Delete)
}
