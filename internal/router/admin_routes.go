package router

import (
	"github.com/labstack/echo/v4"

	"github.com/QmazProject/Asset-Management-System/internal/handler"
	"github.com/QmazProject/Asset-Management-System/internal/middleware"
)

// RegisterAdministration registers the service template routes. The
// whole group sits behind the ADMIN role; STAFF users consume templates
// through the assignment endpoints but never manage them.
func RegisterAdministration(e *echo.Echo, templates *handler.TemplateHandler,
	attachments *handler.AttachmentHandler, jwtSecret string, listCache echo.MiddlewareFunc) {

	g := e.Group("/v1/administration")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))

	g.POST("/service-templates", templates.Create)
	if listCache != nil {
		g.GET("/service-templates", templates.List, listCache)
	} else {
		g.GET("/service-templates", templates.List)
	}
	g.GET("/service-templates/:id", templates.Get)
	g.PUT("/service-templates/:id", templates.Update)
	g.DELETE("/service-templates/:id", templates.Delete)

	// Live preview of the automatic notification defaults.
	g.POST("/service-templates/notification-preview", templates.NotificationPreview)

	g.POST("/service-templates/:id/attachments", attachments.UploadTemplateFiles)
	g.GET("/service-templates/:id/attachments", attachments.ListTemplateFiles)
	g.DELETE("/service-templates/:id/attachments/:attachmentID", attachments.DeleteTemplateFile)
}
