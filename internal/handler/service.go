package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/QmazProject/Asset-Management-System/internal/model"
	"github.com/QmazProject/Asset-Management-System/internal/queue"
	"github.com/QmazProject/Asset-Management-System/internal/repository"
	queue_publisher "github.com/QmazProject/Asset-Management-System/internal/service"
)

// ServiceHandler serves service assignment and lifecycle endpoints.
type ServiceHandler struct {
	Assets    *repository.AssetRepo
	Services  *repository.AssetServiceRepo
	Templates *repository.TemplateRepo
}

func NewServiceHandler(assets *repository.AssetRepo, services *repository.AssetServiceRepo,
	templates *repository.TemplateRepo) *ServiceHandler {
	if assets == nil || services == nil || templates == nil {
		panic("nil repository passed to NewServiceHandler")
	}
	return &ServiceHandler{Assets: assets, Services: services, Templates: templates}
}

// assignReq is the assign-service form. TemplateName picks a service
// template by name; ServiceName is free text for one-off entries. At
// least one of the two must be present.
type assignReq struct {
	TemplateName   string   `json:"template_name"`
	ServiceName    string   `json:"service_name"`
	Category       string   `json:"category"` // Upcoming | Historic
	ScheduledDate  string   `json:"scheduled_date"`
	CompletionDate string   `json:"completion_date"`
	Provider       string   `json:"provider"`
	Cost           *float64 `json:"cost"`
	Currency       string   `json:"currency"`
	ServiceResult  string   `json:"service_result"`
	Notes          string   `json:"notes"`
}

type serviceResp struct {
	ID             uint64    `json:"id"`
	AssetID        uint64    `json:"asset_id"`
	ServiceName    string    `json:"service_name"`
	Category       string    `json:"category"`
	Status         string    `json:"status"`
	ScheduledDate  string    `json:"scheduled_date"`
	CompletionDate *string   `json:"completion_date,omitempty"`
	Provider       string    `json:"provider"`
	Cost           *float64  `json:"cost,omitempty"`
	Currency       string    `json:"currency"`
	ServiceResult  string    `json:"service_result"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}

func toServiceResp(s *model.AssetService) serviceResp {
	return serviceResp{
		ID:             s.ID,
		AssetID:        s.AssetID,
		ServiceName:    s.ServiceName,
		Category:       s.Category,
		Status:         s.Status,
		ScheduledDate:  s.ScheduledDate,
		CompletionDate: s.CompletionDate,
		Provider:       s.Provider,
		Cost:           s.Cost,
		Currency:       s.Currency,
		ServiceResult:  s.ServiceResult,
		Notes:          s.Notes,
		CreatedAt:      s.CreatedAt,
	}
}

// Assign attaches a service to an asset, either instantiated from a
// template (the template's name is copied, not referenced) or entered
// freeform. Upcoming services start Pending; Historic ones arrive
// already Completed with a completion date and result.
func (h *ServiceHandler) Assign(c echo.Context) error {
	assetID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid asset id"})
	}
	var req assignReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	asset, err := h.Assets.GetByID(ctx, assetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "asset not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	name := strings.TrimSpace(req.ServiceName)
	if tplName := strings.TrimSpace(req.TemplateName); tplName != "" {
		tpl, err := h.Templates.GetByName(ctx, tplName)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "service template not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		name = tpl.Name
	}
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "service name or template name required"})
	}

	if !model.ValidCategory(req.Category) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category must be Upcoming or Historic"})
	}
	if req.ScheduledDate == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "scheduled_date required"})
	}
	if _, err := time.Parse("2006-01-02", req.ScheduledDate); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "scheduled_date must be YYYY-MM-DD"})
	}

	s := &model.AssetService{
		AssetID:       assetID,
		ServiceName:   name,
		Category:      req.Category,
		ScheduledDate: req.ScheduledDate,
		Provider:      req.Provider,
		Cost:          req.Cost,
		Currency:      req.Currency,
		Notes:         req.Notes,
	}

	switch req.Category {
	case model.CategoryUpcoming:
		s.Status = model.StatusPending
		s.ServiceResult = model.ResultPending
	case model.CategoryHistoric:
		// Historic entries record work already done.
		s.Status = model.StatusCompleted
		completion := strings.TrimSpace(req.CompletionDate)
		if completion == "" {
			completion = req.ScheduledDate
		}
		if _, err := time.Parse("2006-01-02", completion); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "completion_date must be YYYY-MM-DD"})
		}
		s.CompletionDate = &completion
		result := req.ServiceResult
		if result == "" {
			result = model.ResultPassed
		}
		if !model.ValidServiceResult(result) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown service result"})
		}
		s.ServiceResult = result
	}

	if err := h.Services.Create(ctx, s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}

	// Publish for downstream consumers; assignment already succeeded,
	// so a broker outage only costs the event.
	uid, _ := getUserID(c)
	cost := 0.0
	if s.Cost != nil {
		cost = *s.Cost
	}
	_ = queue_publisher.PublishServiceAssigned(c.Request().Context(), queue.ServiceAssignedEvent{
		ServiceID:     s.ID,
		AssetID:       asset.ID,
		AssetName:     asset.AssetName,
		ScanCode:      asset.ScanCode,
		ServiceName:   s.ServiceName,
		Category:      s.Category,
		Status:        s.Status,
		ScheduledDate: s.ScheduledDate,
		Provider:      s.Provider,
		Cost:          cost,
		Currency:      s.Currency,
		AssignedBy:    uid,
		AssignedAt:    time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, toServiceResp(s))
}

// ListForAsset returns an asset's services, optionally filtered by
// ?category=Upcoming|Historic.
func (h *ServiceHandler) ListForAsset(c echo.Context) error {
	assetID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid asset id"})
	}
	category := c.QueryParam("category")
	if category != "" && !model.ValidCategory(category) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category must be Upcoming or Historic"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	services, err := h.Services.ListByAsset(ctx, assetID, category)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]serviceResp, 0, len(services))
	for _, s := range services {
		out = append(out, toServiceResp(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"services": out, "count": len(out)})
}

// completeReq closes out an upcoming service.
type completeReq struct {
	CompletionDate string   `json:"completion_date"`
	ServiceResult  string   `json:"service_result"`
	Cost           *float64 `json:"cost"`
	Notes          string   `json:"notes"`
}

// Complete moves an Upcoming service to Historic/Completed. Only the
// explicit action does this; a passed scheduled date on its own never
// changes the record.
func (h *ServiceHandler) Complete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid service id"})
	}
	var req completeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	completion := strings.TrimSpace(req.CompletionDate)
	if completion == "" {
		completion = time.Now().UTC().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", completion); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "completion_date must be YYYY-MM-DD"})
	}
	result := req.ServiceResult
	if result == "" {
		result = model.ResultPassed
	}
	if !model.ValidServiceResult(result) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown service result"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Services.Complete(ctx, id, completion, result, req.Cost, req.Notes); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Either the service does not exist or it is not Upcoming.
			return c.JSON(http.StatusNotFound, echo.Map{"error": "upcoming service not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}

	s, err := h.Services.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toServiceResp(s))
}

// Delete removes an assigned service.
func (h *ServiceHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid service id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Services.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
