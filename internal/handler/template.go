package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/QmazProject/Asset-Management-System/internal/config"
	"github.com/QmazProject/Asset-Management-System/internal/model"
	"github.com/QmazProject/Asset-Management-System/internal/notification"
	"github.com/QmazProject/Asset-Management-System/internal/repository"
	"github.com/QmazProject/Asset-Management-System/internal/storage"
)

// TemplateStore is the template persistence surface the handler needs.
// *repository.TemplateRepo satisfies it in production.
type TemplateStore interface {
	NameExists(ctx context.Context, name string, excludeID uint64) (bool, error)
	Create(ctx context.Context, t *model.ServiceTemplate) error
	List(ctx context.Context) ([]*model.ServiceTemplate, error)
	GetByID(ctx context.Context, id uint64) (*model.ServiceTemplate, error)
	Update(ctx context.Context, t *model.ServiceTemplate) error
	Delete(ctx context.Context, id uint64) error
	UsageCount(ctx context.Context, name string) (int, error)
}

// TemplateHandler serves the administration area's service template
// CRUD. Notification defaults are derived server-side: the form may
// preview them, but what gets stored is always recomputed here.
type TemplateHandler struct {
	Cfg         config.Config
	Templates   TemplateStore
	Attachments *repository.AttachmentRepo
	Store       *storage.Client
}

func NewTemplateHandler(cfg config.Config, templates TemplateStore,
	attachments *repository.AttachmentRepo, store *storage.Client) *TemplateHandler {
	if templates == nil {
		panic("nil template store passed to NewTemplateHandler")
	}
	return &TemplateHandler{Cfg: cfg, Templates: templates, Attachments: attachments, Store: store}
}

// templateReq mirrors the template form. Frequency arrives as the raw
// text typed into the form so validation here matches what the form
// preview showed.
type templateReq struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	IsCritical        bool   `json:"is_critical"`
	ServiceType       string `json:"service_type"`
	BasedOn           string `json:"based_on"`
	UnitOfMeasurement string `json:"unit_of_measurement"`
	Frequency         string `json:"frequency"`

	NotificationMode   string `json:"notification_mode"`
	NotificationNumber int    `json:"notification_number"`
	NotificationUnit   string `json:"notification_unit"`
}

type templateResp struct {
	ID                 uint64  `json:"id"`
	Name               string  `json:"name"`
	Description        string  `json:"description"`
	IsCritical         bool    `json:"is_critical"`
	ServiceType        string  `json:"service_type"`
	BasedOn            string  `json:"based_on"`
	UnitOfMeasurement  *string `json:"unit_of_measurement,omitempty"`
	FrequencyNumber    *int    `json:"frequency_number,omitempty"`
	NotificationMode   string  `json:"notification_mode"`
	NotificationNumber int     `json:"notification_number"`
	NotificationUnit   string  `json:"notification_unit"`

	UsageCount      int       `json:"usage_count"`
	AttachmentCount int       `json:"attachment_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toTemplateResp(t *model.ServiceTemplate, usage, attachments int) templateResp {
	return templateResp{
		ID:                 t.ID,
		Name:               t.Name,
		Description:        t.Description,
		IsCritical:         t.IsCritical,
		ServiceType:        t.ServiceType,
		BasedOn:            t.BasedOn,
		UnitOfMeasurement:  t.UnitOfMeasurement,
		FrequencyNumber:    t.FrequencyNumber,
		NotificationMode:   t.NotificationMode,
		NotificationNumber: t.NotificationNumber,
		NotificationUnit:   t.NotificationUnit,
		UsageCount:         usage,
		AttachmentCount:    attachments,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

// attachmentCount is best-effort: listings fall back to zero rather
// than fail when the count query errors.
func (h *TemplateHandler) attachmentCount(ctx context.Context, templateID uint64) int {
	if h.Attachments == nil {
		return 0
	}
	n, err := h.Attachments.CountByOwner(ctx, templateID)
	if err != nil {
		return 0
	}
	return n
}

// buildTemplate validates the form and assembles the record to store,
// deriving notification values when the mode is automatic. Returns
// field-level errors on failure.
func buildTemplate(req *templateReq) (*model.ServiceTemplate, fieldErrors) {
	errs := fieldErrors{}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs["name"] = "Template name is required"
	}
	if !model.ValidServiceType(req.ServiceType) {
		errs["service_type"] = "Unknown service type"
	}
	if !model.ValidBasis(req.BasedOn) {
		errs["based_on"] = "Unknown recurrence basis"
	}

	mode := strings.ToLower(strings.TrimSpace(req.NotificationMode))
	if mode == "" {
		mode = model.NotificationAutomatic
	}
	if mode != model.NotificationAutomatic && mode != model.NotificationManual {
		errs["notification_mode"] = "Unknown notification mode"
	}
	if len(errs) > 0 {
		return nil, errs
	}

	t := &model.ServiceTemplate{
		Name:             name,
		Description:      req.Description,
		IsCritical:       req.IsCritical,
		ServiceType:      req.ServiceType,
		BasedOn:          req.BasedOn,
		NotificationMode: mode,
	}

	recurrent := req.ServiceType == model.ServiceTypeRecurrent
	if recurrent && req.BasedOn == model.BasisPeriod {
		unit := strings.TrimSpace(req.UnitOfMeasurement)
		if !model.ValidPeriodUnit(unit) {
			errs["unit_of_measurement"] = "Unknown frequency unit"
			return nil, errs
		}
		t.UnitOfMeasurement = &unit
	}

	derived := notification.Derive(notification.Input{
		Basis:       req.BasedOn,
		ServiceType: req.ServiceType,
		PeriodUnit:  req.UnitOfMeasurement,
		Frequency:   req.Frequency,
	})

	if recurrent {
		if !derived.Valid() {
			errs["frequency"] = derived.Err
			return nil, errs
		}
		if strings.TrimSpace(req.Frequency) == "" {
			errs["frequency"] = "Frequency is required for recurrent services"
			return nil, errs
		}
		n, _ := strconv.Atoi(strings.TrimSpace(req.Frequency))
		t.FrequencyNumber = &n
	}

	switch mode {
	case model.NotificationAutomatic:
		t.NotificationNumber = derived.Number
		t.NotificationUnit = derived.Unit
	case model.NotificationManual:
		// Manual mode trusts the admin's number, but it still has to be
		// a positive integer with a known unit. No caps apply here.
		if req.NotificationNumber <= 0 {
			errs["notification_number"] = "Please enter a number greater than 0"
			return nil, errs
		}
		if !model.ValidManualNotifyUnit(req.NotificationUnit) {
			errs["notification_unit"] = "Unknown notification unit"
			return nil, errs
		}
		t.NotificationNumber = req.NotificationNumber
		t.NotificationUnit = req.NotificationUnit
	}

	return t, nil
}

// Create adds a new service template. Duplicate names are rejected
// with 409 before anything is written.
func (h *TemplateHandler) Create(c echo.Context) error {
	var req templateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	t, errs := buildTemplate(&req)
	if len(errs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if taken, err := h.Templates.NameExists(ctx, t.Name, 0); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	} else if taken {
		return c.JSON(http.StatusConflict, echo.Map{"error": repository.ErrTemplateNameExists.Error(), "field": "name"})
	}

	if err := h.Templates.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrTemplateNameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error(), "field": "name"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}
	return c.JSON(http.StatusCreated, toTemplateResp(t, 0, 0))
}

// List returns all templates newest first with their usage counts.
func (h *TemplateHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	templates, err := h.Templates.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]templateResp, 0, len(templates))
	for _, t := range templates {
		usage, err := h.Templates.UsageCount(ctx, t.Name)
		if err != nil {
			usage = 0
		}
		out = append(out, toTemplateResp(t, usage, h.attachmentCount(ctx, t.ID)))
	}
	return c.JSON(http.StatusOK, echo.Map{"templates": out, "count": len(out)})
}

// Get returns one template by ID.
func (h *TemplateHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid template id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Templates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "template not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	usage, err := h.Templates.UsageCount(ctx, t.Name)
	if err != nil {
		usage = 0
	}
	return c.JSON(http.StatusOK, toTemplateResp(t, usage, h.attachmentCount(ctx, t.ID)))
}

// Update rewrites a template. Renames keep already-assigned services
// untouched: they carry a copy of the old name.
func (h *TemplateHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid template id"})
	}
	var req templateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	t, errs := buildTemplate(&req)
	if len(errs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": errs})
	}
	t.ID = id

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if taken, err := h.Templates.NameExists(ctx, t.Name, id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	} else if taken {
		return c.JSON(http.StatusConflict, echo.Map{"error": repository.ErrTemplateNameExists.Error(), "field": "name"})
	}

	if err := h.Templates.Update(ctx, t); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "template not found"})
		case errors.Is(err, repository.ErrTemplateNameExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error(), "field": "name"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}

	stored, err := h.Templates.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	usage, err := h.Templates.UsageCount(ctx, stored.Name)
	if err != nil {
		usage = 0
	}
	return c.JSON(http.StatusOK, toTemplateResp(stored, usage, h.attachmentCount(ctx, stored.ID)))
}

// Delete removes a template and its attachments. Assigned services
// survive under their copied name.
func (h *TemplateHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid template id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Snapshot the attachment rows before they go: the repo delete
	// removes them in the same transaction as the template.
	var attachments []*model.Attachment
	if h.Attachments != nil {
		if rows, err := h.Attachments.ListByOwner(ctx, id); err == nil {
			attachments = rows
		}
	}

	if err := h.Templates.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "template not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}

	// Object removal is best-effort; a leftover object never blocks the
	// delete that already committed.
	if h.Store != nil {
		for _, a := range attachments {
			key := objectKeyFromURL(a.FilePath)
			if err := h.Store.Delete(ctx, h.Cfg.TemplateBucket, key); err != nil {
				c.Logger().Warnf("template %d: delete object %s failed: %v", id, key, err)
			}
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// previewReq is the notification-preview input: the recurrence section
// of the form as currently typed.
type previewReq struct {
	BasedOn           string `json:"based_on"`
	ServiceType       string `json:"service_type"`
	UnitOfMeasurement string `json:"unit_of_measurement"`
	Frequency         string `json:"frequency"`
}

// NotificationPreview derives the automatic-mode notification values
// for a form snapshot without storing anything. The form calls this as
// the admin types so the preview always matches what Create would store.
func (h *TemplateHandler) NotificationPreview(c echo.Context) error {
	var req previewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	r := notification.Derive(notification.Input{
		Basis:       req.BasedOn,
		ServiceType: req.ServiceType,
		PeriodUnit:  req.UnitOfMeasurement,
		Frequency:   req.Frequency,
	})
	resp := echo.Map{
		"notification_number": r.Number,
		"notification_unit":   r.Unit,
		"valid":               r.Valid(),
	}
	if r.Err != "" {
		resp["error"] = r.Err
	}
	return c.JSON(http.StatusOK, resp)
}
