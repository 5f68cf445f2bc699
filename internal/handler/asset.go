package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/QmazProject/Asset-Management-System/internal/model"
	"github.com/QmazProject/Asset-Management-System/internal/repository"
)

// AssetHandler bundles dependencies for asset registry endpoints.
type AssetHandler struct {
	Assets      *repository.AssetRepo
	Services    *repository.AssetServiceRepo
	Attachments *repository.AttachmentRepo
}

func NewAssetHandler(assets *repository.AssetRepo, services *repository.AssetServiceRepo,
	attachments *repository.AttachmentRepo) *AssetHandler {
	if assets == nil || services == nil || attachments == nil {
		panic("nil repository passed to NewAssetHandler")
	}
	return &AssetHandler{Assets: assets, Services: services, Attachments: attachments}
}

// assetReq is the full asset form as the multi-step wizard submits it.
// The same shape serves creation, edits and the per-step validate
// endpoint; a draft in the wizard is just this struct partially filled.
type assetReq struct {
	ScanCode        string `json:"scan_code"`
	InventoryNumber string `json:"inventory_number"`
	SerialNumber    string `json:"serial_number"`
	CSNumber        string `json:"cs_number"`
	PlateNumber     string `json:"plate_number"`
	EngineNumber    string `json:"engine_number"`

	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	AssetName    string `json:"asset_name"`
	Label        string `json:"label"`
	AssetGroup   string `json:"asset_group"`
	Description  string `json:"description"`
	Notes        string `json:"notes"`

	Condition    string `json:"condition"`
	Availability string `json:"availability"`

	CurrentLocationType string `json:"current_location_type"`
	CurrentLocation     string `json:"current_location"`
	ResponsibleEmployee string `json:"responsible_employee"`
	Owner               string `json:"owner"`

	OwnershipType          string   `json:"ownership_type"`
	Vendor                 string   `json:"vendor"`
	PurchaseDate           string   `json:"purchase_date"`
	PurchasePrice          *float64 `json:"purchase_price"`
	PurchaseCurrency       string   `json:"purchase_currency"`
	PurchaseOrderNumber    string   `json:"purchase_order_number"`
	CostCode               string   `json:"cost_code"`
	ReplacementCost        *float64 `json:"replacement_cost"`
	WarrantyExpirationDate string   `json:"warranty_expiration_date"`

	// Services picked in the wizard's service step. They become
	// Upcoming/Pending rows right after the asset row is inserted.
	Services []wizardServiceReq `json:"services"`
}

// wizardServiceReq is one service row from the wizard's service step.
type wizardServiceReq struct {
	ServiceName   string `json:"service_name"`
	ScheduledDate string `json:"scheduled_date"`
	Provider      string `json:"provider"`
	Notes         string `json:"notes"`
}

// validateReq is assetReq plus the wizard step being checked and, for
// edits, the asset being edited (so its own identifiers don't count as
// duplicates).
type validateReq struct {
	assetReq
	Step      int    `json:"step"` // 1 identification, 2 details, 3 location, 4 ownership; 0 = all
	ExcludeID uint64 `json:"exclude_id"`
}

type assetResp struct {
	ID uint64 `json:"id"`

	ScanCode        string `json:"scan_code"`
	InventoryNumber string `json:"inventory_number"`
	SerialNumber    string `json:"serial_number"`
	CSNumber        string `json:"cs_number"`
	PlateNumber     string `json:"plate_number"`
	EngineNumber    string `json:"engine_number"`

	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	AssetName    string `json:"asset_name"`
	Label        string `json:"label"`
	AssetGroup   string `json:"asset_group"`
	Description  string `json:"description"`
	Notes        string `json:"notes"`

	Condition    string `json:"condition"`
	Availability string `json:"availability"`

	CurrentLocationType string `json:"current_location_type"`
	CurrentLocation     string `json:"current_location"`
	ResponsibleEmployee string `json:"responsible_employee"`
	Owner               string `json:"owner"`

	OwnershipType          string   `json:"ownership_type"`
	Vendor                 string   `json:"vendor"`
	PurchaseDate           string   `json:"purchase_date,omitempty"`
	PurchasePrice          *float64 `json:"purchase_price,omitempty"`
	PurchaseCurrency       string   `json:"purchase_currency"`
	PurchaseOrderNumber    string   `json:"purchase_order_number"`
	CostCode               string   `json:"cost_code"`
	ReplacementCost        *float64 `json:"replacement_cost,omitempty"`
	WarrantyExpirationDate string   `json:"warranty_expiration_date,omitempty"`

	ImageURL string `json:"image_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toAssetResp(a *model.Asset) assetResp {
	return assetResp{
		ID:                     a.ID,
		ScanCode:               a.ScanCode,
		InventoryNumber:        a.InventoryNumber,
		SerialNumber:           a.SerialNumber,
		CSNumber:               a.CSNumber,
		PlateNumber:            a.PlateNumber,
		EngineNumber:           a.EngineNumber,
		Manufacturer:           a.Manufacturer,
		Model:                  a.Model,
		AssetName:              a.AssetName,
		Label:                  a.Label,
		AssetGroup:             a.AssetGroup,
		Description:            a.Description,
		Notes:                  a.Notes,
		Condition:              a.Condition,
		Availability:           a.Availability,
		CurrentLocationType:    a.CurrentLocationType,
		CurrentLocation:        a.CurrentLocation,
		ResponsibleEmployee:    a.ResponsibleEmployee,
		Owner:                  a.Owner,
		OwnershipType:          a.OwnershipType,
		Vendor:                 a.Vendor,
		PurchaseDate:           a.PurchaseDate,
		PurchasePrice:          a.PurchasePrice,
		PurchaseCurrency:       a.PurchaseCurrency,
		PurchaseOrderNumber:    a.PurchaseOrderNumber,
		CostCode:               a.CostCode,
		ReplacementCost:        a.ReplacementCost,
		WarrantyExpirationDate: a.WarrantyExpirationDate,
		ImageURL:               a.ImageURL,
		CreatedAt:              a.CreatedAt,
		UpdatedAt:              a.UpdatedAt,
	}
}

func (r *assetReq) toModel() model.Asset {
	group := strings.TrimSpace(r.AssetGroup)
	if group == "" {
		group = model.DefaultAssetGroup
	}
	return model.Asset{
		ScanCode:               strings.TrimSpace(r.ScanCode),
		InventoryNumber:        strings.TrimSpace(r.InventoryNumber),
		SerialNumber:           r.SerialNumber,
		CSNumber:               r.CSNumber,
		PlateNumber:            r.PlateNumber,
		EngineNumber:           r.EngineNumber,
		Manufacturer:           r.Manufacturer,
		Model:                  r.Model,
		AssetName:              strings.TrimSpace(r.AssetName),
		Label:                  r.Label,
		AssetGroup:             group,
		Description:            r.Description,
		Notes:                  r.Notes,
		Condition:              r.Condition,
		Availability:           r.Availability,
		CurrentLocationType:    strings.TrimSpace(r.CurrentLocationType),
		CurrentLocation:        strings.TrimSpace(r.CurrentLocation),
		ResponsibleEmployee:    strings.TrimSpace(r.ResponsibleEmployee),
		Owner:                  strings.TrimSpace(r.Owner),
		OwnershipType:          r.OwnershipType,
		Vendor:                 r.Vendor,
		PurchaseDate:           r.PurchaseDate,
		PurchasePrice:          r.PurchasePrice,
		PurchaseCurrency:       r.PurchaseCurrency,
		PurchaseOrderNumber:    r.PurchaseOrderNumber,
		CostCode:               r.CostCode,
		ReplacementCost:        r.ReplacementCost,
		WarrantyExpirationDate: r.WarrantyExpirationDate,
	}
}

// fieldErrors maps form field names to user-facing messages.
type fieldErrors map[string]string

// validateStep checks one wizard step of the form (or every step when
// step is 0) and returns field-level messages. Duplicate identifier
// checks are done separately because they need the database.
func validateStep(r *assetReq, step int) fieldErrors {
	errs := fieldErrors{}
	check := func(s int) bool { return step == 0 || step == s }

	if check(1) {
		if strings.TrimSpace(r.ScanCode) == "" {
			errs["scan_code"] = "Scan code is required"
		}
		if strings.TrimSpace(r.InventoryNumber) == "" {
			errs["inventory_number"] = "Inventory number is required"
		}
	}
	if check(2) {
		if strings.TrimSpace(r.AssetName) == "" {
			errs["asset_name"] = "Asset name is required"
		}
		if !model.ValidLabel(r.Label) {
			errs["label"] = "Unknown label"
		}
		if !model.ValidCondition(r.Condition) {
			errs["condition"] = "Unknown condition"
		}
		if !model.ValidAvailability(r.Availability) {
			errs["availability"] = "Unknown availability"
		}
	}
	if check(3) {
		if strings.TrimSpace(r.CurrentLocationType) == "" {
			errs["current_location_type"] = "Location type is required"
		}
		if strings.TrimSpace(r.CurrentLocation) == "" {
			errs["current_location"] = "Current location is required"
		}
		if strings.TrimSpace(r.ResponsibleEmployee) == "" {
			errs["responsible_employee"] = "Responsible employee is required"
		}
		if strings.TrimSpace(r.Owner) == "" {
			errs["owner"] = "Owner is required"
		}
	}
	if check(4) {
		if !model.ValidOwnershipType(r.OwnershipType) {
			errs["ownership_type"] = "Ownership type is required"
		}
		if r.PurchasePrice != nil && *r.PurchasePrice < 0 {
			errs["purchase_price"] = "Purchase price cannot be negative"
		}
		if r.ReplacementCost != nil && *r.ReplacementCost < 0 {
			errs["replacement_cost"] = "Replacement cost cannot be negative"
		}
		for field, v := range map[string]string{
			"purchase_date":            r.PurchaseDate,
			"warranty_expiration_date": r.WarrantyExpirationDate,
		} {
			if v == "" {
				continue
			}
			if _, err := time.Parse("2006-01-02", v); err != nil {
				errs[field] = "Date must be YYYY-MM-DD"
			}
		}
	}
	return errs
}

// Validate checks a wizard step without persisting anything, so the
// form can block navigation to the next step on bad input. Step 1 also
// runs the duplicate identifier lookups.
func (h *AssetHandler) Validate(c echo.Context) error {
	var req validateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	errs := validateStep(&req.assetReq, req.Step)

	if (req.Step == 0 || req.Step == 1) && len(errs) == 0 {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		switch err := h.Assets.CheckIdentifiers(ctx, req.ScanCode, req.InventoryNumber, req.ExcludeID); {
		case errors.Is(err, repository.ErrDuplicateScanCode):
			errs["scan_code"] = err.Error()
		case errors.Is(err, repository.ErrDuplicateInventoryNumber):
			errs["inventory_number"] = err.Error()
		case err != nil:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "duplicate check failed"})
		}
	}

	if len(errs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"valid": false, "errors": errs})
	}
	return c.JSON(http.StatusOK, echo.Map{"valid": true})
}

// Create registers a new asset from the completed wizard form.
func (h *AssetHandler) Create(c echo.Context) error {
	var req assetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := validateStep(&req, 0); len(errs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Assets.CheckIdentifiers(ctx, req.ScanCode, req.InventoryNumber, 0); err != nil {
		return assetDupResponse(c, err)
	}

	a := req.toModel()
	if err := h.Assets.Create(ctx, &a); err != nil {
		return assetDupResponse(c, err)
	}

	// Services chosen in the wizard land as independent inserts after
	// the asset row. A failing row is logged and skipped, never fatal:
	// the asset itself is already saved.
	services, skipped := buildWizardServices(a.ID, req.Services)
	for _, reason := range skipped {
		c.Logger().Warnf("asset %d: skipping wizard service: %s", a.ID, reason)
	}
	created := 0
	for i := range services {
		if err := h.Services.Create(ctx, &services[i]); err != nil {
			c.Logger().Warnf("asset %d: insert service %q failed: %v", a.ID, services[i].ServiceName, err)
			continue
		}
		created++
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"asset":            toAssetResp(&a),
		"services_created": created,
	})
}

// buildWizardServices converts the wizard's service rows into
// Upcoming/Pending services for a freshly created asset. Rows that
// fail validation are returned as skip reasons instead of aborting the
// create.
func buildWizardServices(assetID uint64, rows []wizardServiceReq) ([]model.AssetService, []string) {
	var (
		out     []model.AssetService
		skipped []string
	)
	for _, row := range rows {
		name := strings.TrimSpace(row.ServiceName)
		if name == "" {
			skipped = append(skipped, "service name missing")
			continue
		}
		if _, err := time.Parse("2006-01-02", row.ScheduledDate); err != nil {
			skipped = append(skipped, "service "+name+": scheduled date must be YYYY-MM-DD")
			continue
		}
		out = append(out, model.AssetService{
			AssetID:       assetID,
			ServiceName:   name,
			Category:      model.CategoryUpcoming,
			Status:        model.StatusPending,
			ScheduledDate: row.ScheduledDate,
			Provider:      row.Provider,
			ServiceResult: model.ResultPending,
			Notes:         row.Notes,
		})
	}
	return out, skipped
}

// List returns the asset registry, newest first, with optional
// group/condition/availability filters and free-text search.
func (h *AssetHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	assets, err := h.Assets.List(ctx, repository.AssetFilter{
		Group:        c.QueryParam("group"),
		Condition:    c.QueryParam("condition"),
		Availability: c.QueryParam("availability"),
		Search:       strings.TrimSpace(c.QueryParam("q")),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]assetResp, 0, len(assets))
	for _, a := range assets {
		out = append(out, toAssetResp(a))
	}
	return c.JSON(http.StatusOK, echo.Map{"assets": out, "count": len(out)})
}

// Get returns one asset by ID with its attachments split into images
// and documents.
func (h *AssetHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid asset id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Assets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "asset not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	images := make([]attachmentResp, 0)
	documents := make([]attachmentResp, 0)
	if atts, err := h.Attachments.ListByOwner(ctx, id); err == nil {
		for _, att := range atts {
			if att.IsImage() {
				images = append(images, toAttachmentResp(att))
			} else {
				documents = append(documents, toAttachmentResp(att))
			}
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"asset":     toAssetResp(a),
		"images":    images,
		"documents": documents,
	})
}

// Update replaces an asset's editable fields with the submitted form.
func (h *AssetHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid asset id"})
	}
	var req assetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := validateStep(&req, 0); len(errs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Identifier uniqueness excludes the asset being edited.
	if err := h.Assets.CheckIdentifiers(ctx, req.ScanCode, req.InventoryNumber, id); err != nil {
		return assetDupResponse(c, err)
	}

	a := req.toModel()
	a.ID = id
	if err := h.Assets.Update(ctx, &a); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "asset not found"})
		}
		return assetDupResponse(c, err)
	}

	stored, err := h.Assets.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toAssetResp(stored))
}

// ServiceCounts returns the asset's upcoming/historic totals for the
// details panel.
func (h *AssetHandler) ServiceCounts(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid asset id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Assets.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "asset not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	upcoming, historic, err := h.Services.ServiceCounts(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"upcoming": upcoming,
		"historic": historic,
	})
}

// assetDupResponse maps duplicate identifier sentinels to 409 with a
// field pointer, anything else to 500.
func assetDupResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateScanCode):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error(), "field": "scan_code"})
	case errors.Is(err, repository.ErrDuplicateInventoryNumber):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error(), "field": "inventory_number"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
}
