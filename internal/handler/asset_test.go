package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/QmazProject/Asset-Management-System/internal/model"
)

func validForm() assetReq {
	price := 1200.0
	return assetReq{
		ScanCode:            "SC-1001",
		InventoryNumber:     "INV-0001",
		AssetName:           "Excavator CAT 320",
		Label:               "Heavy Equipment",
		Condition:           "Operational",
		Availability:        "Available",
		CurrentLocationType: "Site",
		CurrentLocation:     "North Yard",
		ResponsibleEmployee: "J. Reyes",
		Owner:               "QM Builders",
		OwnershipType:       "Owned",
		PurchaseDate:        "2024-03-15",
		PurchasePrice:       &price,
	}
}

func TestValidateStepAcceptsCompleteForm(t *testing.T) {
	form := validForm()
	assert.Empty(t, validateStep(&form, 0))
}

func TestValidateStepIdentification(t *testing.T) {
	form := validForm()
	form.ScanCode = "   "
	form.InventoryNumber = ""

	errs := validateStep(&form, 1)
	assert.Contains(t, errs, "scan_code")
	assert.Contains(t, errs, "inventory_number")
	// Step 1 must not complain about other steps' fields.
	assert.NotContains(t, errs, "asset_name")
}

func TestValidateStepDetails(t *testing.T) {
	form := validForm()
	form.AssetName = ""
	form.Label = "Spaceship"
	form.Condition = "Meh"
	form.Availability = "Somewhere"

	errs := validateStep(&form, 2)
	assert.Contains(t, errs, "asset_name")
	assert.Contains(t, errs, "label")
	assert.Contains(t, errs, "condition")
	assert.Contains(t, errs, "availability")
}

func TestValidateStepDetailsAllowsUnsetEnums(t *testing.T) {
	form := validForm()
	form.Label = ""
	form.Condition = ""
	form.Availability = ""
	assert.Empty(t, validateStep(&form, 2))
}

func TestValidateStepLocationRequiresAllFour(t *testing.T) {
	form := validForm()
	form.CurrentLocationType = ""
	form.CurrentLocation = ""
	form.ResponsibleEmployee = ""
	form.Owner = ""

	errs := validateStep(&form, 3)
	assert.Len(t, errs, 4)
}

func TestValidateStepOwnership(t *testing.T) {
	form := validForm()
	form.OwnershipType = "Borrowed"
	neg := -5.0
	form.ReplacementCost = &neg
	form.PurchaseDate = "15-03-2024"

	errs := validateStep(&form, 4)
	assert.Contains(t, errs, "ownership_type")
	assert.Contains(t, errs, "replacement_cost")
	assert.Contains(t, errs, "purchase_date")
}

func TestToModelDefaultsGroupAndTrims(t *testing.T) {
	form := validForm()
	form.ScanCode = "  SC-1001  "
	form.AssetGroup = ""

	a := form.toModel()
	assert.Equal(t, "SC-1001", a.ScanCode)
	assert.Equal(t, "Ungrouped", a.AssetGroup)
}

func TestBuildWizardServicesFromCreateForm(t *testing.T) {
	services, skipped := buildWizardServices(42, []wizardServiceReq{
		{ServiceName: " Oil Change ", ScheduledDate: "2026-09-15", Provider: "Garage One"},
		{ServiceName: "", ScheduledDate: "2026-09-20"},
		{ServiceName: "Brake Check", ScheduledDate: "15.09.2026"},
	})

	// Bad rows are reported and skipped without dropping the good ones.
	require.Len(t, services, 1)
	require.Len(t, skipped, 2)

	s := services[0]
	assert.Equal(t, uint64(42), s.AssetID)
	assert.Equal(t, "Oil Change", s.ServiceName)
	assert.Equal(t, model.CategoryUpcoming, s.Category)
	assert.Equal(t, model.StatusPending, s.Status)
	assert.Equal(t, model.ResultPending, s.ServiceResult)
	assert.Equal(t, "2026-09-15", s.ScheduledDate)
}

func TestObjectKeyFromURL(t *testing.T) {
	url := "http://minio:9000/asset-attachments/attachments/abc-123-manual.pdf"
	assert.Equal(t, "attachments/abc-123-manual.pdf", objectKeyFromURL(url))
	// Unparseable values pass through untouched.
	assert.Equal(t, "garbage", objectKeyFromURL("garbage"))
}
