// Package model defines the typed entity records persisted by the
// repository layer. Handlers bind requests into explicit structs and
// validate enum fields at the boundary; nothing downstream works with
// loosely typed maps.
package model

import "time"

// Condition values for Asset.Condition. Empty string means "not set".
const (
	ConditionOperational = "Operational"
	ConditionBroken      = "Broken"
	ConditionInRepair    = "In Repair"
)

// Availability values for Asset.Availability. Empty string means "not set".
const (
	AvailabilityAssigned  = "Assigned"
	AvailabilityInTransit = "In Transit"
	AvailabilityAvailable = "Available"
)

// Ownership types for Asset.OwnershipType.
const (
	OwnershipOwned  = "Owned"
	OwnershipLeased = "Leased"
	OwnershipRented = "Rented"
	OwnershipFleet  = "Fleet"
)

// DefaultAssetGroup is applied when no group is chosen.
const DefaultAssetGroup = "Ungrouped"

// Labels is the fixed classification taxonomy for assets.
var Labels = []string{
	"Heavy Equipment",
	"Vehicle",
	"Power Tool",
	"Hand Tool",
	"IT Equipment",
	"Office Equipment",
	"Appliance",
}

// Asset is a physical asset (tool, vehicle, equipment) tracked by the
// system. It corresponds to a row in the `assets` table. Scan code and
// inventory number identify the asset system-wide and are unique.
type Asset struct {
	ID uint64 // assets.id

	// Identification
	ScanCode        string // assets.scan_code (unique)
	InventoryNumber string // assets.inventory_number (unique)
	SerialNumber    string // assets.serial_number
	CSNumber        string // assets.cs_number
	PlateNumber     string // assets.plate_number
	EngineNumber    string // assets.engine_number

	// Descriptive
	Manufacturer string // assets.manufacturer
	Model        string // assets.model
	AssetName    string // assets.asset_name
	Label        string // assets.label (classification taxonomy)
	AssetGroup   string // assets.asset_group (default "Ungrouped")
	Description  string // assets.description
	Notes        string // assets.notes

	// Status
	Condition    string // assets.condition
	Availability string // assets.availability

	// Location / responsibility (all required)
	CurrentLocationType string // assets.current_location_type
	CurrentLocation     string // assets.current_location
	ResponsibleEmployee string // assets.responsible_employee
	Owner               string // assets.owner

	// Ownership
	OwnershipType          string   // assets.ownership_type (required)
	Vendor                 string   // assets.vendor
	PurchaseDate           string   // assets.purchase_date (YYYY-MM-DD, optional)
	PurchasePrice          *float64 // assets.purchase_price (nullable)
	PurchaseCurrency       string   // assets.purchase_currency
	PurchaseOrderNumber    string   // assets.purchase_order_number
	CostCode               string   // assets.cost_code
	ReplacementCost        *float64 // assets.replacement_cost (nullable)
	WarrantyExpirationDate string   // assets.warranty_expiration_date (YYYY-MM-DD, optional)

	// Media
	ImageURL string // assets.image_url (main image public URL, empty when unset)

	CreatedAt time.Time // assets.created_at
	UpdatedAt time.Time // assets.updated_at
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// ValidCondition accepts the three condition states or unset.
func ValidCondition(v string) bool {
	return v == "" || contains([]string{ConditionOperational, ConditionBroken, ConditionInRepair}, v)
}

// ValidAvailability accepts the three availability states or unset.
func ValidAvailability(v string) bool {
	return v == "" || contains([]string{AvailabilityAssigned, AvailabilityInTransit, AvailabilityAvailable}, v)
}

// ValidOwnershipType accepts exactly the four ownership types; unlike
// condition/availability this field is required.
func ValidOwnershipType(v string) bool {
	return contains([]string{OwnershipOwned, OwnershipLeased, OwnershipRented, OwnershipFleet}, v)
}

// ValidLabel accepts a label from the fixed taxonomy or unset.
func ValidLabel(v string) bool {
	return v == "" || contains(Labels, v)
}
