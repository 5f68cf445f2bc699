package model

import "time"

// Categories for AssetService.Category. Upcoming services are still
// pending; historic ones have been carried out.
const (
	CategoryUpcoming = "Upcoming"
	CategoryHistoric = "Historic"
)

// Statuses for AssetService.Status.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// Service results for AssetService.ServiceResult.
const (
	ResultPending    = "Pending"
	ResultPassed     = "Passed"
	ResultFailed     = "Failed"
	ResultInProgress = "In Progress"
)

// AssetService is one concrete application of a service to an asset,
// either instantiated from a template (matched by name, not a foreign
// key) or entered freeform. Row in the `asset_services` table.
//
// Lifecycle: created by assigning an Upcoming or Historic service;
// Upcoming records move to Completed only by an explicit complete
// action, never automatically, and never expire.
type AssetService struct {
	ID             uint64   // asset_services.id
	AssetID        uint64   // asset_services.asset_id
	ServiceName    string   // asset_services.service_name (template name or free text)
	Category       string   // asset_services.category (Upcoming | Historic)
	Status         string   // asset_services.status
	ScheduledDate  string   // asset_services.scheduled_date (YYYY-MM-DD)
	CompletionDate *string  // asset_services.completion_date (nullable)
	Provider       string   // asset_services.provider
	Cost           *float64 // asset_services.cost (nullable)
	Currency       string   // asset_services.currency
	ServiceResult  string   // asset_services.service_result
	Notes          string   // asset_services.notes

	CreatedAt time.Time // asset_services.created_at
}

// ValidCategory reports whether v is Upcoming or Historic.
func ValidCategory(v string) bool {
	return v == CategoryUpcoming || v == CategoryHistoric
}

// ValidServiceResult reports whether v is a recognized outcome.
func ValidServiceResult(v string) bool {
	switch v {
	case ResultPending, ResultPassed, ResultFailed, ResultInProgress:
		return true
	}
	return false
}

// DedupByStatus collapses service rows that share a status, tolerating
// duplicate rows left behind by concurrent writes. Counting paths use
// the deduplicated slice, not the raw rows.
func DedupByStatus(services []AssetService) []AssetService {
	seen := make(map[string]bool, len(services))
	out := make([]AssetService, 0, len(services))
	for _, s := range services {
		if seen[s.Status] {
			continue
		}
		seen[s.Status] = true
		out = append(out, s)
	}
	return out
}

// CountServiceCategories tallies the details-panel counters over the
// deduplicated rows: Completed rows count as historic, everything else
// as upcoming.
func CountServiceCategories(services []AssetService) (upcoming, historic int) {
	for _, s := range DedupByStatus(services) {
		if s.Status == StatusCompleted {
			historic++
		} else {
			upcoming++
		}
	}
	return upcoming, historic
}
