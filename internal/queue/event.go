// Package queue defines message payloads exchanged over the message broker.
package queue

// ServiceAssignedEvent is published when a service is assigned to an asset.
// It contains enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type ServiceAssignedEvent struct {
	ServiceID     uint64  `json:"service_id"`
	AssetID       uint64  `json:"asset_id"`
	AssetName     string  `json:"asset_name"`
	ScanCode      string  `json:"scan_code"`
	ServiceName   string  `json:"service_name"`
	Category      string  `json:"category"`
	Status        string  `json:"status"`
	ScheduledDate string  `json:"scheduled_date"`
	Provider      string  `json:"provider"`
	Cost          float64 `json:"cost"`
	Currency      string  `json:"currency"`
	AssignedBy    uint64  `json:"assigned_by"`
	AssignedAt    string  `json:"assigned_at"`
}
