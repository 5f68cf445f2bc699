package model

import "time"

// Service type values for ServiceTemplate.ServiceType.
const (
	ServiceTypeOneTime   = "One time service"
	ServiceTypeRecurrent = "Recurrent"
)

// Recurrence bases for ServiceTemplate.BasedOn. The "(Heavy equipment
// only)" suffixes are part of the stored value; the UI taxonomy and the
// database agree on the full strings.
const (
	BasisPeriod      = "Period"
	BasisDistance    = "Distance (Heavy equipment only)"
	BasisEngineHours = "Engine hours (Heavy equipment only)"
)

// Period units for ServiceTemplate.UnitOfMeasurement. Only meaningful
// when BasedOn is BasisPeriod.
const (
	UnitDays   = "Days"
	UnitWeeks  = "Weeks"
	UnitMonths = "Months"
	UnitYears  = "Years"
)

// Notification units. Automatic mode only ever produces Days,
// Kilometers or Hours; manual mode may also pick Weeks/Months/Years.
const (
	NotifyUnitDays       = "Days"
	NotifyUnitKilometers = "Kilometers"
	NotifyUnitHours      = "Hours"
)

// Notification modes for ServiceTemplate.NotificationMode.
const (
	NotificationAutomatic = "automatic"
	NotificationManual    = "manual"
)

// ServiceTemplate is a reusable service definition: a recurrence rule
// plus a notification lead time, applied to many assets by name. Row in
// the `service_templates` table. Name is unique system-wide.
type ServiceTemplate struct {
	ID                 uint64  // service_templates.id
	Name               string  // service_templates.name (unique)
	Description        string  // service_templates.description
	IsCritical         bool    // service_templates.is_critical
	ServiceType        string  // service_templates.service_type
	BasedOn            string  // service_templates.based_on
	UnitOfMeasurement  *string // service_templates.unit_of_measurement (Period only)
	FrequencyNumber    *int    // service_templates.frequency_number (Recurrent only)
	NotificationMode   string  // service_templates.notification_mode
	NotificationNumber int     // service_templates.notification_number
	NotificationUnit   string  // service_templates.notification_unit

	CreatedAt time.Time // service_templates.created_at
	UpdatedAt time.Time // service_templates.updated_at
}

// ValidServiceType reports whether v is a known service type.
func ValidServiceType(v string) bool {
	return v == ServiceTypeOneTime || v == ServiceTypeRecurrent
}

// ValidBasis reports whether v is a known recurrence basis.
func ValidBasis(v string) bool {
	return v == BasisPeriod || v == BasisDistance || v == BasisEngineHours
}

// ValidPeriodUnit reports whether v is a period frequency unit.
func ValidPeriodUnit(v string) bool {
	return v == UnitDays || v == UnitWeeks || v == UnitMonths || v == UnitYears
}

// ValidManualNotifyUnit reports whether v may be chosen as a manual
// notification unit.
func ValidManualNotifyUnit(v string) bool {
	switch v {
	case UnitDays, UnitWeeks, UnitMonths, UnitYears, NotifyUnitKilometers, NotifyUnitHours:
		return true
	}
	return false
}
