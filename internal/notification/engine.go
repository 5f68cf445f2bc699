// Package notification derives default notification lead times for
// service templates. Given a recurrence basis, a frequency unit, a raw
// frequency input and the service type, Derive produces the advance
// notice (number + unit) shown and persisted in automatic notification
// mode, together with any validation error on the frequency input.
//
// Derive is a pure function of its four inputs: no I/O, no state, safe
// to call on every keystroke of the template form.
package notification

import (
	"strconv"
	"strings"

	"github.com/QmazProject/Asset-Management-System/internal/model"
)

// Validation messages surfaced next to the frequency field.
const (
	ErrInvalidNumber    = "Special characters are not allowed and Please enter a number greater than 0"
	ErrDistanceExceeded = "Value cannot exceed 250"
	ErrEngineExceeded   = "Value cannot exceed 150"
)

// Caps and defaults per basis.
const (
	defaultPeriodDays  = 10
	periodAnyInputDays = 30
	maxDistanceKM      = 250
	maxEngineHours     = 150
)

// Input is one snapshot of the template form's frequency section.
type Input struct {
	Basis       string // model.BasisPeriod | BasisDistance | BasisEngineHours
	ServiceType string // model.ServiceTypeOneTime | ServiceTypeRecurrent
	PeriodUnit  string // Days/Weeks/Months/Years; consulted only for Period
	Frequency   string // raw user text; "" means no input yet
}

// Result is the derived advance notice. Number and Unit are always set,
// even when Err is non-empty: an invalid input keeps the per-basis
// default value so the form never shows a hole.
type Result struct {
	Number int    // notification_number
	Unit   string // notification_unit (Days, Kilometers or Hours)
	Err    string // validation message, empty when the input is acceptable
}

// Valid reports whether the frequency input passed validation.
func (r Result) Valid() bool { return r.Err == "" }

// parseFrequency applies the shared frequency validation: empty input is
// fine (ok=false, no error); anything containing '.' or '-', anything
// that is not an integer, and values <= 0 are rejected.
func parseFrequency(raw string) (n int, ok bool, errMsg string) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false, ""
	}
	if strings.Contains(s, ".") || strings.Contains(s, "-") {
		return 0, false, ErrInvalidNumber
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false, ErrInvalidNumber
	}
	return n, true, ""
}

// Derive computes the advance-notice defaults for one form snapshot.
// It is total: every combination of inputs yields a definite Result.
func Derive(in Input) Result {
	switch in.Basis {
	case model.BasisDistance:
		return deriveCapped(in, maxDistanceKM, model.NotifyUnitKilometers, ErrDistanceExceeded)
	case model.BasisEngineHours:
		return deriveCapped(in, maxEngineHours, model.NotifyUnitHours, ErrEngineExceeded)
	default:
		return derivePeriod(in)
	}
}

// derivePeriod handles basis = Period. The notification unit is always
// Days here, independent of the frequency unit the user picked.
func derivePeriod(in Input) Result {
	if in.ServiceType == model.ServiceTypeOneTime {
		return Result{Number: defaultPeriodDays, Unit: model.NotifyUnitDays}
	}

	n, ok, errMsg := parseFrequency(in.Frequency)
	if errMsg != "" {
		return Result{Number: defaultPeriodDays, Unit: model.NotifyUnitDays, Err: errMsg}
	}

	switch in.PeriodUnit {
	case model.UnitWeeks:
		if ok {
			if n >= 1 && n <= 4 {
				return Result{Number: n * 7, Unit: model.NotifyUnitDays}
			}
			return Result{Number: periodAnyInputDays, Unit: model.NotifyUnitDays}
		}
		return Result{Number: defaultPeriodDays, Unit: model.NotifyUnitDays}
	case model.UnitMonths, model.UnitYears:
		if ok {
			return Result{Number: periodAnyInputDays, Unit: model.NotifyUnitDays}
		}
		return Result{Number: defaultPeriodDays, Unit: model.NotifyUnitDays}
	default: // Days
		if ok && n >= 1 && n <= 9 {
			return Result{Number: n, Unit: model.NotifyUnitDays}
		}
		return Result{Number: defaultPeriodDays, Unit: model.NotifyUnitDays}
	}
}

// deriveCapped handles the Distance and Engine hours bases, which map
// a valid frequency 1:1 onto the notification number up to a hard cap.
func deriveCapped(in Input, cap int, unit, capErr string) Result {
	if in.ServiceType == model.ServiceTypeOneTime {
		return Result{Number: cap, Unit: unit}
	}

	n, ok, errMsg := parseFrequency(in.Frequency)
	if errMsg != "" {
		return Result{Number: cap, Unit: unit, Err: errMsg}
	}
	if !ok {
		// No input yet: show the cap as the default.
		return Result{Number: cap, Unit: unit}
	}
	if n > cap {
		return Result{Number: cap, Unit: unit, Err: capErr}
	}
	return Result{Number: n, Unit: unit}
}
